package home

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/primemath/internal/curriculum"
	"github.com/abhisek/primemath/internal/router"
	"github.com/abhisek/primemath/internal/screen"
	"github.com/abhisek/primemath/internal/screens/history"
	"github.com/abhisek/primemath/internal/screens/practice"
	"github.com/abhisek/primemath/internal/ui/components"
	"github.com/abhisek/primemath/internal/ui/layout"
	"github.com/abhisek/primemath/internal/ui/theme"
)

// Deps are the services the home menu hands to the screens it opens.
type Deps struct {
	Tutor   practice.Tutor
	History history.Source
	Grade   curriculum.Grade
	Topics  []curriculum.Topic
	Timeout time.Duration
}

// HomeScreen is the main menu.
type HomeScreen struct {
	deps Deps
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}
	h.menu = components.NewMenu([]components.MenuItem{
		{Label: "Practice", Action: h.push(func() screen.Screen {
			return practice.New(deps.Tutor, deps.Grade, deps.Timeout)
		})},
		{Label: "History", Action: h.push(func() screen.Screen {
			return history.New(deps.History)
		}), Disabled: deps.History == nil},
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	})
	return h
}

func (h *HomeScreen) push(build func() screen.Screen) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg { return router.PushScreenMsg{Screen: build()} }
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(theme.Title.Width(width).Render("PrimeMath"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(width).Render("Word problems for " + gradeTitle(h.deps.Grade)))
	b.WriteString("\n\n")

	if len(h.deps.Topics) > 0 {
		titles := make([]string, 0, len(h.deps.Topics))
		for _, t := range h.deps.Topics {
			titles = append(titles, "• "+t.Title)
		}
		topics := lipgloss.NewStyle().Foreground(theme.TextDim).Render(strings.Join(titles, "\n"))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, topics))
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, h.menu.View()))
	return b.String()
}

func gradeTitle(g curriculum.Grade) string {
	s := strings.ReplaceAll(string(g), "_", " ")
	if s == "" {
		return "primary school"
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
