package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/primemath/internal/router"
	"github.com/abhisek/primemath/internal/screen"
	"github.com/abhisek/primemath/internal/screens/home"
	"github.com/abhisek/primemath/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

func newAppModel(deps home.Deps) AppModel {
	return AppModel{
		router: router.New(home.New(deps)),
	}
}

func (m AppModel) Init() tea.Cmd {
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	return m, m.router.Update(msg)
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	v.SetContent(m.render())
	return v
}

// render draws the full frame for the current terminal size.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	var title, status string
	var hints []layout.KeyHint
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
		if hp, ok := active.(screen.KeyHintProvider); ok {
			hints = hp.KeyHints()
		}
	}

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(hints, m.width)
	content := m.router.View(m.width, layout.ContentHeight(header, footer, m.height))

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the terminal app and blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, deps home.Deps) error {
	p := tea.NewProgram(newAppModel(deps), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
