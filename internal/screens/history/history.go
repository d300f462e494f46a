package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/primemath/internal/grading"
	"github.com/abhisek/primemath/internal/router"
	"github.com/abhisek/primemath/internal/screen"
	"github.com/abhisek/primemath/internal/store"
	"github.com/abhisek/primemath/internal/ui/layout"
	"github.com/abhisek/primemath/internal/ui/theme"
)

// Limit is the number of recent sessions shown.
const Limit = 50

// Source lists past sessions and their submissions.
type Source interface {
	ListSessions(ctx context.Context, limit int) ([]store.Session, error)
	ListSubmissions(ctx context.Context, sessionID string) ([]store.Submission, error)
}

type historyLoadedMsg struct {
	Sessions    []store.Session
	Submissions map[string][]store.Submission // session ID → submissions
	Err         error
}

// HistoryScreen lists past problems and the answers given.
type HistoryScreen struct {
	source      Source
	sessions    []store.Session
	submissions map[string][]store.Submission
	selected    int
	expanded    map[int]bool
	loaded      bool
	errMsg      string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(source Source) *HistoryScreen {
	return &HistoryScreen{
		source:   source,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		sessions, err := s.source.ListSessions(ctx, Limit)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}

		subs := make(map[string][]store.Submission, len(sessions))
		for _, sess := range sessions {
			list, err := s.source.ListSubmissions(ctx, sess.ID)
			if err != nil {
				return historyLoadedMsg{Err: err}
			}
			subs[sess.ID] = list
		}
		return historyLoadedMsg{Sessions: sessions, Submissions: subs}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Answers"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
			s.submissions = msg.Submissions
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return layout.Centered(width, lipgloss.NewStyle().Foreground(theme.Error),
			fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return layout.Centered(width, lipgloss.NewStyle().Foreground(theme.TextDim),
			"\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return layout.Centered(width, lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true),
			"\n\n  No problems yet. Start practicing!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, sess := range s.sessions {
		subs := s.submissions[sess.ID]
		status := "unanswered"
		if len(subs) > 0 {
			status = fmt.Sprintf("%d tries", len(subs))
			if solved(subs) {
				status += ", solved"
			}
		}

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s  %-40s  %s",
			prefix, sess.CreatedAt.Local().Format("Jan 02 15:04"), truncate(sess.ProblemText, 40), status)

		style := theme.Unselected
		if i == s.selected {
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(s.renderDetail(sess, subs, width))
		}
	}

	return b.String()
}

func (s *HistoryScreen) renderDetail(sess store.Session, subs []store.Submission, width int) string {
	var b strings.Builder
	text := lipgloss.NewStyle().
		Foreground(theme.Text).
		Width(min(width-8, 74)).
		PaddingLeft(4).
		Render(sess.ProblemText)
	b.WriteString(text)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("    Topic: %s   Answer: %s", sess.TopicTitle, grading.FormatAnswer(sess.CorrectAnswer))))
	b.WriteString("\n")

	for _, sub := range subs {
		mark, style := "✗", theme.Incorrect
		if sub.IsCorrect {
			mark, style = "✓", theme.Correct
		}
		b.WriteString(style.Render(fmt.Sprintf("    %s %s", mark, grading.FormatAnswer(sub.UserAnswer))))
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("  " + truncate(sub.FeedbackText, 60)))
		b.WriteString("\n")
	}
	return b.String()
}

func solved(subs []store.Submission) bool {
	for _, s := range subs {
		if s.IsCorrect {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
