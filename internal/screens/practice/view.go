package practice

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/primemath/internal/grading"
	"github.com/abhisek/primemath/internal/ui/layout"
	"github.com/abhisek/primemath/internal/ui/theme"
)

func (s *PracticeScreen) View(width, height int) string {
	switch s.phase {
	case phaseLoading:
		return layout.Centered(width, lipgloss.NewStyle().Foreground(theme.TextDim),
			"\n\n\n  Writing a new problem...")
	case phaseError:
		return layout.Centered(width, lipgloss.NewStyle().Foreground(theme.Error),
			"\n\n\n  "+s.errMsg+"\n\n  Press R to retry.")
	}

	var b strings.Builder
	b.WriteString(s.renderProblem(width))
	b.WriteString("\n\n")

	switch s.phase {
	case phaseAnswering:
		b.WriteString(layout.Centered(width, lipgloss.NewStyle(), "Answer: "+s.input.View()))
		if s.inputErr != "" {
			b.WriteString("\n")
			b.WriteString(layout.Centered(width, lipgloss.NewStyle().Foreground(theme.Error), s.inputErr))
		}
	case phaseChecking:
		b.WriteString(layout.Centered(width, lipgloss.NewStyle().Foreground(theme.TextDim), "Checking..."))
	case phaseFeedback:
		b.WriteString(s.renderFeedback(width))
	}

	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(layout.Centered(width, lipgloss.NewStyle().Foreground(theme.Error), s.errMsg))
	}

	if s.hinting {
		b.WriteString("\n\n")
		b.WriteString(layout.Centered(width, lipgloss.NewStyle().Foreground(theme.TextDim), "Thinking of a hint..."))
	} else if s.hint != "" {
		b.WriteString("\n\n")
		hint := theme.Hint.Width(min(width-8, 70)).Render("Hint: " + s.hint)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, hint))
	}

	return b.String()
}

func (s *PracticeScreen) renderProblem(width int) string {
	if s.problem == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("  Topic: " + s.problem.TopicTitle))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	card := theme.Card.
		Width(min(width-8, 74)).
		Foreground(theme.Text).
		Render(s.problem.ProblemText)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, card))
	return b.String()
}

func (s *PracticeScreen) renderFeedback(width int) string {
	if s.result == nil {
		return ""
	}

	var b strings.Builder
	if s.result.IsCorrect {
		b.WriteString(layout.Centered(width, theme.Correct, "Correct! "+grading.FormatAnswer(s.answer)))
	} else {
		b.WriteString(layout.Centered(width, theme.Incorrect, "Not quite. You answered "+grading.FormatAnswer(s.answer)))
		if s.result.CorrectAnswer != nil {
			b.WriteString("\n")
			b.WriteString(layout.Centered(width, lipgloss.NewStyle().Foreground(theme.TextDim),
				"Correct answer: "+grading.FormatAnswer(*s.result.CorrectAnswer)))
		}
	}
	b.WriteString("\n\n")

	feedback := theme.Body.Width(min(width-8, 70)).Render(s.result.Feedback)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, feedback))
	return b.String()
}
