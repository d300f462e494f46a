package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/primemath/internal/grading"
	"github.com/abhisek/primemath/internal/ui/theme"
)

// answerChars are the printable keys accepted in answer mode.
const answerChars = "0123456789.-/"

// TextInput wraps bubbles/textinput with PrimeMath styling.
type TextInput struct {
	Model      textinput.Model
	AnswerOnly bool
	submitted  bool
	valid      bool
}

// NewTextInput creates a new styled text input. With answerOnly set, only
// characters that can appear in a decimal or fraction are accepted.
func NewTextInput(placeholder string, answerOnly bool, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()

	if charLimit > 0 {
		ti.CharLimit = charLimit
	}

	return TextInput{
		Model:      ti,
		AnswerOnly: answerOnly,
	}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.AnswerOnly {
		if kmsg, ok := msg.(tea.KeyMsg); ok {
			key := kmsg.String()
			if len(key) == 1 && !strings.Contains(answerChars, key) {
				return t, nil
			}
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text input.
func (t TextInput) View() string {
	view := t.Model.View()
	if t.submitted {
		if t.valid {
			view += " " + lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		} else {
			view += " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
		}
	}
	return view
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// AnswerValue parses the input as a decimal or fraction.
func (t TextInput) AnswerValue() (float64, error) {
	return grading.ParseAnswer(t.Model.Value())
}

// Submit marks the input as submitted with a validation result.
func (t *TextInput) Submit(valid bool) {
	t.submitted = true
	t.valid = valid
}
