package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/primemath/internal/ui/layout"
)

// Screen is one page of the terminal app.
type Screen interface {
	Init() tea.Cmd

	// Update handles messages and returns the updated screen.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area, excluding header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider is implemented by screens with their own footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider is implemented by screens that show a status string in
// the header, such as a running score.
type StatusProvider interface {
	Status() string
}
