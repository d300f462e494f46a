package app

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/primemath/internal/curriculum"
	"github.com/abhisek/primemath/internal/screens/home"
)

func TestAppModel_View(t *testing.T) {
	var m tea.Model = newAppModel(home.Deps{Grade: curriculum.GradePrimary5})
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	content := m.(AppModel).render()
	for _, want := range []string{"PrimeMath", "Home", "Practice", "Enter"} {
		if !strings.Contains(content, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestAppModel_TooSmall(t *testing.T) {
	var m tea.Model = newAppModel(home.Deps{})
	m, _ = m.Update(tea.WindowSizeMsg{Width: 30, Height: 10})

	if !strings.Contains(m.(AppModel).render(), "Terminal too small") {
		t.Error("expected min size message")
	}
}

func TestAppModel_CtrlCQuits(t *testing.T) {
	m := newAppModel(home.Deps{})
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected QuitMsg, got %T", cmd())
	}
}
