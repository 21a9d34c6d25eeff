package spinner

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestRun_Hidden(t *testing.T) {
	got, err := Run("Working...", false, func() (int, error) { return 42, nil })
	if err != nil || got != 42 {
		t.Errorf("Run() = %d, %v", got, err)
	}

	wantErr := errors.New("boom")
	if _, err := Run("Working...", false, func() (string, error) { return "", wantErr }); !errors.Is(err, wantErr) {
		t.Errorf("Expected the task error, got %v", err)
	}
}

func TestModel_QuitsWhenDone(t *testing.T) {
	m := InitialModel("Classifying...")
	if m.View() == "" {
		t.Error("Expected a view while running")
	}

	next, cmd := m.Update(doneMsg{})
	if cmd == nil {
		t.Fatal("Expected a quit command")
	}
	if next.(model).View() != "" {
		t.Error("Expected an empty view after completion")
	}
}

func TestModel_IgnoresKeys(t *testing.T) {
	m := InitialModel("Classifying...")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd != nil || next.(model).quitting {
		t.Error("Expected q to be ignored")
	}
}
