package prompt

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press[M tea.Model](t *testing.T, m M, keys ...string) M {
	t.Helper()
	var model tea.Model = m
	for _, k := range keys {
		model, _ = model.Update(key(k))
	}
	out, ok := model.(M)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}
	return out
}

var testChoices = []Choice{
	{Label: "Analyze", Value: "analyze"},
	{Label: "Setup", Value: "setup", Description: "Write the context files"},
	{Label: "Exit", Value: "exit"},
}

func TestSelect_Navigate(t *testing.T) {
	m := press(t, newSelectModel("Menu", testChoices), "down", "down", "down", "up", "enter")

	out := m.outcome()
	if !out.Answered || out.Value != "setup" {
		t.Errorf("Expected setup to be selected, got %+v", out)
	}
}

func TestSelect_VimKeysAndBounds(t *testing.T) {
	m := press(t, newSelectModel("Menu", testChoices), "k", "j")
	if m.cursor != 1 {
		t.Errorf("Expected cursor 1, got %d", m.cursor)
	}
	if m.View() == "" {
		t.Error("Expected a view while the prompt is open")
	}
}

func TestSelect_NumberShortcut(t *testing.T) {
	m := press(t, newSelectModel("Menu", testChoices), "3")
	if got := m.outcome(); got.Value != "exit" {
		t.Errorf("Expected exit, got %+v", got)
	}

	m = press(t, newSelectModel("Menu", testChoices), "9")
	if m.selected != -1 {
		t.Error("Expected an out of range number to be ignored")
	}
}

func TestSelect_Cancel(t *testing.T) {
	for _, k := range []string{"q", "esc", "ctrl+c"} {
		m := press(t, newSelectModel("Menu", testChoices), k)
		if !m.outcome().Cancelled() {
			t.Errorf("Expected %s to cancel", k)
		}
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		key      string
		def      bool
		answered bool
		want     bool
	}{
		{"y", false, true, true},
		{"N", true, true, false},
		{"enter", true, true, true},
		{"enter", false, true, false},
		{"esc", true, false, false},
	}
	for _, tt := range tests {
		m := press(t, confirmModel{question: "Continue?", def: tt.def}, tt.key)
		out := m.outcome()
		if out.Answered != tt.answered || out.Value != tt.want {
			t.Errorf("key %q default %v: got %+v", tt.key, tt.def, out)
		}
	}
}

func TestConfirm_IgnoresOtherKeys(t *testing.T) {
	m := press(t, confirmModel{question: "Continue?"}, "x")
	if m.done || m.cancelled {
		t.Error("Expected the prompt to stay open")
	}
}

func TestText_DefaultAndTyping(t *testing.T) {
	m := press(t, newTextModel("Name", TextOptions{Default: "demo"}), "enter")
	if got := m.outcome(); !got.Answered || got.Value != "demo" {
		t.Errorf("Expected the default value, got %+v", got)
	}

	m = press(t, newTextModel("Name", TextOptions{Default: "demo"}), "s", "h", "o", "p", "enter")
	if got := m.outcome(); got.Value != "shop" {
		t.Errorf("Expected shop, got %+v", got)
	}
}

func TestText_Required(t *testing.T) {
	m := press(t, newTextModel("Feature", TextOptions{Required: true}), "enter")
	if m.done {
		t.Fatal("Expected an empty required answer to be rejected")
	}
	if m.err == nil {
		t.Error("Expected a validation error")
	}

	m = press(t, m, "x", "enter")
	if got := m.outcome(); got.Value != "x" {
		t.Errorf("Expected x, got %+v", got)
	}
}

func TestText_Validate(t *testing.T) {
	errShort := errors.New("too short")
	opts := TextOptions{Validate: func(s string) error {
		if len(s) < 3 {
			return errShort
		}
		return nil
	}}
	m := press(t, newTextModel("Name", opts), "a", "b", "enter")
	if !errors.Is(m.err, errShort) {
		t.Errorf("Expected the validation error, got %v", m.err)
	}
	m = press(t, m, "esc")
	if !m.outcome().Cancelled() {
		t.Error("Expected esc to cancel")
	}
}

func TestOutcome_Or(t *testing.T) {
	if got := cancelled[string]().Or("fallback"); got != "fallback" {
		t.Errorf("Expected fallback, got %s", got)
	}
	if got := answered("x").Or("fallback"); got != "x" {
		t.Errorf("Expected x, got %s", got)
	}
}

func TestMultiSelect(t *testing.T) {
	m := press(t, newMultiSelectModel("Languages", testChoices, []string{"exit"}), " ", "down", "down", " ", "enter")

	out := m.outcome()
	if !out.Answered || len(out.Value) != 1 || out.Value[0] != "analyze" {
		t.Errorf("Expected only analyze to remain selected, got %+v", out)
	}
}

func TestMultiSelect_EmptyAnswerIsNotNil(t *testing.T) {
	m := press(t, newMultiSelectModel("Languages", testChoices, nil), "enter")
	if out := m.outcome(); !out.Answered || out.Value == nil {
		t.Errorf("Expected an empty non-nil answer, got %+v", out)
	}
	m = press(t, newMultiSelectModel("Languages", testChoices, nil), "q")
	if !m.outcome().Cancelled() {
		t.Error("Expected q to cancel")
	}
}
