package detection

import (
	"strings"
	"testing"

	"aigenio/pkg/classifier"

	tea "github.com/charmbracelet/bubbletea"
)

var laravel = classifier.Result{
	Framework:  "laravel",
	Confidence: 0.85,
	Languages:  []string{"php", "javascript"},
	Category:   "backend",
	Signals:    []string{"artisan", "composer.json mentions laravel/framework"},
	Candidates: []classifier.Candidate{
		{Name: "laravel", Confidence: 0.85},
		{Name: "symfony", Confidence: 0.2},
	},
	Meta: map[string]string{"runtime_version": "8.2.0"},
}

func TestRender(t *testing.T) {
	out := Render(laravel)
	for _, want := range []string{"laravel", "85%", "php, javascript", "artisan", "symfony (20%)", "8.2.0"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Scan stopped") {
		t.Error("Did not expect a truncation warning")
	}
}

func TestRender_Truncated(t *testing.T) {
	res := classifier.Result{Framework: classifier.Unknown, Truncated: true, FilesSeen: 10000}
	out := Render(res)
	if !strings.Contains(out, "none detected") || !strings.Contains(out, "10000 files") {
		t.Errorf("Unexpected output:\n%s", out)
	}
}

func TestModel_Keys(t *testing.T) {
	tests := []struct {
		msg       tea.KeyMsg
		confirmed bool
	}{
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")}, true},
		{tea.KeyMsg{Type: tea.KeyEnter}, true},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")}, false},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}, false},
	}
	for _, tt := range tests {
		next, cmd := model{result: laravel, question: "Set up?"}.Update(tt.msg)
		m := next.(model)
		if cmd == nil || !m.quitting {
			t.Errorf("%s: expected the prompt to quit", tt.msg)
		}
		if m.confirmed != tt.confirmed {
			t.Errorf("%s: confirmed = %v, want %v", tt.msg, m.confirmed, tt.confirmed)
		}
	}
}
