// Package prompt holds the interactive terminal prompts used by the CLI.
// Every prompt returns an Outcome so callers can tell an answer from a
// cancelled prompt without inspecting errors.
package prompt

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// ErrNotInteractive is returned when a prompt needs a terminal and there
// is none.
var ErrNotInteractive = errors.New("not an interactive terminal")

// Outcome is the result of a prompt.
type Outcome[T any] struct {
	Value    T
	Answered bool
}

// Cancelled reports whether the user dismissed the prompt.
func (o Outcome[T]) Cancelled() bool {
	return !o.Answered
}

// Or returns the answer, or fallback when the prompt was cancelled.
func (o Outcome[T]) Or(fallback T) T {
	if o.Answered {
		return o.Value
	}
	return fallback
}

func answered[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v, Answered: true}
}

func cancelled[T any]() Outcome[T] {
	return Outcome[T]{}
}

var (
	accentColor = lipgloss.Color("#01FAC6")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	selectedStyle = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	descStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("243")).MarginLeft(4)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// IsTerminal reports whether stdin and stdout are both attached to an
// interactive terminal.
func IsTerminal() bool {
	if os.Getenv("CI") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func run[M tea.Model](m M) (M, error) {
	if !IsTerminal() {
		return m, ErrNotInteractive
	}
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return m, fmt.Errorf("error running prompt: %w", err)
	}
	out, ok := final.(M)
	if !ok {
		return m, fmt.Errorf("unexpected prompt model %T", final)
	}
	return out, nil
}

func isCancelKey(key string) bool {
	switch key {
	case "ctrl+c", "esc":
		return true
	}
	return false
}
