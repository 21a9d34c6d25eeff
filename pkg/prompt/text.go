package prompt

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// TextOptions configures a Text prompt.
type TextOptions struct {
	Placeholder string
	Default     string
	Required    bool
	Validate    func(string) error
}

type textModel struct {
	title     string
	opts      TextOptions
	input     textinput.Model
	err       error
	done      bool
	cancelled bool
}

func newTextModel(title string, opts TextOptions) textModel {
	ti := textinput.New()
	ti.Placeholder = opts.Placeholder
	if ti.Placeholder == "" {
		ti.Placeholder = opts.Default
	}
	ti.Prompt = "› "
	ti.CharLimit = 512
	ti.Width = 60
	ti.Focus()
	return textModel{title: title, opts: opts, input: ti}
}

func (m textModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m textModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch {
		case isCancelKey(key.String()):
			m.cancelled = true
			return m, tea.Quit
		case key.Type == tea.KeyEnter:
			value := m.value()
			if err := m.check(value); err != nil {
				m.err = err
				return m, nil
			}
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.err = nil
	return m, cmd
}

func (m textModel) value() string {
	v := strings.TrimSpace(m.input.Value())
	if v == "" {
		return m.opts.Default
	}
	return v
}

func (m textModel) check(value string) error {
	if m.opts.Required && value == "" {
		return errors.New("a value is required")
	}
	if m.opts.Validate != nil {
		return m.opts.Validate(value)
	}
	return nil
}

func (m textModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	var s strings.Builder
	s.WriteString(titleStyle.Render(m.title))
	s.WriteString("\n")
	s.WriteString(m.input.View())
	s.WriteString("\n")
	if m.err != nil {
		s.WriteString(errorStyle.Render(m.err.Error()))
		s.WriteString("\n")
	}
	s.WriteString(helpStyle.Render("Enter to confirm, Esc to cancel"))
	s.WriteString("\n")
	return s.String()
}

func (m textModel) outcome() Outcome[string] {
	if !m.done {
		return cancelled[string]()
	}
	return answered(m.value())
}

// Text asks for a line of text.
func Text(title string, opts TextOptions) (Outcome[string], error) {
	final, err := run(newTextModel(title, opts))
	if err != nil {
		return cancelled[string](), err
	}
	return final.outcome(), nil
}

// Secret reads a value without echoing it. An empty answer counts as
// cancelled.
func Secret(label string) (Outcome[string], error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return cancelled[string](), ErrNotInteractive
	}
	fmt.Fprint(os.Stderr, label)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return cancelled[string](), fmt.Errorf("failed to read input: %w", err)
	}
	v := strings.TrimSpace(string(b))
	if v == "" {
		return cancelled[string](), nil
	}
	return answered(v), nil
}
