package prompt

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type confirmModel struct {
	question  string
	def       bool
	value     bool
	done      bool
	cancelled bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch strings.ToLower(key.String()) {
	case "y":
		m.value, m.done = true, true
	case "n":
		m.value, m.done = false, true
	case "enter":
		m.value, m.done = m.def, true
	case "ctrl+c", "esc", "q":
		m.cancelled = true
	default:
		return m, nil
	}
	return m, tea.Quit
}

func (m confirmModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	hint := "[y/N]"
	if m.def {
		hint = "[Y/n]"
	}
	return titleStyle.Render(m.question) + " " + helpStyle.Render(hint) + " "
}

func (m confirmModel) outcome() Outcome[bool] {
	if !m.done {
		return cancelled[bool]()
	}
	return answered(m.value)
}

// Confirm asks a yes/no question. Enter accepts def.
func Confirm(question string, def bool) (Outcome[bool], error) {
	final, err := run(confirmModel{question: question, def: def})
	if err != nil {
		return cancelled[bool](), err
	}
	return final.outcome(), nil
}
