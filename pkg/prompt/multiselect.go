package prompt

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type multiSelectModel struct {
	title     string
	choices   []Choice
	cursor    int
	selected  map[int]struct{}
	done      bool
	cancelled bool
}

func newMultiSelectModel(title string, choices []Choice, preselected []string) multiSelectModel {
	m := multiSelectModel{title: title, choices: choices, selected: make(map[int]struct{})}
	for i, c := range choices {
		for _, v := range preselected {
			if c.Value == v {
				m.selected[i] = struct{}{}
			}
		}
	}
	return m
}

func (m multiSelectModel) Init() tea.Cmd {
	return nil
}

func (m multiSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc", "q":
		m.cancelled = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case " ", "x":
		if _, ok := m.selected[m.cursor]; ok {
			delete(m.selected, m.cursor)
		} else {
			m.selected[m.cursor] = struct{}{}
		}
	case "enter", "y":
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m multiSelectModel) View() string {
	if m.done || m.cancelled {
		return ""
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render(m.title))
	s.WriteString("\n\n")

	for i, c := range m.choices {
		cursor := " "
		if m.cursor == i {
			cursor = selectedStyle.Render(">")
		}
		checked := " "
		if _, ok := m.selected[i]; ok {
			checked = selectedStyle.Render("X")
		}
		fmt.Fprintf(&s, "%s [%s] %s\n", cursor, checked, c.Label)
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("space to toggle, Enter to confirm, esc/q to cancel"))
	s.WriteString("\n")
	return s.String()
}

func (m multiSelectModel) outcome() Outcome[[]string] {
	if !m.done {
		return cancelled[[]string]()
	}
	values := []string{}
	for i, c := range m.choices {
		if _, ok := m.selected[i]; ok {
			values = append(values, c.Value)
		}
	}
	return answered(values)
}

// MultiSelect lets the user toggle any number of choices. Values listed in
// preselected start checked.
func MultiSelect(title string, choices []Choice, preselected []string) (Outcome[[]string], error) {
	if len(choices) == 0 {
		return cancelled[[]string](), errors.New("select prompt has no choices")
	}
	final, err := run(newMultiSelectModel(title, choices, preselected))
	if err != nil {
		return cancelled[[]string](), err
	}
	return final.outcome(), nil
}
