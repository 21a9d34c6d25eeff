package prompt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Choice is one option of a Select prompt.
type Choice struct {
	Label       string
	Value       string
	Description string
}

type selectModel struct {
	title     string
	choices   []Choice
	cursor    int
	selected  int
	cancelled bool
}

func newSelectModel(title string, choices []Choice) selectModel {
	return selectModel{title: title, choices: choices, selected: -1}
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch s := key.String(); s {
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
	case "enter", " ":
		m.selected = m.cursor
		return m, tea.Quit
	default:
		// 1-9 pick an entry directly.
		if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= len(m.choices) {
			m.cursor = n - 1
			m.selected = m.cursor
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m selectModel) View() string {
	if m.selected >= 0 || m.cancelled {
		return ""
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render(m.title))
	s.WriteString("\n\n")

	for i, c := range m.choices {
		line := fmt.Sprintf("  %d. %s", i+1, c.Label)
		if m.cursor == i {
			line = selectedStyle.Render(fmt.Sprintf("▶ %d. %s", i+1, c.Label))
		}
		s.WriteString(line)
		s.WriteString("\n")
		if m.cursor == i && c.Description != "" {
			s.WriteString(descStyle.Render(c.Description))
			s.WriteString("\n")
		}
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓ to navigate, Enter or 1-9 to select, q to cancel"))
	s.WriteString("\n")
	return s.String()
}

func (m selectModel) outcome() Outcome[string] {
	if m.cancelled || m.selected < 0 {
		return cancelled[string]()
	}
	return answered(m.choices[m.selected].Value)
}

// Select asks the user to pick one of choices and returns its Value.
func Select(title string, choices []Choice) (Outcome[string], error) {
	if len(choices) == 0 {
		return cancelled[string](), errors.New("select prompt has no choices")
	}
	final, err := run(newSelectModel(title, choices))
	if err != nil {
		return cancelled[string](), err
	}
	return final.outcome(), nil
}
