package tui

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Step is one unit of work shown by RunSteps.
type Step struct {
	Name string
	Run  func() error
}

type stepDoneMsg struct {
	index int
	err   error
}

type progressModel struct {
	title     string
	steps     []Step
	current   int
	err       error
	completed bool
	width     int
}

func newProgressModel(title string, steps []Step) progressModel {
	return progressModel{title: title, steps: steps, width: 50}
}

func (m progressModel) Init() tea.Cmd {
	return m.runStep(0)
}

func (m progressModel) runStep(i int) tea.Cmd {
	if i >= len(m.steps) {
		return nil
	}
	step := m.steps[i]
	return func() tea.Msg {
		return stepDoneMsg{index: i, err: step.Run()}
	}
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stepDoneMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("%s: %w", m.steps[msg.index].Name, msg.err)
			return m, tea.Quit
		}
		m.current = msg.index + 1
		if m.current >= len(m.steps) {
			m.completed = true
			return m, tea.Quit
		}
		return m, m.runStep(m.current)
	}
	return m, nil
}

func (m progressModel) percent() float64 {
	if len(m.steps) == 0 {
		return 100
	}
	return float64(m.current) / float64(len(m.steps)) * 100
}

func (m progressModel) View() string {
	var s strings.Builder

	switch {
	case m.err != nil:
		s.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")).Render(m.err.Error()))
		s.WriteString("\n\n")
	case m.completed:
		s.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("82")).Render(m.title + " complete"))
		s.WriteString("\n\n")
	default:
		s.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).Render(m.title))
		s.WriteString("\n\n")
		s.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render(m.steps[m.current].Name + "..."))
		s.WriteString("\n\n")
	}

	pct := m.percent()
	filled := int(pct / 100 * float64(m.width))

	// purple -> blue -> cyan -> green
	colors := []string{"129", "63", "39", "33", "45", "51", "50", "49", "48", "47", "46", "82"}

	var bar strings.Builder
	for i := 0; i < filled; i++ {
		idx := min(int(float64(i)/float64(m.width)*float64(len(colors))), len(colors)-1)
		bar.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(colors[idx])).Render("█"))
	}
	empty := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	for i := filled; i < m.width; i++ {
		bar.WriteString(empty.Render("░"))
	}

	s.WriteString(bar.String())
	fmt.Fprintf(&s, " %.0f%%\n", pct)
	return s.String()
}

// RunSteps runs steps in order behind a progress bar and stops at the
// first failure. Without interactive output each step is logged as a line
// to w instead.
func RunSteps(w io.Writer, title string, interactive bool, steps []Step) error {
	if !interactive {
		for _, step := range steps {
			fmt.Fprintf(w, "• %s\n", step.Name)
			if err := step.Run(); err != nil {
				return fmt.Errorf("%s: %w", step.Name, err)
			}
		}
		return nil
	}

	final, err := tea.NewProgram(newProgressModel(title, steps), tea.WithOutput(w), tea.WithInput(nil)).Run()
	if err != nil {
		return fmt.Errorf("error running progress: %w", err)
	}
	if m, ok := final.(progressModel); ok && m.err != nil {
		return m.err
	}
	return nil
}
