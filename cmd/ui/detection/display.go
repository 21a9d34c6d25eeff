package detection

import (
	"fmt"
	"sort"
	"strings"

	"aigenio/pkg/classifier"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle        = lipgloss.NewStyle().Background(lipgloss.Color("#01FAC6")).Foreground(lipgloss.Color("#030303")).Bold(true).Padding(0, 1, 0)
	focusedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#01FAC6")).Bold(true)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(1).Foreground(lipgloss.Color("170")).Bold(true)
	descriptionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#40BDA3"))
	helpStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	warnStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#01FAC6")).
			Padding(1, 2).
			Width(64)
)

const maxCandidates = 3

// Render returns the boxed summary of a classification.
func Render(res classifier.Result) string {
	var content strings.Builder

	content.WriteString(focusedStyle.Render("Framework: "))
	content.WriteString(selectedItemStyle.Render(res.Framework))
	content.WriteString("\n")

	content.WriteString(focusedStyle.Render("Confidence:"))
	content.WriteString(selectedItemStyle.Render(fmt.Sprintf("%.0f%%", res.Confidence*100)))
	content.WriteString("\n")

	languages := "none detected"
	if len(res.Languages) > 0 {
		languages = strings.Join(res.Languages, ", ")
	}
	content.WriteString(focusedStyle.Render("Languages: "))
	content.WriteString(selectedItemStyle.Render(languages))
	content.WriteString("\n")

	if res.Category != "" {
		content.WriteString(focusedStyle.Render("Category:  "))
		content.WriteString(selectedItemStyle.Render(res.Category))
		content.WriteString("\n")
	}
	content.WriteString("\n")

	if len(res.Signals) > 0 {
		content.WriteString(focusedStyle.Render("Detection signals:"))
		content.WriteString("\n")
		for _, signal := range res.Signals {
			content.WriteString(successStyle.Render("  ✓ "))
			content.WriteString(descriptionStyle.Render(signal))
			content.WriteString("\n")
		}
		content.WriteString("\n")
	}

	if len(res.Candidates) > 1 {
		content.WriteString(focusedStyle.Render("Other candidates:"))
		content.WriteString("\n")
		for i, c := range res.Candidates[1:] {
			if i == maxCandidates {
				break
			}
			content.WriteString(fmt.Sprintf("  %s ", successStyle.Render(fmt.Sprintf("%d.", i+1))))
			content.WriteString(descriptionStyle.Render(fmt.Sprintf("%s (%.0f%%)", c.Name, c.Confidence*100)))
			content.WriteString("\n")
		}
		content.WriteString("\n")
	}

	if len(res.Meta) > 0 {
		keys := make([]string, 0, len(res.Meta))
		for k := range res.Meta {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			content.WriteString(focusedStyle.Render(k + ": "))
			content.WriteString(descriptionStyle.Render(res.Meta[k]))
			content.WriteString("\n")
		}
	}

	if res.Truncated {
		content.WriteString(warnStyle.Render(fmt.Sprintf("Scan stopped after %d files; the result may be incomplete.", res.FilesSeen)))
		content.WriteString("\n")
	}

	return titleStyle.Render("Project Classification") + "\n\n" +
		boxStyle.Render(strings.TrimRight(content.String(), "\n"))
}

type model struct {
	result    classifier.Result
	question  string
	confirmed bool
	quitting  bool
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		case "y", "Y", "enter":
			m.confirmed = true
			m.quitting = true
			return m, tea.Quit
		case "n", "N", "esc":
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return Render(m.result) + "\n"
	}

	var s strings.Builder
	s.WriteString(Render(m.result))
	s.WriteString("\n\n")

	s.WriteString(focusedStyle.Render(m.question))
	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Press "))
	s.WriteString(focusedStyle.Render("y"))
	s.WriteString(helpStyle.Render(" to continue, "))
	s.WriteString(focusedStyle.Render("n"))
	s.WriteString(helpStyle.Render(" to skip, or "))
	s.WriteString(focusedStyle.Render("q"))
	s.WriteString(helpStyle.Render(" to quit"))

	return s.String()
}

// ShowDetectionResults displays a classification and asks question.
// It reports whether the user confirmed.
func ShowDetectionResults(res classifier.Result, question string) (bool, error) {
	m := model{
		result:   res,
		question: question,
	}

	finalModel, err := tea.NewProgram(m).Run()
	if err != nil {
		return false, fmt.Errorf("error showing detection results: %w", err)
	}

	final, ok := finalModel.(model)
	if !ok {
		return false, nil
	}
	return final.confirmed, nil
}
