package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/spendsmart/internal/model"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.state {
	case StateDone:
		body = m.renderSummary()
	case StatePicking:
		body = m.renderPicker()
	default:
		body = m.renderExpense()
	}

	sections := []string{
		m.theme.Title.Render(fmt.Sprintf("Review suggestions (%d/%d)", min(m.index+1, len(m.queue)), len(m.queue))),
		body,
	}
	if m.status != "" {
		sections = append(sections, m.theme.StatusInfo.Render(m.status))
	}
	if m.state != StateDone {
		sections = append(sections, "", m.help.View(m.keymap))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func (m Model) renderExpense() string {
	e, ok := m.Current()
	if !ok {
		return ""
	}

	rows := []string{
		m.theme.Bold.Render(e.Description),
		m.theme.Subtitle.Render(e.Date.Format(model.DateLayout)) + "  " + m.theme.Normal.Render(m.currency.Format(e.Amount)),
		"",
		"Suggested: " + m.categoryLabel(e.Category),
	}
	if e.FeedbackStatus != model.FeedbackUnset {
		rows = append(rows, m.theme.Subtitle.Render("Previous feedback: "+string(e.FeedbackStatus)))
	}
	return m.box().Render(strings.Join(rows, "\n"))
}

func (m Model) renderPicker() string {
	e, _ := m.Current()

	rows := []string{m.theme.Bold.Render("Choose a category for " + e.Description), ""}
	for i, c := range m.categories {
		cursor := "  "
		label := m.categoryLabel(c)
		if i == m.cursor {
			cursor = m.theme.Selected.Render("▸ ")
		}
		if c == e.Category {
			label += m.theme.Subtitle.Render(" (current)")
		}
		rows = append(rows, cursor+label)
	}
	return m.box().Render(strings.Join(rows, "\n"))
}

func (m Model) renderSummary() string {
	if len(m.queue) == 0 {
		return m.theme.StatusSuccess.Render("Nothing to review. Every suggestion has been checked.")
	}
	s := m.stats
	return m.box().Render(strings.Join([]string{
		m.theme.StatusSuccess.Render("Review complete"),
		"",
		fmt.Sprintf("Accepted:      %d", s.Accepted),
		fmt.Sprintf("Rejected:      %d", s.Rejected),
		fmt.Sprintf("Recategorized: %d", s.Recategorized),
		fmt.Sprintf("Skipped:       %d", s.Skipped),
		"",
		m.theme.Subtitle.Render("Press q to exit"),
	}, "\n"))
}

func (m Model) categoryLabel(c model.Category) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(m.palette.Color(c)))
	return style.Render("● " + string(c))
}

func (m Model) box() lipgloss.Style {
	box := m.theme.RoundedBox
	if m.width > 4 {
		box = box.Width(min(m.width-4, 72))
	}
	return box
}
