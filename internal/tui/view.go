package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"zenith-planner/internal/plan"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	focusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	doneStyle    = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("241"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	confirmStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

var weekdayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Zenith Planner — %s (%s)", m.state.Date, weekdayNames[m.state.SelectedDay%7])))
	if m.generating {
		b.WriteString("  " + m.spin.View() + dimStyle.Render("generating..."))
	}
	b.WriteString("\n\n")

	b.WriteString(m.viewPriorities())
	b.WriteString(m.viewProgress())
	b.WriteString(m.viewSchedule())
	b.WriteString(m.viewTodos())
	b.WriteString(m.viewNotes())

	if m.confirmReset {
		b.WriteString(confirmStyle.Render(fmt.Sprintf("Reset the sheet for %s? Saved data for other days is kept. [y/n]", m.state.Date)))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render("tab sections · j/k move · enter edit · space toggle · h/l day · g generate · r reset · q quit"))
	b.WriteString("\n")
	return b.String()
}

// line renders one focusable row, swapping in the live editor when the row
// is being edited.
func (m *Model) line(sec section, row int, text string) string {
	focused := m.focus == sec && m.row == row
	if focused && m.editing {
		return "> " + m.input.View()
	}
	if focused {
		return focusStyle.Render("> " + text)
	}
	return "  " + text
}

func (m *Model) viewPriorities() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Top Priorities") + "\n")
	for i, p := range m.state.Priorities {
		if i >= plan.PriorityCount {
			break
		}
		text := p
		if text == "" {
			text = dimStyle.Render("(empty)")
		}
		b.WriteString(m.line(sectionPriorities, i, fmt.Sprintf("%d. %s", i+1, text)) + "\n")
	}
	b.WriteString("\n")
	return b.String()
}

func (m *Model) viewProgress() string {
	const width = 30
	filled := m.state.Progress * width / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Progress") + "\n")
	b.WriteString(m.line(sectionProgress, 0, fmt.Sprintf("%s %3d%%", bar, m.state.Progress)) + "\n\n")
	return b.String()
}

func (m *Model) viewSchedule() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Schedule") + "\n")
	for h := plan.ScheduleStartHour; h <= plan.ScheduleEndHour; h++ {
		activity := m.state.Schedule[h]
		if activity == "" {
			activity = dimStyle.Render("·")
		}
		if color := m.state.ScheduleColors[h]; color != "" {
			activity = lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(m.state.Schedule[h])
		}
		b.WriteString(m.line(sectionSchedule, h-plan.ScheduleStartHour, fmt.Sprintf("%02d:00  %s", h, activity)) + "\n")
	}
	b.WriteString("\n")
	return b.String()
}

func (m *Model) viewTodos() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("To Do") + "\n")
	for i, todo := range m.state.Todos {
		mark := "[ ]"
		text := todo.Text
		if text == "" {
			text = dimStyle.Render("(empty)")
		}
		if todo.Completed {
			mark = "[x]"
			text = doneStyle.Render(todo.Text)
		}
		b.WriteString(m.line(sectionTodos, i, fmt.Sprintf("%s %s", mark, text)) + "\n")
	}
	b.WriteString("\n")
	return b.String()
}

func (m *Model) viewNotes() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Notes") + "\n")
	notes := m.state.Notes
	if notes == "" {
		notes = dimStyle.Render("(empty)")
	}
	b.WriteString(m.line(sectionNotes, 0, notes) + "\n\n")
	return b.String()
}
