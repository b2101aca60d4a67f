package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"ticktask/internal/dates"
	"ticktask/internal/rules"
	"ticktask/internal/task"
)

var (
	quadColors = map[task.Quadrant]lipgloss.Color{
		task.QuadrantDo:        lipgloss.Color("9"),
		task.QuadrantSchedule:  lipgloss.Color("12"),
		task.QuadrantDelegate:  lipgloss.Color("11"),
		task.QuadrantEliminate: lipgloss.Color("8"),
	}

	quadSubtitles = map[task.Quadrant]string{
		task.QuadrantDo:        "urgent & important",
		task.QuadrantSchedule:  "important, not urgent",
		task.QuadrantDelegate:  "urgent, not important",
		task.QuadrantEliminate: "neither",
	}

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	titleStyle    = lipgloss.NewStyle().Bold(true)
	subtitleStyle = lipgloss.NewStyle().Faint(true)
	dueStyle      = lipgloss.NewStyle().Faint(true)
	overdueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	selectedStyle = lipgloss.NewStyle().Bold(true)
	statusStyle   = lipgloss.NewStyle().Faint(true)
	pinMark       = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Render("*")
)

func (m *Model) View() string {
	now := time.Now()
	var b strings.Builder

	b.WriteString(titleStyle.Render("TickTask"))
	if m.search != "" {
		b.WriteString(subtitleStyle.Render(fmt.Sprintf("  search: %q", m.search)))
	}
	if m.dueFilter != "" {
		b.WriteString(subtitleStyle.Render(fmt.Sprintf("  due: %s", m.dueFilter)))
	}
	if m.listFilter != "" {
		b.WriteString(subtitleStyle.Render(fmt.Sprintf("  list: %s", m.listName(m.listFilter))))
	}
	b.WriteString("\n\n")

	if m.view == viewMatrix {
		b.WriteString(m.renderMatrix(now))
	} else {
		b.WriteString(m.renderList(now))
	}

	b.WriteString("\n")
	if m.mode == modeAdd || m.mode == modeSearch || m.edit != nil {
		if m.edit != nil {
			b.WriteString(m.renderEditBox())
			b.WriteString("\n")
		}
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.helpLine()))
	return b.String()
}

func (m *Model) renderMatrix(now time.Time) string {
	quads := task.Quadrants()
	panes := make([]string, len(quads))
	width := m.paneWidth()
	for i, q := range quads {
		panes[i] = m.renderPane(q, i == m.quad, width, now)
	}
	top := lipgloss.JoinHorizontal(lipgloss.Top, panes[0], panes[1])
	bottom := lipgloss.JoinHorizontal(lipgloss.Top, panes[2], panes[3])
	return lipgloss.JoinVertical(lipgloss.Left, top, bottom)
}

func (m *Model) paneWidth() int {
	w := (m.width - 6) / 2
	if w < 28 {
		w = 28
	}
	return w
}

func (m *Model) renderPane(q task.Quadrant, active bool, width int, now time.Time) string {
	color := quadColors[q]
	style := paneStyle.Width(width).BorderForeground(color)
	if active {
		style = style.Border(lipgloss.ThickBorder()).BorderForeground(color)
	}

	var b strings.Builder
	header := titleStyle.Foreground(color).Render(strings.ToUpper(string(q)))
	b.WriteString(header)
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(quadSubtitles[q]))
	b.WriteString("\n")

	bucket := m.grid[q]
	if len(bucket) == 0 {
		b.WriteString(subtitleStyle.Render("(empty)"))
	}
	for i, t := range bucket {
		b.WriteString(m.renderRow(t, active && i == m.cursor, now))
		if i < len(bucket)-1 {
			b.WriteString("\n")
		}
	}
	return style.Render(b.String())
}

func (m *Model) renderList(now time.Time) string {
	if len(m.visible) == 0 {
		return subtitleStyle.Render("No tasks. Press 'a' to add one.")
	}
	var b strings.Builder
	for i, t := range m.visible {
		q := rules.Classify(t, m.ruleSet, now)
		badge := titleStyle.Foreground(quadColors[q]).Render(fmt.Sprintf("%-9s", q))
		b.WriteString(badge)
		b.WriteString(" ")
		b.WriteString(m.renderRow(t, i == m.cursor, now))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderRow(t task.Task, selected bool, now time.Time) string {
	cursor := " "
	if selected {
		cursor = ">"
	}
	checkbox := "[ ]"
	if t.Completed {
		checkbox = "[x]"
	}

	line := fmt.Sprintf("%s %s %s", cursor, checkbox, t.Title)
	if selected {
		line = selectedStyle.Render(line)
	}
	if t.ManualQuadrant != "" {
		line += " " + pinMark
	}
	if t.DueDate != nil {
		rel := dates.Relative(*t.DueDate, now)
		if t.DueDate.Before(now) && !t.Completed {
			line += " " + overdueStyle.Render(rel)
		} else {
			line += " " + dueStyle.Render(rel)
		}
	}
	if len(t.Tags) > 0 {
		line += " " + dueStyle.Render("#"+strings.Join(t.Tags, " #"))
	}
	return line
}

func (m *Model) renderEditBox() string {
	var b strings.Builder
	fields := editFields()
	for i, name := range fields {
		prefix := " "
		if i == m.edit.index {
			prefix = ">"
		}
		es := *m.edit
		es.index = i
		val := es.currentValue()
		if strings.TrimSpace(val) == "" {
			val = "(empty)"
		}
		b.WriteString(fmt.Sprintf("%s %-52s : %s\n", prefix, name, val))
	}
	return b.String()
}

func (m *Model) helpLine() string {
	k := m.cfg.Keys
	toggle := k.Toggle
	if strings.TrimSpace(toggle) == "" {
		toggle = "space"
	}
	return fmt.Sprintf("%s/%s move • %s/%s quadrant • %s add • %s search • %s due • %s list • %s toggle • %s edit • %s delete • %s-%s pin • %s unpin • %s view • %s quit",
		k.Up, k.Down, k.NextQuadrant, k.PrevQuadrant, k.Add, k.Search, k.CycleDue, k.CycleList, toggle,
		k.Edit, k.Delete, k.MoveDo, k.MoveEliminate, k.ClearManual, k.SwitchView, k.Quit)
}
