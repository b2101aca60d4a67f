package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"ticktask/internal/recur"
	"ticktask/internal/task"
)

// editState holds the in-progress field values while a task is being
// edited. Everything is a string until save, when each field parses
// and validates.
type editState struct {
	taskID     string
	title      string
	desc       string
	tags       string
	priority   string
	due        string
	list       string
	recurrence string
	reminder   string
	index      int
}

func editFields() []string {
	return []string{
		"title",
		"description",
		"tags (comma separated)",
		"priority (none/low/medium/high)",
		"due (YYYY-MM-DD [HH:MM])",
		"list id",
		"repeat (daily/weekly/biweekly/monthly/weekdays:1,3,5)",
		"reminder (YYYY-MM-DD HH:MM)",
	}
}

func (m *Model) startEdit(t task.Task) (tea.Model, tea.Cmd) {
	m.edit = &editState{
		taskID:     t.ID,
		title:      t.Title,
		desc:       t.Description,
		tags:       strings.Join(t.Tags, ", "),
		priority:   string(t.Priority),
		due:        formatEditTime(t.DueDate),
		list:       t.ListID,
		recurrence: t.RecurrenceRule,
		reminder:   formatEditTime(t.ReminderAt),
	}
	m.mode = modeEdit
	m.input.SetValue(m.edit.currentValue())
	m.input.Placeholder = m.edit.currentLabel()
	m.input.Focus()
	m.status = "Edit: tab to move, enter to save/next, esc to cancel"
	return m, nil
}

func (m *Model) updateEditMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.edit = nil
		m.mode = modeBrowse
		m.input.Blur()
		m.status = "Edit cancelled"
		return m, nil
	case "tab", "down":
		m.edit.setCurrentValue(m.input.Value())
		m.edit.index = wrapIndex(m.edit.index+1, len(editFields()))
		m.input.SetValue(m.edit.currentValue())
		m.input.Placeholder = m.edit.currentLabel()
		return m, nil
	case "shift+tab", "up":
		m.edit.setCurrentValue(m.input.Value())
		m.edit.index = wrapIndex(m.edit.index-1, len(editFields()))
		m.input.SetValue(m.edit.currentValue())
		m.input.Placeholder = m.edit.currentLabel()
		return m, nil
	case m.cfg.Keys.Confirm, "enter":
		m.edit.setCurrentValue(m.input.Value())
		if m.edit.index >= len(editFields())-1 {
			return m.saveEdit()
		}
		m.edit.index++
		m.input.SetValue(m.edit.currentValue())
		m.input.Placeholder = m.edit.currentLabel()
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m *Model) saveEdit() (tea.Model, tea.Cmd) {
	now := time.Now()
	t, err := m.store.TaskByID(m.edit.taskID)
	if err != nil {
		m.status = fmt.Sprintf("load failed: %v", err)
		return m, nil
	}

	title := strings.TrimSpace(m.edit.title)
	if title == "" {
		m.status = "Title cannot be empty"
		m.edit.index = 0
		m.input.SetValue(m.edit.title)
		m.input.Placeholder = m.edit.currentLabel()
		return m, nil
	}

	priority := task.Priority(strings.TrimSpace(m.edit.priority))
	if m.edit.priority == "" {
		priority = task.PriorityNone
	}
	if !priority.Valid() {
		m.status = fmt.Sprintf("unknown priority %q", m.edit.priority)
		return m, nil
	}

	due, err := parseEditTime(m.edit.due)
	if err != nil {
		m.status = fmt.Sprintf("due date invalid: %v", err)
		return m, nil
	}
	remind, err := parseEditTime(m.edit.reminder)
	if err != nil {
		m.status = fmt.Sprintf("reminder invalid: %v", err)
		return m, nil
	}

	rule := strings.TrimSpace(m.edit.recurrence)
	if rule != "" {
		spec, ok := recur.Parse(rule)
		if !ok {
			m.status = fmt.Sprintf("unknown repeat rule %q", rule)
			return m, nil
		}
		if err := spec.Validate(); err != nil {
			m.status = fmt.Sprintf("repeat rule invalid: %v", err)
			return m, nil
		}
		rule = spec.String()
	}

	t.Title = title
	t.Description = strings.TrimSpace(m.edit.desc)
	t.Tags = splitTags(m.edit.tags)
	t.Priority = priority
	t.DueDate = due
	t.ListID = strings.TrimSpace(m.edit.list)
	t.RecurrenceRule = rule
	t.ReminderAt = remind

	if err := m.store.UpdateTask(t); err != nil {
		m.status = fmt.Sprintf("save failed: %v", err)
		return m, nil
	}
	m.edit = nil
	m.mode = modeBrowse
	m.input.Blur()
	if err := m.reload(now); err != nil {
		m.status = fmt.Sprintf("reload failed: %v", err)
		return m, nil
	}
	m.status = fmt.Sprintf("Saved %q", title)
	return m, nil
}

func (es editState) currentLabel() string {
	return editFields()[es.index]
}

func (es editState) currentValue() string {
	switch es.index {
	case 0:
		return es.title
	case 1:
		return es.desc
	case 2:
		return es.tags
	case 3:
		return es.priority
	case 4:
		return es.due
	case 5:
		return es.list
	case 6:
		return es.recurrence
	case 7:
		return es.reminder
	default:
		return ""
	}
}

func (es *editState) setCurrentValue(v string) {
	switch es.index {
	case 0:
		es.title = v
	case 1:
		es.desc = v
	case 2:
		es.tags = v
	case 3:
		es.priority = v
	case 4:
		es.due = v
	case 5:
		es.list = v
	case 6:
		es.recurrence = v
	case 7:
		es.reminder = v
	}
}

func splitTags(v string) []string {
	var tags []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(part), "#"))
		if part != "" {
			tags = append(tags, part)
		}
	}
	return task.NormalizeTags(tags)
}

func parseEditTime(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02 15:04", v); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, err
	}
	// Date-only entries land at end of the working day, same as quick add.
	t = time.Date(t.Year(), t.Month(), t.Day(), 17, 0, 0, 0, t.Location())
	return &t, nil
}

func formatEditTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}
