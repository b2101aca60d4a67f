// Package ui is the terminal front end: an Eisenhower matrix view and
// a flat list view over the same store, plus quick-add and a field
// editor.
package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"ticktask/internal/config"
	"ticktask/internal/dates"
	"ticktask/internal/matrix"
	"ticktask/internal/quickadd"
	"ticktask/internal/reminder"
	"ticktask/internal/rules"
	"ticktask/internal/storage"
	"ticktask/internal/task"
)

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeEdit
	modeSearch
)

type viewKind int

const (
	viewMatrix viewKind = iota
	viewList
)

type tickMsg time.Time

type Model struct {
	store    *storage.Store
	cfg      config.Config
	settings task.Settings

	tasks   []task.Task
	ruleSet []rules.Rule
	lists   []task.List

	grid    map[task.Quadrant][]task.Task
	visible []task.Task
	dueSoon []task.Task

	view       viewKind
	quad       int
	cursor     int
	search     string
	dueFilter  matrix.DueFilter
	listFilter string

	mode       mode
	input      textinput.Model
	status     string
	confirmDel bool
	pendingDel *task.Task
	edit       *editState

	lead  time.Duration
	width int
}

func Run(store *storage.Store, cfg config.Config) error {
	ti := textinput.New()
	ti.Placeholder = "Buy milk tomorrow #errands"
	ti.CharLimit = 256
	ti.Width = 48

	lead := reminder.DefaultLead
	if d, err := time.ParseDuration(cfg.ReminderLead); err == nil && d > 0 {
		lead = d
	}

	m := Model{
		store:  store,
		cfg:    cfg,
		input:  ti,
		lead:   lead,
		status: "a add • space complete • v switch view",
	}
	if cfg.DefaultView == "list" {
		m.view = viewList
	}
	if err := m.reload(time.Now()); err != nil {
		return err
	}

	program := tea.NewProgram(&m, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(30*time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// reload refreshes every collection from the store and recomputes the
// derived matrix partition and list view for the current filters.
func (m *Model) reload(now time.Time) error {
	tasks, err := m.store.Tasks()
	if err != nil {
		return err
	}
	ruleSet, err := m.store.Rules()
	if err != nil {
		return err
	}
	lists, err := m.store.Lists()
	if err != nil {
		return err
	}
	settings, err := m.store.Settings()
	if err != nil {
		return err
	}

	m.tasks = tasks
	m.ruleSet = ruleSet
	m.lists = lists
	m.settings = settings
	m.refresh(now)
	return nil
}

// refresh recomputes derived state without touching the store. Called
// on the minute tick as well, because due-date conditions drift tasks
// across quadrants as time passes.
func (m *Model) refresh(now time.Time) {
	m.grid = matrix.Partition(m.tasks, m.ruleSet, now)
	incomplete := false
	m.visible = matrix.Apply(m.tasks, matrix.Filter{
		Search:       m.search,
		ListID:       m.listFilter,
		Due:          m.dueFilter,
		Completed:    &incomplete,
		WeekStartsOn: time.Weekday(m.cfg.WeekStartsOn),
	}, now)
	m.dueSoon = reminder.DueSoon(m.tasks, now, m.lead)
	m.cursor = clampCursor(m.cursor, len(m.currentBucket()))
}

func (m *Model) currentBucket() []task.Task {
	if m.view == viewList {
		return m.visible
	}
	return m.grid[task.Quadrants()[m.quad]]
}

func (m *Model) selectedTask() *task.Task {
	bucket := m.currentBucket()
	if len(bucket) == 0 {
		return nil
	}
	t := bucket[clampCursor(m.cursor, len(bucket))]
	return &t
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.refresh(time.Time(msg))
		if len(m.dueSoon) > 0 {
			m.status = reminderBanner(m.dueSoon)
		}
		return m, tick()
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		if m.edit != nil {
			return m.updateEditMode(msg.String(), msg)
		}
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		switch m.mode {
		case modeAdd:
			return m.updateAddMode(msg.String(), msg)
		case modeSearch:
			return m.updateSearchMode(msg.String(), msg)
		default:
			return m.updateBrowseMode(msg.String())
		}
	}
	return m, nil
}

func (m *Model) updateBrowseMode(key string) (tea.Model, tea.Cmd) {
	now := time.Now()
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		m.cursor = clampCursor(m.cursor+1, len(m.currentBucket()))
	case m.cfg.Keys.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(m.currentBucket()))
		}
	case m.cfg.Keys.NextQuadrant, "right":
		if m.view == viewMatrix {
			m.quad = (m.quad + 1) % len(task.Quadrants())
			m.cursor = 0
		}
	case m.cfg.Keys.PrevQuadrant, "left":
		if m.view == viewMatrix {
			m.quad = (m.quad + len(task.Quadrants()) - 1) % len(task.Quadrants())
			m.cursor = 0
		}
	case m.cfg.Keys.SwitchView:
		if m.view == viewMatrix {
			m.view = viewList
		} else {
			m.view = viewMatrix
		}
		m.cursor = 0
	case m.cfg.Keys.Add:
		m.mode = modeAdd
		m.input.Placeholder = "Buy milk 2024-07-15 #errands"
		m.input.SetValue("")
		m.input.Focus()
		m.status = "Quick add: title, optional date and #tags, enter to save"
	case m.cfg.Keys.CycleDue:
		m.dueFilter = nextDueFilter(m.dueFilter)
		m.view = viewList
		m.cursor = 0
		m.refresh(now)
		if m.dueFilter == "" {
			m.status = "Due filter off"
		} else {
			m.status = fmt.Sprintf("Due filter: %s (%d task(s))", m.dueFilter, len(m.visible))
		}
	case m.cfg.Keys.CycleList:
		m.listFilter = m.nextListFilter()
		m.view = viewList
		m.cursor = 0
		m.refresh(now)
		if m.listFilter == "" {
			m.status = "List filter off"
		} else {
			m.status = fmt.Sprintf("List: %s (%d task(s))", m.listName(m.listFilter), len(m.visible))
		}
	case m.cfg.Keys.Search:
		m.mode = modeSearch
		m.input.Placeholder = "Search title or #tag"
		m.input.SetValue(m.search)
		m.input.Focus()
		m.status = "Search: enter to apply, esc to clear"
	case m.cfg.Keys.Toggle:
		return m.toggleSelected(now)
	case m.cfg.Keys.Delete:
		if t := m.selectedTask(); t != nil {
			m.confirmDel = true
			m.pendingDel = t
			m.status = fmt.Sprintf("Delete %q? y/n", t.Title)
		}
	case m.cfg.Keys.Edit:
		if t := m.selectedTask(); t != nil {
			return m.startEdit(*t)
		}
		m.status = "No task selected"
	case m.cfg.Keys.Detail:
		if t := m.selectedTask(); t != nil {
			m.status = m.detailLine(*t, now)
		}
	case m.cfg.Keys.MoveDo:
		return m.moveSelected(task.QuadrantDo, now)
	case m.cfg.Keys.MoveSchedule:
		return m.moveSelected(task.QuadrantSchedule, now)
	case m.cfg.Keys.MoveDelegate:
		return m.moveSelected(task.QuadrantDelegate, now)
	case m.cfg.Keys.MoveEliminate:
		return m.moveSelected(task.QuadrantEliminate, now)
	case m.cfg.Keys.ClearManual:
		return m.moveSelected("", now)
	}
	return m, nil
}

func (m *Model) toggleSelected(now time.Time) (tea.Model, tea.Cmd) {
	t := m.selectedTask()
	if t == nil {
		return m, nil
	}
	spawned, err := m.store.SetCompleted(t.ID, !t.Completed, now)
	if err != nil {
		m.status = fmt.Sprintf("toggle failed: %v", err)
		return m, nil
	}
	if err := m.reload(now); err != nil {
		m.status = fmt.Sprintf("reload failed: %v", err)
		return m, nil
	}
	switch {
	case spawned != nil && spawned.DueDate != nil:
		m.status = fmt.Sprintf("Completed; next occurrence due %s", dates.Relative(*spawned.DueDate, now))
	case t.Completed:
		m.status = "Reopened task"
	default:
		m.status = "Completed task"
	}
	return m, nil
}

// moveSelected pins (or with an empty quadrant unpins) the selected
// task. A pinned task stays put no matter what the rules say.
func (m *Model) moveSelected(q task.Quadrant, now time.Time) (tea.Model, tea.Cmd) {
	t := m.selectedTask()
	if t == nil {
		return m, nil
	}
	t.ManualQuadrant = q
	if err := m.store.UpdateTask(*t); err != nil {
		m.status = fmt.Sprintf("move failed: %v", err)
		return m, nil
	}
	if err := m.reload(now); err != nil {
		m.status = fmt.Sprintf("reload failed: %v", err)
		return m, nil
	}
	if q == "" {
		m.status = fmt.Sprintf("%q follows the rules again", t.Title)
	} else {
		m.status = fmt.Sprintf("Pinned %q to %s", t.Title, q)
	}
	return m, nil
}

func (m *Model) updateAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.mode = modeBrowse
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case m.cfg.Keys.Confirm:
		now := time.Now()
		input := strings.TrimSpace(m.input.Value())
		if input == "" {
			m.status = "Nothing to add"
			return m, nil
		}
		t := quickadd.NewTask(input, m.settings, now, quickadd.LayoutParser)
		if t.Title == "" {
			m.status = "Title cannot be empty"
			return m, nil
		}
		created, err := m.store.CreateTask(t)
		if err != nil {
			m.status = fmt.Sprintf("save failed: %v", err)
			return m, nil
		}
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeBrowse
		if err := m.reload(now); err != nil {
			m.status = fmt.Sprintf("reload failed: %v", err)
			return m, nil
		}
		m.status = fmt.Sprintf("Added %q to %s", created.Title, rules.Classify(created, m.ruleSet, now))
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m *Model) updateSearchMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.search = ""
		m.mode = modeBrowse
		m.input.SetValue("")
		m.input.Blur()
		m.refresh(time.Now())
		m.status = "Search cleared"
		return m, nil
	case m.cfg.Keys.Confirm:
		m.search = strings.TrimSpace(m.input.Value())
		m.mode = modeBrowse
		m.view = viewList
		m.cursor = 0
		m.input.Blur()
		m.refresh(time.Now())
		if m.search == "" {
			m.status = "Search cleared"
		} else {
			m.status = fmt.Sprintf("%d match(es) for %q", len(m.visible), m.search)
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m *Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", m.cfg.Keys.Cancel:
		m.status = "Delete cancelled"
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	case "y", "Y":
		if m.pendingDel == nil {
			m.confirmDel = false
			return m, nil
		}
		if err := m.store.DeleteTask(m.pendingDel.ID); err != nil {
			m.status = fmt.Sprintf("delete failed: %v", err)
		} else if err := m.reload(time.Now()); err != nil {
			m.status = fmt.Sprintf("reload failed: %v", err)
		} else {
			m.status = "Deleted task"
		}
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) detailLine(t task.Task, now time.Time) string {
	parts := []string{t.Title, string(rules.Classify(t, m.ruleSet, now))}
	if t.Priority != task.PriorityNone {
		parts = append(parts, "priority:"+string(t.Priority))
	}
	if t.DueDate != nil {
		parts = append(parts, "due "+dates.Relative(*t.DueDate, now))
	}
	if len(t.Tags) > 0 {
		parts = append(parts, "#"+strings.Join(t.Tags, " #"))
	}
	if name := m.listName(t.ListID); name != "" {
		parts = append(parts, "list:"+name)
	}
	if t.RecurrenceRule != "" {
		parts = append(parts, "repeats "+t.RecurrenceRule)
	}
	if t.ManualQuadrant != "" {
		parts = append(parts, "pinned")
	}
	return strings.Join(parts, " • ")
}

// listName resolves a list ID for display, falling back to the raw ID
// for lists that no longer exist.
func (m *Model) listName(id string) string {
	if id == "" {
		return ""
	}
	for _, l := range m.lists {
		if l.ID == id {
			return l.Name
		}
	}
	return id
}

// nextListFilter steps through the stored lists in sort order, then
// back to off. A filter pointing at a since-deleted list also resets
// to off.
func (m *Model) nextListFilter() string {
	if m.listFilter == "" {
		if len(m.lists) == 0 {
			return ""
		}
		return m.lists[0].ID
	}
	for i, l := range m.lists {
		if l.ID == m.listFilter {
			if i+1 < len(m.lists) {
				return m.lists[i+1].ID
			}
			return ""
		}
	}
	return ""
}

// nextDueFilter advances to the next due bucket, wrapping back to off.
func nextDueFilter(f matrix.DueFilter) matrix.DueFilter {
	order := []matrix.DueFilter{"", matrix.DueToday, matrix.DueThisWeek, matrix.DueUpcoming, matrix.DueOverdue, matrix.DueNone}
	for i, cur := range order {
		if cur == f {
			return order[(i+1)%len(order)]
		}
	}
	return ""
}

func reminderBanner(due []task.Task) string {
	titles := make([]string, 0, len(due))
	for _, t := range due {
		titles = append(titles, t.Title)
	}
	sort.Strings(titles)
	return fmt.Sprintf("Due soon: %s", strings.Join(titles, ", "))
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
