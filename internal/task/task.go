package task

import (
	"strings"
	"time"
)

// Priority is the user-assigned importance of a task.
type Priority string

const (
	PriorityNone   Priority = "none"
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the four known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Quadrant is one of the four Eisenhower matrix categories.
type Quadrant string

const (
	QuadrantDo        Quadrant = "do"
	QuadrantSchedule  Quadrant = "schedule"
	QuadrantDelegate  Quadrant = "delegate"
	QuadrantEliminate Quadrant = "eliminate"
)

// Quadrants returns the four quadrants in evaluation order. The order is
// policy: a task matching rules for more than one quadrant lands in the
// earliest.
func Quadrants() []Quadrant {
	return []Quadrant{QuadrantDo, QuadrantSchedule, QuadrantDelegate, QuadrantEliminate}
}

// Valid reports whether q is one of the four known quadrants.
func (q Quadrant) Valid() bool {
	switch q {
	case QuadrantDo, QuadrantSchedule, QuadrantDelegate, QuadrantEliminate:
		return true
	}
	return false
}

// Task is the unit of work tracked by the app. The store owns the
// authoritative copy; everything here is a plain snapshot.
type Task struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	ListID         string     `json:"listId,omitempty"`
	Tags           []string   `json:"tags"`
	Priority       Priority   `json:"priority"`
	DueDate        *time.Time `json:"dueDate,omitempty"`
	Completed      bool       `json:"completed"`
	RecurrenceRule string     `json:"recurrenceRule,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	ManualQuadrant Quadrant   `json:"manualQuadrant,omitempty"`
	ReminderAt     *time.Time `json:"reminderAt,omitempty"`
}

// HasTag reports whether the task carries the named tag (exact match).
func (t Task) HasTag(name string) bool {
	for _, tag := range t.Tags {
		if tag == name {
			return true
		}
	}
	return false
}

// NormalizeTags collapses duplicates and blanks while keeping first-seen
// order. Tags are stored as a sequence but behave as a set.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// List groups tasks; tasks hold a weak reference by ID.
type List struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Icon      string `json:"icon"`
	SortOrder int    `json:"sortOrder"`
}

// Tag is a named label. Rule conditions match tags by name, not ID, so
// renaming a tag does not rewrite rules that reference the old name.
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Settings are the stored defaults applied when creating tasks.
type Settings struct {
	DefaultPriority    Priority `json:"defaultPriority"`
	DefaultDueDateRule string   `json:"defaultDueDateRule"`
	DefaultReminder    string   `json:"defaultReminder"`
	AutoApplyTags      []string `json:"autoApplyTags"`
	Theme              string   `json:"theme"`
}

// DefaultSettings mirrors the values seeded on first launch.
func DefaultSettings() Settings {
	return Settings{
		DefaultPriority:    PriorityNone,
		DefaultDueDateRule: "none",
		DefaultReminder:    "none",
		AutoApplyTags:      []string{},
		Theme:              "dark",
	}
}
