// Package matrix turns a task snapshot into the four-quadrant view and
// backs the list view's multi-criteria filter.
package matrix

import (
	"strings"
	"time"

	"ticktask/internal/dates"
	"ticktask/internal/rules"
	"ticktask/internal/task"
)

// DueFilter buckets tasks by deadline relative to now.
type DueFilter string

const (
	DueToday    DueFilter = "today"
	DueThisWeek DueFilter = "thisWeek"
	DueUpcoming DueFilter = "upcoming"
	DueOverdue  DueFilter = "overdue"
	DueNone     DueFilter = "noDue"
)

// Filter selects tasks for the list view. Zero-value dimensions are
// ignored; active ones are ANDed together.
type Filter struct {
	Search     string          `json:"search,omitempty"`
	Tags       []string        `json:"tags,omitempty"`
	ListID     string          `json:"listId,omitempty"`
	Priorities []task.Priority `json:"priority,omitempty"`
	Due        DueFilter       `json:"dueDate,omitempty"`
	Completed  *bool           `json:"completed,omitempty"`
	// WeekStartsOn aligns the thisWeek bucket. The zero value is Sunday,
	// matching the 0=Sunday..6=Saturday numbering used everywhere else.
	WeekStartsOn time.Weekday `json:"weekStartsOn,omitempty"`
}

// Partition classifies every incomplete task into its quadrant.
// Completed tasks never appear in the matrix. Bucket order mirrors input
// order (stable), and all four keys are always present.
func Partition(tasks []task.Task, ruleSet []rules.Rule, now time.Time) map[task.Quadrant][]task.Task {
	result := map[task.Quadrant][]task.Task{
		task.QuadrantDo:        {},
		task.QuadrantSchedule:  {},
		task.QuadrantDelegate:  {},
		task.QuadrantEliminate: {},
	}
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		q := rules.Classify(t, ruleSet, now)
		result[q] = append(result[q], t)
	}
	return result
}

// Apply returns the tasks passing every active filter dimension, in
// input order.
func Apply(tasks []task.Task, f Filter, now time.Time) []task.Task {
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if matches(t, f, now) {
			out = append(out, t)
		}
	}
	return out
}

func matches(t task.Task, f Filter, now time.Time) bool {
	if f.Search != "" && !matchesSearch(t, f.Search) {
		return false
	}
	if len(f.Tags) > 0 && !hasAnyTag(t, f.Tags) {
		return false
	}
	if f.ListID != "" && t.ListID != f.ListID {
		return false
	}
	if len(f.Priorities) > 0 && !hasPriority(t, f.Priorities) {
		return false
	}
	if f.Due != "" && !matchesDue(t, f.Due, now, f.WeekStartsOn) {
		return false
	}
	if f.Completed != nil && t.Completed != *f.Completed {
		return false
	}
	return true
}

// matchesSearch looks through title and tags, case-insensitively. A
// leading "#" in the query is ignored for the tag side so "#work" finds
// the work tag.
func matchesSearch(t task.Task, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(t.Title), q) {
		return true
	}
	tagQuery := strings.TrimPrefix(q, "#")
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), tagQuery) {
			return true
		}
	}
	return false
}

func hasAnyTag(t task.Task, tags []string) bool {
	for _, tag := range tags {
		if t.HasTag(tag) {
			return true
		}
	}
	return false
}

func hasPriority(t task.Task, priorities []task.Priority) bool {
	for _, p := range priorities {
		if t.Priority == p {
			return true
		}
	}
	return false
}

func matchesDue(t task.Task, bucket DueFilter, now time.Time, weekStartsOn time.Weekday) bool {
	due := t.DueDate
	switch bucket {
	case DueNone:
		return due == nil
	case DueToday:
		return due != nil && dates.IsToday(*due, now)
	case DueThisWeek:
		return due != nil && !due.Before(dates.StartOfWeek(now, weekStartsOn)) &&
			!due.After(dates.EndOfWeek(now, weekStartsOn))
	case DueUpcoming:
		return due != nil && due.After(now)
	case DueOverdue:
		return due != nil && due.Before(now)
	}
	return false
}
