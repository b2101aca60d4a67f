// Package recur parses recurrence rules and derives the due date of the
// next occurrence of a repeating task.
package recur

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"ticktask/internal/dates"
	"ticktask/internal/task"
)

// Kind names the supported recurrence cadences.
type Kind string

const (
	Daily    Kind = "daily"
	Weekly   Kind = "weekly"
	Biweekly Kind = "biweekly"
	Monthly  Kind = "monthly"
	Weekdays Kind = "weekdays"
)

const weekdaysPrefix = "weekdays:"

// Spec is a parsed recurrence rule. Weekdays is only meaningful when
// Kind is Weekdays.
type Spec struct {
	Kind     Kind
	Weekdays []time.Weekday
}

// ErrEmptyWeekdays rejects mutations that would leave a weekday rule
// with nothing to recur on.
var ErrEmptyWeekdays = errors.New("recur: weekday rule needs at least one weekday")

// Parse reads the string form of a recurrence rule: "daily", "weekly",
// "biweekly", "monthly", "weekdays:1,3,5", or the legacy bare "weekdays"
// which means Monday through Friday. ok is false for anything else.
func Parse(rule string) (spec Spec, ok bool) {
	switch rule {
	case string(Daily), string(Weekly), string(Biweekly), string(Monthly):
		return Spec{Kind: Kind(rule)}, true
	case "weekdays":
		// Legacy form predating the explicit day list.
		return Spec{Kind: Weekdays, Weekdays: []time.Weekday{
			time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
		}}, true
	}
	if rest, found := strings.CutPrefix(rule, weekdaysPrefix); found {
		var days []time.Weekday
		seen := [7]bool{}
		for _, part := range strings.Split(rest, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || n < 0 || n > 6 || seen[n] {
				continue
			}
			seen[n] = true
			days = append(days, time.Weekday(n))
		}
		sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
		return Spec{Kind: Weekdays, Weekdays: days}, true
	}
	return Spec{}, false
}

// String renders the spec back to its wire form. Weekday rules always
// serialize with sorted, comma-separated day numbers.
func (s Spec) String() string {
	if s.Kind != Weekdays {
		return string(s.Kind)
	}
	days := append([]time.Weekday(nil), s.Weekdays...)
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(int(d))
	}
	return weekdaysPrefix + strings.Join(parts, ",")
}

// Validate checks the task invariant that a weekday rule carries at
// least one weekday.
func (s Spec) Validate() error {
	if s.Kind == Weekdays && len(s.Weekdays) == 0 {
		return ErrEmptyWeekdays
	}
	return nil
}

// Next computes the due date of the occurrence after base. ok is false
// when the rule string is empty or unrecognized, in which case no
// follow-up task should be spawned. An empty weekday set (invalid but
// tolerated) falls back to base+1 day rather than failing.
func Next(base time.Time, rule string) (next time.Time, ok bool) {
	spec, ok := Parse(rule)
	if !ok {
		return time.Time{}, false
	}
	return spec.Next(base), true
}

// Next computes the occurrence after base for a parsed spec.
func (s Spec) Next(base time.Time) time.Time {
	switch s.Kind {
	case Daily:
		return dates.AddDays(base, 1)
	case Weekly:
		return dates.AddWeeks(base, 1)
	case Biweekly:
		return dates.AddWeeks(base, 2)
	case Monthly:
		return dates.AddMonths(base, 1)
	case Weekdays:
		return dates.NextWeekdayOccurrence(base, s.Weekdays)
	}
	return dates.AddDays(base, 1)
}

// SpawnNext builds the follow-up instance created when a recurring task
// is completed. The base date is the completed task's due date when it
// has one, otherwise now: a recurring task with no deadline recurs
// relative to completion time. ok is false when the task has no usable
// recurrence rule. The returned task has no ID; the store assigns one on
// insert.
func SpawnNext(t task.Task, now time.Time) (task.Task, bool) {
	if t.RecurrenceRule == "" {
		return task.Task{}, false
	}
	base := now
	if t.DueDate != nil {
		base = *t.DueDate
	}
	due, ok := Next(base, t.RecurrenceRule)
	if !ok {
		return task.Task{}, false
	}
	next := task.Task{
		Title:          t.Title,
		Description:    t.Description,
		ListID:         t.ListID,
		Tags:           append([]string(nil), t.Tags...),
		Priority:       t.Priority,
		DueDate:        &due,
		Completed:      false,
		RecurrenceRule: t.RecurrenceRule,
		CreatedAt:      now,
		UpdatedAt:      now,
		ManualQuadrant: t.ManualQuadrant,
	}
	return next, true
}
