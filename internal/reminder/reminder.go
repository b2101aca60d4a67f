// Package reminder decides which tasks are due for a reminder. Delivery
// is the platform shell's problem; this only picks the tasks.
package reminder

import (
	"time"

	"ticktask/internal/task"
)

// DefaultLead is how far ahead of the due date a reminder fires when the
// caller has no configured lead time.
const DefaultLead = 5 * time.Minute

// DueSoon returns the incomplete tasks whose due date falls inside
// [now, now+lead], in input order. A non-positive lead uses DefaultLead.
// The scheduler calls this once a minute, so a task stays in the result
// until its due date passes or it is completed; de-duplication across
// ticks is the caller's concern.
func DueSoon(tasks []task.Task, now time.Time, lead time.Duration) []task.Task {
	if lead <= 0 {
		lead = DefaultLead
	}
	limit := now.Add(lead)
	var out []task.Task
	for _, t := range tasks {
		if t.Completed || t.DueDate == nil {
			continue
		}
		if t.DueDate.Before(now) || t.DueDate.After(limit) {
			continue
		}
		out = append(out, t)
	}
	return out
}
