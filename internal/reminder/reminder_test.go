package reminder

import (
	"testing"
	"time"

	"ticktask/internal/task"
)

func TestDueSoon(t *testing.T) {
	now := time.Date(2024, time.July, 10, 12, 0, 0, 0, time.UTC)
	at := func(offset time.Duration) *time.Time {
		d := now.Add(offset)
		return &d
	}

	tasks := []task.Task{
		{ID: "soon", DueDate: at(2 * time.Minute)},
		{ID: "boundary", DueDate: at(5 * time.Minute)},
		{ID: "late", DueDate: at(-1 * time.Minute)},
		{ID: "far", DueDate: at(time.Hour)},
		{ID: "done", DueDate: at(2 * time.Minute), Completed: true},
		{ID: "undated"},
	}

	got := DueSoon(tasks, now, 0)
	if len(got) != 2 || got[0].ID != "soon" || got[1].ID != "boundary" {
		ids := make([]string, len(got))
		for i, tk := range got {
			ids[i] = tk.ID
		}
		t.Errorf("DueSoon = %v, want [soon boundary]", ids)
	}
}

func TestDueSoonCustomLead(t *testing.T) {
	now := time.Date(2024, time.July, 10, 12, 0, 0, 0, time.UTC)
	in30 := now.Add(30 * time.Minute)

	tasks := []task.Task{{ID: "a", DueDate: &in30}}
	if got := DueSoon(tasks, now, time.Hour); len(got) != 1 {
		t.Errorf("lead=1h should include a task due in 30m, got %d", len(got))
	}
	if got := DueSoon(tasks, now, 10*time.Minute); len(got) != 0 {
		t.Errorf("lead=10m should exclude a task due in 30m, got %d", len(got))
	}
}
