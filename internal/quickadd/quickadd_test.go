package quickadd

import (
	"testing"
	"time"

	"ticktask/internal/task"
)

var now = time.Date(2024, time.July, 10, 12, 0, 0, 0, time.UTC)

func TestParseInlineTags(t *testing.T) {
	res := Parse("buy milk #errand #errand #home", now, nil)
	if res.Title != "buy milk" {
		t.Errorf("title = %q, want %q", res.Title, "buy milk")
	}
	if len(res.Tags) != 2 || res.Tags[0] != "errand" || res.Tags[1] != "home" {
		t.Errorf("tags = %v, want [errand home] (duplicates collapsed)", res.Tags)
	}
}

func TestParseExtractsDate(t *testing.T) {
	res := Parse("file taxes 2024-07-15 14:30 #finance", now, LayoutParser)
	if res.Title != "file taxes" {
		t.Errorf("title = %q, want %q", res.Title, "file taxes")
	}
	want := time.Date(2024, time.July, 15, 14, 30, 0, 0, time.UTC)
	if res.DueDate == nil || !res.DueDate.Equal(want) {
		t.Errorf("due = %v, want %v", res.DueDate, want)
	}
}

func TestLayoutParserDateOnly(t *testing.T) {
	due, matched, ok := LayoutParser("pay rent 2024-08-01", now)
	if !ok || matched != "2024-08-01" {
		t.Fatalf("ok=%v matched=%q", ok, matched)
	}
	if want := time.Date(2024, time.August, 1, 17, 0, 0, 0, time.UTC); !due.Equal(want) {
		t.Errorf("due = %v, want %v (date-only defaults to 17:00)", due, want)
	}
}

func TestLayoutParserNoDate(t *testing.T) {
	if _, _, ok := LayoutParser("just a plain title", now); ok {
		t.Error("plain title should not parse a date")
	}
}

func TestNewTaskAppliesDefaults(t *testing.T) {
	settings := task.Settings{
		DefaultPriority:    task.PriorityMedium,
		DefaultDueDateRule: "2024-07-12",
		AutoApplyTags:      []string{"inbox"},
	}

	tk := NewTask("call dentist #health", settings, now, LayoutParser)

	if tk.Title != "call dentist" {
		t.Errorf("title = %q", tk.Title)
	}
	if tk.Priority != task.PriorityMedium {
		t.Errorf("priority = %q, want default medium", tk.Priority)
	}
	if len(tk.Tags) != 2 || tk.Tags[0] != "health" || tk.Tags[1] != "inbox" {
		t.Errorf("tags = %v, want [health inbox]", tk.Tags)
	}
	if tk.DueDate == nil || tk.DueDate.Day() != 12 {
		t.Errorf("due = %v, want default rule date", tk.DueDate)
	}
	if tk.ID != "" {
		t.Errorf("ID should be unset until the store assigns one, got %q", tk.ID)
	}
	if tk.Completed {
		t.Error("new task must start incomplete")
	}
}

// TestNewTaskInlineDateBeatsDefault verifies the line's own date wins
// over the settings rule.
func TestNewTaskInlineDateBeatsDefault(t *testing.T) {
	settings := task.Settings{DefaultDueDateRule: "2024-07-20"}
	tk := NewTask("ship release 2024-07-11 09:00", settings, now, LayoutParser)
	want := time.Date(2024, time.July, 11, 9, 0, 0, 0, time.UTC)
	if tk.DueDate == nil || !tk.DueDate.Equal(want) {
		t.Errorf("due = %v, want %v", tk.DueDate, want)
	}
}

func TestNewTaskNoneRuleMeansNoDue(t *testing.T) {
	tk := NewTask("loose idea", task.Settings{DefaultDueDateRule: "none"}, now, LayoutParser)
	if tk.DueDate != nil {
		t.Errorf("due = %v, want nil", tk.DueDate)
	}
}
