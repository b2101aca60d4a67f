package backup

import (
	"strings"
	"testing"
	"time"

	"ticktask/internal/rules"
	"ticktask/internal/task"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	due := time.Date(2024, time.July, 15, 9, 0, 0, 0, time.UTC)
	p := Payload{
		Version:    Version,
		ExportedAt: time.Date(2024, time.July, 10, 12, 0, 0, 0, time.UTC),
		Tasks: []task.Task{{
			ID:       "t1",
			Title:    "write report",
			Tags:     []string{"work"},
			Priority: task.PriorityHigh,
			DueDate:  &due,
		}},
		Lists:    []task.List{{ID: "inbox", Name: "Inbox"}},
		Tags:     []task.Tag{{ID: "g1", Name: "work"}},
		Settings: task.DefaultSettings(),
		Rules:    rules.DefaultRules(),
	}

	data, err := p.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Version != Version || len(got.Tasks) != 1 || len(got.Rules) != len(p.Rules) {
		t.Errorf("round trip lost data: %+v", got)
	}
	if got.Tasks[0].DueDate == nil || !got.Tasks[0].DueDate.Equal(due) {
		t.Errorf("due = %v, want %v", got.Tasks[0].DueDate, due)
	}
	if got.Tasks[0].Priority != task.PriorityHigh {
		t.Errorf("priority = %q", got.Tasks[0].Priority)
	}
}

func TestDecodeRejectsNewerVersion(t *testing.T) {
	data := []byte(`{"version": 999}`)
	if _, err := Decode(data); err == nil {
		t.Fatal("decoding a payload from a newer format must fail")
	} else if !strings.Contains(err.Error(), "version") {
		t.Errorf("err = %v, want a version mismatch", err)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte("not json")); err == nil {
		t.Fatal("garbage input must fail to decode")
	}
}
