package rules

import (
	"encoding/json"
	"testing"
	"time"

	"ticktask/internal/task"
)

var now = time.Date(2024, time.July, 10, 12, 0, 0, 0, time.UTC)

func due(days int) *time.Time {
	d := now.Add(time.Duration(days) * 24 * time.Hour)
	return &d
}

func dueHours(h int) *time.Time {
	d := now.Add(time.Duration(h) * time.Hour)
	return &d
}

func TestEvaluatePriority(t *testing.T) {
	high := task.Task{Priority: task.PriorityHigh}
	cases := []struct {
		name string
		cond Condition
		want bool
	}{
		{"equals match", Condition{TypePriority, OpEquals, StringValue("high")}, true},
		{"equals miss", Condition{TypePriority, OpEquals, StringValue("low")}, false},
		{"notEquals", Condition{TypePriority, OpNotEquals, StringValue("low")}, true},
		{"in", Condition{TypePriority, OpIn, ListValue("medium", "high")}, true},
		{"in miss", Condition{TypePriority, OpIn, ListValue("none", "low")}, false},
		{"notIn", Condition{TypePriority, OpNotIn, ListValue("none", "low")}, true},
		{"in with scalar value is malformed", Condition{TypePriority, OpIn, StringValue("high")}, false},
		{"notIn with scalar value is malformed", Condition{TypePriority, OpNotIn, StringValue("low")}, false},
		{"equals with list value is malformed", Condition{TypePriority, OpEquals, ListValue("high")}, false},
		{"undefined operator", Condition{TypePriority, OpContains, StringValue("high")}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Evaluate(high, tc.cond, now); got != tc.want {
				t.Errorf("Evaluate = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEvaluateDueDate(t *testing.T) {
	cases := []struct {
		name string
		t    task.Task
		cond Condition
		want bool
	}{
		{"within hit", task.Task{DueDate: due(1)}, Condition{TypeDueDate, OpWithin, StringValue("2")}, true},
		{"within boundary", task.Task{DueDate: due(2)}, Condition{TypeDueDate, OpWithin, StringValue("2")}, true},
		{"within excludes past", task.Task{DueDate: due(-1)}, Condition{TypeDueDate, OpWithin, StringValue("2")}, false},
		{"within excludes far future", task.Task{DueDate: due(3)}, Condition{TypeDueDate, OpWithin, StringValue("2")}, false},
		{"within no due date", task.Task{}, Condition{TypeDueDate, OpWithin, StringValue("2")}, false},
		{"within numeric value", task.Task{DueDate: due(1)}, Condition{TypeDueDate, OpWithin, NumberValue(2)}, true},
		{"within non-numeric is malformed", task.Task{DueDate: due(1)}, Condition{TypeDueDate, OpWithin, StringValue("soon")}, false},
		{"after hit", task.Task{DueDate: due(5)}, Condition{TypeDueDate, OpAfter, StringValue("2")}, true},
		{"after miss", task.Task{DueDate: due(1)}, Condition{TypeDueDate, OpAfter, StringValue("2")}, false},
		{"before hit", task.Task{DueDate: due(1)}, Condition{TypeDueDate, OpBefore, StringValue("2")}, true},
		{"before miss", task.Task{DueDate: due(3)}, Condition{TypeDueDate, OpBefore, StringValue("2")}, false},
		{"overdue hit", task.Task{DueDate: dueHours(-1)}, Condition{TypeDueDate, OpOverdue, Value{}}, true},
		{"overdue miss", task.Task{DueDate: dueHours(1)}, Condition{TypeDueDate, OpOverdue, Value{}}, false},
		{"overdue no due date", task.Task{}, Condition{TypeDueDate, OpOverdue, Value{}}, false},
		{"noDueDate hit", task.Task{}, Condition{TypeDueDate, OpNoDueDate, Value{}}, true},
		{"noDueDate miss", task.Task{DueDate: due(1)}, Condition{TypeDueDate, OpNoDueDate, Value{}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Evaluate(tc.t, tc.cond, now); got != tc.want {
				t.Errorf("Evaluate = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEvaluateTagListStatus(t *testing.T) {
	tk := task.Task{Tags: []string{"work", "urgent"}, ListID: "inbox", Completed: false}
	cases := []struct {
		name string
		cond Condition
		want bool
	}{
		{"tag contains single", Condition{TypeTag, OpContains, StringValue("work")}, true},
		{"tag contains set", Condition{TypeTag, OpContains, ListValue("home", "urgent")}, true},
		{"tag contains miss", Condition{TypeTag, OpContains, ListValue("home")}, false},
		{"tag notContains", Condition{TypeTag, OpNotContains, StringValue("home")}, true},
		{"tag notContains hit", Condition{TypeTag, OpNotContains, ListValue("urgent")}, false},
		{"list equals", Condition{TypeList, OpEquals, StringValue("inbox")}, true},
		{"list notEquals", Condition{TypeList, OpNotEquals, StringValue("work")}, true},
		{"list in", Condition{TypeList, OpIn, ListValue("inbox", "work")}, true},
		{"list in miss", Condition{TypeList, OpIn, ListValue("work")}, false},
		{"status incomplete", Condition{TypeStatus, OpEquals, StringValue("incomplete")}, true},
		{"status completed miss", Condition{TypeStatus, OpEquals, StringValue("completed")}, false},
		{"unknown type", Condition{"color", OpEquals, StringValue("red")}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Evaluate(tk, tc.cond, now); got != tc.want {
				t.Errorf("Evaluate = %v, want %v", got, tc.want)
			}
		})
	}

	done := task.Task{Completed: true}
	if !Evaluate(done, Condition{TypeStatus, OpEquals, StringValue("completed")}, now) {
		t.Error("completed task should match status=completed")
	}
}

// TestRuleMatchesVacuous pins the combinator edge case: zero conditions
// under AND match everything, under OR match nothing.
func TestRuleMatchesVacuous(t *testing.T) {
	tk := task.Task{Title: "anything"}
	if !(Rule{Logic: LogicAnd}).Matches(tk, now) {
		t.Error("empty AND rule should match every task")
	}
	if (Rule{Logic: LogicOr}).Matches(tk, now) {
		t.Error("empty OR rule should match no task")
	}
}

func TestClassifyManualOverride(t *testing.T) {
	tk := task.Task{Priority: task.PriorityHigh, DueDate: dueHours(1), ManualQuadrant: task.QuadrantEliminate}

	if got := Classify(tk, DefaultRules(), now); got != task.QuadrantEliminate {
		t.Errorf("Classify = %q, want manual override %q", got, task.QuadrantEliminate)
	}
	if got := Classify(tk, nil, now); got != task.QuadrantEliminate {
		t.Errorf("Classify with empty rules = %q, want manual override", got)
	}
}

// TestClassifyQuadrantOrder verifies the fixed do→schedule→delegate→
// eliminate priority: a task matching two quadrants lands in the earlier
// one regardless of rule slice order.
func TestClassifyQuadrantOrder(t *testing.T) {
	matchAll := func(q task.Quadrant) Rule {
		return Rule{ID: "r-" + string(q), Quadrant: q, Logic: LogicAnd}
	}
	ruleSet := []Rule{matchAll(task.QuadrantSchedule), matchAll(task.QuadrantDo)}

	if got := Classify(task.Task{Title: "x"}, ruleSet, now); got != task.QuadrantDo {
		t.Errorf("Classify = %q, want %q", got, task.QuadrantDo)
	}
}

func TestClassifyDefaultSink(t *testing.T) {
	if got := Classify(task.Task{Title: "x"}, nil, now); got != task.QuadrantEliminate {
		t.Errorf("Classify with no rules = %q, want eliminate", got)
	}
	// A rule set where nothing matches also sinks to eliminate.
	ruleSet := []Rule{{Quadrant: task.QuadrantDo, Logic: LogicOr}}
	if got := Classify(task.Task{Title: "x"}, ruleSet, now); got != task.QuadrantEliminate {
		t.Errorf("Classify with non-matching rules = %q, want eliminate", got)
	}
}

// TestClassifyDefaultSeedRules walks the seeded rule set with the
// canonical scenarios.
func TestClassifyDefaultSeedRules(t *testing.T) {
	seed := DefaultRules()
	cases := []struct {
		name string
		t    task.Task
		want task.Quadrant
	}{
		{"high priority due tomorrow", task.Task{Priority: task.PriorityHigh, DueDate: due(1)}, task.QuadrantDo},
		{"high priority far out still do (OR)", task.Task{Priority: task.PriorityHigh, DueDate: due(30)}, task.QuadrantDo},
		{"medium priority far out", task.Task{Priority: task.PriorityMedium, DueDate: due(10)}, task.QuadrantSchedule},
		{"low priority due this week", task.Task{Priority: task.PriorityLow, DueDate: due(3)}, task.QuadrantDelegate},
		{"no priority no due date", task.Task{Priority: task.PriorityNone}, task.QuadrantEliminate},
		{"low priority due far out falls through", task.Task{Priority: task.PriorityLow, DueDate: due(30)}, task.QuadrantEliminate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.t, seed, now); got != tc.want {
				t.Errorf("Classify = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestValueJSONRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"string", `"high"`},
		{"list", `["medium","high"]`},
		{"number", `2`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var v Value
			if err := json.Unmarshal([]byte(tc.in), &v); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			out, err := json.Marshal(v)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(out) != tc.in {
				t.Errorf("round trip = %s, want %s", out, tc.in)
			}
		})
	}
}

// TestValueJSONMalformed checks that garbage condition values decode to
// a value no operator matches instead of failing the rule load.
func TestValueJSONMalformed(t *testing.T) {
	var v Value
	if err := json.Unmarshal([]byte(`{"weird":true}`), &v); err != nil {
		t.Fatalf("unmarshal should swallow unknown shapes, got %v", err)
	}
	cond := Condition{TypePriority, OpEquals, v}
	if Evaluate(task.Task{Priority: task.PriorityHigh}, cond, now) {
		t.Error("condition with unusable value must not match")
	}
}

func TestRuleJSONRoundTrip(t *testing.T) {
	seed := DefaultRules()
	data, err := json.Marshal(seed[0].Conditions)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back []Condition
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(back) != len(seed[0].Conditions) {
		t.Fatalf("got %d conditions, want %d", len(back), len(seed[0].Conditions))
	}
	// Behavior must survive the round trip, not just the shape.
	tk := task.Task{Priority: task.PriorityHigh}
	for i := range back {
		if Evaluate(tk, back[i], now) != Evaluate(tk, seed[0].Conditions[i], now) {
			t.Errorf("condition %d changed behavior after round trip", i)
		}
	}
}
