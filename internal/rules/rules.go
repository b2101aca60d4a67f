// Package rules implements the Eisenhower rule engine: per-quadrant
// rules made of typed conditions, evaluated in a fixed quadrant order
// with manual-override short-circuit.
//
// Evaluation is total: a condition with an unknown type/operator pair or
// a malformed value is simply false. Classification never fails for one
// bad rule or task.
package rules

import (
	"time"

	"ticktask/internal/task"
)

// ConditionType selects which task attribute a condition inspects.
type ConditionType string

const (
	TypePriority ConditionType = "priority"
	TypeDueDate  ConditionType = "dueDate"
	TypeTag      ConditionType = "tag"
	TypeList     ConditionType = "list"
	TypeStatus   ConditionType = "status"
)

// Operator names a comparison. Which operators are meaningful depends on
// the condition type; undefined combinations evaluate to false.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "notEquals"
	OpIn          Operator = "in"
	OpNotIn       Operator = "notIn"
	OpWithin      Operator = "within"
	OpAfter       Operator = "after"
	OpBefore      Operator = "before"
	OpOverdue     Operator = "overdue"
	OpNoDueDate   Operator = "noDueDate"
	OpContains    Operator = "contains"
	OpNotContains Operator = "notContains"
)

// Condition is one predicate over a task snapshot.
type Condition struct {
	Type     ConditionType `json:"type"`
	Operator Operator      `json:"operator"`
	Value    Value         `json:"value"`
}

// Logic combines a rule's conditions.
type Logic string

const (
	LogicAnd Logic = "AND"
	LogicOr  Logic = "OR"
)

// Rule assigns tasks to one quadrant. The quadrant doubles as the rule's
// identity: the authoritative set holds at most one rule per quadrant.
type Rule struct {
	ID         string        `json:"id"`
	Quadrant   task.Quadrant `json:"quadrant"`
	Name       string        `json:"name"`
	Conditions []Condition   `json:"conditions"`
	Logic      Logic         `json:"logic"`
}

// Matches evaluates the rule's combinator over its conditions. AND is
// vacuously true with zero conditions, OR vacuously false.
func (r Rule) Matches(t task.Task, now time.Time) bool {
	if r.Logic == LogicAnd {
		for _, c := range r.Conditions {
			if !Evaluate(t, c, now) {
				return false
			}
		}
		return true
	}
	for _, c := range r.Conditions {
		if Evaluate(t, c, now) {
			return true
		}
	}
	return false
}

// Classify places a task in a quadrant. A manual override wins outright;
// otherwise rules are tried in the fixed order do, schedule, delegate,
// eliminate and the first match decides. Tasks nothing claims sink to
// eliminate.
func Classify(t task.Task, ruleSet []Rule, now time.Time) task.Quadrant {
	if t.ManualQuadrant.Valid() {
		return t.ManualQuadrant
	}
	for _, q := range task.Quadrants() {
		for _, r := range ruleSet {
			if r.Quadrant != q {
				continue
			}
			if r.Matches(t, now) {
				return q
			}
			break
		}
	}
	return task.QuadrantEliminate
}

// Evaluate applies a single condition to a task snapshot at the given
// instant. Day offsets are measured from now, never from creation time.
func Evaluate(t task.Task, c Condition, now time.Time) bool {
	switch c.Type {
	case TypePriority:
		return evalPriority(t, c)
	case TypeDueDate:
		return evalDueDate(t, c, now)
	case TypeTag:
		return evalTag(t, c)
	case TypeList:
		return evalList(t, c)
	case TypeStatus:
		return evalStatus(t, c)
	}
	return false
}

func evalPriority(t task.Task, c Condition) bool {
	switch c.Operator {
	case OpEquals:
		v, ok := c.Value.Str()
		return ok && string(t.Priority) == v
	case OpNotEquals:
		v, ok := c.Value.Str()
		return ok && string(t.Priority) != v
	case OpIn:
		set, ok := c.Value.List()
		return ok && contains(set, string(t.Priority))
	case OpNotIn:
		set, ok := c.Value.List()
		return ok && !contains(set, string(t.Priority))
	}
	return false
}

func evalDueDate(t task.Task, c Condition, now time.Time) bool {
	due := t.DueDate
	switch c.Operator {
	case OpWithin:
		days, ok := c.Value.Days()
		if !ok || due == nil {
			return false
		}
		limit := now.Add(time.Duration(days * 24 * float64(time.Hour)))
		return !due.After(limit) && !due.Before(now)
	case OpAfter:
		days, ok := c.Value.Days()
		if !ok || due == nil {
			return false
		}
		return due.After(now.Add(time.Duration(days * 24 * float64(time.Hour))))
	case OpBefore:
		// Reachable only through imported or hand-edited rule data; the
		// rule editor never offers it.
		days, ok := c.Value.Days()
		if !ok || due == nil {
			return false
		}
		return due.Before(now.Add(time.Duration(days * 24 * float64(time.Hour))))
	case OpOverdue:
		return due != nil && due.Before(now)
	case OpNoDueDate:
		return due == nil
	}
	return false
}

func evalTag(t task.Task, c Condition) bool {
	switch c.Operator {
	case OpContains:
		return tagIntersects(t, c.Value)
	case OpNotContains:
		if !c.Value.usable() {
			return false
		}
		return !tagIntersects(t, c.Value)
	}
	return false
}

// tagIntersects accepts either a single tag name or a set of names.
func tagIntersects(t task.Task, v Value) bool {
	if set, ok := v.List(); ok {
		for _, name := range set {
			if t.HasTag(name) {
				return true
			}
		}
		return false
	}
	if name, ok := v.Str(); ok {
		return t.HasTag(name)
	}
	return false
}

func evalList(t task.Task, c Condition) bool {
	switch c.Operator {
	case OpEquals:
		v, ok := c.Value.Str()
		return ok && t.ListID == v
	case OpNotEquals:
		v, ok := c.Value.Str()
		return ok && t.ListID != v
	case OpIn:
		set, ok := c.Value.List()
		return ok && contains(set, t.ListID)
	}
	return false
}

func evalStatus(t task.Task, c Condition) bool {
	if c.Operator != OpEquals {
		return false
	}
	v, ok := c.Value.Str()
	if !ok {
		return false
	}
	if v == "completed" {
		return t.Completed
	}
	return !t.Completed
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// DefaultRules is the rule set seeded on first launch: high priority or
// a near deadline goes to do, important-but-distant to schedule, low
// priority with a deadline this week to delegate, and priority-less
// tasks to eliminate.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:       "rule-do",
			Quadrant: task.QuadrantDo,
			Name:     "Do First",
			Logic:    LogicOr,
			Conditions: []Condition{
				{Type: TypePriority, Operator: OpEquals, Value: StringValue("high")},
				{Type: TypeDueDate, Operator: OpWithin, Value: StringValue("2")},
			},
		},
		{
			ID:       "rule-schedule",
			Quadrant: task.QuadrantSchedule,
			Name:     "Schedule",
			Logic:    LogicAnd,
			Conditions: []Condition{
				{Type: TypePriority, Operator: OpIn, Value: ListValue("medium", "high")},
				{Type: TypeDueDate, Operator: OpAfter, Value: StringValue("2")},
			},
		},
		{
			ID:       "rule-delegate",
			Quadrant: task.QuadrantDelegate,
			Name:     "Delegate",
			Logic:    LogicAnd,
			Conditions: []Condition{
				{Type: TypePriority, Operator: OpEquals, Value: StringValue("low")},
				{Type: TypeDueDate, Operator: OpWithin, Value: StringValue("7")},
			},
		},
		{
			ID:       "rule-eliminate",
			Quadrant: task.QuadrantEliminate,
			Name:     "Eliminate",
			Logic:    LogicAnd,
			Conditions: []Condition{
				{Type: TypePriority, Operator: OpEquals, Value: StringValue("none")},
			},
		},
	}
}
