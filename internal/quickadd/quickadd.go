// Package quickadd turns a raw quick-add line into a task: inline #tags
// are lifted out of the title, a due date is extracted through a
// pluggable text→date parser, and stored settings fill the gaps.
package quickadd

import (
	"regexp"
	"strings"
	"time"

	"ticktask/internal/task"
)

// DateParser is the external text→date collaborator. It scans text for
// a date expression and returns the parsed instant plus the exact
// substring it consumed, or ok=false when the text names no date.
type DateParser func(text string, now time.Time) (due time.Time, matched string, ok bool)

var tagPattern = regexp.MustCompile(`#(\w+)`)

// Result is a parsed quick-add line before defaults are applied.
type Result struct {
	Title   string
	Tags    []string
	DueDate *time.Time
}

// Parse splits a quick-add line into title, inline tags and due date.
// parser may be nil, in which case no date is extracted.
func Parse(input string, now time.Time, parser DateParser) Result {
	var res Result

	title := input
	for _, m := range tagPattern.FindAllStringSubmatch(input, -1) {
		res.Tags = append(res.Tags, m[1])
		title = strings.Replace(title, m[0], "", 1)
	}
	title = strings.Join(strings.Fields(title), " ")

	if parser != nil {
		if due, matched, ok := parser(title, now); ok {
			res.DueDate = &due
			title = strings.Join(strings.Fields(strings.Replace(title, matched, "", 1)), " ")
		}
	}

	res.Title = title
	res.Tags = task.NormalizeTags(res.Tags)
	return res
}

// NewTask builds the task a quick-add line creates, applying the stored
// defaults: default priority, auto-applied tags, and the default due
// date rule when the line itself names no date. The ID is left empty for
// the store to assign.
func NewTask(input string, settings task.Settings, now time.Time, parser DateParser) task.Task {
	res := Parse(input, now, parser)

	if res.DueDate == nil && parser != nil {
		if rule := settings.DefaultDueDateRule; rule != "" && rule != "none" {
			if due, _, ok := parser(rule, now); ok {
				res.DueDate = &due
			}
		}
	}

	priority := settings.DefaultPriority
	if !priority.Valid() {
		priority = task.PriorityNone
	}

	return task.Task{
		Title:     res.Title,
		Tags:      task.NormalizeTags(append(res.Tags, settings.AutoApplyTags...)),
		Priority:  priority,
		DueDate:   res.DueDate,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
	// Hour a date-only deadline lands on, matching the "today 17:00"
	// quick-pick.
	defaultDueHour = 17
)

// LayoutParser is the built-in DateParser: it recognizes ISO-style
// "2006-01-02" and "2006-01-02 15:04" tokens anywhere in the text.
// Date-only matches land on 17:00 local time. Natural-language parsing
// belongs to an external collaborator satisfying DateParser.
func LayoutParser(text string, now time.Time) (time.Time, string, bool) {
	fields := strings.Fields(text)
	for i := range fields {
		if i+1 < len(fields) {
			candidate := fields[i] + " " + fields[i+1]
			if due, err := time.ParseInLocation(dateTimeLayout, candidate, now.Location()); err == nil {
				return due, candidate, true
			}
		}
		if due, err := time.ParseInLocation(dateLayout, fields[i], now.Location()); err == nil {
			due = time.Date(due.Year(), due.Month(), due.Day(), defaultDueHour, 0, 0, 0, now.Location())
			return due, fields[i], true
		}
	}
	return time.Time{}, "", false
}
