// Package dates holds the calendar math the classifier and recurrence
// calculator are built on. Everything here is a pure function: callers
// pass "now" explicitly, nothing reads the system clock.
package dates

import (
	"fmt"
	"sort"
	"time"
)

// AddDays returns the same wall-clock time n calendar days after t.
// time.Date normalizes out-of-range days, so month and year boundaries
// are crossed transparently and DST shifts do not change the clock time.
func AddDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+n, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// AddWeeks returns the same wall-clock time n weeks after t.
func AddWeeks(t time.Time, n int) time.Time {
	return AddDays(t, n*7)
}

// AddMonths moves t forward n calendar months, clamping the day of month
// to the last valid day of the target month. Jan 31 + 1 month is Feb 28
// (or 29), never Mar 3. The clamp works by landing on the 1st of the
// target month first, so the month can never roll over.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := DaysInMonth(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// StartOfDay returns t at 00:00:00.000.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns t at 23:59:59.999.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// StartOfWeek returns the 00:00:00.000 bound of the week containing t.
// weekStartsOn names the first day of the week (Sunday=0 .. Saturday=6).
func StartOfWeek(t time.Time, weekStartsOn time.Weekday) time.Time {
	day := t.Weekday()
	diff := int(day) - int(weekStartsOn)
	if day < weekStartsOn {
		diff += 7
	}
	return StartOfDay(AddDays(t, -diff))
}

// EndOfWeek returns the 23:59:59.999 bound of the week containing t.
func EndOfWeek(t time.Time, weekStartsOn time.Weekday) time.Time {
	return EndOfDay(AddDays(StartOfWeek(t, weekStartsOn), 6))
}

// NextWeekdayOccurrence finds the next date strictly after base that
// falls on one of the given weekdays. The offset is always at least one
// day: when base's weekday is the only candidate, the result is base
// plus a full week. An empty weekday set falls back to base+1 day.
func NextWeekdayOccurrence(base time.Time, weekdays []time.Weekday) time.Time {
	if len(weekdays) == 0 {
		return AddDays(base, 1)
	}

	sorted := append([]time.Weekday(nil), weekdays...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	current := base.Weekday()
	daysToAdd := 0
	for _, day := range sorted {
		if day > current {
			daysToAdd = int(day) - int(current)
			break
		}
	}
	// Current weekday is >= every candidate: wrap to next week's earliest.
	if daysToAdd == 0 {
		daysToAdd = (7 - int(current)) + int(sorted[0])
	}
	if daysToAdd == 0 {
		daysToAdd = 7
	}
	return AddDays(base, daysToAdd)
}

// IsToday reports whether t falls on the same calendar day as now.
func IsToday(t, now time.Time) bool {
	y1, m1, d1 := t.Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// IsThisWeek reports whether t falls inside the Monday-aligned week
// containing now.
func IsThisWeek(t, now time.Time) bool {
	return !t.Before(StartOfWeek(now, time.Monday)) && !t.After(EndOfWeek(now, time.Monday))
}

// Relative renders the distance between now and t the way the task list
// shows it ("3d overdue", "in 2h", "now"). Presentation only.
func Relative(t, now time.Time) string {
	diff := t.Sub(now)
	if diff < 0 {
		return span(-diff) + " overdue"
	}
	if diff < time.Minute {
		return "now"
	}
	return "in " + span(diff)
}

func span(d time.Duration) string {
	switch {
	case d >= 24*time.Hour:
		return fmt.Sprintf("%dd", ceilDiv(d, 24*time.Hour))
	case d >= time.Hour:
		return fmt.Sprintf("%dh", ceilDiv(d, time.Hour))
	default:
		return fmt.Sprintf("%dm", ceilDiv(d, time.Minute))
	}
}

func ceilDiv(d, unit time.Duration) int {
	return int((d + unit - 1) / unit)
}
