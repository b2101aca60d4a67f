package dates

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestAddDaysCrossesMonthBoundary(t *testing.T) {
	got := AddDays(date(2024, time.March, 30, 9, 15), 3)
	want := date(2024, time.April, 2, 9, 15)
	if !got.Equal(want) {
		t.Errorf("AddDays = %v, want %v", got, want)
	}
}

func TestAddDaysNegative(t *testing.T) {
	got := AddDays(date(2024, time.March, 1, 9, 0), -1)
	want := date(2024, time.February, 29, 9, 0)
	if !got.Equal(want) {
		t.Errorf("AddDays = %v, want %v", got, want)
	}
}

// TestAddMonthsClampsToMonthEnd verifies the month-overflow clamp: the day
// of month is pulled back to the last valid day instead of rolling into
// the following month.
func TestAddMonthsClampsToMonthEnd(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		n    int
		want time.Time
	}{
		{"jan31 leap year", date(2024, time.January, 31, 12, 0), 1, date(2024, time.February, 29, 12, 0)},
		{"jan31 non-leap", date(2023, time.January, 31, 12, 0), 1, date(2023, time.February, 28, 12, 0)},
		{"may31 to june30", date(2024, time.May, 31, 8, 30), 1, date(2024, time.June, 30, 8, 30)},
		{"mid-month unchanged", date(2024, time.January, 15, 0, 0), 1, date(2024, time.February, 15, 0, 0)},
		{"across year end", date(2024, time.December, 31, 23, 0), 2, date(2025, time.February, 28, 23, 0)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AddMonths(tc.in, tc.n); !got.Equal(tc.want) {
				t.Errorf("AddMonths(%v, %d) = %v, want %v", tc.in, tc.n, got, tc.want)
			}
		})
	}
}

func TestStartAndEndOfWeek(t *testing.T) {
	// 2024-07-10 is a Wednesday.
	wed := date(2024, time.July, 10, 14, 45)

	start := StartOfWeek(wed, time.Monday)
	if want := date(2024, time.July, 8, 0, 0); !start.Equal(want) {
		t.Errorf("StartOfWeek = %v, want %v", start, want)
	}

	end := EndOfWeek(wed, time.Monday)
	want := time.Date(2024, time.July, 14, 23, 59, 59, int(999*time.Millisecond), time.UTC)
	if !end.Equal(want) {
		t.Errorf("EndOfWeek = %v, want %v", end, want)
	}

	// Sunday-start weeks pin the same Wednesday to the preceding Sunday.
	if got, want := StartOfWeek(wed, time.Sunday), date(2024, time.July, 7, 0, 0); !got.Equal(want) {
		t.Errorf("StartOfWeek(sunday) = %v, want %v", got, want)
	}
}

func TestStartOfWeekWhenDayBeforeWeekStart(t *testing.T) {
	// Sunday belongs to the week that started the previous Monday.
	sun := date(2024, time.July, 14, 10, 0)
	if got, want := StartOfWeek(sun, time.Monday), date(2024, time.July, 8, 0, 0); !got.Equal(want) {
		t.Errorf("StartOfWeek = %v, want %v", got, want)
	}
}

func TestNextWeekdayOccurrence(t *testing.T) {
	// 2024-07-12 is a Friday.
	fri := date(2024, time.July, 12, 9, 0)
	cases := []struct {
		name     string
		weekdays []time.Weekday
		want     time.Time
	}{
		{"friday to monday (weekday set)", []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}, date(2024, time.July, 15, 9, 0)},
		{"same single weekday wraps a full week", []time.Weekday{time.Friday}, date(2024, time.July, 19, 9, 0)},
		{"next day in set", []time.Weekday{time.Saturday}, date(2024, time.July, 13, 9, 0)},
		{"wraps to sunday", []time.Weekday{time.Sunday}, date(2024, time.July, 14, 9, 0)},
		{"empty set falls back one day", nil, date(2024, time.July, 13, 9, 0)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NextWeekdayOccurrence(fri, tc.weekdays); !got.Equal(tc.want) {
				t.Errorf("NextWeekdayOccurrence = %v, want %v", got, tc.want)
			}
		})
	}
}

// TestNextWeekdayOccurrenceAlwaysAdvances feeds each result back in as the
// next base and checks the sequence strictly increases: the search must
// never return its own input.
func TestNextWeekdayOccurrenceAlwaysAdvances(t *testing.T) {
	sets := [][]time.Weekday{
		{time.Monday},
		{time.Monday, time.Wednesday, time.Friday},
		{time.Sunday, time.Saturday},
		{time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday},
	}
	for _, set := range sets {
		cur := date(2024, time.July, 12, 9, 0)
		for i := 0; i < 20; i++ {
			next := NextWeekdayOccurrence(cur, set)
			if !next.After(cur) {
				t.Fatalf("set %v: occurrence %v did not advance past %v", set, next, cur)
			}
			cur = next
		}
	}
}

func TestIsTodayAndThisWeek(t *testing.T) {
	now := date(2024, time.July, 10, 12, 0) // Wednesday

	if !IsToday(date(2024, time.July, 10, 23, 59), now) {
		t.Error("IsToday: same calendar day should match")
	}
	if IsToday(date(2024, time.July, 11, 0, 0), now) {
		t.Error("IsToday: next day should not match")
	}
	if !IsThisWeek(date(2024, time.July, 14, 20, 0), now) {
		t.Error("IsThisWeek: Sunday of same week should match")
	}
	if IsThisWeek(date(2024, time.July, 15, 0, 0), now) {
		t.Error("IsThisWeek: next Monday should not match")
	}
}

func TestRelative(t *testing.T) {
	now := date(2024, time.July, 10, 12, 0)
	cases := []struct {
		name string
		at   time.Time
		want string
	}{
		{"days overdue", date(2024, time.July, 7, 12, 0), "3d overdue"},
		{"hours overdue", date(2024, time.July, 10, 9, 0), "3h overdue"},
		{"minutes ahead", date(2024, time.July, 10, 12, 30), "in 30m"},
		{"days ahead", date(2024, time.July, 13, 12, 0), "in 3d"},
		{"right now", now.Add(10 * time.Second), "now"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Relative(tc.at, now); got != tc.want {
				t.Errorf("Relative = %q, want %q", got, tc.want)
			}
		})
	}
}
