package schedule

import (
	"testing"
	"time"
)

func date(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestStartOfWeek(t *testing.T) {
	cases := []struct {
		name   string
		today  string
		offset int
		want   string
	}{
		{"friday default", "2024-03-15", 0, "2024-03-11"},
		{"monday default", "2024-03-11", 0, "2024-03-11"},
		{"saturday rolls forward", "2024-03-16", 0, "2024-03-18"},
		{"sunday rolls forward", "2024-03-17", 0, "2024-03-18"},
		{"weekday next week", "2024-03-13", 1, "2024-03-18"},
		{"weekday last week", "2024-03-13", -1, "2024-03-04"},
		{"weekend offset skips roll-forward", "2024-03-16", 1, "2024-03-18"},
		{"two weeks out", "2024-03-13", 2, "2024-03-25"},
		{"across month boundary", "2024-03-29", 1, "2024-04-01"},
		{"across year boundary", "2024-12-30", 1, "2025-01-06"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := StartOfWeek(date(tc.today), tc.offset)
			if got.Format(DateLayout) != tc.want {
				t.Fatalf("StartOfWeek(%s, %d) = %s, want %s", tc.today, tc.offset, got.Format(DateLayout), tc.want)
			}
			if got.Weekday() != time.Monday {
				t.Fatalf("StartOfWeek(%s, %d) is a %s, not a Monday", tc.today, tc.offset, got.Weekday())
			}
		})
	}
}

func TestWeekDatesAreFiveConsecutiveDays(t *testing.T) {
	for offset := -3; offset <= 3; offset++ {
		monday := StartOfWeek(date("2024-03-16"), offset)
		days := WeekDates(monday)
		if days[0].Weekday() != time.Monday {
			t.Fatalf("offset %d: window starts on %s", offset, days[0].Weekday())
		}
		for i := 1; i < len(days); i++ {
			if DaysBetween(days[i-1], days[i]) != 1 {
				t.Fatalf("offset %d: dates not consecutive at index %d", offset, i)
			}
		}
		if days[4].Weekday() != time.Friday {
			t.Fatalf("offset %d: window ends on %s", offset, days[4].Weekday())
		}
	}
}

func TestWeekendRollForwardIsStrictlyFuture(t *testing.T) {
	for _, today := range []string{"2024-03-16", "2024-03-17"} {
		monday := StartOfWeek(date(today), 0)
		if !monday.After(date(today)) {
			t.Fatalf("today %s: default Monday %s is not after today", today, monday.Format(DateLayout))
		}
	}
}

func TestWeekLabel(t *testing.T) {
	weekday := date("2024-03-13") // Wednesday
	weekend := date("2024-03-16") // Saturday

	cases := []struct {
		today  time.Time
		offset int
		want   string
	}{
		{weekday, 0, "This Week"},
		{weekend, 0, "Next Week"},
		{weekday, 1, "Next Week"},
		{weekend, 1, "Week After Next"},
		{weekday, -1, "Last Week"},
		{weekend, -1, "This Week"},
		{weekday, 2, "Week of Mar 25"},
		{weekday, -2, "Week of Feb 26"},
	}
	for _, tc := range cases {
		if got := WeekLabel(tc.today, tc.offset); got != tc.want {
			t.Fatalf("WeekLabel(%s, %d) = %q, want %q", tc.today.Format(DateLayout), tc.offset, got, tc.want)
		}
	}
}

func TestMonthGrid(t *testing.T) {
	// February 2024: 29 days, the 1st is a Thursday (4 leading blanks)
	grid := MonthGrid(2024, 1)
	if len(grid) != 4+29 {
		t.Fatalf("expected %d cells, got %d", 4+29, len(grid))
	}
	for i := 0; i < 4; i++ {
		if grid[i] != 0 {
			t.Fatalf("cell %d should be blank, got %d", i, grid[i])
		}
	}
	if grid[4] != 1 || grid[len(grid)-1] != 29 {
		t.Fatalf("unexpected day cells: first=%d last=%d", grid[4], grid[len(grid)-1])
	}

	// September 2024 starts on a Sunday: no leading blanks
	grid = MonthGrid(2024, 8)
	if grid[0] != 1 {
		t.Fatalf("expected no leading blanks, got first cell %d", grid[0])
	}
}

func TestMonthNavigationRollsAcrossYears(t *testing.T) {
	if y, m := PrevMonth(2024, 0); y != 2023 || m != 11 {
		t.Fatalf("PrevMonth(2024, 0) = %d, %d", y, m)
	}
	if y, m := NextMonth(2024, 11); y != 2025 || m != 0 {
		t.Fatalf("NextMonth(2024, 11) = %d, %d", y, m)
	}
	if y, m := PrevMonth(2024, 5); y != 2024 || m != 4 {
		t.Fatalf("PrevMonth(2024, 5) = %d, %d", y, m)
	}
}

func TestDaysUntil(t *testing.T) {
	today := date("2024-03-15")
	cases := []struct {
		target string
		want   int
		ok     bool
	}{
		{"2024-03-15", 0, true},
		{"2024-03-18", 3, true},
		{"2024-03-01", -14, true},
		{"2025-03-15", 365, true},
		{"not-a-date", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := DaysUntil(today, tc.target)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("DaysUntil(%q) = %d, %v; want %d, %v", tc.target, got, ok, tc.want, tc.ok)
		}
	}
}

func TestNormalizeZeroesTimeOfDay(t *testing.T) {
	noon := time.Date(2024, 3, 15, 12, 34, 56, 789, time.Local)
	n := Normalize(noon)
	if n.Hour() != 0 || n.Minute() != 0 || n.Second() != 0 || n.Nanosecond() != 0 {
		t.Fatalf("Normalize left time-of-day: %v", n)
	}
	if n.Year() != 2024 || n.Month() != time.March || n.Day() != 15 {
		t.Fatalf("Normalize changed the date: %v", n)
	}
}
