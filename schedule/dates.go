// Package schedule holds the pure derivation logic behind the dashboard:
// week-window arithmetic, month grids, event filtering, classification and
// export-link generation. Every function takes the reference date ("today")
// as an explicit parameter and performs no I/O, so results are deterministic.
package schedule

import "time"

// DateLayout is the wire format for event dates.
const DateLayout = "2006-01-02"

// DayNames labels the five columns of the week strip.
var DayNames = [5]string{"Mon", "Tue", "Wed", "Thu", "Fri"}

// Normalize strips the time-of-day component so date comparisons are exact.
func Normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsWeekend reports whether t falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// StartOfWeek returns the Monday anchoring the displayed work week.
// Offset 0 is the default week; when today is a weekend the default week
// rolls forward so the strip never shows a week that already finished.
func StartOfWeek(today time.Time, offset int) time.Time {
	today = Normalize(today)
	back := int(today.Weekday()) - 1
	if today.Weekday() == time.Sunday {
		back = 6
	}
	monday := today.AddDate(0, 0, -back+offset*7)
	if offset == 0 && IsWeekend(today) {
		monday = monday.AddDate(0, 0, 7)
	}
	return monday
}

// WeekDates expands a Monday into the five-day Mon..Fri window.
func WeekDates(monday time.Time) [5]time.Time {
	var days [5]time.Time
	for i := range days {
		days[i] = monday.AddDate(0, 0, i)
	}
	return days
}

// WeekLabel names the window selected by offset. The mapping compensates for
// the weekend roll-forward: on a weekend, offset 0 already shows next week,
// so the labels shift with it.
func WeekLabel(today time.Time, offset int) string {
	weekend := IsWeekend(Normalize(today))
	switch {
	case offset == 0 && !weekend:
		return "This Week"
	case offset == 0:
		return "Next Week"
	case offset == 1 && !weekend:
		return "Next Week"
	case offset == 1:
		return "Week After Next"
	case offset == -1 && weekend:
		return "This Week"
	case offset == -1:
		return "Last Week"
	}
	return "Week of " + StartOfWeek(today, offset).Format("Jan 2")
}

// DaysInMonth returns the number of days in the given month (0-based).
func DaysInMonth(year, month int) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthGrid lays out a calendar month as a flat 7-column grid: one zero cell
// per leading blank (weekday of day 1, Sunday first), then cells 1..N.
func MonthGrid(year, month int) []int {
	first := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)
	lead := int(first.Weekday())
	days := DaysInMonth(year, month)
	cells := make([]int, 0, lead+days)
	for i := 0; i < lead; i++ {
		cells = append(cells, 0)
	}
	for d := 1; d <= days; d++ {
		cells = append(cells, d)
	}
	return cells
}

// PrevMonth steps the selected month back, rolling across year boundaries.
func PrevMonth(year, month int) (int, int) {
	if month == 0 {
		return year - 1, 11
	}
	return year, month - 1
}

// NextMonth steps the selected month forward, rolling across year boundaries.
func NextMonth(year, month int) (int, int) {
	if month == 11 {
		return year + 1, 0
	}
	return year, month + 1
}

// DaysBetween returns b minus a in whole calendar days, ignoring time of day
// and DST transitions.
func DaysBetween(a, b time.Time) int {
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au) / (24 * time.Hour))
}

// DaysUntil returns the calendar-day distance from today to an ISO date
// string. The second result is false when the date does not parse.
func DaysUntil(today time.Time, date string) (int, bool) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return 0, false
	}
	return DaysBetween(Normalize(today), d), true
}
