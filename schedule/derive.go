package schedule

import (
	"sort"
	"strings"
	"time"

	"schoolcal-api/domain"
)

// Filter values accepted by the dashboard views.
const (
	FilterAll      = "all"
	FilterEvents   = "events"
	FilterMeals    = "meals"
	FilterNoSchool = "noschool"
)

// ValidFilter reports whether f is a recognized filter name.
func ValidFilter(f string) bool {
	switch f {
	case FilterAll, FilterEvents, FilterMeals, FilterNoSchool:
		return true
	}
	return false
}

const (
	upcomingLimit    = 12
	actionItemLimit  = 5
	actionWindowDays = 14
)

var noSchoolKeywords = []string{"no school", "recess", "holiday"}

// actionKeywords are verb-like substrings in a description that imply a
// parent must do something before the event.
var actionKeywords = []string{
	"bring", "send", "wear", "prepare", "buy", "make", "order",
	"sign up", "register", "rsvp", "submit", "return", "pack", "label",
}

func isNoSchool(name string) bool {
	n := strings.ToLower(name)
	for _, kw := range noSchoolKeywords {
		if strings.Contains(n, kw) {
			return true
		}
	}
	return false
}

func hasActionKeyword(description string) bool {
	d := strings.ToLower(description)
	for _, kw := range actionKeywords {
		if strings.Contains(d, kw) {
			return true
		}
	}
	return false
}

// EventsOn returns the events scheduled on the given calendar date. Events
// with missing or malformed dates never match.
func EventsOn(events []domain.Event, date time.Time) []domain.Event {
	key := date.Format(DateLayout)
	var out []domain.Event
	for _, e := range events {
		if e.Date == key {
			out = append(out, e)
		}
	}
	return out
}

// DayDetail is the expanded view of one calendar day: at most one breakfast
// and one lunch menu, plus the agenda items surviving the active filter.
type DayDetail struct {
	Breakfast *domain.Event
	Lunch     *domain.Event
	Agenda    []domain.Event
}

// DetailForDay splits a date's events into menus and agenda. Under the
// noschool filter only agenda items with no-school names survive; under
// meals the agenda is suppressed entirely.
func DetailForDay(events []domain.Event, date time.Time, filter string) DayDetail {
	var d DayDetail
	for _, e := range EventsOn(events, date) {
		e := e
		switch {
		case e.Type == domain.TypeBreakfastMenu && d.Breakfast == nil:
			d.Breakfast = &e
		case e.Type == domain.TypeLunchMenu && d.Lunch == nil:
			d.Lunch = &e
		case e.IsAgenda():
			switch filter {
			case FilterMeals:
				// agenda suppressed
			case FilterNoSchool:
				if isNoSchool(e.Name) {
					d.Agenda = append(d.Agenda, e)
				}
			default:
				d.Agenda = append(d.Agenda, e)
			}
		}
	}
	return d
}

// Upcoming derives the ordered timeline of future events. The all and
// events filters both restrict to agenda types; meals restricts to menus;
// noschool matches by name keywords regardless of type. Events are ordered
// by date string and capped at twelve.
func Upcoming(events []domain.Event, today time.Time, filter string) []domain.Event {
	todayStr := Normalize(today).Format(DateLayout)
	var out []domain.Event
	for _, e := range events {
		if e.Date == "" || e.Date < todayStr {
			continue
		}
		switch filter {
		case FilterMeals:
			if !e.IsMenu() {
				continue
			}
		case FilterNoSchool:
			if !isNoSchool(e.Name) {
				continue
			}
		default: // all, events
			if !e.IsAgenda() {
				continue
			}
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	if len(out) > upcomingLimit {
		out = out[:upcomingLimit]
	}
	return out
}

// ActionItem is an upcoming event whose description asks the parent to do
// something, annotated with its calendar-day distance from today.
type ActionItem struct {
	domain.Event
	DaysUntil int `json:"daysUntil"`
}

// ActionItems scans the next two weeks of agenda events for action keywords
// in the description. Results are ordered by date and capped at five.
func ActionItems(events []domain.Event, today time.Time) []ActionItem {
	today = Normalize(today)
	var out []ActionItem
	for _, e := range events {
		if !e.IsAgenda() || !hasActionKeyword(e.Description) {
			continue
		}
		days, ok := DaysUntil(today, e.Date)
		if !ok || days < 0 || days > actionWindowDays {
			continue
		}
		out = append(out, ActionItem{Event: e, DaysUntil: days})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	if len(out) > actionItemLimit {
		out = out[:actionItemLimit]
	}
	return out
}

// NextEvent returns the earliest agenda event on or after today, or nil.
func NextEvent(events []domain.Event, today time.Time) *domain.Event {
	todayStr := Normalize(today).Format(DateLayout)
	var next *domain.Event
	for i := range events {
		e := &events[i]
		if !e.IsAgenda() || e.Date == "" || e.Date < todayStr {
			continue
		}
		if next == nil || e.Date < next.Date {
			next = e
		}
	}
	return next
}

// UpcomingCount counts agenda events dated today or later.
func UpcomingCount(events []domain.Event, today time.Time) int {
	todayStr := Normalize(today).Format(DateLayout)
	n := 0
	for _, e := range events {
		if e.IsAgenda() && e.Date != "" && e.Date >= todayStr {
			n++
		}
	}
	return n
}

// PeriodLabel groups a timeline entry by distance from today: the calendar
// week containing today, the week after, or the event's month name. Past
// dates yield the empty string.
func PeriodLabel(eventDate, today time.Time) string {
	today = Normalize(today)
	eventDate = Normalize(eventDate)
	if DaysBetween(today, eventDate) < 0 {
		return ""
	}
	back := int(today.Weekday()) - 1
	if today.Weekday() == time.Sunday {
		back = 6
	}
	endOfWeek := today.AddDate(0, 0, -back+6)
	if !eventDate.After(endOfWeek) {
		return "This Week"
	}
	if !eventDate.After(endOfWeek.AddDate(0, 0, 7)) {
		return "Next Week"
	}
	return eventDate.Month().String()
}
