package api

import (
	"time"

	"schoolcal-api/domain"
	"schoolcal-api/schedule"
)

// eventView is an event enriched with everything the dashboard needs to
// render it: icon, display date, resolved links, nudge and badge.
type eventView struct {
	domain.Event
	Icon         string          `json:"icon"`
	DisplayDate  string          `json:"displayDate"`
	DetailURL    string          `json:"detailUrl,omitempty"`
	CalendarLink string          `json:"calendarLink,omitempty"`
	Nudge        string          `json:"nudge,omitempty"`
	Badge        *schedule.Badge `json:"badge,omitempty"`
	Period       string          `json:"period,omitempty"`
}

func newEventView(e domain.Event, today time.Time) eventView {
	v := eventView{
		Event:        e,
		Icon:         schedule.EventIcon(e.Name),
		DisplayDate:  schedule.DisplayDate(e, today),
		DetailURL:    schedule.DetailURL(e),
		CalendarLink: schedule.CalendarLink(e),
	}
	if days, ok := schedule.DaysUntil(today, e.Date); ok {
		v.Nudge = schedule.Nudge(e, days)
		v.Badge = schedule.BadgeFor(days, e.Priority)
		if d, err := time.Parse(schedule.DateLayout, e.Date); err == nil {
			v.Period = schedule.PeriodLabel(d, today)
		}
	}
	return v
}

func newEventViews(events []domain.Event, today time.Time) []eventView {
	out := make([]eventView, 0, len(events))
	for _, e := range events {
		out = append(out, newEventView(e, today))
	}
	return out
}

// menuView is one meal slot on the day detail panel.
type menuView struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
}

const noMenuText = "No school or menu not available"

func newMenuView(e *domain.Event, menuType string) menuView {
	if e == nil {
		return menuView{Text: noMenuText, Icon: schedule.FoodIcon("", menuType)}
	}
	text := e.Description
	if text == "" {
		text = "No menu"
	}
	return menuView{Text: text, Icon: schedule.FoodIcon(e.Description, menuType)}
}

// daySummary is one cell of the Mon..Fri week strip.
type daySummary struct {
	Date       string `json:"date"`
	Day        string `json:"day"`
	DayOfMonth int    `json:"dayOfMonth"`
	IsToday    bool   `json:"isToday"`
	HasAgenda  bool   `json:"hasAgenda"`
	Lunch      string `json:"lunch,omitempty"`
}

// dayDetail is the expanded panel for the selected day.
type dayDetail struct {
	Date      string      `json:"date"`
	Display   string      `json:"display"`
	Breakfast menuView    `json:"breakfast"`
	Lunch     menuView    `json:"lunch"`
	Agenda    []eventView `json:"agenda"`
}

type statChips struct {
	NextEventChip string `json:"nextEventChip"`
	UpcomingCount int    `json:"upcomingCount"`
}

type dashboardResponse struct {
	Today        string           `json:"today"`
	TodayDisplay string           `json:"todayDisplay"`
	Filter       string           `json:"filter"`
	WeekOffset   int              `json:"weekOffset"`
	WeekLabel    string           `json:"weekLabel"`
	Week         []daySummary     `json:"week"`
	SelectedDay  dayDetail        `json:"selectedDay"`
	Upcoming     []eventView      `json:"upcoming"`
	ActionItems  []actionItemView `json:"actionItems"`
	Stats        statChips        `json:"stats"`
}

type actionItemView struct {
	eventView
	DaysUntil int `json:"daysUntil"`
}

type monthRef struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

type calendarResponse struct {
	Year      int      `json:"year"`
	Month     int      `json:"month"`
	MonthName string   `json:"monthName"`
	Cells     []int    `json:"cells"`
	Prev      monthRef `json:"prev"`
	Next      monthRef `json:"next"`
}
