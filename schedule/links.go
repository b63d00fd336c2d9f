package schedule

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"schoolcal-api/domain"
)

const calendarRenderBase = "https://calendar.google.com/calendar/render"

var clockRe = regexp.MustCompile(`(?i)^\s*(\d{1,2}):(\d{2})\s*(AM|PM)\s*$`)

// ParseClock converts a 12-hour "H:MM AM/PM" clock string to 24-hour parts.
// 12 PM stays 12, 12 AM becomes 0, other PM hours gain 12.
func ParseClock(s string) (hour, minute int, ok bool) {
	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	if hour < 1 || hour > 12 || minute > 59 {
		return 0, 0, false
	}
	pm := strings.EqualFold(m[3], "PM")
	if pm && hour != 12 {
		hour += 12
	}
	if !pm && hour == 12 {
		hour = 0
	}
	return hour, minute, true
}

// CalendarLink builds a Google Calendar add-event URL. Events with a
// parseable time become a one-hour timed entry; everything else becomes an
// all-day entry spanning from the date to the next day, per Google's
// exclusive-end convention. Events without a valid date get no link.
func CalendarLink(e domain.Event) string {
	start, err := time.Parse(DateLayout, e.Date)
	if err != nil {
		return ""
	}

	v := url.Values{}
	v.Set("action", "TEMPLATE")
	v.Set("text", e.Name)
	if e.Description != "" {
		v.Set("details", e.Description)
	}
	if e.Location != "" {
		v.Set("location", e.Location)
	}

	if hour, minute, ok := ParseClock(e.Time); ok {
		st := start.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
		en := st.Add(time.Hour)
		v.Set("dates", st.Format("20060102T150405")+"/"+en.Format("20060102T150405"))
	} else {
		v.Set("dates", start.Format("20060102")+"/"+start.AddDate(0, 0, 1).Format("20060102"))
	}

	return calendarRenderBase + "?" + v.Encode()
}
