package api

import (
	"net/http"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/labstack/echo/v4"

	"schoolcal-api/schedule"
)

const icsProductID = "-//schoolcal//calendar//EN"

// getEventsICS exports the agenda events as an iCalendar feed so the family
// can subscribe from their own calendar apps. Menu entries are skipped;
// events with a parseable time become one-hour entries, the rest all-day.
func getEventsICS(source EventSource) echo.HandlerFunc {
	return func(c echo.Context) error {
		events, err := source.FetchEvents(c.Request().Context())
		if err != nil {
			c.Logger().Error(err)
			return c.String(http.StatusServiceUnavailable, err.Error())
		}

		cal := ical.NewCalendar()
		cal.SetMethod(ical.MethodPublish)
		cal.SetProductId(icsProductID)

		now := time.Now().UTC()
		for _, e := range events {
			if !e.IsAgenda() {
				continue
			}
			start, parseErr := time.Parse(schedule.DateLayout, e.Date)
			if parseErr != nil {
				continue
			}

			ev := cal.AddEvent(e.Date + "-" + e.Name + "@schoolcal")
			ev.SetDtStampTime(now)
			ev.SetSummary(e.Name)
			if e.Description != "" {
				ev.SetDescription(e.Description)
			}
			if e.Location != "" {
				ev.SetLocation(e.Location)
			}
			if u := schedule.DetailURL(e); u != "" {
				ev.SetURL(u)
			}

			if hour, minute, ok := schedule.ParseClock(e.Time); ok {
				st := start.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
				ev.SetStartAt(st)
				ev.SetEndAt(st.Add(time.Hour))
				continue
			}
			end := start.AddDate(0, 0, 1)
			if e.EndDate != "" && e.EndDate != e.Date {
				if parsedEnd, endErr := time.Parse(schedule.DateLayout, e.EndDate); endErr == nil {
					end = parsedEnd.AddDate(0, 0, 1)
				}
			}
			ev.SetAllDayStartAt(start)
			ev.SetAllDayEndAt(end)
		}

		return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(cal.Serialize()))
	}
}
