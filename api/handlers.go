package api

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"schoolcal-api/domain"
	"schoolcal-api/schedule"
)

const postBodyMaxSize = 64 * 1024 // 64 KiB

// assistantFallback is the answer-shaped message shown when the assistant
// service cannot be reached. The rest of the dashboard stays usable and the
// user may simply ask again.
const assistantFallback = "Sorry, I couldn't reach the assistant right now. Please try again in a moment."

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, source EventSource, todos TodoStore, assist Assistant, refresher Refresher, logger *log.Logger) {
	e.GET("/api/events", getEvents(source))
	e.GET("/api/dashboard", getDashboard(source, logger))
	e.GET("/api/calendar", getCalendar())
	e.GET("/api/events.ics", getEventsICS(source))
	e.POST("/api/ask", postAsk(assist, logger))
	e.GET("/api/todos", getTodos(todos))
	e.POST("/api/todos", postTodo(todos))
	e.DELETE("/api/todos/:index", deleteTodo(todos))
	e.POST("/api/refresh", postRefresh(refresher))
	e.GET("/healthz", healthz())
}

func healthz() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
}

func getEvents(source EventSource) echo.HandlerFunc {
	return func(c echo.Context) error {
		events, err := source.FetchEvents(c.Request().Context())
		if err != nil {
			c.Logger().Error(err)
			return c.String(http.StatusServiceUnavailable, err.Error())
		}
		if events == nil {
			events = []domain.Event{}
		}
		return c.JSON(http.StatusOK, events)
	}
}

// refDate resolves the reference "today" for a request. A date query param
// overrides the clock so derived views stay reproducible.
func refDate(c echo.Context) (time.Time, error) {
	param := strings.TrimSpace(c.QueryParam("date"))
	if param == "" {
		return schedule.Normalize(time.Now()), nil
	}
	d, err := time.Parse(schedule.DateLayout, param)
	if err != nil {
		return time.Time{}, err
	}
	return d, nil
}

func getDashboard(source EventSource, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		ctx := c.Request().Context()
		metrics, spanCtx := newDashboardRequestMetrics(ctx, logger)
		if spanCtx != nil {
			c.SetRequest(c.Request().WithContext(spanCtx))
			ctx = spanCtx
		}
		defer func() {
			metrics.Log(c.Response().Status, err)
		}()

		today, dateErr := refDate(c)
		if dateErr != nil {
			metrics.SetErrorStage("invalid_date")
			err = c.String(http.StatusBadRequest, "invalid date")
			return err
		}

		weekOffset := 0
		if v := strings.TrimSpace(c.QueryParam("weekOffset")); v != "" {
			weekOffset, err = strconv.Atoi(v)
			if err != nil {
				metrics.SetErrorStage("invalid_week_offset")
				err = c.String(http.StatusBadRequest, "invalid week offset")
				return err
			}
		}
		metrics.SetWeekOffset(weekOffset)

		filter := c.QueryParam("filter")
		if filter == "" {
			filter = schedule.FilterAll
		}
		if !schedule.ValidFilter(filter) {
			metrics.SetErrorStage("invalid_filter")
			err = c.String(http.StatusBadRequest, "invalid filter")
			return err
		}
		metrics.SetFilter(filter)

		fetchStart := time.Now()
		events, fetchErr := source.FetchEvents(ctx)
		metrics.ObserveFetch(time.Since(fetchStart))
		if fetchErr != nil {
			metrics.SetErrorStage("feed")
			c.Logger().Error(fetchErr)
			err = c.String(http.StatusServiceUnavailable, fetchErr.Error())
			return err
		}
		metrics.SetEventsTotal(len(events))

		deriveStart := time.Now()
		monday := schedule.StartOfWeek(today, weekOffset)
		weekDates := schedule.WeekDates(monday)

		selected := today
		if v := strings.TrimSpace(c.QueryParam("day")); v != "" && v != "today" {
			idx, convErr := strconv.Atoi(v)
			if convErr != nil || idx < 0 || idx > 4 {
				metrics.SetErrorStage("invalid_day")
				err = c.String(http.StatusBadRequest, "invalid day")
				return err
			}
			selected = weekDates[idx]
		}

		week := make([]daySummary, 0, len(weekDates))
		for i, d := range weekDates {
			detail := schedule.DetailForDay(events, d, schedule.FilterAll)
			summary := daySummary{
				Date:       d.Format(schedule.DateLayout),
				Day:        schedule.DayNames[i],
				DayOfMonth: d.Day(),
				IsToday:    d.Equal(schedule.Normalize(today)),
				HasAgenda:  len(detail.Agenda) > 0,
			}
			if detail.Lunch != nil {
				summary.Lunch = detail.Lunch.Description
			}
			week = append(week, summary)
		}

		detail := schedule.DetailForDay(events, selected, filter)
		selectedDay := dayDetail{
			Date:      selected.Format(schedule.DateLayout),
			Display:   selected.Format("Monday, January 2"),
			Breakfast: newMenuView(detail.Breakfast, domain.TypeBreakfastMenu),
			Lunch:     newMenuView(detail.Lunch, domain.TypeLunchMenu),
			Agenda:    newEventViews(detail.Agenda, today),
		}

		upcoming := newEventViews(schedule.Upcoming(events, today, filter), today)

		items := schedule.ActionItems(events, today)
		actionItems := make([]actionItemView, 0, len(items))
		for _, it := range items {
			actionItems = append(actionItems, actionItemView{
				eventView: newEventView(it.Event, today),
				DaysUntil: it.DaysUntil,
			})
		}

		stats := statChips{
			NextEventChip: nextEventChip(events, today),
			UpcomingCount: schedule.UpcomingCount(events, today),
		}
		metrics.ObserveDerive(time.Since(deriveStart))
		metrics.SetUpcomingReturned(len(upcoming))
		metrics.SetActionItems(len(actionItems))

		resp := dashboardResponse{
			Today:        schedule.Normalize(today).Format(schedule.DateLayout),
			TodayDisplay: today.Format("Monday, January 2, 2006"),
			Filter:       filter,
			WeekOffset:   weekOffset,
			WeekLabel:    schedule.WeekLabel(today, weekOffset),
			Week:         week,
			SelectedDay:  selectedDay,
			Upcoming:     upcoming,
			ActionItems:  actionItems,
			Stats:        stats,
		}

		encodeStart := time.Now()
		err = c.JSON(http.StatusOK, resp)
		metrics.ObserveEncode(time.Since(encodeStart))
		if err != nil {
			metrics.SetErrorStage("encode_response")
		}
		return err
	}
}

func nextEventChip(events []domain.Event, today time.Time) string {
	next := schedule.NextEvent(events, today)
	if next == nil {
		return "No upcoming events"
	}
	days, ok := schedule.DaysUntil(today, next.Date)
	if !ok {
		return "No upcoming events"
	}
	switch days {
	case 0:
		return "Next event is today"
	case 1:
		return "1 day to next event"
	}
	return strconv.Itoa(days) + " days to next event"
}

func getCalendar() echo.HandlerFunc {
	return func(c echo.Context) error {
		now := time.Now()
		year := now.Year()
		month := int(now.Month()) - 1
		if v := strings.TrimSpace(c.QueryParam("year")); v != "" {
			y, err := strconv.Atoi(v)
			if err != nil || y < 1 {
				return c.String(http.StatusBadRequest, "invalid year")
			}
			year = y
		}
		if v := strings.TrimSpace(c.QueryParam("month")); v != "" {
			m, err := strconv.Atoi(v)
			if err != nil || m < 0 || m > 11 {
				return c.String(http.StatusBadRequest, "invalid month")
			}
			month = m
		}

		prevYear, prevMonth := schedule.PrevMonth(year, month)
		nextYear, nextMonth := schedule.NextMonth(year, month)
		resp := calendarResponse{
			Year:      year,
			Month:     month,
			MonthName: time.Month(month + 1).String(),
			Cells:     schedule.MonthGrid(year, month),
			Prev:      monthRef{Year: prevYear, Month: prevMonth},
			Next:      monthRef{Year: nextYear, Month: nextMonth},
		}
		return c.JSON(http.StatusOK, resp)
	}
}

type askBody struct {
	Question string `json:"question"`
}

type answerBody struct {
	Answer string `json:"answer"`
}

func postAsk(assist Assistant, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		lr := io.LimitReader(c.Request().Body, postBodyMaxSize)
		dec := sonic.ConfigStd.NewDecoder(lr)

		var body askBody
		if err := dec.Decode(&body); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		question := strings.TrimSpace(body.Question)
		if question == "" {
			return c.String(http.StatusBadRequest, "no question provided")
		}

		answer, err := assist.Ask(c.Request().Context(), question)
		if err != nil {
			if logger != nil {
				logger.WithError(err).Warn("assistant call failed")
			}
			return c.JSON(http.StatusOK, answerBody{Answer: assistantFallback})
		}
		return c.JSON(http.StatusOK, answerBody{Answer: answer})
	}
}

func getTodos(todos TodoStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := todos.Load(c.Request().Context())
		if err != nil {
			c.Logger().Error(err)
			return c.String(http.StatusInternalServerError, err.Error())
		}
		if list == nil {
			list = []domain.Todo{}
		}
		return c.JSON(http.StatusOK, list)
	}
}

type addTodoResponse struct {
	Added bool        `json:"added"`
	Todo  domain.Todo `json:"todo"`
}

func postTodo(todos TodoStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		lr := io.LimitReader(c.Request().Body, postBodyMaxSize)
		dec := sonic.ConfigStd.NewDecoder(lr)
		dec.DisallowUnknownFields()

		var todo domain.Todo
		if err := dec.Decode(&todo); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		if strings.TrimSpace(todo.Name) == "" {
			return c.String(http.StatusBadRequest, "missing name")
		}
		todo.ID = uuid.NewString()
		todo.AddedAt = time.Now().UTC().Format(time.RFC3339)

		added, err := todos.Add(c.Request().Context(), todo)
		if err != nil {
			c.Logger().Error(err)
			return c.String(http.StatusInternalServerError, err.Error())
		}
		status := http.StatusCreated
		if !added {
			// duplicate (name, date): adding again is a no-op
			status = http.StatusOK
		}
		return c.JSON(status, addTodoResponse{Added: added, Todo: todo})
	}
}

func deleteTodo(todos TodoStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		index, err := strconv.Atoi(c.Param("index"))
		if err != nil || index < 0 {
			return c.String(http.StatusBadRequest, "invalid index")
		}
		removed, err := todos.Remove(c.Request().Context(), index)
		if err != nil {
			c.Logger().Error(err)
			return c.String(http.StatusInternalServerError, err.Error())
		}
		if !removed {
			return c.String(http.StatusNotFound, "no todo at index")
		}
		return c.NoContent(http.StatusNoContent)
	}
}

type refreshBody struct {
	Source string `json:"source,omitempty"`
}

func postRefresh(refresher Refresher) echo.HandlerFunc {
	return func(c echo.Context) error {
		if refresher == nil {
			return c.String(http.StatusServiceUnavailable, "refresh not configured")
		}
		var body refreshBody
		if c.Request().ContentLength != 0 {
			lr := io.LimitReader(c.Request().Body, postBodyMaxSize)
			if err := sonic.ConfigStd.NewDecoder(lr).Decode(&body); err != nil {
				return c.String(http.StatusBadRequest, "invalid body")
			}
		}
		if err := refresher.EnqueueRefresh(c.Request().Context(), body.Source); err != nil {
			c.Logger().Error(err)
			return c.String(http.StatusInternalServerError, "failed to enqueue refresh")
		}
		return c.NoContent(http.StatusAccepted)
	}
}
