package api

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "schoolcal-api"

type dashboardRequestMetrics struct {
	logger           *log.Logger
	span             trace.Span
	start            time.Time
	fetchDuration    time.Duration
	deriveDuration   time.Duration
	encodeDuration   time.Duration
	filter           string
	weekOffset       int
	eventsTotal      int
	upcomingReturned int
	actionItems      int
	errorStage       string
}

// newDashboardRequestMetrics opens a span for the request and returns the
// metrics collector plus the span-carrying context for downstream calls.
func newDashboardRequestMetrics(ctx context.Context, logger *log.Logger) (*dashboardRequestMetrics, context.Context) {
	spanCtx, span := otel.Tracer(tracerName).Start(ctx, "dashboard.request")
	m := &dashboardRequestMetrics{
		logger: logger,
		span:   span,
		start:  time.Now(),
	}
	return m, spanCtx
}

func (m *dashboardRequestMetrics) ObserveFetch(duration time.Duration) {
	if duration <= 0 {
		return
	}
	m.fetchDuration = duration
}

func (m *dashboardRequestMetrics) ObserveDerive(duration time.Duration) {
	if duration <= 0 {
		return
	}
	m.deriveDuration = duration
}

func (m *dashboardRequestMetrics) ObserveEncode(duration time.Duration) {
	if duration <= 0 {
		return
	}
	m.encodeDuration = duration
}

func (m *dashboardRequestMetrics) SetFilter(filter string) {
	m.filter = filter
}

func (m *dashboardRequestMetrics) SetWeekOffset(offset int) {
	m.weekOffset = offset
}

func (m *dashboardRequestMetrics) SetEventsTotal(count int) {
	if count < 0 {
		count = 0
	}
	m.eventsTotal = count
}

func (m *dashboardRequestMetrics) SetUpcomingReturned(count int) {
	if count < 0 {
		count = 0
	}
	m.upcomingReturned = count
}

func (m *dashboardRequestMetrics) SetActionItems(count int) {
	if count < 0 {
		count = 0
	}
	m.actionItems = count
}

func (m *dashboardRequestMetrics) SetErrorStage(stage string) {
	if stage == "" {
		return
	}
	m.errorStage = stage
}

func (m *dashboardRequestMetrics) Log(status int, err error) {
	if m == nil {
		return
	}

	if m.span != nil {
		m.span.SetAttributes(
			attribute.Int("http.status_code", status),
			attribute.String("dashboard.filter", m.filter),
			attribute.Int("dashboard.week_offset", m.weekOffset),
			attribute.Int("dashboard.events_total", m.eventsTotal),
		)
		if err != nil {
			m.span.SetStatus(codes.Error, err.Error())
		}
		m.span.End()
	}

	if m.logger == nil {
		return
	}

	fields := log.Fields{
		"route":             "/api/dashboard",
		"status":            status,
		"total_ms":          durationToMillis(time.Since(m.start)),
		"filter":            m.filter,
		"week_offset":       m.weekOffset,
		"events_total":      m.eventsTotal,
		"upcoming_returned": m.upcomingReturned,
		"action_items":      m.actionItems,
	}

	if m.fetchDuration > 0 {
		fields["fetch_ms"] = durationToMillis(m.fetchDuration)
	}
	if m.deriveDuration > 0 {
		fields["derive_ms"] = durationToMillis(m.deriveDuration)
	}
	if m.encodeDuration > 0 {
		fields["encode_ms"] = durationToMillis(m.encodeDuration)
	}
	if m.errorStage != "" {
		fields["error_stage"] = m.errorStage
	}
	if err != nil {
		fields["error"] = err.Error()
	}

	m.logger.WithFields(fields).Info("dashboard.request.metrics")
}

func durationToMillis(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}
