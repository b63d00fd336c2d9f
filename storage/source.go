package storage

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"schoolcal-api/domain"
)

// EventSource yields the full event list from some backing feed.
type EventSource interface {
	FetchEvents(ctx context.Context) ([]domain.Event, error)
}

// Fallback chains a primary source with a static fallback. A primary
// failure is not user-visible; when both fail the combined error is
// surfaced as-is and the caller renders a terminal error state. There are
// no retries beyond what the sources themselves do.
type Fallback struct {
	primary   EventSource
	secondary EventSource
	logger    *log.Logger
}

// NewFallback builds the primary-then-secondary chain.
func NewFallback(primary, secondary EventSource, logger *log.Logger) *Fallback {
	if primary == nil || secondary == nil {
		panic("storage.NewFallback: both sources are required")
	}
	return &Fallback{primary: primary, secondary: secondary, logger: logger}
}

func (f *Fallback) FetchEvents(ctx context.Context) ([]domain.Event, error) {
	events, primaryErr := f.primary.FetchEvents(ctx)
	if primaryErr == nil {
		return events, nil
	}
	if f.logger != nil {
		f.logger.WithError(primaryErr).Debug("primary event source failed, using fallback")
	}
	events, fallbackErr := f.secondary.FetchEvents(ctx)
	if fallbackErr == nil {
		return events, nil
	}
	return nil, fmt.Errorf("primary source: %v; fallback source: %w", primaryErr, fallbackErr)
}
