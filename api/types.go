package api

import (
	"context"

	"schoolcal-api/domain"
)

// EventSource abstracts the event feed for handlers.
type EventSource interface {
	FetchEvents(ctx context.Context) ([]domain.Event, error)
}

// TodoStore is the persisted reminder list.
type TodoStore interface {
	Load(ctx context.Context) ([]domain.Todo, error)
	Add(ctx context.Context, todo domain.Todo) (bool, error)
	Remove(ctx context.Context, index int) (bool, error)
}

// Assistant answers natural-language questions about the calendar.
type Assistant interface {
	Ask(ctx context.Context, question string) (string, error)
}

// Refresher requests a re-run of the ingestion pipeline.
type Refresher interface {
	EnqueueRefresh(ctx context.Context, source string) error
}
