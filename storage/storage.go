package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azqueue"

	"schoolcal-api/domain"
)

// Storage reads the event table populated by the ingestion pipeline and
// enqueues refresh commands for it.
type Storage struct {
	eventsTable  *aztables.Client
	refreshQueue *azqueue.QueueClient
}

// New creates a Storage instance from the given connection string.
func New(connStr, eventsTable, refreshQueue string) (*Storage, error) {
	tablesClientOptions := aztables.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries:    3,
				TryTimeout:    time.Minute * 3,
				RetryDelay:    time.Second * 1,
				MaxRetryDelay: time.Second * 15,
				StatusCodes:   []int{408, 429, 500, 502, 503, 504},
			},
		},
	}
	svc, err := aztables.NewServiceClientFromConnectionString(connStr, &tablesClientOptions)
	if err != nil {
		return nil, err
	}
	et := svc.NewClient(eventsTable)
	queueClientOptions := azqueue.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries:    5,
				TryTimeout:    time.Minute * 5,
				RetryDelay:    time.Second * 1,
				MaxRetryDelay: time.Second * 60,
				StatusCodes:   []int{408, 429, 500, 502, 503, 504},
			},
		},
	}
	rq, err := azqueue.NewQueueClientFromConnectionString(connStr, refreshQueue, &queueClientOptions)
	if err != nil {
		return nil, err
	}
	return &Storage{eventsTable: et, refreshQueue: rq}, nil
}

// eventEntity mirrors how the ingestion pipeline stores events: one entity
// per event, partitioned by source, with the event fields flattened.
type eventEntity struct {
	aztables.Entity
	Name        string `json:"Name"`
	Date        string `json:"Date"`
	EndDate     string `json:"EndDate"`
	DateDisplay string `json:"DateDisplay"`
	Time        string `json:"Time"`
	Type        string `json:"Type"`
	Description string `json:"Description"`
	Location    string `json:"Location"`
	URL         string `json:"URL"`
	ImageURL    string `json:"ImageURL"`
	Source      string `json:"Source"`
	Priority    string `json:"Priority"`
}

// FetchEvents retrieves the full event list across all ingestion sources.
func (s *Storage) FetchEvents(ctx context.Context) ([]domain.Event, error) {
	pager := s.eventsTable.NewListEntitiesPager(nil)
	events := []domain.Event{}
	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, raw := range resp.Entities {
			event, err := decodeEventEntity(raw)
			if err != nil {
				return nil, err
			}
			events = append(events, event)
		}
	}
	return events, nil
}

func decodeEventEntity(data []byte) (domain.Event, error) {
	var ent eventEntity
	if err := json.Unmarshal(data, &ent); err != nil {
		return domain.Event{}, err
	}
	return domain.Event{
		Name:        ent.Name,
		Date:        ent.Date,
		EndDate:     ent.EndDate,
		DateDisplay: ent.DateDisplay,
		Time:        ent.Time,
		Type:        ent.Type,
		Description: ent.Description,
		Location:    ent.Location,
		URL:         ent.URL,
		ImageURL:    ent.ImageURL,
		Source:      ent.Source,
		Priority:    ent.Priority,
	}, nil
}

type refreshCommand struct {
	Source      string `json:"source,omitempty"`
	RequestedAt string `json:"requestedAt"`
}

// EnqueueRefresh asks the ingestion pipeline to re-scrape. An empty source
// requests a full refresh.
func (s *Storage) EnqueueRefresh(ctx context.Context, source string) error {
	cmd := refreshCommand{Source: source, RequestedAt: time.Now().UTC().Format(time.RFC3339)}
	data, err := json.Marshal(cmd)
	if err != nil {
		return err
	}
	_, err = s.refreshQueue.EnqueueMessage(ctx, string(data), nil)
	return err
}
