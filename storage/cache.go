package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"schoolcal-api/domain"
)

const eventsCacheKey = "schoolcal:events"

// Cache wraps an EventSource with Redis-backed read caching so the Azure
// table is not hit on every dashboard recomputation.
type Cache struct {
	base  EventSource
	redis *redis.Client
	ttl   time.Duration
}

// NewCache creates a caching wrapper using the provided Redis client and TTL.
// A nil client or zero TTL disables caching while keeping the same shape.
func NewCache(base EventSource, client *redis.Client, ttl time.Duration) *Cache {
	if base == nil {
		panic("storage.NewCache: base source is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Cache{base: base, redis: client, ttl: ttl}
}

func (c *Cache) FetchEvents(ctx context.Context) ([]domain.Event, error) {
	if events, ok := c.loadFromCache(ctx); ok {
		return events, nil
	}

	events, err := c.base.FetchEvents(ctx)
	if err != nil {
		return nil, err
	}

	c.store(ctx, events)
	return events, nil
}

// Evict drops the cached event list, forcing the next fetch to hit the
// backing source. Called when a refresh is requested.
func (c *Cache) Evict(ctx context.Context) {
	if c.redis == nil {
		return
	}
	_ = c.redis.Del(ctx, eventsCacheKey).Err()
}

func (c *Cache) loadFromCache(ctx context.Context) ([]domain.Event, bool) {
	if c.redis == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, eventsCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			// On redis errors fall back to the backing source without failing.
			_ = c.redis.Del(ctx, eventsCacheKey).Err()
		}
		return nil, false
	}
	var events []domain.Event
	if err := json.Unmarshal(data, &events); err != nil {
		_ = c.redis.Del(ctx, eventsCacheKey).Err()
		return nil, false
	}
	return events, true
}

func (c *Cache) store(ctx context.Context, events []domain.Event) {
	if c.redis == nil || c.ttl == 0 {
		return
	}
	data, err := json.Marshal(events)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, eventsCacheKey, data, c.ttl).Err()
}
