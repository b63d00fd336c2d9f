package api

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const refreshThrottlePrefix = "schoolcal:refresh:"

// ThrottledRefresher wraps a Refresher with a Redis-backed guard so repeated
// refresh clicks do not flood the ingestion queue. The first request per
// source within the TTL is forwarded; the rest are silently absorbed, which
// keeps the endpoint idempotent from the caller's point of view.
type ThrottledRefresher struct {
	inner  Refresher
	client *redis.Client
	ttl    time.Duration
}

// NewThrottledRefresher creates the guard around the given Refresher. A nil
// client disables throttling and forwards every request.
func NewThrottledRefresher(inner Refresher, client *redis.Client, ttl time.Duration) *ThrottledRefresher {
	return &ThrottledRefresher{inner: inner, client: client, ttl: ttl}
}

func (r *ThrottledRefresher) key(source string) string {
	if source == "" {
		source = "all"
	}
	return refreshThrottlePrefix + source
}

// EnqueueRefresh forwards the request unless an identical one was forwarded
// within the TTL window.
func (r *ThrottledRefresher) EnqueueRefresh(ctx context.Context, source string) error {
	if r.client == nil || r.ttl <= 0 {
		return r.inner.EnqueueRefresh(ctx, source)
	}
	fresh, err := r.client.SetNX(ctx, r.key(source), 1, r.ttl).Result()
	if err != nil {
		// A broken guard must not block refreshes.
		return r.inner.EnqueueRefresh(ctx, source)
	}
	if !fresh {
		return nil
	}
	if err := r.inner.EnqueueRefresh(ctx, source); err != nil {
		// Free the slot so the caller may retry immediately.
		_ = r.client.Del(ctx, r.key(source)).Err()
		return err
	}
	return nil
}
