package api

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newThrottleRedis(t *testing.T) *redis.Client {
	t.Helper()
	m, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(m.Close)

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() {
		if cerr := client.Close(); cerr != nil {
			t.Logf("redis close: %v", cerr)
		}
	})
	return client
}

func TestThrottledRefresherForwardsOncePerWindow(t *testing.T) {
	client := newThrottleRedis(t)
	inner := &mockRefresher{}
	throttled := NewThrottledRefresher(inner, client, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := throttled.EnqueueRefresh(ctx, "pta_website"); err != nil {
			t.Fatalf("enqueue refresh: %v", err)
		}
	}
	if len(inner.sources) != 1 {
		t.Fatalf("expected 1 forwarded refresh, got %d", len(inner.sources))
	}
}

func TestThrottledRefresherKeysPerSource(t *testing.T) {
	client := newThrottleRedis(t)
	inner := &mockRefresher{}
	throttled := NewThrottledRefresher(inner, client, time.Minute)
	ctx := context.Background()

	for _, source := range []string{"pta_website", "district_calendar", ""} {
		if err := throttled.EnqueueRefresh(ctx, source); err != nil {
			t.Fatalf("enqueue refresh %q: %v", source, err)
		}
	}
	if len(inner.sources) != 3 {
		t.Fatalf("expected all distinct sources forwarded, got %#v", inner.sources)
	}
}

func TestThrottledRefresherFreesSlotOnInnerError(t *testing.T) {
	client := newThrottleRedis(t)
	inner := &mockRefresher{err: errors.New("queue offline")}
	throttled := NewThrottledRefresher(inner, client, time.Minute)
	ctx := context.Background()

	if err := throttled.EnqueueRefresh(ctx, "pta_website"); err == nil {
		t.Fatal("expected inner error to propagate")
	}

	inner.err = nil
	if err := throttled.EnqueueRefresh(ctx, "pta_website"); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if len(inner.sources) != 2 {
		t.Fatalf("expected retry to be forwarded, got %#v", inner.sources)
	}
}

func TestThrottledRefresherNilClientForwardsAll(t *testing.T) {
	inner := &mockRefresher{}
	throttled := NewThrottledRefresher(inner, nil, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := throttled.EnqueueRefresh(ctx, "pta_website"); err != nil {
			t.Fatalf("enqueue refresh: %v", err)
		}
	}
	if len(inner.sources) != 2 {
		t.Fatalf("expected every request forwarded, got %d", len(inner.sources))
	}
}
