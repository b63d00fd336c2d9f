package main

import (
	"context"
	"crypto/tls"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"schoolcal-api/api"
	"schoolcal-api/assistant"
	"schoolcal-api/storage"
)

// evictingRefresher drops the cached event list whenever a refresh is
// enqueued so the next dashboard load sees the re-scraped feed promptly.
type evictingRefresher struct {
	inner api.Refresher
	cache *storage.Cache
}

func (r evictingRefresher) EnqueueRefresh(ctx context.Context, source string) error {
	r.cache.Evict(ctx)
	return r.inner.EnqueueRefresh(ctx, source)
}

func main() {
	if dbg, err := strconv.ParseBool(os.Getenv("DEBUG")); err == nil && dbg {
		log.SetLevel(log.DebugLevel)
	}

	logger := log.New()

	eventsFile := os.Getenv("EVENTS_FILE")
	if eventsFile == "" {
		eventsFile = "events.json"
	}
	fallbackSource := storage.NewFileSource(eventsFile)

	connStr := os.Getenv("STORAGE_CONNECTION_STRING")
	eventsTableName := os.Getenv("EVENTS_TABLE")
	refreshQueueName := os.Getenv("REFRESH_QUEUE")

	var source storage.EventSource = fallbackSource
	var refresher api.Refresher
	if connStr != "" {
		if eventsTableName == "" || refreshQueueName == "" {
			log.Fatal("missing storage config")
		}
		store, err := storage.New(connStr, eventsTableName, refreshQueueName)
		if err != nil {
			log.Fatalf("storage: %v", err)
		}
		source = storage.NewFallback(store, fallbackSource, logger)
		refresher = store
	} else {
		logger.Warn("no storage connection configured, serving events from file only")
	}

	redisConn := os.Getenv("REDIS_CONNECTION_STRING")
	if redisConn == "" {
		log.Fatal("missing redis config")
	}
	redisOpts, err := redis.ParseURL(redisConn)
	if err != nil {
		parts := strings.Split(redisConn, ",")
		redisOpts = &redis.Options{Addr: parts[0]}
		for _, p := range parts[1:] {
			kv := strings.SplitN(p, "=", 2)
			if len(kv) != 2 {
				continue
			}
			switch strings.ToLower(kv[0]) {
			case "password":
				redisOpts.Password = kv[1]
			case "ssl":
				if strings.ToLower(kv[1]) == "true" {
					redisOpts.TLSConfig = &tls.Config{}
				}
			}
		}
	}
	rc := redis.NewClient(redisOpts)

	cacheTTL := 5 * time.Minute
	if v := os.Getenv("EVENTS_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			log.Fatalf("invalid EVENTS_CACHE_TTL: %v", err)
		}
		cacheTTL = d
	}
	cache := storage.NewCache(source, rc, cacheTTL)
	source = cache

	if refresher != nil {
		refresher = evictingRefresher{inner: refresher, cache: cache}
		refreshTTL := 30 * time.Second
		if v := os.Getenv("REFRESH_THROTTLE_TTL"); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil || d < 0 {
				log.Fatalf("invalid REFRESH_THROTTLE_TTL: %v", err)
			}
			refreshTTL = d
		}
		refresher = api.NewThrottledRefresher(refresher, rc, refreshTTL)
	}

	todos := storage.NewTodoStore(rc, os.Getenv("TODOS_KEY"))

	assistantURL := os.Getenv("ASSISTANT_URL")
	if assistantURL == "" {
		log.Fatal("missing assistant config")
	}
	assist := assistant.New(assistantURL)

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()
	otel.SetTracerProvider(tp)

	e := echo.New()
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	e.Use(api.DecompressRequests())
	e.Use(echoprometheus.NewMiddleware("schoolcal"))
	e.GET("/metrics", echoprometheus.NewHandler())

	api.Register(e, source, todos, assist, refresher, logger)

	listenAddr := ":8080"
	if val, ok := os.LookupEnv("PORT"); ok {
		listenAddr = ":" + val
	}

	e.Logger.Fatal(e.Start(listenAddr))
}
