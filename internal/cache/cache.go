// Package cache implements a response cache keyed by request url and persisted
// as a single flat json object.
package cache

import (
	"context"
	"encoding/json"
	"fastfood-ratings/internal/components/assert"
	"fastfood-ratings/internal/components/telemetry"
	"fmt"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("internal/cache")

const (
	report_cache_open  = "cache.open"
	report_cache_flush = "cache.flush"
	report_cache_size  = "cache.size"
)

// DefaultMinInterval is the minimum time between two requests that miss the cache.
const DefaultMinInterval = time.Second

// FetchFunc performs the actual request for a url that is not cached yet.
type FetchFunc func(ctx context.Context, url string) (string, error)

type Options struct {
	// MinInterval is the minimum time between two cache misses, zero means DefaultMinInterval,
	// a negative value disables the delay.
	MinInterval time.Duration
}

// Cache maps request urls to raw response bodies. Entries never expire.
type Cache struct {
	path    string
	entries map[string]string
	limit   rate.Limit
	limiter *rate.Limiter
	tel     telemetry.API
}

// Open loads the cache stored at `path`. A missing, unreadable or invalid file
// results in an empty cache.
func Open(path string, opts Options, tel telemetry.API) *Cache {
	assert.NotNil(tel, "telemetry")
	assert.NotEmptyStr(path, "cache path")
	tel = telemetry.NewScopedAPI("cache", tel)

	interval := opts.MinInterval
	if interval == 0 {
		interval = DefaultMinInterval
	}
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}

	c := &Cache{
		path:    path,
		entries: load(path, tel),
		limit:   limit,
		// burst of 1 means the first miss goes out immediately
		limiter: rate.NewLimiter(limit, 1),
		tel:     tel,
	}
	tel.ReportCount(report_cache_size, int64(len(c.entries)))
	return c
}

func load(path string, tel telemetry.API) map[string]string {
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		tel.ReportDebug("no cache file, starting empty", path)
		return map[string]string{}
	}
	if err != nil {
		tel.ReportWarning(report_cache_open, fmt.Errorf("read: %w", err), path)
		return map[string]string{}
	}

	entries := map[string]string{}
	err = json.Unmarshal(contents, &entries)
	if err != nil {
		tel.ReportWarning(report_cache_open, fmt.Errorf("decode: %w", err), path)
		return map[string]string{}
	}
	if entries == nil {
		tel.ReportWarning(report_cache_open, "cache file holds null", path)
		return map[string]string{}
	}
	return entries
}

// GetOrFetch returns the body stored for `url`, or calls `fetch`, stores its result
// and rewrites the cache file. Errors from `fetch` are returned as is and nothing is stored.
func (c *Cache) GetOrFetch(ctx context.Context, url string, fetch FetchFunc) (string, error) {
	ctx, span := tracer.Start(ctx, "GetOrFetch")
	defer span.End()
	span.SetAttributes(attribute.String("custom.cache_key", url))

	body, ok := c.entries[url]
	if ok {
		span.SetAttributes(attribute.Bool("custom.cache_hit", true))
		c.tel.ReportDebug("using cache", url)
		return body, nil
	}
	span.SetAttributes(attribute.Bool("custom.cache_hit", false))
	c.tel.ReportDebug("fetching", url)

	err := c.limiter.Wait(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "wait for rate limiter")
		return "", err
	}

	body, err = fetch(ctx, url)
	c.restartInterval()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch")
		return "", err
	}

	c.entries[url] = body
	err = c.flush()
	if err != nil {
		c.tel.ReportBroken(report_cache_flush, err, c.path)
		span.RecordError(err)
		span.SetStatus(codes.Error, "flush")
		return body, err
	}
	c.tel.ReportCount(report_cache_size, int64(len(c.entries)))

	return body, nil
}

// restartInterval makes the next miss wait a full interval counted from now.
func (c *Cache) restartInterval() {
	c.limiter = rate.NewLimiter(c.limit, 1)
	c.limiter.Allow()
}

func (c *Cache) flush() error {
	serialized, err := json.Marshal(c.entries)
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}
	err = os.WriteFile(c.path, serialized, 0644)
	if err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	return nil
}

// Has reports whether `url` is cached.
func (c *Cache) Has(url string) bool {
	_, ok := c.entries[url]
	return ok
}

func (c *Cache) Len() int {
	return len(c.entries)
}

func (c *Cache) Path() string {
	return c.path
}
