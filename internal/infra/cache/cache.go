// Package cache implements a tagged read-through cache.
//
// Entries live in a namespace per tag. Flushing a tag rotates its namespace
// version, so every entry written under the previous version becomes
// unreachable at once. Lookups read the version first and write populated
// values back under that same version: a load that started before a flush can
// only ever populate the retired namespace.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"articles-api/internal/observability/logging"
	"articles-api/internal/observability/metrics"
	"articles-api/internal/pkg/search"
)

// DefaultTTL is the lifetime of a populated entry when none is configured.
const DefaultTTL = 60 * time.Second

// ErrEmptyTag is returned when a lookup or flush is attempted without a tag.
var ErrEmptyTag = errors.New("cache: empty tag")

// Store is the storage backend behind Cache.
type Store interface {
	// Version returns the current namespace version of tag, creating one if needed.
	Version(ctx context.Context, tag string) (string, error)
	// Get returns the value stored under key in the given namespace version.
	Get(ctx context.Context, tag, version, key string) ([]byte, bool, error)
	// Set stores value under key in the given namespace version for ttl.
	Set(ctx context.Context, tag, version, key string, value []byte, ttl time.Duration) error
	// Flush retires the current namespace version of tag.
	Flush(ctx context.Context, tag string) error
}

// Cache layers JSON encoding, miss de-duplication and metrics over a Store.
type Cache struct {
	store       Store
	group       singleflight.Group
	loadTimeout time.Duration
}

// New wraps store.
func New(store Store) *Cache {
	return &Cache{store: store, loadTimeout: search.DefaultSearchTimeout}
}

// Flush invalidates every entry of tag.
func (c *Cache) Flush(ctx context.Context, tag string) error {
	if tag == "" {
		return ErrEmptyTag
	}
	err := c.store.Flush(ctx, tag)
	metrics.RecordCacheFlush(tag, err)
	if err != nil {
		return fmt.Errorf("cache: flush %s: %w", tag, err)
	}
	return nil
}

// Remember returns the cached value of key in tag, or calls load, stores its
// result for ttl and returns it. Concurrent misses on the same key and version
// share one load. When the store cannot be read the value is loaded uncached.
func Remember[T any](ctx context.Context, c *Cache, tag, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var zero T
	if tag == "" {
		return zero, ErrEmptyTag
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	logger := logging.FromContext(ctx)

	version, err := c.store.Version(ctx, tag)
	if err != nil {
		metrics.RecordCacheLookup(tag, metrics.CacheError)
		logger.Warn("cache unavailable, loading uncached",
			slog.String("tag", tag), slog.Any("error", err))
		return load(ctx)
	}

	raw, found, err := c.store.Get(ctx, tag, version, key)
	switch {
	case err != nil:
		metrics.RecordCacheLookup(tag, metrics.CacheError)
		logger.Warn("cache read failed, loading uncached",
			slog.String("tag", tag), slog.String("key", key), slog.Any("error", err))
		return load(ctx)
	case found:
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			metrics.RecordCacheLookup(tag, metrics.CacheHit)
			return v, nil
		}
		logger.Warn("discarding undecodable cache entry", slog.String("tag", tag), slog.String("key", key))
	}
	metrics.RecordCacheLookup(tag, metrics.CacheMiss)

	// The shared load outlives any single caller; each caller stops waiting
	// when its own ctx ends.
	flight := tag + "\x00" + version + "\x00" + key
	ch := c.group.DoChan(flight, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.loadTimeout)
		defer cancel()

		v, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		encoded, err := json.Marshal(v)
		if err != nil {
			logger.Warn("cache encode failed", slog.String("tag", tag), slog.Any("error", err))
			return v, nil
		}
		if err := c.store.Set(loadCtx, tag, version, key, encoded, ttl); err != nil {
			logger.Warn("cache write failed", slog.String("tag", tag), slog.String("key", key), slog.Any("error", err))
		}
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}
