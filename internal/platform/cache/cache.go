// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cache provides the in-process TTL cache shared by every upstream lookup.

Each entry stores an absolute expiry (now + ttl). Expired entries are removed
lazily when they are read; there is no background sweep and no capacity bound.

Architecture:

  - Explicit Lifecycle: A [Cache] is constructed in main and injected into services.
  - Safety: All map access is guarded by a mutex, and [Fetch] collapses concurrent
    misses on the same key into one load (singleflight).
  - Tiering: An optional [Remote] (Redis) stores [Fetch] results as JSON so several
    replicas can share upstream answers. [Cache.Get] and [Cache.Set] stay in-process.
*/
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/taibuivan/kanshi/internal/platform/ctxutil"
)

// Remote is a shared byte store used as the second cache tier.
type Remote interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// entry is one cached value with its absolute expiry.
type entry struct {
	value     any
	expiresAt time.Time
}

// Cache is a goroutine-safe map from string key to (value, expiry).
type Cache struct {
	mu         sync.Mutex
	entries    map[string]entry
	defaultTTL time.Duration
	now        func() time.Time
	remote     Remote
	flight     singleflight.Group
}

// Option customises a [Cache] at construction time.
type Option func(*Cache)

// WithClock replaces the time source. Tests use it to move past expiries.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithRemote attaches a shared second tier used by [Fetch].
func WithRemote(remote Remote) Option {
	return func(c *Cache) { c.remote = remote }
}

// New constructs an empty cache. defaultTTL applies whenever Set receives ttl <= 0.
func New(defaultTTL time.Duration, opts ...Option) *Cache {
	c := &Cache{
		entries:    make(map[string]entry),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// # Core Contract

// Get returns the value stored under key, or false when it is absent or expired.
// An expired entry is deleted as a side effect.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}

	return e.value, true
}

// Set stores value under key until now + ttl, overwriting any previous entry.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	ttl = c.ttlOrDefault(ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{value: value, expiresAt: c.now().Add(ttl)}
}

// Len reports the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

func (c *Cache) ttlOrDefault(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return c.defaultTTL
	}
	return ttl
}

// # Typed Read-Through

/*
Fetch returns the cached value for key or computes it with load.

Description: Lookup order is in-process entry, remote tier, then load. Concurrent
callers missing on the same key share a single load. Errors from load are
returned to every waiter and are never cached.

Parameters:
  - ctx: context.Context (values are kept for load, cancellation is not)
  - c: *Cache
  - key: string
  - ttl: time.Duration (<= 0 uses the cache default)
  - load: func(context.Context) (T, error)

Returns:
  - T: Cached or freshly loaded value
  - error: Error returned by load
*/
func Fetch[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if cached, ok := lookup[T](c, key); ok {
		return cached, nil
	}

	result, err, _ := c.flight.Do(key, func() (any, error) {
		// Another caller may have filled the key while we waited for the flight.
		if cached, ok := lookup[T](c, key); ok {
			return cached, nil
		}

		if value, ok := fetchRemote[T](ctx, c, key, ttl); ok {
			return value, nil
		}

		value, err := load(ctxutil.Detach(ctx))
		if err != nil {
			return value, err
		}

		c.Set(key, value, ttl)
		storeRemote(ctx, c, key, value, ttl)
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	typed, _ := result.(T)
	return typed, nil
}

func lookup[T any](c *Cache, key string) (T, bool) {
	raw, ok := c.Get(key)
	if !ok {
		var zero T
		return zero, false
	}
	typed, ok := raw.(T)
	return typed, ok
}

func fetchRemote[T any](ctx context.Context, c *Cache, key string, ttl time.Duration) (T, bool) {
	var value T
	if c.remote == nil {
		return value, false
	}

	raw, found, err := c.remote.Get(ctx, key)
	if err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "cache_remote_get_failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
		return value, false
	}
	if !found {
		return value, false
	}

	if err := json.Unmarshal(raw, &value); err != nil {
		return value, false
	}

	c.Set(key, value, ttl)
	return value, true
}

func storeRemote(ctx context.Context, c *Cache, key string, value any, ttl time.Duration) {
	if c.remote == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return
	}

	if err := c.remote.Set(ctx, key, raw, c.ttlOrDefault(ttl)); err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "cache_remote_set_failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}
}
