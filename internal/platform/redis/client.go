// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis provides a managed client for the optional shared cache tier.

When REDIS_URL is configured, upstream lookups cached through cache.Fetch are
mirrored into Redis with the same TTL so that several API replicas share
AniList/TMDB answers and paid fallback results.

Core Responsibilities:

  - Volatility: Every key carries a TTL; nothing is persisted beyond it.
  - Speed: Low-latency access compared to re-querying upstream APIs.
  - Safety: Manages connection pooling automatically.
*/
package redis

import (
	stdctx "context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/kanshi/internal/platform/constants"
)

// Opiniated default timeouts for Redis operations.
const (
	dialTimeout  = 3 * time.Second
	readTimeout  = 2 * time.Second
	writeTimeout = 2 * time.Second
	pingTimeout  = 2 * time.Second
)

// NewClient parses a Redis URL and returns a ready-to-use client.
//
// # Parameters
//   - context: Context for the initial ping.
//   - redisURL: Redis connection URL.
//   - logger: Structured logger for connection events.
func NewClient(context stdctx.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	// Pool configuration Tuning
	options.PoolSize = 10
	options.MinIdleConns = 2
	options.MaxIdleConns = 5

	options.DialTimeout = dialTimeout
	options.ReadTimeout = readTimeout
	options.WriteTimeout = writeTimeout

	client := redis.NewClient(options)

	// Validate connectivity immediately at startup.
	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis client connected",
		slog.String("addr", options.Addr),
		slog.Int("pool_size", options.PoolSize),
	)

	return client, nil
}

// Ping verifies that the Redis client is healthy.
func Ping(context stdctx.Context, client *redis.Client) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}

	return nil
}

// # Cache Tier

// Store implements cache.Remote on top of a Redis client.
type Store struct {
	client *redis.Client
	prefix string
}

// NewStore creates a Redis-backed cache tier using the platform key prefix.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client, prefix: constants.RedisPrefixCache}
}

/*
Get retrieves the raw bytes stored for key.

Returns:
  - []byte: Stored payload
  - bool: false when the key is absent or expired
  - error: Connectivity errors
*/
func (store *Store) Get(context stdctx.Context, key string) ([]byte, bool, error) {
	raw, err := store.client.Get(context, store.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis_cache_get_failed: %w", err)
	}
	return raw, true, nil
}

// Set stores value under key with the given TTL.
func (store *Store) Set(context stdctx.Context, key string, value []byte, ttl time.Duration) error {
	if err := store.client.Set(context, store.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis_cache_set_failed: %w", err)
	}
	return nil
}
