// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, cache lifetimes, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Cache Lifetimes: TTLs for every upstream-backed lookup.
  - Headers & Fields: Names shared by middleware and the response envelope.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "kanshi-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout leaves room for the slowest fan-out (detail + providers + artwork).
	DefaultWriteTimeout = 35 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Cache Lifetimes

const (
	// DefaultCacheTTL applies when a caller does not pass an explicit TTL.
	DefaultCacheTTL = 1 * time.Hour

	// ProviderCacheTTL keeps provider resolutions (including the sentinel) for a week.
	ProviderCacheTTL = 7 * 24 * time.Hour

	// SearchCacheTTL is the lifetime of a cached AniList search page.
	SearchCacheTTL = 10 * time.Minute

	// HeroCacheTTL is the lifetime of the home hero selection.
	HeroCacheTTL = 1 * time.Hour

	// MediaCacheTTL is the lifetime of a single AniList media record.
	MediaCacheTTL = 1 * time.Hour

	// MatchCacheTTL is the lifetime of AniList → TMDB title matches and TMDB image sets.
	MatchCacheTTL = 24 * time.Hour

	// EnrichmentCacheTTL is the lifetime of MAL / Kitsu / Shikimori lookups.
	EnrichmentCacheTTL = 24 * time.Hour
)

// # Domain Sentinels

const (
	// ProviderSentinel marks that no legal provider was found for a title/region.
	ProviderSentinel = "Pirata"

	// UntitledFallback is the display title used when every title variant is empty.
	UntitledFallback = "Untitled"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldError   = "error"
	FieldMessage = "message"
	FieldDetails = "details"
	FieldOK      = "ok"
	FieldChecks  = "checks"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixCache = "kanshi:cache:"
)
