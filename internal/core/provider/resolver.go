// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/kanshi/internal/platform/cache"
	"github.com/taibuivan/kanshi/internal/platform/constants"
	"github.com/taibuivan/kanshi/internal/platform/ctxutil"
	"github.com/taibuivan/kanshi/internal/upstream/streamavail"
	"github.com/taibuivan/kanshi/internal/upstream/tmdb"
	"github.com/taibuivan/kanshi/pkg/textnorm"
)

// # Contracts

// WatchProviderSource is the TMDB capability the resolver needs.
type WatchProviderSource interface {
	WatchProviders(ctx context.Context, kind tmdb.Kind, id int, country string) (*tmdb.RegionProviders, error)
}

// AvailabilitySource is the paid fallback catalogue.
type AvailabilitySource interface {
	Search(ctx context.Context, title, country string) ([]streamavail.Show, error)
}

// Request identifies the title and region to resolve.
type Request struct {
	TitleID string
	Country string
	TMDBID  int
	Title   string
	Year    int
	Kind    tmdb.Kind
}

// Resolution is the cached outcome. TMDBOk and SAOk report whether that
// source answered without error.
type Resolution struct {
	Providers  []string `json:"providers"`
	UsedSource Source   `json:"usedSource"`
	TMDBOk     bool     `json:"tmdbOk"`
	SAOk       bool     `json:"saOk"`
}

// # Resolver

// Resolver runs the TMDB → RapidAPI → sentinel pipeline.
type Resolver struct {
	cache        *cache.Cache
	tmdb         WatchProviderSource
	availability AvailabilitySource
	normalizer   *Normalizer
	maxAgeYears  int
	now          func() time.Time
}

// ResolverOption customises a [Resolver].
type ResolverOption func(*Resolver)

// WithClock replaces the time source used by the cost gate.
func WithClock(now func() time.Time) ResolverOption {
	return func(resolver *Resolver) { resolver.now = now }
}

// NewResolver wires the resolver. maxAgeYears bounds how old a title may be
// before the paid fallback is skipped.
func NewResolver(c *cache.Cache, tmdbSource WatchProviderSource, availability AvailabilitySource, normalizer *Normalizer, maxAgeYears int, opts ...ResolverOption) *Resolver {
	resolver := &Resolver{
		cache:        c,
		tmdb:         tmdbSource,
		availability: availability,
		normalizer:   normalizer,
		maxAgeYears:  maxAgeYears,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(resolver)
	}
	return resolver
}

// CacheKey is the key a resolution for titleID in country is stored under.
func CacheKey(titleID, country string) string {
	return fmt.Sprintf("providers:%s:%s", titleID, strings.ToUpper(country))
}

/*
Resolve returns the providers for a title in a region.

Description: Upstream failures never fail the call; they only mark that source
as not ok. The result, the "Pirata" sentinel included, is cached for 7 days.

Parameters:
  - ctx: context.Context
  - req: Request

Returns:
  - Resolution: Providers plus the source that produced them
*/
func (resolver *Resolver) Resolve(ctx context.Context, req Request) Resolution {
	req.Country = strings.ToUpper(req.Country)

	resolution, _ := cache.Fetch(ctx, resolver.cache, CacheKey(req.TitleID, req.Country), constants.ProviderCacheTTL,
		func(ctx context.Context) (Resolution, error) {
			return resolver.resolve(ctx, req), nil
		})
	return resolution
}

func (resolver *Resolver) resolve(ctx context.Context, req Request) Resolution {
	resolution := Resolution{Providers: []string{}, UsedSource: SourceNone}

	// 1. TMDB watch providers
	if req.TMDBID > 0 {
		providers, err := resolver.fromTMDB(ctx, req)
		if err != nil {
			resolver.warn(ctx, "tmdb", req, err)
		} else {
			resolution.TMDBOk = true
			if len(providers) > 0 {
				resolution.Providers = providers
				resolution.UsedSource = SourceTMDB
				return resolution
			}
		}
	}

	// 2. Paid fallback, gated on release year
	if strings.TrimSpace(req.Title) != "" && resolver.fallbackAllowed(req.Year) {
		providers, err := resolver.fromAvailability(ctx, req)
		if err != nil {
			resolver.warn(ctx, "sa", req, err)
		} else {
			resolution.SAOk = true
			if len(providers) > 0 {
				resolution.Providers = providers
				resolution.UsedSource = SourceSA
				return resolution
			}
		}
	}

	// 3. Sentinel
	resolution.Providers = []string{constants.ProviderSentinel}
	return resolution
}

// fallbackAllowed is the cost gate: unknown years and recent titles only.
func (resolver *Resolver) fallbackAllowed(year int) bool {
	if year == 0 {
		return true
	}
	return year >= resolver.now().Year()-resolver.maxAgeYears
}

func (resolver *Resolver) fromTMDB(ctx context.Context, req Request) ([]string, error) {
	region, err := resolver.tmdb.WatchProviders(ctx, req.Kind, req.TMDBID, req.Country)
	if err != nil {
		return nil, err
	}
	return resolver.normalizer.Flatten(region), nil
}

func (resolver *Resolver) fromAvailability(ctx context.Context, req Request) ([]string, error) {
	shows, err := resolver.availability.Search(ctx, textnorm.BaseTitle(req.Title), req.Country)
	if err != nil {
		return nil, err
	}
	if len(shows) == 0 {
		return []string{}, nil
	}

	best := shows[0]
	if req.TMDBID > 0 {
		for _, show := range shows {
			if show.TMDBNumericID() == req.TMDBID {
				best = show
				break
			}
		}
	}

	return resolver.normalizer.Normalize(best.ServiceNames(req.Country)), nil
}

func (resolver *Resolver) warn(ctx context.Context, source string, req Request, err error) {
	logger := ctxutil.GetLogger(ctx)

	// A missing key is configuration, not an outage.
	if errors.Is(err, tmdb.ErrDisabled) || errors.Is(err, streamavail.ErrDisabled) {
		logger.DebugContext(ctx, "provider_source_disabled", slog.String("source", source))
		return
	}

	logger.WarnContext(ctx, "provider_source_failed",
		slog.String("source", source),
		slog.String("title_id", req.TitleID),
		slog.String("country", req.Country),
		slog.Any("error", err),
	)
}
