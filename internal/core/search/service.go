// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/sourcegraph/conc/pool"

	"github.com/taibuivan/kanshi/internal/core/anime"
	"github.com/taibuivan/kanshi/internal/platform/apperr"
	"github.com/taibuivan/kanshi/internal/platform/cache"
	"github.com/taibuivan/kanshi/internal/platform/constants"
	"github.com/taibuivan/kanshi/internal/upstream/anilist"
	"github.com/taibuivan/kanshi/pkg/pagination"
	"github.com/taibuivan/kanshi/pkg/textnorm"
)

// # Service Layer

// Service runs paged searches and best-match lookups.
type Service struct {
	cache        *cache.Cache
	anilist      AniListSearcher
	matcher      *anime.Matcher
	providers    anime.ProviderResolver
	mal          MALSearcher
	kitsu        KitsuSearcher
	concurrency  int
	providerTopN int
	logger       *slog.Logger
}

// ServiceConfig bundles the service dependencies.
type ServiceConfig struct {
	Cache        *cache.Cache
	AniList      AniListSearcher
	Matcher      *anime.Matcher
	Providers    anime.ProviderResolver
	MAL          MALSearcher
	Kitsu        KitsuSearcher
	Concurrency  int
	ProviderTopN int
	Logger       *slog.Logger
}

// NewService constructs a new search [Service].
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		cache:        cfg.Cache,
		anilist:      cfg.AniList,
		matcher:      cfg.Matcher,
		providers:    cfg.Providers,
		mal:          cfg.MAL,
		kitsu:        cfg.Kitsu,
		concurrency:  max(cfg.Concurrency, 1),
		providerTopN: max(cfg.ProviderTopN, 0),
		logger:       lo.Ternary(cfg.Logger == nil, slog.Default(), cfg.Logger),
	}
}

/*
SearchAnime returns one page of AniList results for query.

Description: The AniList page is cached for ten minutes. Results are kept only
when a title variant contains the query (case and accent insensitive), then
ranked with [Rank]. Every kept item is matched against TMDB with bounded
parallelism; only the first providerTopN items resolve providers.

Parameters:
  - ctx: context.Context
  - query: string (trimmed)
  - country: string (upper-case region for providers)
  - limit: int (page size, clamped to 1..50)
  - token: string (opaque cursor; invalid tokens restart at page 1)

Returns:
  - *Result: The page and its pagination metadata
  - error: UPSTREAM_ERROR when AniList fails
*/
func (service *Service) SearchAnime(ctx context.Context, query, country string, limit int, token string) (*Result, error) {
	query = strings.TrimSpace(query)
	cursor := pagination.Resolve(token, query, pagination.ClampLimit(limit))

	page, err := service.page(ctx, cursor)
	if err != nil {
		return nil, apperr.BadGateway("anilist", err)
	}

	cores := lo.Map(page.Media, func(media anilist.Media, _ int) anime.AnimeCore {
		return anime.FromAniList(&media)
	})
	cores = service.complete(ctx, Rank(cores, query), country)

	meta := pagination.Meta{Size: len(cores), HasNext: page.HasNextPage}
	if page.HasNextPage {
		meta.Cursor = pagination.Encode(cursor.Next())
	}

	service.logger.DebugContext(ctx, "search_page_served",
		slog.String("query", query),
		slog.Int("page", cursor.Page),
		slog.Int("fetched", len(page.Media)),
		slog.Int("kept", len(cores)),
	)

	return &Result{
		Results: lo.Map(cores, func(core anime.AnimeCore, _ int) Item { return toItem(core, meta.Cursor) }),
		Page:    meta,
	}, nil
}

func (service *Service) page(ctx context.Context, cursor pagination.Cursor) (*anilist.Page, error) {
	key := fmt.Sprintf("anilist:search:%s:%d:%d", textnorm.Slug(cursor.Query), cursor.Page, cursor.PerPage)

	return cache.Fetch(ctx, service.cache, key, constants.SearchCacheTTL, func(ctx context.Context) (*anilist.Page, error) {
		return service.anilist.Search(ctx, cursor.Query, cursor.Page, cursor.PerPage)
	})
}

// complete attaches TMDB matches to every item and providers to the leading ones.
func (service *Service) complete(ctx context.Context, cores []anime.AnimeCore, country string) []anime.AnimeCore {
	out := make([]anime.AnimeCore, len(cores))
	workers := pool.New().WithMaxGoroutines(service.concurrency)

	for index, core := range cores {
		workers.Go(func() {
			matched := anime.WithTMDB(core, service.matcher.Match(ctx, core))
			if index < service.providerTopN {
				resolution := service.providers.Resolve(ctx, anime.ProviderRequest(matched, country))
				matched = anime.WithProviders(matched, resolution.Providers)
			}
			out[index] = matched
		})
	}

	workers.Wait()
	return out
}

// # Ranking

type relevance int

const (
	relevanceNone relevance = iota
	relevanceSubstring
	relevancePrefix
)

/*
Rank filters and orders search results for query.

Description: An item is kept when any title variant contains the folded query.
Items where a variant starts with the query come first; each group is ordered
by score then year, both descending. Prefix relevance outranks score.
*/
func Rank(cores []anime.AnimeCore, query string) []anime.AnimeCore {
	folded := textnorm.Fold(query)

	var prefix, substring []anime.AnimeCore
	for _, core := range cores {
		switch relevanceOf(core, folded) {
		case relevancePrefix:
			prefix = append(prefix, core)
		case relevanceSubstring:
			substring = append(substring, core)
		}
	}

	slices.SortStableFunc(prefix, byScoreThenYear)
	slices.SortStableFunc(substring, byScoreThenYear)

	return append(prefix, substring...)
}

func relevanceOf(core anime.AnimeCore, folded string) relevance {
	best := relevanceNone
	for _, variant := range append(core.TitleVariants(), core.Title) {
		title := textnorm.Fold(variant)
		switch {
		case strings.HasPrefix(title, folded):
			return relevancePrefix
		case strings.Contains(title, folded):
			best = relevanceSubstring
		}
	}
	return best
}

func byScoreThenYear(a, b anime.AnimeCore) int {
	if order := cmp.Compare(lo.FromPtr(b.Score), lo.FromPtr(a.Score)); order != 0 {
		return order
	}
	return cmp.Compare(b.YearOrZero(), a.YearOrZero())
}
