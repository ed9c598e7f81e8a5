// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"log/slog"
	"net/http"

	"github.com/taibuivan/kanshi/internal/core/anime"
	"github.com/taibuivan/kanshi/internal/core/artwork"
	"github.com/taibuivan/kanshi/internal/core/provider"
	"github.com/taibuivan/kanshi/internal/core/search"
	"github.com/taibuivan/kanshi/internal/core/season"
	"github.com/taibuivan/kanshi/internal/platform/cache"
	"github.com/taibuivan/kanshi/internal/platform/config"
	"github.com/taibuivan/kanshi/internal/upstream/anilist"
	"github.com/taibuivan/kanshi/internal/upstream/jikan"
	"github.com/taibuivan/kanshi/internal/upstream/kitsu"
	"github.com/taibuivan/kanshi/internal/upstream/shikimori"
	"github.com/taibuivan/kanshi/internal/upstream/streamavail"
	"github.com/taibuivan/kanshi/internal/upstream/tmdb"
)

/*
NewHandlers builds every upstream client, resolver and service and returns
the domain handler set.

Description: One cache and one HTTP client are shared by all upstreams. The
health handlers are built from deps. A missing TMDB or RapidAPI key leaves
that client disabled; it is never an error.
*/
func NewHandlers(cfg *config.Config, c *cache.Cache, httpClient *http.Client, deps HealthDependencies, log *slog.Logger) Handlers {

	// Upstream clients
	aniListClient := anilist.New(cfg.AniListURL, httpClient)
	tmdbClient := tmdb.New(cfg.TMDBURL, cfg.TMDBKey, httpClient)
	jikanClient := jikan.New(cfg.JikanURL, httpClient)
	kitsuClient := kitsu.New(cfg.KitsuURL, httpClient)
	shikimoriClient := shikimori.New(cfg.ShikimoriURL, httpClient)
	availabilityClient := streamavail.New(cfg.StreamingAvailabilityURL, cfg.StreamingAvailabilityAPIKey(), httpClient)

	if !tmdbClient.Enabled() {
		log.Warn("tmdb_disabled", slog.String("reason", "TMDB_KEY not set"))
	}
	if !availabilityClient.Enabled() {
		log.Warn("streaming_availability_disabled", slog.String("reason", "STREAMING_AVAILABILITY_KEY not set"))
	}

	// Resolvers
	normalizer := provider.NewNormalizer(cfg.ProviderAliases)
	providerResolver := provider.NewResolver(c, tmdbClient, availabilityClient, normalizer, cfg.FallbackMaxAgeYears)
	artworkResolver := artwork.NewResolver(c, tmdbClient)
	matcher := anime.NewMatcher(c, tmdbClient)
	enricher := anime.NewEnricher(c, jikanClient, kitsuClient, shikimoriClient, cfg.EnrichConcurrency)

	// Services
	animeService := anime.NewService(anime.ServiceConfig{
		Cache:            c,
		Media:            aniListClient,
		Matcher:          matcher,
		Providers:        providerResolver,
		Artwork:          artworkResolver,
		Enricher:         enricher,
		ArtworkLanguages: cfg.ArtworkLanguages,
		Concurrency:      cfg.EnrichConcurrency,
		Logger:           log,
	})

	searchService := search.NewService(search.ServiceConfig{
		Cache:        c,
		AniList:      aniListClient,
		Matcher:      matcher,
		Providers:    providerResolver,
		MAL:          jikanClient,
		Kitsu:        kitsuClient,
		Concurrency:  cfg.SearchConcurrency,
		ProviderTopN: cfg.SearchProviderTopN,
		Logger:       log,
	})

	liveness, readiness := NewHealthHandlers(deps, log)

	return Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Anime:     anime.NewHandler(animeService, cfg.DefaultCountry),
		Search:    search.NewHandler(searchService, cfg.DefaultCountry),
		Artwork:   artwork.NewHandler(artworkResolver, cfg.ArtworkLanguages),
		Season:    season.NewHandler(cfg.DefaultCountry),
	}
}
