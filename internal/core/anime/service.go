// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package anime

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/samber/lo"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/pool"

	"github.com/taibuivan/kanshi/internal/core/artwork"
	"github.com/taibuivan/kanshi/internal/core/provider"
	"github.com/taibuivan/kanshi/internal/platform/apperr"
	"github.com/taibuivan/kanshi/internal/platform/cache"
	"github.com/taibuivan/kanshi/internal/platform/constants"
	"github.com/taibuivan/kanshi/internal/upstream/anilist"
)

// Hero selection rules.
const (
	heroPerPage       = 12
	heroMinPopularity = 10000
	heroMaxItems      = 5
)

// # Contracts

// MediaSource is the AniList capability the service needs.
type MediaSource interface {
	Media(ctx context.Context, id int) (*anilist.Media, error)
	Releasing(ctx context.Context, perPage int) ([]anilist.Media, error)
}

// ProviderResolver resolves regional providers.
type ProviderResolver interface {
	Resolve(ctx context.Context, req provider.Request) provider.Resolution
}

// ArtworkResolver picks backdrops.
type ArtworkResolver interface {
	Resolve(ctx context.Context, hints artwork.Hints, opts artwork.Options) artwork.Result
}

// ProvidersResult is the payload of the providers endpoint.
type ProvidersResult struct {
	AniListID  int             `json:"anilistId"`
	Country    string          `json:"country"`
	Providers  []string        `json:"providers"`
	Infos      []provider.Info `json:"providerInfos"`
	UsedSource provider.Source `json:"usedSource"`
	TMDBOk     bool            `json:"tmdbOk"`
	SAOk       bool            `json:"saOk"`
}

// # Service

// Service assembles detail records and the home hero.
type Service struct {
	cache            *cache.Cache
	media            MediaSource
	matcher          *Matcher
	providers        ProviderResolver
	artwork          ArtworkResolver
	enricher         *Enricher
	artworkLanguages []string
	concurrency      int
	logger           *slog.Logger
}

// ServiceConfig bundles the service dependencies.
type ServiceConfig struct {
	Cache            *cache.Cache
	Media            MediaSource
	Matcher          *Matcher
	Providers        ProviderResolver
	Artwork          ArtworkResolver
	Enricher         *Enricher
	ArtworkLanguages []string
	Concurrency      int
	Logger           *slog.Logger
}

// NewService constructs a new anime [Service].
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		cache:            cfg.Cache,
		media:            cfg.Media,
		matcher:          cfg.Matcher,
		providers:        cfg.Providers,
		artwork:          cfg.Artwork,
		enricher:         cfg.Enricher,
		artworkLanguages: cfg.ArtworkLanguages,
		concurrency:      max(cfg.Concurrency, 1),
		logger:           lo.Ternary(cfg.Logger == nil, slog.Default(), cfg.Logger),
	}
}

/*
Get builds the full detail record of one AniList title.

Description: The AniList record is required; everything else is best-effort.
Providers, artwork and enrichment run concurrently once the TMDB match is known.

Parameters:
  - ctx: context.Context
  - id: int (AniList id)
  - country: string (upper-case region)

Returns:
  - *AnimeCore: The merged record
  - error: NOT_FOUND when AniList has no such title, UPSTREAM_ERROR when it fails
*/
func (service *Service) Get(ctx context.Context, id int, country string) (*AnimeCore, error) {
	core, err := service.base(ctx, id)
	if err != nil {
		return nil, err
	}

	var (
		resolution provider.Resolution
		art        artwork.Result
		enrichment Enrichment
		wg         conc.WaitGroup
	)

	wg.Go(func() { resolution = service.providers.Resolve(ctx, ProviderRequest(core, country)) })
	wg.Go(func() { art = service.artwork.Resolve(ctx, artworkHints(core), artwork.DefaultOptions(service.artworkLanguages)) })
	wg.Go(func() { enrichment = service.enricher.Enrich(ctx, core) })
	wg.Wait()

	core = WithProviders(core, resolution.Providers)
	core = WithArtwork(core, art)
	core = WithEnrichment(core, enrichment)

	return &core, nil
}

// Providers resolves only the regional provider list of one title.
func (service *Service) Providers(ctx context.Context, id int, country string) (*ProvidersResult, error) {
	core, err := service.base(ctx, id)
	if err != nil {
		return nil, err
	}

	resolution := service.providers.Resolve(ctx, ProviderRequest(core, country))

	return &ProvidersResult{
		AniListID:  id,
		Country:    country,
		Providers:  resolution.Providers,
		Infos:      provider.ToInfos(resolution.Providers),
		UsedSource: resolution.UsedSource,
		TMDBOk:     resolution.TMDBOk,
		SAOk:       resolution.SAOk,
	}, nil
}

/*
Hero selects up to five popular, currently airing titles with cinematic artwork.

Description: AniList RELEASING titles ordered by popularity are filtered to
non-adult entries with at least 10000 popularity. Artwork is resolved with
bounded parallelism; only titles with a TMDB backdrop or an AniList banner
are kept. The selection is cached for an hour.
*/
func (service *Service) Hero(ctx context.Context) ([]AnimeCore, error) {
	return cache.Fetch(ctx, service.cache, "anilist:hero", constants.HeroCacheTTL, service.loadHero)
}

func (service *Service) loadHero(ctx context.Context) ([]AnimeCore, error) {
	releasing, err := service.media.Releasing(ctx, heroPerPage)
	if err != nil {
		return nil, apperr.BadGateway("anilist", err)
	}

	candidates := lo.Filter(releasing, func(media anilist.Media, _ int) bool {
		return !media.IsAdult && media.Popularity >= heroMinPopularity
	})

	cores := make([]AnimeCore, len(candidates))
	workers := pool.New().WithMaxGoroutines(service.concurrency)
	for index := range candidates {
		workers.Go(func() {
			core := FromAniList(&candidates[index])
			core = WithTMDB(core, service.matcher.Match(ctx, core))
			cores[index] = WithArtwork(core, service.artwork.Resolve(ctx, artworkHints(core), artwork.DefaultOptions(service.artworkLanguages)))
		})
	}
	workers.Wait()

	selected := lo.Filter(cores, func(core AnimeCore, _ int) bool {
		return core.Images.ArtworkSource == artwork.SourceTMDB || core.Images.ArtworkSource == artwork.SourceAniListBanner
	})
	if len(selected) > heroMaxItems {
		selected = selected[:heroMaxItems]
	}

	service.logger.DebugContext(ctx, "hero_selected",
		slog.Int("releasing", len(releasing)),
		slog.Int("eligible", len(candidates)),
		slog.Int("selected", len(selected)),
	)

	return service.enricher.EnrichAll(ctx, selected), nil
}

// base loads the AniList record (cached) and attaches the TMDB match.
func (service *Service) base(ctx context.Context, id int) (AnimeCore, error) {
	media, err := LoadMedia(ctx, service.cache, service.media, id)
	if err != nil {
		return AnimeCore{}, err
	}

	core := FromAniList(media)
	return WithTMDB(core, service.matcher.Match(ctx, core)), nil
}

// LoadMedia reads one AniList record through the cache and maps its errors.
func LoadMedia(ctx context.Context, c *cache.Cache, source MediaSource, id int) (*anilist.Media, error) {
	key := "anilist:media:" + strconv.Itoa(id)

	media, err := cache.Fetch(ctx, c, key, constants.MediaCacheTTL, func(ctx context.Context) (*anilist.Media, error) {
		return source.Media(ctx, id)
	})
	switch {
	case errors.Is(err, anilist.ErrNotFound):
		return nil, apperr.NotFound("Anime not found in AniList")
	case err != nil:
		return nil, apperr.BadGateway("anilist", err)
	}
	return media, nil
}

// # Request Builders

// ProviderRequest builds the provider lookup for a core in country.
func ProviderRequest(core AnimeCore, country string) provider.Request {
	return provider.Request{
		TitleID: strconv.Itoa(core.IDs.AniList),
		Country: country,
		TMDBID:  lo.FromPtr(core.IDs.TMDB),
		Title:   core.SearchTitle(),
		Year:    core.YearOrZero(),
		Kind:    core.Kind(),
	}
}

func artworkHints(core AnimeCore) artwork.Hints {
	return artwork.Hints{
		TMDBID: lo.FromPtr(core.IDs.TMDB),
		Kind:   core.Kind(),
		Title:  core.SearchTitle(),
		Banner: lo.FromPtr(core.Images.Banner),
		Cover:  lo.FromPtr(core.Images.Poster),
	}
}
