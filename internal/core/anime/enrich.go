// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package anime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/pool"

	"github.com/taibuivan/kanshi/internal/platform/cache"
	"github.com/taibuivan/kanshi/internal/platform/constants"
	"github.com/taibuivan/kanshi/internal/platform/ctxutil"
	"github.com/taibuivan/kanshi/internal/upstream/jikan"
	"github.com/taibuivan/kanshi/internal/upstream/kitsu"
	"github.com/taibuivan/kanshi/internal/upstream/shikimori"
	"github.com/taibuivan/kanshi/pkg/textnorm"
)

// kitsuSearchLimit bounds the Kitsu title search.
const kitsuSearchLimit = 5

// # Contracts

// MALSource reads MyAnimeList records.
type MALSource interface {
	Anime(ctx context.Context, malID int) (*jikan.Anime, error)
}

// KitsuSource searches Kitsu.
type KitsuSource interface {
	Search(ctx context.Context, title string, limit int) ([]kitsu.Anime, error)
}

// ShikimoriSource reads Shikimori records by MAL id.
type ShikimoriSource interface {
	Anime(ctx context.Context, malID int) (*shikimori.Anime, error)
}

// Enrichment is what the secondary catalogues know about a title.
type Enrichment struct {
	MAL       *jikan.Anime
	Kitsu     *kitsu.Anime
	Shikimori *shikimori.Anime
}

// # Enricher

// Enricher queries MAL, Kitsu and Shikimori for a title.
type Enricher struct {
	cache       *cache.Cache
	mal         MALSource
	kitsu       KitsuSource
	shikimori   ShikimoriSource
	concurrency int
}

// NewEnricher wires the enricher. concurrency bounds [Enricher.EnrichAll].
func NewEnricher(c *cache.Cache, mal MALSource, kitsuSource KitsuSource, shikimoriSource ShikimoriSource, concurrency int) *Enricher {
	return &Enricher{
		cache:       c,
		mal:         mal,
		kitsu:       kitsuSource,
		shikimori:   shikimoriSource,
		concurrency: max(concurrency, 1),
	}
}

// Enrich queries the three catalogues concurrently. A failing source leaves its field nil.
func (enricher *Enricher) Enrich(ctx context.Context, core AnimeCore) Enrichment {
	var enrichment Enrichment
	var wg conc.WaitGroup

	if core.IDs.MAL != nil {
		malID := *core.IDs.MAL
		wg.Go(func() { enrichment.MAL = enricher.malAnime(ctx, malID) })
		wg.Go(func() { enrichment.Shikimori = enricher.shikimoriAnime(ctx, malID) })
	}
	wg.Go(func() { enrichment.Kitsu = enricher.kitsuMatch(ctx, core.SearchTitle()) })

	wg.Wait()
	return enrichment
}

/*
EnrichAll enriches every core with bounded parallelism.

Description: Results are written by index into a pre-sized slice, so order is
kept. One title failing never affects the others.
*/
func (enricher *Enricher) EnrichAll(ctx context.Context, cores []AnimeCore) []AnimeCore {
	out := make([]AnimeCore, len(cores))
	workers := pool.New().WithMaxGoroutines(enricher.concurrency)

	for index, core := range cores {
		workers.Go(func() {
			out[index] = WithEnrichment(core, enricher.Enrich(ctx, core))
		})
	}

	workers.Wait()
	return out
}

func (enricher *Enricher) malAnime(ctx context.Context, malID int) *jikan.Anime {
	key := fmt.Sprintf("jikan:anime:%d", malID)
	anime, err := cache.Fetch(ctx, enricher.cache, key, constants.EnrichmentCacheTTL, func(ctx context.Context) (*jikan.Anime, error) {
		return enricher.mal.Anime(ctx, malID)
	})
	if err != nil {
		enricher.warn(ctx, "mal", err)
		return nil
	}
	return anime
}

func (enricher *Enricher) shikimoriAnime(ctx context.Context, malID int) *shikimori.Anime {
	key := fmt.Sprintf("shikimori:anime:%d", malID)
	anime, err := cache.Fetch(ctx, enricher.cache, key, constants.EnrichmentCacheTTL, func(ctx context.Context) (*shikimori.Anime, error) {
		return enricher.shikimori.Anime(ctx, malID)
	})
	if err != nil {
		enricher.warn(ctx, "shikimori", err)
		return nil
	}
	return anime
}

// kitsuMatch returns the hit whose canonical title folds equal to title, else the first hit.
func (enricher *Enricher) kitsuMatch(ctx context.Context, title string) *kitsu.Anime {
	if title == "" {
		return nil
	}

	key := "kitsu:search:" + textnorm.Slug(title)
	results, err := cache.Fetch(ctx, enricher.cache, key, constants.EnrichmentCacheTTL, func(ctx context.Context) ([]kitsu.Anime, error) {
		return enricher.kitsu.Search(ctx, title, kitsuSearchLimit)
	})
	if err != nil {
		enricher.warn(ctx, "kitsu", err)
		return nil
	}
	if len(results) == 0 {
		return nil
	}

	folded := textnorm.Fold(title)
	for index := range results {
		attributes := results[index].Attributes
		if textnorm.Fold(attributes.CanonicalTitle) == folded || textnorm.Fold(attributes.Titles["en"]) == folded {
			return &results[index]
		}
	}
	return &results[0]
}

func (enricher *Enricher) warn(ctx context.Context, source string, err error) {
	ctxutil.GetLogger(ctx).WarnContext(ctx, "enrichment_source_failed",
		slog.String("source", source),
		slog.Any("error", err),
	)
}
