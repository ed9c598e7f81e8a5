// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/sourcegraph/conc"

	"github.com/taibuivan/kanshi/internal/core/anime"
	"github.com/taibuivan/kanshi/internal/core/provider"
	"github.com/taibuivan/kanshi/internal/platform/apperr"
	"github.com/taibuivan/kanshi/internal/platform/cache"
	"github.com/taibuivan/kanshi/internal/platform/constants"
	"github.com/taibuivan/kanshi/internal/platform/ctxutil"
	"github.com/taibuivan/kanshi/internal/upstream/jikan"
	"github.com/taibuivan/kanshi/internal/upstream/kitsu"
	"github.com/taibuivan/kanshi/internal/upstream/tmdb"
	"github.com/taibuivan/kanshi/pkg/textnorm"
)

// bestMatchLimit bounds the MAL and Kitsu searches.
const bestMatchLimit = 5

/*
BestMatch merges what TMDB, MAL and Kitsu know about a free-text title.

Description: The three lookups run concurrently and each one degrades to
"nothing found" on failure. TMDB is tried as a series first, then as a movie.
MAL and Kitsu hits whose title folds equal to the query are preferred over
their first hit. Providers are resolved for country with the usual fallback.

Returns:
  - *Match: The merged record
  - error: NOT_FOUND ("Not found") when no source knows the title
*/
func (service *Service) BestMatch(ctx context.Context, title, country string) (*Match, error) {
	title = strings.TrimSpace(title)

	var (
		tmdbMatch *tmdb.Result
		kind      tmdb.Kind
		malHits   []jikan.Anime
		kitsuHits []kitsu.Anime
		wg        conc.WaitGroup
	)

	wg.Go(func() { tmdbMatch, kind = service.matchTMDB(ctx, title) })
	wg.Go(func() { malHits = service.searchMAL(ctx, title) })
	wg.Go(func() { kitsuHits = service.searchKitsu(ctx, title) })
	wg.Wait()

	mal := pickByTitle(malHits, title, func(hit jikan.Anime) []string {
		return []string{hit.Title, hit.TitleEnglish}
	})
	kitsuAnime := pickByTitle(kitsuHits, title, func(hit kitsu.Anime) []string {
		return []string{hit.Attributes.CanonicalTitle, hit.Attributes.Titles["en"]}
	})

	if tmdbMatch == nil && mal == nil && kitsuAnime == nil {
		return nil, apperr.NotFound("Not found")
	}

	if tmdbMatch == nil && mal != nil && strings.EqualFold(mal.Type, "movie") {
		kind = tmdb.KindMovie
	}

	match := mergeMatch(title, country, kind, tmdbMatch, mal, kitsuAnime)

	resolution := service.providers.Resolve(ctx, provider.Request{
		TitleID: "title:" + textnorm.Slug(title),
		Country: country,
		TMDBID:  lo.FromPtr(match.IDs.TMDB),
		Title:   match.Title,
		Year:    lo.FromPtr(match.Year),
		Kind:    kind,
	})
	match.Providers = resolution.Providers

	return &match, nil
}

// matchTMDB tries the series catalogue, then movies. A nil result means no match.
func (service *Service) matchTMDB(ctx context.Context, title string) (*tmdb.Result, tmdb.Kind) {
	for _, kind := range []tmdb.Kind{tmdb.KindTV, tmdb.KindMovie} {
		result, err := service.matcher.MatchTitle(ctx, kind, title)
		if err != nil {
			if !errors.Is(err, tmdb.ErrDisabled) {
				service.warn(ctx, "tmdb", err)
			}
			return nil, tmdb.KindTV
		}
		if result != nil {
			return result, kind
		}
	}
	return nil, tmdb.KindTV
}

func (service *Service) searchMAL(ctx context.Context, title string) []jikan.Anime {
	key := "jikan:search:" + textnorm.Slug(title)
	hits, err := cache.Fetch(ctx, service.cache, key, constants.EnrichmentCacheTTL, func(ctx context.Context) ([]jikan.Anime, error) {
		return service.mal.Search(ctx, title, bestMatchLimit)
	})
	if err != nil {
		service.warn(ctx, "mal", err)
		return nil
	}
	return hits
}

func (service *Service) searchKitsu(ctx context.Context, title string) []kitsu.Anime {
	key := "kitsu:search:" + textnorm.Slug(title)
	hits, err := cache.Fetch(ctx, service.cache, key, constants.EnrichmentCacheTTL, func(ctx context.Context) ([]kitsu.Anime, error) {
		return service.kitsu.Search(ctx, title, bestMatchLimit)
	})
	if err != nil {
		service.warn(ctx, "kitsu", err)
		return nil
	}
	return hits
}

func (service *Service) warn(ctx context.Context, source string, err error) {
	ctxutil.GetLogger(ctx).WarnContext(ctx, "best_match_source_failed",
		slog.String("source", source),
		slog.Any("error", err),
	)
}

// # Merging

// pickByTitle returns the first hit with a title folding equal to query, else the first hit.
func pickByTitle[T any](hits []T, query string, titles func(T) []string) *T {
	if len(hits) == 0 {
		return nil
	}

	folded := textnorm.Fold(query)
	for index := range hits {
		if lo.ContainsBy(titles(hits[index]), func(title string) bool { return textnorm.Fold(title) == folded }) {
			return &hits[index]
		}
	}
	return &hits[0]
}

/*
mergeMatch builds the best-match record.

Description: TMDB provides identity and imagery, MAL the score and synopsis,
Kitsu fills whatever is still missing. The query is the last-resort title.
*/
func mergeMatch(query, country string, kind tmdb.Kind, tmdbMatch *tmdb.Result, mal *jikan.Anime, kitsuAnime *kitsu.Anime) Match {
	match := Match{
		Query:     query,
		Country:   country,
		Kind:      string(kind),
		Providers: []string{},
		Sources:   []string{},
	}

	var tmdbScore, kitsuScore *float64

	if tmdbMatch != nil {
		match.Sources = append(match.Sources, "tmdb")
		match.IDs.TMDB = lo.ToPtr(tmdbMatch.ID)
		match.Title = tmdbMatch.DisplayName()
		match.Year = positive(tmdbMatch.Year())
		match.Poster = nonEmpty(tmdb.ImageURL("w780", tmdbMatch.PosterPath))
		match.Backdrop = nonEmpty(tmdb.ImageURL("original", tmdbMatch.BackdropPath))
		match.Synopsis = anime.NewSynopsis(tmdbMatch.Overview)
		if tmdbMatch.VoteAverage > 0 {
			tmdbScore = lo.ToPtr(tmdbMatch.VoteAverage)
		}
	}

	if mal != nil {
		match.Sources = append(match.Sources, "mal")
		match.IDs.MAL = positive(mal.MalID)
		match.Title = lo.CoalesceOrEmpty(match.Title, mal.TitleEnglish, mal.Title)
		match.Year = lo.CoalesceOrEmpty(match.Year, mal.Year)
		match.Poster = lo.CoalesceOrEmpty(match.Poster, nonEmpty(mal.Poster()))
		match.Episodes = mal.Episodes
		if mal.Synopsis != "" {
			match.Synopsis = anime.NewSynopsis(mal.Synopsis)
		}
	}

	if kitsuAnime != nil {
		attributes := kitsuAnime.Attributes
		match.Sources = append(match.Sources, "kitsu")
		match.IDs.Kitsu = nonEmpty(kitsuAnime.ID)
		match.Title = lo.CoalesceOrEmpty(match.Title, attributes.Titles["en"], attributes.CanonicalTitle)
		match.Year = lo.CoalesceOrEmpty(match.Year, yearOf(attributes.StartDate))
		match.Poster = lo.CoalesceOrEmpty(match.Poster, nonEmpty(attributes.PosterImage.Best()))
		match.Backdrop = lo.CoalesceOrEmpty(match.Backdrop, nonEmpty(attributes.CoverImage.Best()))
		match.Episodes = lo.CoalesceOrEmpty(match.Episodes, attributes.EpisodeCount)
		if match.Synopsis.IsEmpty() {
			match.Synopsis = anime.NewSynopsis(attributes.Synopsis)
		}
		if rating := kitsuAnime.Rating(); rating > 0 {
			kitsuScore = lo.ToPtr(rating)
		}
	}

	var malScore *float64
	if mal != nil && mal.Score != nil && *mal.Score > 0 {
		malScore = mal.Score
	}
	match.Score = lo.CoalesceOrEmpty(malScore, tmdbScore, kitsuScore)
	match.Title = lo.CoalesceOrEmpty(match.Title, query)

	return match
}

func nonEmpty(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func positive(value int) *int {
	if value <= 0 {
		return nil
	}
	return &value
}

// yearOf reads the year of an ISO date such as "2023-09-29".
func yearOf(date string) *int {
	if len(date) < 4 {
		return nil
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return nil
	}
	return positive(year)
}
