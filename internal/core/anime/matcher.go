// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package anime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"

	"github.com/taibuivan/kanshi/internal/platform/cache"
	"github.com/taibuivan/kanshi/internal/platform/constants"
	"github.com/taibuivan/kanshi/internal/platform/ctxutil"
	"github.com/taibuivan/kanshi/internal/upstream/tmdb"
	"github.com/taibuivan/kanshi/pkg/textnorm"
)

// TitleSearcher is the TMDB search capability the matcher needs.
type TitleSearcher interface {
	Search(ctx context.Context, kind tmdb.Kind, query string, year int) ([]tmdb.Result, error)
}

// Matcher finds the TMDB entry for an AniList title.
type Matcher struct {
	cache  *cache.Cache
	search TitleSearcher
}

// NewMatcher wires the matcher.
func NewMatcher(c *cache.Cache, search TitleSearcher) *Matcher {
	return &Matcher{cache: c, search: search}
}

/*
Match returns the best TMDB result for core, or nil when TMDB knows nothing.

Description: The search title is tried first, then its base title (season and
part markers removed), then the romaji title. The first query with results is
scored with [Best]. Matches, misses included, are cached for a day; failures
are logged and not cached.
*/
func (matcher *Matcher) Match(ctx context.Context, core AnimeCore) *tmdb.Result {
	key := fmt.Sprintf("tmdb:match:%d:%s", core.IDs.AniList, core.Kind())

	match, err := cache.Fetch(ctx, matcher.cache, key, constants.MatchCacheTTL, func(ctx context.Context) (*tmdb.Result, error) {
		return matcher.lookup(ctx, core)
	})
	if err != nil {
		if !errors.Is(err, tmdb.ErrDisabled) {
			ctxutil.GetLogger(ctx).WarnContext(ctx, "tmdb_match_failed",
				slog.Int("anilist_id", core.IDs.AniList),
				slog.Any("error", err),
			)
		}
		return nil
	}
	return match
}

// MatchTitle matches a free-text title (the best-match search has no AniList record).
func (matcher *Matcher) MatchTitle(ctx context.Context, kind tmdb.Kind, title string) (*tmdb.Result, error) {
	key := fmt.Sprintf("tmdb:match-title:%s:%s", kind, textnorm.Slug(title))

	return cache.Fetch(ctx, matcher.cache, key, constants.MatchCacheTTL, func(ctx context.Context) (*tmdb.Result, error) {
		return matcher.searchQueries(ctx, kind, queriesFor(title), 0)
	})
}

func (matcher *Matcher) lookup(ctx context.Context, core AnimeCore) (*tmdb.Result, error) {
	queries := queriesFor(core.SearchTitle())
	if core.Titles.Romaji != nil {
		queries = lo.Uniq(append(queries, *core.Titles.Romaji))
	}
	return matcher.searchQueries(ctx, core.Kind(), queries, core.YearOrZero())
}

func (matcher *Matcher) searchQueries(ctx context.Context, kind tmdb.Kind, queries []string, year int) (*tmdb.Result, error) {
	for _, query := range queries {
		results, err := matcher.search.Search(ctx, kind, query, 0)
		if err != nil {
			return nil, err
		}
		if len(results) > 0 {
			return Best(results, query, year), nil
		}
	}
	return nil, nil
}

// queriesFor returns the title and, when different, its base title.
func queriesFor(title string) []string {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}
	return lo.Uniq([]string{title, textnorm.BaseTitle(title)})
}

// # Scoring

// nameScore ranks a TMDB name against the query: prefix 2, substring 1, otherwise 0.
func nameScore(name, query string) int {
	name, query = textnorm.Fold(name), textnorm.Fold(query)
	switch {
	case name == "" || query == "":
		return 0
	case strings.HasPrefix(name, query):
		return 2
	case strings.Contains(name, query):
		return 1
	}
	return 0
}

type scoredResult struct {
	result   tmdb.Result
	score    int
	sameYear bool
	distance int
}

/*
Best picks the TMDB result that best matches query.

Description: Candidates are ranked by name score (prefix over substring, on
either the localized or the original name), then by release year equal to year,
then by the smaller Levenshtein distance. When nothing scores above zero the
first result is returned, keeping TMDB's own relevance order.
*/
func Best(results []tmdb.Result, query string, year int) *tmdb.Result {
	if len(results) == 0 {
		return nil
	}

	folded := textnorm.Fold(query)
	scored := lo.Map(results, func(result tmdb.Result, _ int) scoredResult {
		return scoredResult{
			result:   result,
			score:    max(nameScore(result.DisplayName(), query), nameScore(result.OriginalDisplayName(), query)),
			sameYear: year > 0 && result.Year() == year,
			distance: levenshtein.Distance(folded, textnorm.Fold(result.DisplayName())),
		}
	})

	best := lo.MaxBy(scored, func(a, b scoredResult) bool {
		if a.score != b.score {
			return a.score > b.score
		}
		if a.sameYear != b.sameYear {
			return a.sameYear
		}
		return a.distance < b.distance
	})

	if best.score == 0 {
		return &results[0]
	}
	return &best.result
}
