// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artwork

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/taibuivan/kanshi/internal/platform/cache"
	"github.com/taibuivan/kanshi/internal/platform/constants"
	"github.com/taibuivan/kanshi/internal/platform/ctxutil"
	"github.com/taibuivan/kanshi/internal/upstream/tmdb"
)

// maxTitleCandidates bounds how many TMDB ids a title search may try.
const maxTitleCandidates = 3

// ImageSource is the TMDB capability the resolver needs.
type ImageSource interface {
	Backdrops(ctx context.Context, kind tmdb.Kind, id int, languages []string) ([]tmdb.Image, error)
	Search(ctx context.Context, kind tmdb.Kind, query string, year int) ([]tmdb.Result, error)
}

// Resolver picks backdrops. It is safe for concurrent use.
type Resolver struct {
	cache  *cache.Cache
	images ImageSource
}

// NewResolver wires the resolver.
func NewResolver(c *cache.Cache, images ImageSource) *Resolver {
	return &Resolver{cache: c, images: images}
}

/*
Resolve picks the best backdrop for a title.

Description: Known TMDB ids are tried first. Without one, a TMDB title search
over tv and movie supplies up to three ids. AniList banner and cover are the
last resort. Upstream failures only shrink the candidate set.

Parameters:
  - ctx: context.Context
  - hints: Hints
  - opts: Options

Returns:
  - Result: Chosen backdrop (nil when nothing exists), its source and all candidates
*/
func (resolver *Resolver) Resolve(ctx context.Context, hints Hints, opts Options) Result {
	var candidates []Candidate

	// 1. Known TMDB id
	if hints.TMDBID > 0 {
		candidates = resolver.Candidates(ctx, hints.Kind, hints.TMDBID, opts)
	}

	// 2. Title search across both catalogues
	if len(candidates) == 0 && hints.TMDBID == 0 && strings.TrimSpace(hints.Title) != "" {
		for _, ref := range resolver.searchTitle(ctx, hints.Title) {
			candidates = resolver.Candidates(ctx, ref.kind, ref.id, opts)
			if len(candidates) > 0 {
				break
			}
		}
	}

	if len(candidates) > 0 {
		return Result{Backdrop: lo.ToPtr(candidates[0].Original), Source: SourceTMDB, Candidates: candidates}
	}

	// 3. AniList banner, then cover
	switch {
	case hints.Banner != "":
		return Result{Backdrop: lo.ToPtr(hints.Banner), Source: SourceAniListBanner, Candidates: []Candidate{synthetic(hints.Banner, SourceAniListBanner)}}
	case hints.Cover != "":
		return Result{Backdrop: lo.ToPtr(hints.Cover), Source: SourceAniListCover, Candidates: []Candidate{synthetic(hints.Cover, SourceAniListCover)}}
	}

	return Result{Source: SourceNone, Candidates: []Candidate{}}
}

/*
Candidates returns the filtered and ranked TMDB backdrops of one title.

Description: Images below the vote thresholds are dropped, as are non-landscape
images when required. The rest are sorted by vote average then width, both
descending, and capped at opts.Limit. The result is never nil.
*/
func (resolver *Resolver) Candidates(ctx context.Context, kind tmdb.Kind, id int, opts Options) []Candidate {
	images := resolver.backdrops(ctx, kind, id, opts.Languages)

	candidates := make([]Candidate, 0, len(images))
	for _, image := range images {
		if image.VoteCount < opts.MinVoteCount || image.VoteAverage < opts.MinVoteAverage {
			continue
		}

		candidate := FromImage(image)
		if opts.RequireLandscape && !candidate.IsLandscape() {
			continue
		}
		candidates = append(candidates, candidate)
	}

	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		if byVotes := cmp.Compare(b.VoteAverage, a.VoteAverage); byVotes != 0 {
			return byVotes
		}
		return cmp.Compare(lo.FromPtr(b.Width), lo.FromPtr(a.Width))
	})

	if opts.Limit > 0 && len(candidates) > opts.Limit {
		candidates = candidates[:opts.Limit]
	}
	return candidates
}

// backdrops fetches images through the cache; failures yield nil and are not cached.
func (resolver *Resolver) backdrops(ctx context.Context, kind tmdb.Kind, id int, languages []string) []tmdb.Image {
	key := fmt.Sprintf("tmdb:images:%s:%d:%s", kind, id, strings.Join(languages, ","))

	images, err := cache.Fetch(ctx, resolver.cache, key, constants.MatchCacheTTL, func(ctx context.Context) ([]tmdb.Image, error) {
		return resolver.images.Backdrops(ctx, kind, id, languages)
	})
	if err != nil {
		resolver.warn(ctx, "backdrops", err)
		return nil
	}
	return images
}

type titleRef struct {
	kind tmdb.Kind
	id   int
}

// searchTitle collects up to three distinct ids, tv results first.
func (resolver *Resolver) searchTitle(ctx context.Context, title string) []titleRef {
	var refs []titleRef

	for _, kind := range []tmdb.Kind{tmdb.KindTV, tmdb.KindMovie} {
		results, err := resolver.images.Search(ctx, kind, title, 0)
		if err != nil {
			resolver.warn(ctx, "search", err)
			continue
		}

		for _, result := range results {
			ref := titleRef{kind: kind, id: result.ID}
			if result.ID == 0 || slices.Contains(refs, ref) {
				continue
			}
			refs = append(refs, ref)
			if len(refs) == maxTitleCandidates {
				return refs
			}
		}
	}
	return refs
}

func (resolver *Resolver) warn(ctx context.Context, op string, err error) {
	if errors.Is(err, tmdb.ErrDisabled) {
		return
	}
	ctxutil.GetLogger(ctx).WarnContext(ctx, "artwork_source_failed",
		slog.String("source", "tmdb"),
		slog.String("op", op),
		slog.Any("error", err),
	)
}
