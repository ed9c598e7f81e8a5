// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package anime_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kanshi/internal/core/anime"
	"github.com/taibuivan/kanshi/internal/platform/cache"
	"github.com/taibuivan/kanshi/internal/upstream/anilist"
	"github.com/taibuivan/kanshi/internal/upstream/tmdb"
)

// fakeSearch answers TMDB searches per query and records them.
type fakeSearch struct {
	mu      sync.Mutex
	results map[string][]tmdb.Result
	queries []string
}

func (f *fakeSearch) Search(_ context.Context, _ tmdb.Kind, query string, _ int) ([]tmdb.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	return f.results[query], nil
}

/*
TestBest_Ranking covers prefix over contains, year tie-break, distance tie-break and fallback.
*/
func TestBest_Ranking(t *testing.T) {
	tests := []struct {
		name    string
		results []tmdb.Result
		query   string
		year    int
		wantID  int
	}{
		{
			name:    "prefix beats contains",
			results: []tmdb.Result{{ID: 1, Name: "The Frieren Story"}, {ID: 2, Name: "Frieren"}},
			query:   "frieren",
			wantID:  2,
		},
		{
			name:    "same year breaks ties",
			results: []tmdb.Result{{ID: 1, Name: "Hunter x Hunter", FirstAirDate: "1999-10-16"}, {ID: 2, Name: "Hunter x Hunter", FirstAirDate: "2011-10-02"}},
			query:   "Hunter x Hunter",
			year:    2011,
			wantID:  2,
		},
		{
			name:    "closer name breaks remaining ties",
			results: []tmdb.Result{{ID: 1, Name: "Naruto Shippuden"}, {ID: 2, Name: "Naruto"}},
			query:   "Naruto",
			wantID:  2,
		},
		{
			name:    "original name counts",
			results: []tmdb.Result{{ID: 1, Name: "Other"}, {ID: 2, Name: "Attack on Titan", OriginalName: "Shingeki no Kyojin"}},
			query:   "Shingeki no Kyojin",
			wantID:  2,
		},
		{
			name:    "no score keeps first",
			results: []tmdb.Result{{ID: 7, Name: "Alpha"}, {ID: 8, Name: "Beta"}},
			query:   "Gamma",
			wantID:  7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			best := anime.Best(tt.results, tt.query, tt.year)
			require.NotNil(t, best)
			assert.Equal(t, tt.wantID, best.ID)
		})
	}

	assert.Nil(t, anime.Best(nil, "x", 0))
}

/*
TestMatch_RetriesWithBaseTitle falls back to the title without season markers.
*/
func TestMatch_RetriesWithBaseTitle(t *testing.T) {
	search := &fakeSearch{results: map[string][]tmdb.Result{
		"Spy x Family": {{ID: 120089, Name: "SPY x FAMILY"}},
	}}
	matcher := anime.NewMatcher(cache.New(time.Hour), search)

	core := anime.FromAniList(&anilist.Media{ID: 1, Title: anilist.Title{English: lo.ToPtr("Spy x Family Season 2")}})

	match := matcher.Match(context.Background(), core)
	require.NotNil(t, match)
	assert.Equal(t, 120089, match.ID)
	assert.Equal(t, []string{"Spy x Family Season 2", "Spy x Family"}, search.queries)

	// Cached: no further searches.
	matcher.Match(context.Background(), core)
	assert.Len(t, search.queries, 2)
}

func TestMatch_NoResults(t *testing.T) {
	matcher := anime.NewMatcher(cache.New(time.Hour), &fakeSearch{})

	core := anime.FromAniList(&anilist.Media{ID: 3, Title: anilist.Title{Romaji: lo.ToPtr("Unknown")}})
	assert.Nil(t, matcher.Match(context.Background(), core))
}

/*
TestMatchTitle_NativeScriptTitlesCacheSeparately looks each Japanese title up
on its own instead of reusing another title's match.
*/
func TestMatchTitle_NativeScriptTitlesCacheSeparately(t *testing.T) {
	search := &fakeSearch{results: map[string][]tmdb.Result{
		"進撃の巨人": {{ID: 1429, Name: "進撃の巨人"}},
		"鬼滅の刃":  {{ID: 85937, Name: "鬼滅の刃"}},
	}}
	matcher := anime.NewMatcher(cache.New(time.Hour), search)

	first, err := matcher.MatchTitle(context.Background(), tmdb.KindTV, "進撃の巨人")
	require.NoError(t, err)
	second, err := matcher.MatchTitle(context.Background(), tmdb.KindTV, "鬼滅の刃")
	require.NoError(t, err)

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, 1429, first.ID)
	assert.Equal(t, 85937, second.ID)
	assert.Equal(t, []string{"進撃の巨人", "鬼滅の刃"}, search.queries)
}
