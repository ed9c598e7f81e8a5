// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package provider_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/kanshi/internal/core/provider"
	"github.com/taibuivan/kanshi/internal/platform/cache"
	"github.com/taibuivan/kanshi/internal/upstream/streamavail"
	"github.com/taibuivan/kanshi/internal/upstream/tmdb"
)

// # Fakes

type fakeTMDB struct {
	calls  atomic.Int32
	region *tmdb.RegionProviders
	err    error
}

func (f *fakeTMDB) WatchProviders(context.Context, tmdb.Kind, int, string) (*tmdb.RegionProviders, error) {
	f.calls.Add(1)
	return f.region, f.err
}

type fakeAvailability struct {
	calls atomic.Int32
	shows []streamavail.Show
	err   error
}

func (f *fakeAvailability) Search(context.Context, string, string) ([]streamavail.Show, error) {
	f.calls.Add(1)
	return f.shows, f.err
}

func show(tmdbID string, country string, services ...string) streamavail.Show {
	options := make([]streamavail.Option, 0, len(services))
	for _, name := range services {
		var option streamavail.Option
		option.Service.Name = name
		options = append(options, option)
	}
	return streamavail.Show{TMDBID: tmdbID, StreamingOptions: map[string][]streamavail.Option{country: options}}
}

var fixedNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func newResolver(tmdbSource *fakeTMDB, availability *fakeAvailability) *provider.Resolver {
	return provider.NewResolver(
		cache.New(time.Hour),
		tmdbSource,
		availability,
		provider.NewNormalizer(nil),
		2,
		provider.WithClock(func() time.Time { return fixedNow }),
	)
}

// # Tests

/*
TestResolve_TMDBHitSkipsFallback ensures the paid service is never called when TMDB answers.
*/
func TestResolve_TMDBHitSkipsFallback(t *testing.T) {
	tmdbSource := &fakeTMDB{region: &tmdb.RegionProviders{Flatrate: []tmdb.Provider{{Name: "Netflix Standard with Ads"}}}}
	availability := &fakeAvailability{shows: []streamavail.Show{show("tv/1", "mx", "Crunchyroll")}}

	got := newResolver(tmdbSource, availability).Resolve(context.Background(), provider.Request{
		TitleID: "1", Country: "mx", TMDBID: 1, Title: "Frieren", Year: fixedNow.Year(), Kind: tmdb.KindTV,
	})

	assert.Equal(t, []string{"Netflix"}, got.Providers)
	assert.Equal(t, provider.SourceTMDB, got.UsedSource)
	assert.True(t, got.TMDBOk)
	assert.Equal(t, int32(0), availability.calls.Load())
}

/*
TestResolve_CostGate opens the fallback for current titles and closes it for old ones.
*/
func TestResolve_CostGate(t *testing.T) {
	tests := []struct {
		name          string
		year          int
		wantCalls     int32
		wantProviders []string
		wantSource    provider.Source
	}{
		{"current year", fixedNow.Year(), 1, []string{"Crunchyroll"}, provider.SourceSA},
		{"unknown year", 0, 1, []string{"Crunchyroll"}, provider.SourceSA},
		{"edge of window", fixedNow.Year() - 2, 1, []string{"Crunchyroll"}, provider.SourceSA},
		{"five years old", fixedNow.Year() - 5, 0, []string{"Pirata"}, provider.SourceNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmdbSource := &fakeTMDB{}
			availability := &fakeAvailability{shows: []streamavail.Show{show("tv/9", "MX", "Crunchyroll")}}

			got := newResolver(tmdbSource, availability).Resolve(context.Background(), provider.Request{
				TitleID: "42", Country: "MX", Title: "Some Show", Year: tt.year, Kind: tmdb.KindTV,
			})

			assert.Equal(t, tt.wantCalls, availability.calls.Load())
			assert.Equal(t, tt.wantProviders, got.Providers)
			assert.Equal(t, tt.wantSource, got.UsedSource)
			assert.Equal(t, int32(0), tmdbSource.calls.Load())
		})
	}
}

func TestResolve_PrefersMatchingTMDBID(t *testing.T) {
	tmdbSource := &fakeTMDB{region: nil}
	availability := &fakeAvailability{shows: []streamavail.Show{
		show("tv/1", "mx", "Netflix"),
		show("tv/77", "mx", "HBO Max"),
	}}

	got := newResolver(tmdbSource, availability).Resolve(context.Background(), provider.Request{
		TitleID: "5", Country: "MX", TMDBID: 77, Title: "Show", Kind: tmdb.KindTV,
	})

	assert.Equal(t, []string{"Max"}, got.Providers)
	assert.True(t, got.TMDBOk)
	assert.True(t, got.SAOk)
}

func TestResolve_FailuresDegradeToSentinel(t *testing.T) {
	tmdbSource := &fakeTMDB{err: errors.New("tmdb down")}
	availability := &fakeAvailability{err: errors.New("rapidapi down")}

	got := newResolver(tmdbSource, availability).Resolve(context.Background(), provider.Request{
		TitleID: "6", Country: "MX", TMDBID: 3, Title: "Show", Kind: tmdb.KindTV,
	})

	assert.Equal(t, []string{"Pirata"}, got.Providers)
	assert.Equal(t, provider.SourceNone, got.UsedSource)
	assert.False(t, got.TMDBOk)
	assert.False(t, got.SAOk)
}

/*
TestResolve_CachesSentinel keeps the sentinel so repeated lookups cost nothing.
*/
func TestResolve_CachesSentinel(t *testing.T) {
	tmdbSource := &fakeTMDB{}
	availability := &fakeAvailability{}
	resolver := newResolver(tmdbSource, availability)

	req := provider.Request{TitleID: "7", Country: "mx", Title: "Show", Year: 0, Kind: tmdb.KindTV}

	first := resolver.Resolve(context.Background(), req)
	req.Country = "MX"
	second := resolver.Resolve(context.Background(), req)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"Pirata"}, second.Providers)
	assert.Equal(t, int32(1), availability.calls.Load())
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "providers:154587:MX", provider.CacheKey("154587", "mx"))
}
