// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package anime_test

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kanshi/internal/core/anime"
	"github.com/taibuivan/kanshi/internal/core/artwork"
	"github.com/taibuivan/kanshi/internal/upstream/anilist"
	"github.com/taibuivan/kanshi/internal/upstream/jikan"
	"github.com/taibuivan/kanshi/internal/upstream/kitsu"
	"github.com/taibuivan/kanshi/internal/upstream/shikimori"
	"github.com/taibuivan/kanshi/internal/upstream/tmdb"
)

func frierenMedia() *anilist.Media {
	media := &anilist.Media{
		ID:           154587,
		IDMal:        lo.ToPtr(52991),
		Title:        anilist.Title{Romaji: lo.ToPtr("Sousou no Frieren"), English: lo.ToPtr("Frieren: Beyond Journey's End")},
		Format:       lo.ToPtr("TV"),
		Status:       lo.ToPtr("FINISHED"),
		Season:       lo.ToPtr("FALL"),
		SeasonYear:   lo.ToPtr(2023),
		Episodes:     lo.ToPtr(28),
		AverageScore: lo.ToPtr(91),
		Popularity:   400000,
		Genres:       []string{"Adventure", "Drama"},
		Description:  lo.ToPtr("An elf mage."),
		CoverImage:   anilist.CoverImage{Large: lo.ToPtr("https://img/l.jpg")},
		BannerImage:  lo.ToPtr("https://img/banner.jpg"),
		StartDate:    anilist.FuzzyDate{Year: lo.ToPtr(2023), Month: lo.ToPtr(9), Day: lo.ToPtr(29)},
	}
	media.Studios.Nodes = []anilist.Studio{{Name: "Madhouse"}}
	return media
}

func TestFromAniList(t *testing.T) {
	core := anime.FromAniList(frierenMedia())

	assert.Equal(t, 154587, core.IDs.AniList)
	assert.Equal(t, 52991, *core.IDs.MAL)
	assert.Equal(t, "Frieren: Beyond Journey's End", core.Title)
	assert.Equal(t, 2023, *core.Year)
	assert.InDelta(t, 9.1, *core.Score, 0.001)
	assert.Equal(t, anime.StatusFinished, core.Status)
	assert.Equal(t, "2023-09-29", *core.StartDate)
	assert.Equal(t, "Madhouse", *core.Studio)
	assert.Equal(t, "https://img/l.jpg", *core.Images.Poster)
	assert.Equal(t, "https://anilist.co/anime/154587", core.Links.AniList)
	assert.Equal(t, tmdb.KindTV, core.Kind())
	assert.NotNil(t, core.Providers)
}

/*
TestFromAniList_UntitledFallback keeps the title non-empty.
*/
func TestFromAniList_UntitledFallback(t *testing.T) {
	core := anime.FromAniList(&anilist.Media{ID: 1, Title: anilist.Title{English: lo.ToPtr("  ")}})

	assert.Equal(t, "Untitled", core.Title)
	assert.Nil(t, core.Titles.English)
	assert.Nil(t, core.StartDate)
	assert.Nil(t, core.Score)
}

func TestMergeSteps(t *testing.T) {
	core := anime.FromAniList(&anilist.Media{ID: 2, Title: anilist.Title{Romaji: lo.ToPtr("Show")}, Format: lo.ToPtr("MOVIE")})
	assert.Equal(t, tmdb.KindMovie, core.Kind())

	core = anime.WithTMDB(core, &tmdb.Result{ID: 77, PosterPath: "/p.jpg"})
	assert.Equal(t, 77, *core.IDs.TMDB)
	assert.Equal(t, "https://image.tmdb.org/t/p/w780/p.jpg", *core.Images.Poster)

	core = anime.WithProviders(core, nil)
	assert.NotNil(t, core.Providers)

	core = anime.WithArtwork(core, artwork.Result{Backdrop: lo.ToPtr("https://b.jpg"), Source: artwork.SourceTMDB})
	assert.Equal(t, "https://b.jpg", *core.Images.Backdrop)
	assert.NotNil(t, core.Images.ArtworkCandidates)

	enrichment := anime.Enrichment{
		MAL:       &jikan.Anime{MalID: 5, Score: lo.ToPtr(8.47), Synopsis: "From MAL.", URL: "https://myanimelist.net/anime/5"},
		Kitsu:     &kitsu.Anime{ID: "99"},
		Shikimori: &shikimori.Anime{ID: 5, URL: "/animes/5"},
	}
	core = anime.WithEnrichment(core, enrichment)

	require.NotNil(t, core.IDs.MAL)
	assert.Equal(t, 5, *core.IDs.MAL)
	assert.InDelta(t, 8.5, *core.Score, 0.001)
	assert.Equal(t, "From MAL.", core.Synopsis.Text)
	assert.Equal(t, "99", *core.IDs.Kitsu)
	assert.Equal(t, 5, *core.IDs.Shikimori)
	assert.Equal(t, "https://shikimori.one/animes/5", core.Links.Shikimori)
}
