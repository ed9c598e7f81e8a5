// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package search implements title search over AniList and the best-match lookup.

Two entry points exist:

  - [Service.SearchAnime]: a cursor-paged AniList search, re-ranked locally and
    matched against TMDB, with providers for the leading results only.
  - [Service.BestMatch]: a single record merged from TMDB, MAL and Kitsu for a
    free-text title.
*/
package search

import (
	"context"

	"github.com/taibuivan/kanshi/internal/core/anime"
	"github.com/taibuivan/kanshi/internal/upstream/anilist"
	"github.com/taibuivan/kanshi/internal/upstream/jikan"
	"github.com/taibuivan/kanshi/internal/upstream/kitsu"
	"github.com/taibuivan/kanshi/pkg/pagination"
)

// # Contracts

// AniListSearcher pages through AniList search results.
type AniListSearcher interface {
	Search(ctx context.Context, search string, page, perPage int) (*anilist.Page, error)
}

// MALSearcher searches MyAnimeList through Jikan.
type MALSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]jikan.Anime, error)
}

// KitsuSearcher searches Kitsu.
type KitsuSearcher interface {
	Search(ctx context.Context, title string, limit int) ([]kitsu.Anime, error)
}

// # Paged Search

// Item is the search-result projection of an [anime.AnimeCore].
type Item struct {
	IDs        anime.IDs    `json:"ids"`
	Title      string       `json:"title"`
	Titles     anime.Titles `json:"titles"`
	Poster     *string      `json:"poster"`
	Banner     *string      `json:"banner"`
	Format     *string      `json:"format"`
	Season     *string      `json:"season"`
	Year       *int         `json:"year"`
	Episodes   *int         `json:"episodes"`
	Score      *float64     `json:"score"`
	Popularity int          `json:"popularity"`
	Status     anime.Status `json:"status,omitempty"`
	Genres     []string     `json:"genres"`
	Synopsis   string       `json:"synopsis"`
	Providers  []string     `json:"providers"`

	// Cursor resumes the search after the page this item came from.
	// Empty on the last page.
	Cursor string `json:"cursor,omitempty"`
}

// Result is one page of search results.
type Result struct {
	Results []Item          `json:"results"`
	Page    pagination.Meta `json:"page"`
}

func toItem(core anime.AnimeCore, cursor string) Item {
	return Item{
		IDs:        core.IDs,
		Title:      core.Title,
		Titles:     core.Titles,
		Poster:     core.Images.Poster,
		Banner:     core.Images.Banner,
		Format:     core.Format,
		Season:     core.Season,
		Year:       core.Year,
		Episodes:   core.Episodes,
		Score:      core.Score,
		Popularity: core.Popularity,
		Status:     core.Status,
		Genres:     core.Genres,
		Synopsis:   core.Synopsis.Short,
		Providers:  core.Providers,
		Cursor:     cursor,
	}
}

// # Best Match

// MatchIDs are the identifiers found for a best-match title.
type MatchIDs struct {
	TMDB  *int    `json:"tmdb"`
	MAL   *int    `json:"mal"`
	Kitsu *string `json:"kitsu"`
}

// Match is the record merged from TMDB, MAL and Kitsu for one free-text title.
type Match struct {
	Query     string         `json:"query"`
	Country   string         `json:"country"`
	IDs       MatchIDs       `json:"ids"`
	Title     string         `json:"title"`
	Kind      string         `json:"type,omitempty"`
	Year      *int           `json:"year"`
	Poster    *string        `json:"poster"`
	Backdrop  *string        `json:"backdrop"`
	Score     *float64       `json:"score"`
	Episodes  *int           `json:"episodes"`
	Synopsis  anime.Synopsis `json:"synopsis"`
	Providers []string       `json:"providers"`
	Sources   []string       `json:"sources"`
}
