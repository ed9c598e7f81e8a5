// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package anime builds the unified anime record served by the API.

An [AnimeCore] starts from an AniList media record and is completed by explicit
merge steps: the TMDB match, regional providers, artwork and MAL/Kitsu/Shikimori
enrichment. Every step is optional; a failing upstream leaves its fields empty.
*/
package anime

import (
	"github.com/taibuivan/kanshi/internal/core/artwork"
	"github.com/taibuivan/kanshi/internal/upstream/tmdb"
)

// # Enums

// Status is the AniList release status.
type Status string

const (
	StatusFinished       Status = "FINISHED"
	StatusReleasing      Status = "RELEASING"
	StatusNotYetReleased Status = "NOT_YET_RELEASED"
	StatusCancelled      Status = "CANCELLED"
	StatusHiatus         Status = "HIATUS"
)

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusFinished, StatusReleasing, StatusNotYetReleased, StatusCancelled, StatusHiatus:
		return true
	}
	return false
}

// # Core Entity

// IDs holds the identifiers of the title in every source.
type IDs struct {
	AniList   int     `json:"anilist"`
	TMDB      *int    `json:"tmdb"`
	MAL       *int    `json:"mal"`
	Kitsu     *string `json:"kitsu"`
	Shikimori *int    `json:"shikimori"`
}

// Titles holds the AniList title variants.
type Titles struct {
	Romaji  *string `json:"romaji"`
	English *string `json:"english"`
	Native  *string `json:"native"`
}

// Images holds poster, banner and resolved artwork.
type Images struct {
	Poster            *string             `json:"poster"`
	Banner            *string             `json:"banner"`
	Backdrop          *string             `json:"backdrop"`
	Color             *string             `json:"color"`
	ArtworkSource     artwork.Source      `json:"artworkSource,omitempty"`
	ArtworkCandidates []artwork.Candidate `json:"artworkCandidates"`
}

// NextEpisode is the next scheduled episode of a releasing title.
type NextEpisode struct {
	Episode  int   `json:"episode"`
	AiringAt int64 `json:"airingAt"`
}

// Links are page URLs on the source sites.
type Links struct {
	AniList   string `json:"anilist,omitempty"`
	MAL       string `json:"mal,omitempty"`
	Kitsu     string `json:"kitsu,omitempty"`
	Shikimori string `json:"shikimori,omitempty"`
}

// AnimeCore is the unified anime record.
type AnimeCore struct {
	IDs         IDs          `json:"ids"`
	Title       string       `json:"title"`
	Titles      Titles       `json:"titles"`
	Images      Images       `json:"images"`
	Format      *string      `json:"format"`
	Season      *string      `json:"season"`
	Year        *int         `json:"year"`
	Episodes    *int         `json:"episodes"`
	Score       *float64     `json:"score"`
	Popularity  int          `json:"popularity"`
	Favourites  int          `json:"favourites"`
	Status      Status       `json:"status,omitempty"`
	IsAdult     bool         `json:"isAdult"`
	Genres      []string     `json:"genres"`
	Studio      *string      `json:"studio"`
	StartDate   *string      `json:"startDate"`
	NextEpisode *NextEpisode `json:"nextEpisode"`
	Synopsis    Synopsis     `json:"synopsis"`
	Providers   []string     `json:"providers"`
	Links       Links        `json:"links"`
}

// Kind is the TMDB catalogue this title belongs to.
func (core AnimeCore) Kind() tmdb.Kind {
	if core.Format != nil && *core.Format == "MOVIE" {
		return tmdb.KindMovie
	}
	return tmdb.KindTV
}

// YearOrZero returns the release year, 0 when unknown.
func (core AnimeCore) YearOrZero() int {
	if core.Year == nil {
		return 0
	}
	return *core.Year
}

// SearchTitle is the title most likely to match other catalogues: English, then romaji.
func (core AnimeCore) SearchTitle() string {
	for _, candidate := range []*string{core.Titles.English, core.Titles.Romaji, core.Titles.Native} {
		if candidate != nil && *candidate != "" {
			return *candidate
		}
	}
	return core.Title
}

// TitleVariants lists every non-empty title, synonyms excluded.
func (core AnimeCore) TitleVariants() []string {
	var variants []string
	for _, candidate := range []*string{core.Titles.Romaji, core.Titles.English, core.Titles.Native} {
		if candidate != nil && *candidate != "" {
			variants = append(variants, *candidate)
		}
	}
	return variants
}
