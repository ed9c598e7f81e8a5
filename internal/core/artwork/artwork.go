// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package artwork selects cinematic backdrops for anime titles.

TMDB backdrops are preferred: filtered by votes and aspect ratio, then ranked by
vote average and width. When TMDB has nothing usable the AniList banner, then the
AniList cover, is wrapped as a single synthetic 16:9 candidate.
*/
package artwork

import "github.com/taibuivan/kanshi/internal/upstream/tmdb"

// # Domain Types

// Source tags where a backdrop came from. Diagnostics only.
type Source string

const (
	SourceTMDB          Source = "tmdb-artwork"
	SourceAniListBanner Source = "anilist-banner"
	SourceAniListCover  Source = "anilist-cover"
	SourceNone          Source = "none"
)

// Landscape bounds applied when [Options.RequireLandscape] is set.
const (
	MinLandscapeRatio = 1.6
	MaxLandscapeRatio = 1.9
)

// syntheticRatio is assumed for AniList images, which carry no dimensions.
const syntheticRatio = 16.0 / 9.0

// Candidate is one image option in three sizes.
type Candidate struct {
	Original    string   `json:"original"`
	Large       string   `json:"large"`
	Medium      string   `json:"medium"`
	AspectRatio *float64 `json:"aspectRatio,omitempty"`
	Width       *int     `json:"width,omitempty"`
	Height      *int     `json:"height,omitempty"`
	Language    *string  `json:"language,omitempty"`
	VoteAverage float64  `json:"voteAverage,omitempty"`
	VoteCount   int      `json:"voteCount,omitempty"`
	Source      Source   `json:"source,omitempty"`
}

// Hints are whatever the caller already knows about the title.
type Hints struct {
	TMDBID int
	Kind   tmdb.Kind
	Title  string
	Banner string
	Cover  string
}

// Options tune candidate selection.
type Options struct {
	Languages        []string
	RequireLandscape bool
	MinVoteCount     int
	MinVoteAverage   float64
	Limit            int
}

// DefaultOptions returns landscape-only selection with the standard vote thresholds.
func DefaultOptions(languages []string) Options {
	return Options{
		Languages:        languages,
		RequireLandscape: true,
		MinVoteCount:     2,
		MinVoteAverage:   5.0,
		Limit:            8,
	}
}

// Result is the outcome of [Resolver.Resolve].
type Result struct {
	Backdrop   *string     `json:"backdrop"`
	Source     Source      `json:"source"`
	Candidates []Candidate `json:"artworkCandidates"`
}

// FromImage converts a TMDB image into a candidate.
func FromImage(image tmdb.Image) Candidate {
	candidate := Candidate{
		Original:    tmdb.ImageURL("original", image.FilePath),
		Large:       tmdb.ImageURL("w1280", image.FilePath),
		Medium:      tmdb.ImageURL("w780", image.FilePath),
		Language:    image.Language,
		VoteAverage: image.VoteAverage,
		VoteCount:   image.VoteCount,
		Source:      SourceTMDB,
	}

	if image.AspectRatio > 0 {
		ratio := image.AspectRatio
		candidate.AspectRatio = &ratio
	}
	if image.Width > 0 && image.Height > 0 {
		width, height := image.Width, image.Height
		candidate.Width = &width
		candidate.Height = &height
	}
	return candidate
}

// synthetic wraps a single URL with an assumed 16:9 ratio.
func synthetic(url string, source Source) Candidate {
	ratio := syntheticRatio
	return Candidate{
		Original:    url,
		Large:       url,
		Medium:      url,
		AspectRatio: &ratio,
		Source:      source,
	}
}

// IsLandscape reports whether a candidate fits the landscape window.
// Candidates without a ratio are kept.
func (candidate Candidate) IsLandscape() bool {
	if candidate.AspectRatio == nil {
		return true
	}
	ratio := *candidate.AspectRatio
	return ratio >= MinLandscapeRatio && ratio <= MaxLandscapeRatio
}
