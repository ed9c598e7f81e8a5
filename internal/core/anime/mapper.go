// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package anime

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/taibuivan/kanshi/internal/core/artwork"
	"github.com/taibuivan/kanshi/internal/platform/constants"
	"github.com/taibuivan/kanshi/internal/upstream/anilist"
	"github.com/taibuivan/kanshi/internal/upstream/tmdb"
)

const aniListSiteURL = "https://anilist.co/anime/"

// # Construction

// FromAniList maps an AniList media record into a fresh [AnimeCore].
// Providers start empty; the title is never empty.
func FromAniList(media *anilist.Media) AnimeCore {
	core := AnimeCore{
		IDs: IDs{
			AniList: media.ID,
			MAL:     media.IDMal,
		},
		Titles: Titles{
			Romaji:  nonEmpty(media.Title.Romaji),
			English: nonEmpty(media.Title.English),
			Native:  nonEmpty(media.Title.Native),
		},
		Images: Images{
			Poster:            firstNonEmpty(media.CoverImage.ExtraLarge, media.CoverImage.Large),
			Banner:            nonEmpty(media.BannerImage),
			Color:             nonEmpty(media.CoverImage.Color),
			ArtworkCandidates: []artwork.Candidate{},
		},
		Format:     nonEmpty(media.Format),
		Season:     nonEmpty(media.Season),
		Episodes:   media.Episodes,
		Popularity: media.Popularity,
		Favourites: media.Favourites,
		IsAdult:    media.IsAdult,
		Genres:     lo.Ternary(media.Genres == nil, []string{}, media.Genres),
		StartDate:  isoDate(media.StartDate),
		Synopsis:   NewSynopsis(lo.FromPtr(media.Description)),
		Providers:  []string{},
		Links:      Links{AniList: aniListSiteURL + strconv.Itoa(media.ID)},
	}

	core.Title = displayTitle(core.Titles)
	core.Year = lo.CoalesceOrEmpty(media.SeasonYear, media.StartDate.Year)
	core.Score = score(media)

	if media.Status != nil && Status(*media.Status).IsValid() {
		core.Status = Status(*media.Status)
	}
	if len(media.Studios.Nodes) > 0 {
		core.Studio = nonEmpty(&media.Studios.Nodes[0].Name)
	}
	if next := media.NextAiringEpisode; next != nil {
		core.NextEpisode = &NextEpisode{Episode: next.Episode, AiringAt: next.AiringAt}
	}
	if core.IDs.MAL != nil {
		core.Links.MAL = fmt.Sprintf("https://myanimelist.net/anime/%d", *core.IDs.MAL)
	}

	return core
}

// # Merge Steps

// WithTMDB records the matched TMDB id and borrows its poster when AniList has none.
func WithTMDB(core AnimeCore, match *tmdb.Result) AnimeCore {
	if match == nil {
		return core
	}

	core.IDs.TMDB = lo.ToPtr(match.ID)
	if core.Images.Poster == nil && match.PosterPath != "" {
		core.Images.Poster = lo.ToPtr(tmdb.ImageURL("w780", match.PosterPath))
	}
	return core
}

// WithProviders replaces the provider list.
func WithProviders(core AnimeCore, providers []string) AnimeCore {
	core.Providers = lo.Ternary(providers == nil, []string{}, providers)
	return core
}

// WithArtwork stores the resolved backdrop and its candidates.
func WithArtwork(core AnimeCore, result artwork.Result) AnimeCore {
	core.Images.Backdrop = result.Backdrop
	core.Images.ArtworkSource = result.Source
	core.Images.ArtworkCandidates = lo.Ternary(result.Candidates == nil, []artwork.Candidate{}, result.Candidates)
	return core
}

// WithEnrichment fills ids, links and missing score, poster and synopsis from MAL, Kitsu and Shikimori.
func WithEnrichment(core AnimeCore, enrichment Enrichment) AnimeCore {
	if mal := enrichment.MAL; mal != nil {
		if core.IDs.MAL == nil && mal.MalID > 0 {
			core.IDs.MAL = lo.ToPtr(mal.MalID)
		}
		if core.Score == nil && mal.Score != nil && *mal.Score > 0 {
			core.Score = lo.ToPtr(round1(*mal.Score))
		}
		if core.Images.Poster == nil && mal.Poster() != "" {
			core.Images.Poster = lo.ToPtr(mal.Poster())
		}
		if core.Synopsis.IsEmpty() && mal.Synopsis != "" {
			core.Synopsis = NewSynopsis(mal.Synopsis)
		}
		if mal.URL != "" {
			core.Links.MAL = mal.URL
		}
	}

	if kitsuAnime := enrichment.Kitsu; kitsuAnime != nil {
		core.IDs.Kitsu = lo.ToPtr(kitsuAnime.ID)
		core.Links.Kitsu = "https://kitsu.io/anime/" + kitsuAnime.ID
		if core.Images.Poster == nil && kitsuAnime.Attributes.PosterImage.Best() != "" {
			core.Images.Poster = lo.ToPtr(kitsuAnime.Attributes.PosterImage.Best())
		}
		if core.Score == nil && kitsuAnime.Rating() > 0 {
			core.Score = lo.ToPtr(round1(kitsuAnime.Rating()))
		}
	}

	if shiki := enrichment.Shikimori; shiki != nil && shiki.ID > 0 {
		core.IDs.Shikimori = lo.ToPtr(shiki.ID)
		core.Links.Shikimori = shiki.PageURL()
	}

	return core
}

// # Helpers

// displayTitle picks English, then romaji, then native, then the fallback.
func displayTitle(titles Titles) string {
	for _, candidate := range []*string{titles.English, titles.Romaji, titles.Native} {
		if candidate != nil {
			return *candidate
		}
	}
	return constants.UntitledFallback
}

// score converts AniList's 0–100 average (or mean) score to 0–10.
func score(media *anilist.Media) *float64 {
	raw := lo.CoalesceOrEmpty(media.AverageScore, media.MeanScore)
	if raw == nil || *raw <= 0 {
		return nil
	}
	return lo.ToPtr(float64(*raw) / 10)
}

// isoDate renders a fuzzy date at the precision AniList knows it.
func isoDate(date anilist.FuzzyDate) *string {
	switch {
	case date.Year == nil:
		return nil
	case date.Month == nil:
		return lo.ToPtr(fmt.Sprintf("%04d", *date.Year))
	case date.Day == nil:
		return lo.ToPtr(fmt.Sprintf("%04d-%02d", *date.Year, *date.Month))
	default:
		return lo.ToPtr(fmt.Sprintf("%04d-%02d-%02d", *date.Year, *date.Month, *date.Day))
	}
}

func round1(value float64) float64 {
	return float64(int(value*10+0.5)) / 10
}

// nonEmpty returns nil for nil or blank strings.
func nonEmpty(value *string) *string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}

func firstNonEmpty(values ...*string) *string {
	for _, value := range values {
		if clean := nonEmpty(value); clean != nil {
			return clean
		}
	}
	return nil
}
