// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package anilist is the AniList GraphQL client.

Queries are declared as Go structs whose `graphql` tags mirror the selection
set; github.com/shurcooL/graphql builds the document and decodes the answer.
AniList is the primary source, so unlike the other upstreams its failures are
surfaced to callers.
*/
package anilist

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/shurcooL/graphql"
)

// ErrNotFound is returned when AniList has no media for the requested id.
var ErrNotFound = errors.New("anilist: media not found")

// # Query Shapes

// Title holds the three title variants AniList exposes.
type Title struct {
	Romaji  *string `graphql:"romaji"`
	English *string `graphql:"english"`
	Native  *string `graphql:"native"`
}

// CoverImage holds the poster in two sizes plus its dominant colour.
type CoverImage struct {
	ExtraLarge *string `graphql:"extraLarge"`
	Large      *string `graphql:"large"`
	Color      *string `graphql:"color"`
}

// FuzzyDate is a date whose parts may be unknown.
type FuzzyDate struct {
	Year  *int `graphql:"year"`
	Month *int `graphql:"month"`
	Day   *int `graphql:"day"`
}

// AiringSchedule describes the next episode of a releasing title.
type AiringSchedule struct {
	Episode  int   `graphql:"episode"`
	AiringAt int64 `graphql:"airingAt"`
}

// Studio is a studio node.
type Studio struct {
	Name string `graphql:"name"`
}

// Media is the AniList record the aggregation pipeline consumes.
type Media struct {
	ID                int             `graphql:"id"`
	IDMal             *int            `graphql:"idMal"`
	Title             Title           `graphql:"title"`
	Synonyms          []string        `graphql:"synonyms"`
	Format            *string         `graphql:"format"`
	Status            *string         `graphql:"status"`
	Season            *string         `graphql:"season"`
	SeasonYear        *int            `graphql:"seasonYear"`
	Episodes          *int            `graphql:"episodes"`
	AverageScore      *int            `graphql:"averageScore"`
	MeanScore         *int            `graphql:"meanScore"`
	Popularity        int             `graphql:"popularity"`
	Favourites        int             `graphql:"favourites"`
	IsAdult           bool            `graphql:"isAdult"`
	Genres            []string        `graphql:"genres"`
	Description       *string         `graphql:"description(asHtml: true)"`
	CoverImage        CoverImage      `graphql:"coverImage"`
	BannerImage       *string         `graphql:"bannerImage"`
	StartDate         FuzzyDate       `graphql:"startDate"`
	NextAiringEpisode *AiringSchedule `graphql:"nextAiringEpisode"`
	Studios           struct {
		Nodes []Studio `graphql:"nodes"`
	} `graphql:"studios(isMain: true)"`
}

// Page is one page of search results.
type Page struct {
	CurrentPage int
	HasNextPage bool
	Media       []Media
}

type pageInfo struct {
	CurrentPage int  `graphql:"currentPage"`
	HasNextPage bool `graphql:"hasNextPage"`
}

type mediaQuery struct {
	Media Media `graphql:"Media(id: $id, type: ANIME)"`
}

type searchQuery struct {
	Page struct {
		PageInfo pageInfo `graphql:"pageInfo"`
		Media    []Media  `graphql:"media(search: $search, type: ANIME, isAdult: false, sort: SEARCH_MATCH)"`
	} `graphql:"Page(page: $page, perPage: $perPage)"`
}

type releasingQuery struct {
	Page struct {
		Media []Media `graphql:"media(status: RELEASING, type: ANIME, isAdult: false, sort: POPULARITY_DESC)"`
	} `graphql:"Page(page: 1, perPage: $perPage)"`
}

// # Client

// Client issues AniList queries.
type Client struct {
	gql *graphql.Client
}

// New creates a client for the given GraphQL endpoint.
func New(endpoint string, httpClient *http.Client) *Client {
	return &Client{gql: graphql.NewClient(endpoint, httpClient)}
}

/*
Media fetches one anime by AniList id.

Returns:
  - *Media: The record
  - error: [ErrNotFound] when AniList has no such id, otherwise a wrapped failure
*/
func (client *Client) Media(ctx context.Context, id int) (*Media, error) {
	var query mediaQuery
	variables := map[string]any{
		"id": graphql.Int(id),
	}

	if err := client.gql.Query(ctx, &query, variables); err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("anilist: media %d: %w", id, err)
	}

	if query.Media.ID == 0 {
		return nil, ErrNotFound
	}
	return &query.Media, nil
}

// Search runs a title search for one page.
func (client *Client) Search(ctx context.Context, search string, page, perPage int) (*Page, error) {
	var query searchQuery
	variables := map[string]any{
		"search":  graphql.String(search),
		"page":    graphql.Int(page),
		"perPage": graphql.Int(perPage),
	}

	if err := client.gql.Query(ctx, &query, variables); err != nil {
		return nil, fmt.Errorf("anilist: search %q: %w", search, err)
	}

	return &Page{
		CurrentPage: query.Page.PageInfo.CurrentPage,
		HasNextPage: query.Page.PageInfo.HasNextPage,
		Media:       query.Page.Media,
	}, nil
}

// Releasing returns currently airing anime ordered by popularity.
func (client *Client) Releasing(ctx context.Context, perPage int) ([]Media, error) {
	var query releasingQuery
	variables := map[string]any{
		"perPage": graphql.Int(perPage),
	}

	if err := client.gql.Query(ctx, &query, variables); err != nil {
		return nil, fmt.Errorf("anilist: releasing: %w", err)
	}
	return query.Page.Media, nil
}

// isNotFound recognises AniList's 404 answer, which the GraphQL client only
// exposes through its error text.
func isNotFound(err error) bool {
	message := err.Error()
	return strings.Contains(message, "404") || strings.Contains(message, "Not Found")
}
