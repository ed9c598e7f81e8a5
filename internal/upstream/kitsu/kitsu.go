// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package kitsu searches the Kitsu JSON:API catalogue.
package kitsu

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/taibuivan/kanshi/internal/upstream/httpx"
)

const mediaType = "application/vnd.api+json"

// ImageSet is a Kitsu image in several sizes.
type ImageSet struct {
	Original string `json:"original"`
	Large    string `json:"large"`
}

// Best returns the largest populated size.
func (set *ImageSet) Best() string {
	if set == nil {
		return ""
	}
	if set.Original != "" {
		return set.Original
	}
	return set.Large
}

// Anime is a Kitsu anime resource.
type Anime struct {
	ID         string `json:"id"`
	Attributes struct {
		CanonicalTitle string            `json:"canonicalTitle"`
		Titles         map[string]string `json:"titles"`
		Synopsis       string            `json:"synopsis"`
		AverageRating  string            `json:"averageRating"`
		StartDate      string            `json:"startDate"`
		EpisodeCount   *int              `json:"episodeCount"`
		Subtype        string            `json:"subtype"`
		PosterImage    *ImageSet         `json:"posterImage"`
		CoverImage     *ImageSet         `json:"coverImage"`
	} `json:"attributes"`
}

// Rating converts the 0–100 string rating to a 0–10 score; 0 when unrated.
func (anime Anime) Rating() float64 {
	value, err := strconv.ParseFloat(anime.Attributes.AverageRating, 64)
	if err != nil {
		return 0
	}
	return value / 10
}

// Client talks to Kitsu.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Kitsu client.
func New(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// Search runs a full-text title search capped at limit results.
func (client *Client) Search(ctx context.Context, title string, limit int) ([]Anime, error) {
	params := url.Values{}
	params.Set("filter[text]", title)
	params.Set("page[limit]", strconv.Itoa(limit))

	var response struct {
		Data []Anime `json:"data"`
	}

	headers := map[string]string{"Accept": mediaType}
	rawURL := client.baseURL + "/anime?" + params.Encode()
	if err := httpx.GetJSON(ctx, client.httpClient, rawURL, headers, &response); err != nil {
		return nil, fmt.Errorf("kitsu: search %q: %w", title, err)
	}
	return response.Data, nil
}
