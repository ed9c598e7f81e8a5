// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package tmdb is a minimal client for The Movie Database REST API (v3).

It covers the three calls the aggregation pipeline needs: title search, regional
watch providers and backdrop images. The key may be a v3 api key (sent as the
api_key query parameter) or a v4 read access token (sent as a Bearer header).
*/
package tmdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/taibuivan/kanshi/internal/upstream/httpx"
)

// ErrDisabled is returned by every call when no key is configured.
var ErrDisabled = errors.New("tmdb: no api key configured")

// ImageBaseURL is the CDN prefix for file paths returned by the API.
const ImageBaseURL = "https://image.tmdb.org/t/p/"

// # Kinds

// Kind selects the TMDB catalogue: tv or movie.
type Kind string

const (
	KindTV    Kind = "tv"
	KindMovie Kind = "movie"
)

// ParseKind maps free text to a Kind, defaulting to tv.
func ParseKind(raw string) Kind {
	if strings.EqualFold(strings.TrimSpace(raw), string(KindMovie)) {
		return KindMovie
	}
	return KindTV
}

// # Response Shapes

// Result is one search hit. TV and movie fields are both decoded; use the accessors.
type Result struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Title         string  `json:"title"`
	OriginalName  string  `json:"original_name"`
	OriginalTitle string  `json:"original_title"`
	FirstAirDate  string  `json:"first_air_date"`
	ReleaseDate   string  `json:"release_date"`
	Overview      string  `json:"overview"`
	PosterPath    string  `json:"poster_path"`
	BackdropPath  string  `json:"backdrop_path"`
	Popularity    float64 `json:"popularity"`
	VoteAverage   float64 `json:"vote_average"`
}

// DisplayName returns the localized name for tv or the title for movies.
func (result Result) DisplayName() string {
	if result.Name != "" {
		return result.Name
	}
	return result.Title
}

// OriginalDisplayName returns the original-language name.
func (result Result) OriginalDisplayName() string {
	if result.OriginalName != "" {
		return result.OriginalName
	}
	return result.OriginalTitle
}

// Year returns the first-air or release year, or 0 when unknown.
func (result Result) Year() int {
	date := result.FirstAirDate
	if date == "" {
		date = result.ReleaseDate
	}
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

// Provider is one watch provider entry.
type Provider struct {
	ID       int    `json:"provider_id"`
	Name     string `json:"provider_name"`
	LogoPath string `json:"logo_path"`
	Priority int    `json:"display_priority"`
}

// RegionProviders groups providers by monetization mode for one region.
type RegionProviders struct {
	Link     string     `json:"link"`
	Flatrate []Provider `json:"flatrate"`
	Buy      []Provider `json:"buy"`
	Rent     []Provider `json:"rent"`
	Free     []Provider `json:"free"`
	Ads      []Provider `json:"ads"`
}

// Image is one backdrop (or logo/poster) entry.
type Image struct {
	FilePath    string  `json:"file_path"`
	AspectRatio float64 `json:"aspect_ratio"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Language    *string `json:"iso_639_1"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
}

// # Client

// Client talks to TMDB.
type Client struct {
	baseURL    string
	key        string
	httpClient *http.Client
}

// New creates a client. An empty key yields a client whose calls return [ErrDisabled].
func New(baseURL, key string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		key:        strings.TrimSpace(key),
		httpClient: httpClient,
	}
}

// Enabled reports whether a key is configured.
func (client *Client) Enabled() bool {
	return client.key != ""
}

/*
Search looks up a title in the tv or movie catalogue.

Parameters:
  - kind: Kind
  - query: string
  - year: int (0 means any year)
*/
func (client *Client) Search(ctx context.Context, kind Kind, query string, year int) ([]Result, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")
	if year > 0 {
		if kind == KindMovie {
			params.Set("year", strconv.Itoa(year))
		} else {
			params.Set("first_air_date_year", strconv.Itoa(year))
		}
	}

	var response struct {
		Results []Result `json:"results"`
	}
	if err := client.get(ctx, "/search/"+string(kind), params, &response); err != nil {
		return nil, fmt.Errorf("tmdb: search %s %q: %w", kind, query, err)
	}
	return response.Results, nil
}

// WatchProviders returns the providers for one region, or nil when TMDB lists none there.
func (client *Client) WatchProviders(ctx context.Context, kind Kind, id int, country string) (*RegionProviders, error) {
	var response struct {
		Results map[string]RegionProviders `json:"results"`
	}

	path := fmt.Sprintf("/%s/%d/watch/providers", kind, id)
	if err := client.get(ctx, path, url.Values{}, &response); err != nil {
		return nil, fmt.Errorf("tmdb: watch providers %s/%d: %w", kind, id, err)
	}

	region, ok := response.Results[strings.ToUpper(country)]
	if !ok {
		return nil, nil
	}
	return &region, nil
}

// Backdrops returns the backdrop images restricted to the given languages ("null" = untagged).
func (client *Client) Backdrops(ctx context.Context, kind Kind, id int, languages []string) ([]Image, error) {
	params := url.Values{}
	if len(languages) > 0 {
		params.Set("include_image_language", strings.Join(languages, ","))
	}

	var response struct {
		Backdrops []Image `json:"backdrops"`
	}

	path := fmt.Sprintf("/%s/%d/images", kind, id)
	if err := client.get(ctx, path, params, &response); err != nil {
		return nil, fmt.Errorf("tmdb: images %s/%d: %w", kind, id, err)
	}
	return response.Backdrops, nil
}

// ImageURL builds a CDN URL for a file path at the given size ("original", "w1280", ...).
func ImageURL(size, filePath string) string {
	if filePath == "" {
		return ""
	}
	return ImageBaseURL + size + filePath
}

// get authenticates and performs one request.
func (client *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if !client.Enabled() {
		return ErrDisabled
	}

	var headers map[string]string
	if client.isBearerToken() {
		headers = map[string]string{"Authorization": "Bearer " + client.key}
	} else {
		params.Set("api_key", client.key)
	}

	rawURL := client.baseURL + path
	if encoded := params.Encode(); encoded != "" {
		rawURL += "?" + encoded
	}
	return httpx.GetJSON(ctx, client.httpClient, rawURL, headers, out)
}

// isBearerToken detects v4 read access tokens, which are JWTs.
func (client *Client) isBearerToken() bool {
	return strings.HasPrefix(client.key, "eyJ") && strings.Count(client.key, ".") == 2
}
