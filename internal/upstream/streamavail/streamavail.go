// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package streamavail is the client for the RapidAPI "Streaming Availability" service.

Every call is billed, so the provider resolver only reaches it behind a cost gate.
*/
package streamavail

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

// ErrDisabled is returned when no RapidAPI key is configured.
var ErrDisabled = errors.New("streamavail: no api key configured")

// Option is one way to watch a show in a country.
type Option struct {
	Service struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"service"`
	Type string `json:"type"`
	Link string `json:"link"`
}

// Show is one search hit.
type Show struct {
	ID               string              `json:"id"`
	Title            string              `json:"title"`
	ShowType         string              `json:"showType"`
	TMDBID           string              `json:"tmdbId"`
	ReleaseYear      int                 `json:"releaseYear"`
	FirstAirYear     int                 `json:"firstAirYear"`
	StreamingOptions map[string][]Option `json:"streamingOptions"`
}

// TMDBNumericID extracts the numeric part of "tv/1234" or "movie/1234"; 0 when absent.
func (show Show) TMDBNumericID() int {
	raw := show.TMDBID
	if index := strings.LastIndex(raw, "/"); index >= 0 {
		raw = raw[index+1:]
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return id
}

// ServiceNames lists the service names offered in country, matched case-insensitively.
func (show Show) ServiceNames(country string) []string {
	var names []string
	for code, options := range show.StreamingOptions {
		if !strings.EqualFold(code, country) {
			continue
		}
		for _, option := range options {
			if option.Service.Name != "" {
				names = append(names, option.Service.Name)
			}
		}
	}
	return names
}

// Client talks to the RapidAPI endpoint.
type Client struct {
	baseURL    string
	host       string
	key        string
	httpClient *http.Client
}

// New creates a client. An empty key yields a client whose calls return [ErrDisabled].
func New(baseURL, key string, httpClient *http.Client) *Client {
	host := ""
	if parsed, err := url.Parse(baseURL); err == nil {
		host = parsed.Host
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		host:       host,
		key:        strings.TrimSpace(key),
		httpClient: httpClient,
	}
}

// Enabled reports whether a key is configured.
func (client *Client) Enabled() bool {
	return client.key != ""
}

// Search looks up shows by title with options for one country.
func (client *Client) Search(ctx context.Context, title, country string) ([]Show, error) {
	if !client.Enabled() {
		return nil, ErrDisabled
	}

	params := url.Values{}
	params.Set("title", title)
	params.Set("country", strings.ToLower(country))
	params.Set("output_language", "en")

	headers := map[string]string{
		"X-RapidAPI-Key":  client.key,
		"X-RapidAPI-Host": client.host,
	}

	var shows []Show
	rawURL := client.baseURL + "/shows/search/title?" + params.Encode()
	if err := httpx.GetJSON(ctx, client.httpClient, rawURL, headers, &shows); err != nil {
		return nil, fmt.Errorf("streamavail: search %q: %w", title, err)
	}
	return shows, nil
}
