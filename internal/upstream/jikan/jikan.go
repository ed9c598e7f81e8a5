// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package jikan reads MyAnimeList data through the public Jikan v4 API.
package jikan

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/taibuivan/kanshi/internal/upstream/httpx"
)

// Anime is the subset of a Jikan anime record used for enrichment.
type Anime struct {
	MalID        int      `json:"mal_id"`
	URL          string   `json:"url"`
	Title        string   `json:"title"`
	TitleEnglish string   `json:"title_english"`
	Type         string   `json:"type"`
	Episodes     *int     `json:"episodes"`
	Score        *float64 `json:"score"`
	Year         *int     `json:"year"`
	Synopsis     string   `json:"synopsis"`
	Images       struct {
		JPG struct {
			ImageURL      string `json:"image_url"`
			LargeImageURL string `json:"large_image_url"`
		} `json:"jpg"`
	} `json:"images"`
}

// Poster returns the largest available cover.
func (anime Anime) Poster() string {
	if anime.Images.JPG.LargeImageURL != "" {
		return anime.Images.JPG.LargeImageURL
	}
	return anime.Images.JPG.ImageURL
}

// Client talks to Jikan.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Jikan client.
func New(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// Anime fetches one record by MAL id.
func (client *Client) Anime(ctx context.Context, malID int) (*Anime, error) {
	var response struct {
		Data Anime `json:"data"`
	}

	rawURL := client.baseURL + "/anime/" + strconv.Itoa(malID)
	if err := httpx.GetJSON(ctx, client.httpClient, rawURL, nil, &response); err != nil {
		return nil, fmt.Errorf("jikan: anime %d: %w", malID, err)
	}
	return &response.Data, nil
}

// Search runs a SFW title search capped at limit results.
func (client *Client) Search(ctx context.Context, query string, limit int) ([]Anime, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("sfw", "true")

	var response struct {
		Data []Anime `json:"data"`
	}

	rawURL := client.baseURL + "/anime?" + params.Encode()
	if err := httpx.GetJSON(ctx, client.httpClient, rawURL, nil, &response); err != nil {
		return nil, fmt.Errorf("jikan: search %q: %w", query, err)
	}
	return response.Data, nil
}
