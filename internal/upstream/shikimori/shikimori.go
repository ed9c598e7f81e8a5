// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package shikimori reads anime records from Shikimori, whose ids equal MAL ids.
package shikimori

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/taibuivan/kanshi/internal/upstream/httpx"
)

// siteURL prefixes the relative paths Shikimori returns.
const siteURL = "https://shikimori.one"

// userAgent is required by the Shikimori API terms.
const userAgent = "kanshi-api"

// Anime is the subset of a Shikimori record used for enrichment.
type Anime struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Russian string `json:"russian"`
	URL     string `json:"url"`
	Score   string `json:"score"`
	Image   struct {
		Original string `json:"original"`
	} `json:"image"`
}

// PageURL returns the absolute page link.
func (anime Anime) PageURL() string {
	if anime.URL == "" || strings.HasPrefix(anime.URL, "http") {
		return anime.URL
	}
	return siteURL + anime.URL
}

// Client talks to Shikimori.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Shikimori client.
func New(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// Anime fetches one record by MAL id.
func (client *Client) Anime(ctx context.Context, malID int) (*Anime, error) {
	var anime Anime

	headers := map[string]string{"User-Agent": userAgent}
	rawURL := client.baseURL + "/animes/" + strconv.Itoa(malID)
	if err := httpx.GetJSON(ctx, client.httpClient, rawURL, headers, &anime); err != nil {
		return nil, fmt.Errorf("shikimori: anime %d: %w", malID, err)
	}
	return &anime, nil
}
