// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for cursor-paged list endpoints.
//
// # Overview
//
// A cursor is an opaque token: base64 of the JSON object {page, perPage, query}.
// Clients echo the cursor back verbatim; they never build one. A token that
// cannot be decoded is treated as "no cursor" and the listing restarts at page 1.
package pagination

import (
	"encoding/base64"
	"encoding/json"
	"strings"
)

const (
	// DefaultLimit is the number of items per page if not specified.
	DefaultLimit = 10
	// MaxLimit is the upper bound for items per page to prevent upstream abuse.
	MaxLimit = 50
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
)

// Cursor is the decoded position of a paged listing.
type Cursor struct {
	Page    int    `json:"page"`
	PerPage int    `json:"perPage"`
	Query   string `json:"query"`
}

// Meta is the pagination metadata included in list responses.
type Meta struct {
	Size    int    `json:"size"`
	HasNext bool   `json:"hasNext"`
	Cursor  string `json:"cursor,omitempty"`
}

// ClampLimit applies [DefaultLimit] to non-positive values and caps at [MaxLimit].
func ClampLimit(limit int) int {
	if limit < 1 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Encode serializes c into an opaque token. The URL-safe unpadded alphabet
// keeps the token intact when a client echoes it into a query string unescaped.
func Encode(c Cursor) string {
	raw, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(raw)
}

/*
Decode parses an opaque token.

Description: Both the standard and URL-safe base64 alphabets are accepted,
with or without padding. Any failure, or a page below 1, reports false.

Returns:
  - Cursor: Decoded position
  - bool: Whether the token was usable
*/
func Decode(token string) (Cursor, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Cursor{}, false
	}

	raw, ok := decodeBase64(token)
	if !ok {
		return Cursor{}, false
	}

	var cursor Cursor
	if err := json.Unmarshal(raw, &cursor); err != nil {
		return Cursor{}, false
	}

	if cursor.Page < DefaultPage {
		return Cursor{}, false
	}
	return cursor, true
}

/*
Resolve determines the page to fetch for query.

Description: A missing or corrupt token, or a token issued for another query,
restarts at page 1 with perPage. A valid token keeps its own page size.
*/
func Resolve(token, query string, perPage int) Cursor {
	start := Cursor{Page: DefaultPage, PerPage: perPage, Query: query}

	cursor, ok := Decode(token)
	if !ok || cursor.Query != query {
		return start
	}

	cursor.PerPage = ClampLimit(cursor.PerPage)
	return cursor
}

// Next returns the cursor for the page after c.
func (c Cursor) Next() Cursor {
	return Cursor{Page: c.Page + 1, PerPage: c.PerPage, Query: c.Query}
}

func decodeBase64(token string) ([]byte, bool) {
	encodings := []*base64.Encoding{
		base64.StdEncoding,
		base64.URLEncoding,
		base64.RawStdEncoding,
		base64.RawURLEncoding,
	}

	for _, encoding := range encodings {
		if raw, err := encoding.DecodeString(token); err == nil {
			return raw, true
		}
	}
	return nil, false
}
