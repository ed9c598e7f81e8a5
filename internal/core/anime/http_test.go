// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package anime_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kanshi/internal/core/anime"
	"github.com/taibuivan/kanshi/internal/upstream/anilist"
)

func serve(t *testing.T, handler http.Handler, target string) (int, map[string]any) {
	t.Helper()

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return recorder.Code, body
}

func TestHandler_Detail(t *testing.T) {
	fx := newFixture(&fakeMedia{media: map[int]*anilist.Media{154587: frierenMedia()}})
	routes := anime.NewHandler(fx.service, "MX").Routes()

	status, body := serve(t, routes, "/154587?country=ar")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Frieren: Beyond Journey's End", body["title"])
	assert.Equal(t, "AR", fx.providers.requests[0].Country)

	status, body = serve(t, routes, "/999999999")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Anime not found in AniList", body["error"])
}

func TestHandler_Validation(t *testing.T) {
	routes := anime.NewHandler(newFixture(&fakeMedia{}).service, "MX").Routes()

	tests := []struct {
		name   string
		target string
	}{
		{"non numeric id", "/abc"},
		{"zero id", "/0/providers"},
		{"bad country", "/1?country=MEX"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := serve(t, routes, tt.target)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, "VALIDATION_ERROR", body["error"])
		})
	}
}

func TestHandler_Providers(t *testing.T) {
	fx := newFixture(&fakeMedia{media: map[int]*anilist.Media{154587: frierenMedia()}})
	routes := anime.NewHandler(fx.service, "MX").Routes()

	status, body := serve(t, routes, "/154587/providers")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "MX", body["country"])
	assert.Equal(t, "tmdb", body["usedSource"])
	assert.Len(t, body["providerInfos"], 2)
}
