// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tmdb_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kanshi/internal/upstream/tmdb"
)

func TestSearch_TVUsesFirstAirDateYear(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/search/tv", request.URL.Path)
		assert.Equal(t, "key123", request.URL.Query().Get("api_key"))
		assert.Equal(t, "2023", request.URL.Query().Get("first_air_date_year"))
		_, _ = writer.Write([]byte(`{"results":[{"id":209867,"name":"Frieren","first_air_date":"2023-09-29"}]}`))
	}))
	defer server.Close()

	client := tmdb.New(server.URL, "key123", server.Client())
	results, err := client.Search(context.Background(), tmdb.KindTV, "Frieren", 2023)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Frieren", results[0].DisplayName())
	assert.Equal(t, 2023, results[0].Year())
}

func TestWatchProviders_BearerAndRegion(t *testing.T) {
	token := "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJ4In0.signature"

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "Bearer "+token, request.Header.Get("Authorization"))
		assert.Empty(t, request.URL.Query().Get("api_key"))
		_, _ = writer.Write([]byte(`{"id":1,"results":{"MX":{
			"flatrate":[{"provider_id":8,"provider_name":"Netflix"}],
			"ads":[{"provider_id":1,"provider_name":"Netflix Standard with Ads"}]
		}}}`))
	}))
	defer server.Close()

	client := tmdb.New(server.URL, token, server.Client())

	region, err := client.WatchProviders(context.Background(), tmdb.KindTV, 1, "mx")
	require.NoError(t, err)
	require.NotNil(t, region)
	assert.Equal(t, "Netflix", region.Flatrate[0].Name)
	assert.Len(t, region.Ads, 1)

	missing, err := client.WatchProviders(context.Background(), tmdb.KindTV, 1, "JP")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestBackdrops_LanguageFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/movie/42/images", request.URL.Path)
		assert.Equal(t, "es,en,null", request.URL.Query().Get("include_image_language"))
		_, _ = writer.Write([]byte(`{"backdrops":[{"file_path":"/a.jpg","aspect_ratio":1.778,"width":3840,"height":2160,"iso_639_1":null,"vote_average":5.5,"vote_count":4}]}`))
	}))
	defer server.Close()

	client := tmdb.New(server.URL, "key", server.Client())
	images, err := client.Backdrops(context.Background(), tmdb.KindMovie, 42, []string{"es", "en", "null"})

	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Nil(t, images[0].Language)
	assert.Equal(t, "https://image.tmdb.org/t/p/w780/a.jpg", tmdb.ImageURL("w780", images[0].FilePath))
}

func TestDisabledWithoutKey(t *testing.T) {
	client := tmdb.New("http://unused", "", http.DefaultClient)

	assert.False(t, client.Enabled())
	_, err := client.Search(context.Background(), tmdb.KindTV, "x", 0)
	assert.ErrorIs(t, err, tmdb.ErrDisabled)
}

func TestParseKind(t *testing.T) {
	assert.Equal(t, tmdb.KindMovie, tmdb.ParseKind("MOVIE"))
	assert.Equal(t, tmdb.KindTV, tmdb.ParseKind(""))
	assert.Equal(t, tmdb.KindTV, tmdb.ParseKind("tv"))
}
