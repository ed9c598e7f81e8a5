// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package streamavail_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kanshi/internal/upstream/streamavail"
)

func TestSearch_HeadersAndOptions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/shows/search/title", request.URL.Path)
		assert.Equal(t, "secret", request.Header.Get("X-RapidAPI-Key"))
		assert.Equal(t, "mx", request.URL.Query().Get("country"))
		_, _ = writer.Write([]byte(`[{"id":"1","title":"Frieren","tmdbId":"tv/209867",
			"streamingOptions":{"mx":[{"service":{"id":"crunchyroll","name":"Crunchyroll"},"type":"subscription"}]}}]`))
	}))
	defer server.Close()

	client := streamavail.New(server.URL, "secret", server.Client())
	shows, err := client.Search(context.Background(), "Frieren", "MX")

	require.NoError(t, err)
	require.Len(t, shows, 1)
	assert.Equal(t, 209867, shows[0].TMDBNumericID())
	assert.Equal(t, []string{"Crunchyroll"}, shows[0].ServiceNames("MX"))
	assert.Empty(t, shows[0].ServiceNames("US"))
}

func TestSearch_Disabled(t *testing.T) {
	client := streamavail.New("https://streaming-availability.p.rapidapi.com", "", http.DefaultClient)

	_, err := client.Search(context.Background(), "x", "MX")
	assert.ErrorIs(t, err, streamavail.ErrDisabled)
}
