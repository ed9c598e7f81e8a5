// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package shikimori_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kanshi/internal/upstream/shikimori"
)

func TestAnime_SendsUserAgent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/animes/52991", request.URL.Path)
		assert.NotEmpty(t, request.Header.Get("User-Agent"))
		_, _ = writer.Write([]byte(`{"id":52991,"name":"Sousou no Frieren","url":"/animes/52991-sousou-no-frieren","score":"9.3"}`))
	}))
	defer server.Close()

	anime, err := shikimori.New(server.URL, server.Client()).Anime(context.Background(), 52991)
	require.NoError(t, err)
	assert.Equal(t, "https://shikimori.one/animes/52991-sousou-no-frieren", anime.PageURL())
}
