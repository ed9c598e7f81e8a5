// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kanshi/internal/platform/config"
)

/*
TestLoad_Defaults verifies the documented defaults when no variables are set.
*/
func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.ServerPort)
	assert.Equal(t, "MX", cfg.DefaultCountry)
	assert.Equal(t, "https://graphql.anilist.co", cfg.AniListURL)
	assert.Equal(t, []string{"es", "en", "null"}, cfg.ArtworkLanguages)
	assert.Equal(t, 6, cfg.SearchConcurrency)
	assert.Equal(t, 3, cfg.SearchProviderTopN)
	assert.Equal(t, 2, cfg.FallbackMaxAgeYears)
	assert.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
}

/*
TestLoad_StreamingKeySpellings checks that the short variable is used as a fallback.
*/
func TestLoad_StreamingKeySpellings(t *testing.T) {
	t.Setenv("STREAMING_AVAIL_KEY", "short")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "short", cfg.StreamingAvailabilityAPIKey())

	t.Setenv("STREAMING_AVAILABILITY_KEY", "long")
	cfg, err = config.Load()
	require.NoError(t, err)
	assert.Equal(t, "long", cfg.StreamingAvailabilityAPIKey())
}

/*
TestLoad_ProviderAliases parses extra alias pairs.
*/
func TestLoad_ProviderAliases(t *testing.T) {
	t.Setenv("PROVIDER_ALIASES", "Funimation Now:Crunchyroll,Pluto TV:Pluto TV")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "Crunchyroll", cfg.ProviderAliases["Funimation Now"])
	assert.Len(t, cfg.ProviderAliases, 2)
}

/*
TestLoad_InvalidCountry rejects region codes that are not two letters.
*/
func TestLoad_InvalidCountry(t *testing.T) {
	t.Setenv("DEFAULT_COUNTRY", "MEX")

	_, err := config.Load()
	assert.Error(t, err)
}

/*
TestAllowedOrigins trims and drops empty entries.
*/
func TestAllowedOrigins(t *testing.T) {
	cfg := &config.Config{ExtraOrigins: " https://a.example , ,https://b.example"}
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins())
}
