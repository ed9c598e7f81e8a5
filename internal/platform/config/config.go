// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to upstream clients and services via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Kanshi API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"PORT"         envDefault:"3000"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Upstream endpoints
	AniListURL   string `env:"ANILIST_URL"   envDefault:"https://graphql.anilist.co"`
	TMDBURL      string `env:"TMDB_URL"      envDefault:"https://api.themoviedb.org/3"`
	JikanURL     string `env:"JIKAN_URL"     envDefault:"https://api.jikan.moe/v4"`
	KitsuURL     string `env:"KITSU_URL"     envDefault:"https://kitsu.io/api/edge"`
	ShikimoriURL string `env:"SHIKIMORI_URL" envDefault:"https://shikimori.one/api"`

	// TMDBKey accepts either a v3 api key or a v4 read access token.
	TMDBKey string `env:"TMDB_KEY"`

	// Streaming availability (RapidAPI). Both variable spellings are honoured.
	StreamingAvailabilityKey      string `env:"STREAMING_AVAILABILITY_KEY"`
	StreamingAvailabilityKeyShort string `env:"STREAMING_AVAIL_KEY"`
	StreamingAvailabilityURL      string `env:"STREAMING_AVAILABILITY_URL" envDefault:"https://streaming-availability.p.rapidapi.com"`

	// Regional defaults
	DefaultCountry string `env:"DEFAULT_COUNTRY" envDefault:"MX"`

	// Key-Value Cache (Redis). Optional second cache tier.
	RedisURL string `env:"REDIS_URL"`

	// UpstreamTimeout bounds every outbound HTTP call.
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"10s"`

	// Fan-out and cost controls
	SearchConcurrency   int `env:"SEARCH_CONCURRENCY"     envDefault:"6"`
	SearchProviderTopN  int `env:"SEARCH_PROVIDER_TOP_N"  envDefault:"3"`
	EnrichConcurrency   int `env:"ENRICH_CONCURRENCY"     envDefault:"5"`
	FallbackMaxAgeYears int `env:"FALLBACK_MAX_AGE_YEARS" envDefault:"2"`

	// ArtworkLanguages is the TMDB image language preference; "null" means untagged images.
	ArtworkLanguages []string `env:"ARTWORK_LANGUAGES" envDefault:"es,en,null" envSeparator:","`

	// ProviderAliases extends the static provider alias table ("raw:Canonical" pairs).
	ProviderAliases map[string]string `env:"PROVIDER_ALIASES" envSeparator:"," envKeyValSeparator:":"`

	// Per-IP rate limiting
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS"   envDefault:"20"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"40"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	cfg.DefaultCountry = strings.ToUpper(strings.TrimSpace(cfg.DefaultCountry))
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.DefaultCountry) != 2 {
		return fmt.Errorf("config: DEFAULT_COUNTRY must be a two-letter region code, got %q", c.DefaultCountry)
	}
	if c.SearchConcurrency < 1 || c.EnrichConcurrency < 1 {
		return fmt.Errorf("config: concurrency limits must be positive")
	}
	if c.SearchProviderTopN < 0 || c.FallbackMaxAgeYears < 0 {
		return fmt.Errorf("config: SEARCH_PROVIDER_TOP_N and FALLBACK_MAX_AGE_YEARS must not be negative")
	}
	return nil
}

// StreamingAvailabilityAPIKey returns the first non-empty RapidAPI key.
func (c *Config) StreamingAvailabilityAPIKey() string {
	if c.StreamingAvailabilityKey != "" {
		return c.StreamingAvailabilityKey
	}
	return c.StreamingAvailabilityKeyShort
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins returns the trimmed EXTRA_ORIGINS list.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
