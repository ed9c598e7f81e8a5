// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Kanshi HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to Redis when REDIS_URL is set (optional second cache tier).
//  4. Build the shared cache and upstream HTTP client.
//  5. Wire HTTP handlers.
//  6. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/kanshi/internal/api"
	"github.com/taibuivan/kanshi/internal/platform/cache"
	"github.com/taibuivan/kanshi/internal/platform/config"
	"github.com/taibuivan/kanshi/internal/platform/constants"
	redisstore "github.com/taibuivan/kanshi/internal/platform/redis"
	"github.com/taibuivan/kanshi/internal/upstream/httpx"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "kanshi"))
	slog.SetDefault(log)

	log.Info("[Kanshi] service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "kanshi"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("default_country", cfg.DefaultCountry),
	)

	// Root context for background workers (rate limiter cleanup).
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// ── 3. Redis (optional) ───────────────────────────────────────────────
	cacheOptions := []cache.Option{}
	var health api.HealthDependencies

	if cfg.RedisURL != "" {
		startupCtx, startupCancel := context.WithTimeout(rootCtx, 10*time.Second)
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		startupCancel()
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()

		cacheOptions = append(cacheOptions, cache.WithRemote(redisstore.NewStore(rdb)))
		health.CheckCache = func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		}
	} else {
		log.Info("redis_disabled", slog.String("reason", "REDIS_URL not set"))
	}

	// ── 4. Cache & Upstream Client ────────────────────────────────────────
	sharedCache := cache.New(constants.DefaultCacheTTL, cacheOptions...)
	httpClient := httpx.New(cfg.UpstreamTimeout)

	// ── 5. Domain Wiring ──────────────────────────────────────────────────
	handlers := api.NewHandlers(cfg, sharedCache, httpClient, health, log)

	// ── 6. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(rootCtx, cfg, log, handlers)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
