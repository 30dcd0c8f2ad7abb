// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/natalchart/internal/api"
	"github.com/tomtom215/natalchart/internal/astrology"
	"github.com/tomtom215/natalchart/internal/breaker"
	"github.com/tomtom215/natalchart/internal/config"
	"github.com/tomtom215/natalchart/internal/geocode"
	"github.com/tomtom215/natalchart/internal/logging"
	"github.com/tomtom215/natalchart/internal/ratelimit"
	"github.com/tomtom215/natalchart/internal/supervisor"
	"github.com/tomtom215/natalchart/internal/supervisor/services"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	api.Version = version

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("astrology_url", cfg.Astrology.BaseURL).
		Str("astrology_key", logging.MaskSecret(cfg.Astrology.APIKey)).
		Str("geocoder_url", cfg.Geocoder.BaseURL).
		Str("wheel_format", cfg.Wheel.Format).
		Msg("Configuration loaded")
	if !cfg.Astrology.HasAPIKey() {
		logging.Warn().Msg("ASTROLOGY_API_KEY is not set; chart routes will answer 500 until it is")
	}

	astro := astrology.NewBreakerClient(
		astrology.NewClient(astrology.OptionsFromConfig(cfg.Astrology), nil),
		breaker.FromConfig(cfg.Astrology.Breaker),
	)
	geocoder := geocode.NewNominatim(geocode.OptionsFromConfig(cfg.Geocoder), nil)

	var geocodeLimiter *ratelimit.Limiter
	if !cfg.Security.RateLimitDisabled {
		geocodeLimiter = ratelimit.New(ratelimit.Config{
			Name:       "geocode",
			Rate:       cfg.Security.GeocodeRate,
			Burst:      cfg.Security.GeocodeBurst,
			IdleTTL:    cfg.Security.ClientIdleTTL,
			MaxEntries: cfg.Security.MaxClients,
		})
	} else {
		logging.Warn().Msg("Rate limiting disabled (DISABLE_RATE_LIMIT=true)")
	}

	handler := api.NewHandler(cfg, astro, geocoder)
	router := api.NewRouter(handler, cfg, geocodeLimiter)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}
	if geocodeLimiter != nil {
		tree.AddBackgroundService(ratelimit.NewService(geocodeLimiter, cfg.Security.SweepInterval))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree stopped with error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}
	logging.Info().Msg("Shutdown complete")
}
