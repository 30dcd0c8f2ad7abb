// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/natalchart/internal/config"
	"github.com/tomtom215/natalchart/internal/middleware"
	"github.com/tomtom215/natalchart/internal/models"
	"github.com/tomtom215/natalchart/internal/ratelimit"
)

// Router wires handlers to routes.
type Router struct {
	handler        *Handler
	chiMiddleware  *ChiMiddleware
	geocodeLimiter *ratelimit.Limiter
}

// NewRouter creates a router. geocodeLimiter may be nil to leave the
// geocode route with only the global limit.
func NewRouter(handler *Handler, cfg *config.Config, geocodeLimiter *ratelimit.Limiter) *Router {
	mwCfg := DefaultChiMiddlewareConfig()
	if cfg != nil {
		mwCfg = ChiMiddlewareConfigFrom(cfg.Security)
		if cfg.Security.RateLimitDisabled {
			geocodeLimiter = nil
		}
	}
	return &Router{
		handler:        handler,
		chiMiddleware:  NewChiMiddleware(mwCfg),
		geocodeLimiter: geocodeLimiter,
	}
}

// geocodeLimit applies the per-client token bucket to the geocode route.
func (router *Router) geocodeLimit() func(http.Handler) http.Handler {
	if router.geocodeLimiter == nil {
		return passthrough
	}
	return ratelimit.Middleware(router.geocodeLimiter, ratelimit.ClientIP, respondRateLimited)
}

// SetupChi builds the HTTP handler.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// RequestID first so every later log line carries the IDs.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog(middleware.DefaultSlowThreshold))
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, models.CodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	h := router.handler
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		r.Route("/health", func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitHealth())
			r.Get("/", h.Health)
			r.Get("/live", h.HealthLive)
			r.Get("/ready", h.HealthReady)
		})

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Use(chimiddleware.AllowContentType("application/json"))
			r.Use(middleware.Compression)

			r.With(router.geocodeLimit()).Post("/geocode", h.Geocode)
			r.Post("/natal", h.Natal)
			r.Post("/render-natal", h.RenderNatal)
			r.Post("/planetary-positions", h.PlanetaryPositions)
			r.Post("/wheel", h.Wheel)
			r.Post("/chart", h.Chart)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
