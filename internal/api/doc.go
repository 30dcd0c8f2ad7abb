// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

/*
Package api provides the HTTP API of the birth chart service.

Endpoints:

	GET  /api/v1/health              health document with breaker states
	GET  /api/v1/health/live         liveness check
	GET  /api/v1/health/ready        readiness check (API key configured)
	POST /api/v1/geocode             city -> latitude, longitude, display name
	POST /api/v1/natal               natal chart JSON from the astrology API
	POST /api/v1/render-natal        chart image rendered by the astrology API
	POST /api/v1/planetary-positions raw planetary positions
	POST /api/v1/wheel               natal wheel for a caller-supplied body list
	POST /api/v1/chart               city + birth data -> natal data and wheel
	GET  /metrics                    Prometheus metrics

JSON routes answer with the models.APIResponse envelope. The wheel route
returns raw SVG or PNG bytes for those formats and the envelope for json.

Usage:

	handler := api.NewHandler(cfg, astroClient, geocoder)
	router := api.NewRouter(handler, cfg, geocodeLimiter)
	srv := &http.Server{Addr: cfg.Server.Addr(), Handler: router.SetupChi()}
*/
package api
