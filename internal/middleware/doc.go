// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

/*
Package middleware provides the infrastructure middleware shared by every
route: request IDs, Prometheus instrumentation, access logging and gzip
compression.

All middleware use the func(http.Handler) http.Handler shape so they can be
mounted with chi's Use:

	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(time.Second))
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.Compression)

RequestID must run first so later middleware log with the request and
correlation IDs.
*/
package middleware
