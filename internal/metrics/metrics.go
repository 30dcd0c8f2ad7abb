// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

// Package metrics declares the Prometheus collectors exported on /metrics
// and small Record helpers so callers never touch label ordering directly.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "natalchart_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "natalchart_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "natalchart_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Upstream Metrics (astrology API, geocoder)
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "natalchart_upstream_request_duration_seconds",
			Help:    "Duration of calls to upstream services",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"service", "operation"},
	)

	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "natalchart_upstream_requests_total",
			Help: "Upstream calls by outcome (HTTP status, or error)",
		},
		[]string{"service", "operation", "status"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "natalchart_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "natalchart_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "natalchart_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Rate Limiter Metrics
	RateLimitRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "natalchart_rate_limit_rejections_total",
			Help: "Requests rejected by a rate limiter",
		},
		[]string{"limiter"},
	)

	RateLimitTrackedClients = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "natalchart_rate_limit_tracked_clients",
			Help: "Clients currently holding a token bucket",
		},
		[]string{"limiter"},
	)

	RateLimitEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "natalchart_rate_limit_evictions_total",
			Help: "Token buckets evicted, by reason (idle, capacity)",
		},
		[]string{"limiter", "reason"},
	)

	// Wheel Metrics
	WheelRendersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "natalchart_wheel_renders_total",
			Help: "Natal wheels rendered by output format",
		},
		[]string{"format"},
	)

	WheelRenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "natalchart_wheel_render_duration_seconds",
			Help:    "Time to compose and encode a natal wheel",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"format"},
	)

	WheelBodiesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "natalchart_wheel_bodies_dropped_total",
			Help: "Bodies skipped because their longitude was missing or not finite",
		},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordUpstream records one upstream call. status is the HTTP status code,
// or 0 when no response was received.
func RecordUpstream(service, operation string, status int, duration time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	UpstreamRequestsTotal.WithLabelValues(service, operation, label).Inc()
	UpstreamRequestDuration.WithLabelValues(service, operation).Observe(duration.Seconds())
}

// RecordRateLimitRejection counts a 429 issued by limiter.
func RecordRateLimitRejection(limiter string) {
	RateLimitRejections.WithLabelValues(limiter).Inc()
}

// RecordWheelRender records one rendered wheel and any bodies it skipped.
func RecordWheelRender(format string, dropped int, duration time.Duration) {
	WheelRendersTotal.WithLabelValues(format).Inc()
	WheelRenderDuration.WithLabelValues(format).Observe(duration.Seconds())
	if dropped > 0 {
		WheelBodiesDropped.Add(float64(dropped))
	}
}
