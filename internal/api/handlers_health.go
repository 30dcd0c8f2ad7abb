// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/natalchart/internal/models"
)

// Health reports configuration and breaker state. The service is degraded
// when the astrology API key is missing or any breaker is not closed.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	breakers := h.breakerStates()
	keyConfigured := h.astro != nil && h.astro.HasAPIKey()

	status := "healthy"
	if !keyConfigured {
		status = "degraded"
	}
	for _, state := range breakers {
		if state != "closed" {
			status = "degraded"
		}
	}

	respondSuccess(w, r, time.Time{}, models.HealthResponse{
		Status:           status,
		Version:          Version,
		APIKeyConfigured: keyConfigured,
		Breakers:         breakers,
		Uptime:           time.Since(h.startTime).Seconds(),
		Timestamp:        time.Now().UTC(),
	})
}

// HealthLive answers 200 while the process is running.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, time.Time{}, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady answers 503 until an astrology API key is configured, since
// every chart route depends on it.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ready := h.astro != nil && h.astro.HasAPIKey()

	code, status := http.StatusOK, "ready"
	if !ready {
		code, status = http.StatusServiceUnavailable, "not_ready"
	}
	respondJSON(w, code, &models.APIResponse{
		Status: status,
		Data: map[string]interface{}{
			"api_key_configured": ready,
			"ready_to_serve":     ready,
			"uptime":             time.Since(h.startTime).Seconds(),
		},
		Metadata: metadataFor(r, time.Time{}),
	})
}
