// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

package models

import "time"

// HealthResponse is returned by GET /api/v1/health.
type HealthResponse struct {
	Status           string            `json:"status"`
	Version          string            `json:"version"`
	APIKeyConfigured bool              `json:"api_key_configured"`
	Breakers         map[string]string `json:"breakers"`
	Uptime           float64           `json:"uptime_seconds"`
	Timestamp        time.Time         `json:"timestamp"`
}
