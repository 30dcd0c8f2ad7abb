// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

package models

import (
	"time"
)

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error codes returned in APIError.Code.
const (
	CodeValidation  = "VALIDATION_ERROR"
	CodeUpstream    = "UPSTREAM_ERROR"
	CodeNotFound    = "NOT_FOUND"
	CodeConfig      = "CONFIG_ERROR"
	CodeRateLimited = "RATE_LIMITED"
	CodeCircuitOpen = "CIRCUIT_OPEN"
	CodeRender      = "RENDER_ERROR"
	CodeInternal    = "INTERNAL_ERROR"
)

// APIResponse is the envelope of every JSON API route.
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"latitude": 38.7077, "longitude": -9.1366, "display_name": "Lisboa, Portugal"},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "query_time_ms": 182}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "UPSTREAM_ERROR",
//	    "message": "Upstream API error",
//	    "details": {"status": 422, "details": {"message": "invalid date"}}
//	  },
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata is attached to every envelope.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
}

// APIError carries a machine-readable code and a message safe to show.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
