// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/natalchart/internal/astrology"
	"github.com/tomtom215/natalchart/internal/breaker"
	"github.com/tomtom215/natalchart/internal/geocode"
	"github.com/tomtom215/natalchart/internal/models"
)

// Messages kept identical to what browser clients already display.
const (
	msgMissingFields      = "Missing required fields: date, time, latitude, longitude"
	msgMissingChartFields = "Please fill First, Last, Date of Birth, Time of Birth, and City."
	msgUpstreamError      = "Upstream API error"
	msgRequestFailed      = "API request failed"
	msgCityNotFound       = "City not found"
	msgInvalidJSON        = "Request body must be valid JSON"
)

var errBodyTooLarge = errors.New("request body too large")

// upstreamFailure maps an error from the astrology client or the geocoder
// to an HTTP status, error code and message.
func upstreamFailure(err error) (status int, apiErr *models.APIError) {
	var ue *astrology.UpstreamError
	var se *geocode.StatusError
	switch {
	case errors.Is(err, astrology.ErrMissingAPIKey):
		return http.StatusInternalServerError, &models.APIError{Code: models.CodeConfig, Message: astrology.ErrMissingAPIKey.Error()}
	case errors.As(err, &ue):
		return ue.Status, &models.APIError{
			Code:    models.CodeUpstream,
			Message: msgUpstreamError,
			Details: map[string]interface{}{"status": ue.Status, "details": ue.Details},
		}
	case errors.Is(err, geocode.ErrEmptyQuery):
		return http.StatusBadRequest, &models.APIError{Code: models.CodeValidation, Message: geocode.ErrEmptyQuery.Error()}
	case errors.Is(err, geocode.ErrNotFound):
		return http.StatusNotFound, &models.APIError{Code: models.CodeNotFound, Message: msgCityNotFound}
	case errors.As(err, &se):
		return http.StatusBadGateway, &models.APIError{
			Code:    models.CodeUpstream,
			Message: "Geocoding failed",
			Details: map[string]interface{}{"status": se.Status},
		}
	case errors.Is(err, breaker.ErrOpen):
		return http.StatusServiceUnavailable, &models.APIError{Code: models.CodeCircuitOpen, Message: "Upstream service temporarily unavailable"}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, &models.APIError{Code: models.CodeUpstream, Message: "Upstream request timed out"}
	default:
		return http.StatusBadGateway, &models.APIError{Code: models.CodeUpstream, Message: msgRequestFailed}
	}
}
