// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/natalchart/internal/logging"
	"github.com/tomtom215/natalchart/internal/models"
)

// Geocode resolves {city} to coordinates.
func (h *Handler) Geocode(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.GeocodeRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	loc, err := h.geocoder.Lookup(r.Context(), req.City)
	if err != nil {
		respondUpstreamError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Str("city", sanitizeLogValue(logging.Truncate(req.City, 64))).
		Str("display_name", loc.DisplayName).
		Msg("City geocoded")

	respondSuccess(w, r, start, models.GeocodeResponse{
		Latitude:    loc.Latitude,
		Longitude:   loc.Longitude,
		DisplayName: loc.DisplayName,
	})
}
