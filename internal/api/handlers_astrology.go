// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/natalchart/internal/astrology"
	"github.com/tomtom215/natalchart/internal/models"
	"github.com/tomtom215/natalchart/internal/validation"
)

// requireAPIKey answers 500 when no astrology API key is configured. It
// runs before the body is read.
func (h *Handler) requireAPIKey(w http.ResponseWriter, r *http.Request) bool {
	if h.astro == nil || !h.astro.HasAPIKey() {
		respondError(w, r, http.StatusInternalServerError, models.CodeConfig, astrology.ErrMissingAPIKey.Error(), nil)
		return false
	}
	return true
}

// parseBirth validates birth input, answering 400 on failure.
func parseBirth(w http.ResponseWriter, r *http.Request, in astrology.BirthInput) (astrology.BirthData, bool) {
	bd, err := astrology.ParseBirthData(in)
	if err == nil {
		return bd, true
	}
	if astrology.MissingRequired(err) {
		respondError(w, r, http.StatusBadRequest, models.CodeValidation, msgMissingFields, nil)
		return bd, false
	}
	var verr *validation.RequestValidationError
	if errors.As(err, &verr) {
		apiErr := verr.ToAPIError()
		respondAPIError(w, r, http.StatusBadRequest, &models.APIError{Code: apiErr.Code, Message: apiErr.Message, Details: apiErr.Details}, nil)
		return bd, false
	}
	respondError(w, r, http.StatusBadRequest, models.CodeValidation, err.Error(), nil)
	return bd, false
}

// Natal relays the upstream natal chart for {date, time, latitude, longitude}.
func (h *Handler) Natal(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !h.requireAPIKey(w, r) {
		return
	}

	var req models.NatalRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	bd, ok := parseBirth(w, r, birthInput(req))
	if !ok {
		return
	}

	data, err := h.astro.NatalChart(r.Context(), bd)
	if err != nil {
		respondUpstreamError(w, r, err)
		return
	}
	respondSuccess(w, r, start, data)
}

// RenderNatal relays a chart image drawn by the astrology API.
func (h *Handler) RenderNatal(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !h.requireAPIKey(w, r) {
		return
	}

	var req models.RenderNatalRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	bd, ok := parseBirth(w, r, birthInput(req.NatalRequest))
	if !ok {
		return
	}
	req.Format = strings.ToLower(strings.TrimSpace(req.Format))
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	img, err := h.astro.RenderNatal(r.Context(), bd, renderOptions(&req))
	if err != nil {
		respondUpstreamError(w, r, err)
		return
	}
	respondSuccess(w, r, start, img)
}

// PlanetaryPositions relays raw planetary positions.
func (h *Handler) PlanetaryPositions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !h.requireAPIKey(w, r) {
		return
	}

	var req models.NatalRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	bd, ok := parseBirth(w, r, birthInput(req))
	if !ok {
		return
	}

	data, err := h.astro.PlanetaryPositions(r.Context(), bd)
	if err != nil {
		respondUpstreamError(w, r, err)
		return
	}
	respondSuccess(w, r, start, data)
}
