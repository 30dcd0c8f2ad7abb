// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

package api

import (
	"bytes"
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/natalchart/internal/astrology"
	"github.com/tomtom215/natalchart/internal/logging"
	"github.com/tomtom215/natalchart/internal/metrics"
	"github.com/tomtom215/natalchart/internal/models"
	"github.com/tomtom215/natalchart/internal/validation"
	"github.com/tomtom215/natalchart/internal/wheel"
)

// DroppedHeader reports how many bodies were skipped on raw wheel responses.
const DroppedHeader = "X-Wheel-Dropped"

type renderedWheel struct {
	drawing wheel.Drawing
	format  wheel.Format
	// encoded is empty for the json format.
	encoded []byte
}

// resolveFormat applies the configured default to an empty request format.
func (h *Handler) resolveFormat(requested string) (wheel.Format, error) {
	if strings.TrimSpace(requested) == "" {
		requested = h.wheel.Format
	}
	return wheel.ParseFormat(requested)
}

// renderWheel composes bodies and encodes the result unless f is json.
func (h *Handler) renderWheel(bodies []wheel.CelestialBody, f wheel.Format, size float64, scale int) (*renderedWheel, error) {
	if size <= 0 {
		size = h.wheel.Size
	}
	if scale <= 0 {
		scale = h.wheel.PNGScale
	}

	if f == wheel.FormatPNG {
		if err := wheel.CheckRaster(size, scale); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	out := &renderedWheel{drawing: wheel.NewGeometry(size).Compose(bodies), format: f}
	if f != wheel.FormatJSON {
		var buf bytes.Buffer
		if err := wheel.Encode(&buf, out.drawing, f, scale); err != nil {
			return nil, err
		}
		out.encoded = buf.Bytes()
	}
	metrics.RecordWheelRender(string(f), out.drawing.Dropped, time.Since(start))
	return out, nil
}

// Wheel renders a caller-supplied body list. svg and png are written as raw
// bytes, json as the envelope around the drawing.
func (h *Handler) Wheel(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.WheelRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	req.Format = strings.ToLower(strings.TrimSpace(req.Format))
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}
	format, err := h.resolveFormat(req.Format)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, models.CodeValidation, err.Error(), nil)
		return
	}

	rw, err := h.renderWheel(wheelBodies(req.Bodies), format, req.Size, req.Scale)
	if err != nil {
		respondRenderError(w, r, err)
		return
	}
	if rw.drawing.Dropped > 0 {
		logging.Ctx(r.Context()).Debug().Int("dropped", rw.drawing.Dropped).Msg("Bodies without a usable longitude skipped")
	}

	if format == wheel.FormatJSON {
		respondSuccess(w, r, start, rw.drawing)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set(DroppedHeader, strconv.Itoa(rw.drawing.Dropped))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(rw.encoded); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to write wheel")
	}
}

// Chart runs the whole flow: geocode the city, fetch the natal chart,
// normalize its body list and draw the wheel.
func (h *Handler) Chart(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !h.requireAPIKey(w, r) {
		return
	}

	var req models.ChartRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	req.Format = strings.ToLower(strings.TrimSpace(req.Format))
	if verr := validation.ValidateStruct(&req); verr != nil {
		if missingChartField(verr) {
			respondError(w, r, http.StatusBadRequest, models.CodeValidation, msgMissingChartFields, nil)
			return
		}
		apiErr := verr.ToAPIError()
		respondAPIError(w, r, http.StatusBadRequest, &models.APIError{Code: apiErr.Code, Message: apiErr.Message, Details: apiErr.Details}, nil)
		return
	}
	format, err := h.resolveFormat(req.Format)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, models.CodeValidation, err.Error(), nil)
		return
	}

	ctx := r.Context()
	loc, err := h.geocoder.Lookup(ctx, req.City)
	if err != nil {
		respondUpstreamError(w, r, err)
		return
	}

	bd, ok := parseBirth(w, r, astrology.BirthInput{
		Date:      req.Date,
		Time:      req.Time,
		Latitude:  &loc.Latitude,
		Longitude: &loc.Longitude,
		Timezone:  req.Timezone,
	})
	if !ok {
		return
	}

	natal, err := h.astro.NatalChart(ctx, bd)
	if err != nil {
		respondUpstreamError(w, r, err)
		return
	}

	bodies, err := astrology.ExtractBodies(natal)
	if err != nil {
		ev := logging.Ctx(ctx).Warn()
		if errors.Is(err, astrology.ErrNoBodies) {
			ev = logging.Ctx(ctx).Info()
		}
		ev.Err(err).Msg("Natal response has no body list, drawing an empty wheel")
		bodies = nil
	}

	rw, err := h.renderWheel(bodies, format, 0, 0)
	if err != nil {
		respondRenderError(w, r, err)
		return
	}

	resp := models.ChartResponse{
		Name: req.FullName(),
		Location: models.GeocodeResponse{
			Latitude:    loc.Latitude,
			Longitude:   loc.Longitude,
			DisplayName: loc.DisplayName,
		},
		Bodies:  bodyPositions(&rw.drawing),
		Dropped: rw.drawing.Dropped,
		Natal:   natal,
	}
	switch format {
	case wheel.FormatPNG:
		resp.WheelPNG = base64.StdEncoding.EncodeToString(rw.encoded)
	case wheel.FormatJSON:
		drawing, err := json.Marshal(rw.drawing)
		if err != nil {
			respondRenderError(w, r, err)
			return
		}
		resp.Drawing = drawing
	default:
		resp.WheelSVG = string(rw.encoded)
	}

	logging.Ctx(ctx).Info().
		Str("format", string(format)).
		Int("bodies", len(resp.Bodies)).
		Int("dropped", resp.Dropped).
		Dur("took", time.Since(start)).
		Msg("Chart generated")
	respondSuccess(w, r, start, resp)
}

// respondRenderError answers 400 for raster limits the caller can change
// and 500 for anything else.
func respondRenderError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, wheel.ErrCanvasTooLarge) || errors.Is(err, wheel.ErrInvalidScale) {
		respondError(w, r, http.StatusBadRequest, models.CodeValidation, err.Error(), nil)
		return
	}
	respondError(w, r, http.StatusInternalServerError, models.CodeRender, "Failed to render wheel", err)
}

// missingChartField reports whether any required chart field is absent or
// blank.
func missingChartField(verr *validation.RequestValidationError) bool {
	for _, fe := range verr.Errors() {
		if fe.Tag == "required" || fe.Tag == "notblank" {
			return true
		}
	}
	return false
}
