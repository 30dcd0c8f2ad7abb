// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

package api

import (
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/natalchart/internal/astrology"
	"github.com/tomtom215/natalchart/internal/models"
	"github.com/tomtom215/natalchart/internal/wheel"
)

// Conversions between request/response models and the astrology and wheel
// packages. models imports neither of them.

func birthInput(req models.NatalRequest) astrology.BirthInput {
	return astrology.BirthInput{
		Date:      req.Date,
		Time:      req.Time,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Timezone:  req.Timezone,
	}
}

func renderOptions(req *models.RenderNatalRequest) astrology.RenderOptions {
	return astrology.RenderOptions{
		Format:       req.Format,
		Width:        req.Width,
		Scale:        req.Scale,
		CustomColors: req.CustomColors,
	}
}

// wheelBodies converts caller bodies for the renderer. A blank label falls
// back to name; a longitude that is not a JSON number is left nil so the
// renderer skips the body.
func wheelBodies(bodies []models.WheelBody) []wheel.CelestialBody {
	out := make([]wheel.CelestialBody, len(bodies))
	for i, b := range bodies {
		label := b.Label
		if strings.TrimSpace(label) == "" {
			label = b.Name
		}
		out[i] = wheel.CelestialBody{Label: label}
		var lon float64
		raw := strings.TrimSpace(string(b.Longitude))
		if raw != "" && raw != "null" && json.Unmarshal(b.Longitude, &lon) == nil {
			out[i].Longitude = &lon
		}
	}
	return out
}

// bodyPositions lists the markers of d in draw order.
func bodyPositions(d *wheel.Drawing) []models.BodyPosition {
	out := make([]models.BodyPosition, len(d.Markers))
	for i, m := range d.Markers {
		out[i] = models.BodyPosition{Label: m.Label, Longitude: m.Longitude}
	}
	return out
}
