// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

package wheel

import "math"

// FullCircle is one revolution in degrees.
const FullCircle = 360.0

// DefaultLabel is used for bodies supplied without a display name.
const DefaultLabel = "Planet"

// CelestialBody is one body supplied by the caller.
// Longitude is nil when the upstream data carried no numeric value.
type CelestialBody struct {
	Label     string   `json:"label"`
	Longitude *float64 `json:"longitude"`
}

// Body is a convenience constructor for a body with a known longitude.
func Body(label string, longitude float64) CelestialBody {
	return CelestialBody{Label: label, Longitude: &longitude}
}

// DisplayLabel returns the label to draw, falling back to DefaultLabel.
func (b CelestialBody) DisplayLabel() string {
	if b.Label == "" {
		return DefaultLabel
	}
	return b.Label
}

// Normalize folds any finite angle in degrees into [0, 360).
//
//	Normalize(-10) == 350
//	Normalize(725) == 5
//	Normalize(360) == 0
func Normalize(deg float64) float64 {
	x := math.Mod(deg, FullCircle)
	if x < 0 {
		x += FullCircle
	}
	// Tiny negative inputs round up to exactly 360 after the shift.
	if x >= FullCircle || x == 0 {
		return 0
	}
	return x
}

// usable reports whether a longitude can take part in layout.
func usable(lon *float64) bool {
	return lon != nil && !math.IsNaN(*lon) && !math.IsInf(*lon, 0)
}

// placedBody is a body that survived filtering, with its canonical angle.
type placedBody struct {
	label string
	angle float64
}

// Filter drops bodies without a finite longitude and canonicalizes the rest.
// Input order is preserved. The second return value is the number of bodies
// dropped; dropping is not an error.
func Filter(bodies []CelestialBody) ([]CelestialBody, int) {
	kept := make([]CelestialBody, 0, len(bodies))
	for _, b := range bodies {
		if !usable(b.Longitude) {
			continue
		}
		kept = append(kept, Body(b.DisplayLabel(), Normalize(*b.Longitude)))
	}
	return kept, len(bodies) - len(kept)
}
