// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

package wheel

// Reference layout for a 420 unit surface.
const (
	ReferenceSize       = 420.0
	referenceRingRadius = 170.0
	referenceDiscExtra  = 28.0
	referenceLabel      = 190.0
	referenceMarkerIn   = 16.0
	referenceTickIn     = 4.0
	referenceTickOut    = 10.0
	referenceDotRadius  = 6.0
	referenceFontSize   = 12.0

	// TickCount is the number of sign boundaries drawn on the ring.
	TickCount = 12
	// TickStep is the angular distance between sign boundaries.
	TickStep = FullCircle / TickCount
)

// Geometry holds the fixed radii used to lay out one wheel.
// All values are absolute drawing units.
type Geometry struct {
	Size          float64 `json:"size"`
	Center        Point   `json:"center"`
	OuterRadius   float64 `json:"outer_radius"`
	RingRadius    float64 `json:"ring_radius"`
	LabelRadius   float64 `json:"label_radius"`
	MarkerRadius  float64 `json:"marker_radius"`
	TickInner     float64 `json:"tick_inner"`
	TickOuter     float64 `json:"tick_outer"`
	DotRadius     float64 `json:"dot_radius"`
	CenterDotSize float64 `json:"center_dot_radius"`
	FontSize      float64 `json:"font_size"`
}

// DefaultGeometry returns the reference 420 unit layout.
func DefaultGeometry() Geometry {
	return NewGeometry(ReferenceSize)
}

// NewGeometry scales the reference layout to a square surface of the given
// size. Non-positive sizes fall back to the reference size.
func NewGeometry(size float64) Geometry {
	if !(size > 0) {
		size = ReferenceSize
	}
	k := size / ReferenceSize
	ring := referenceRingRadius * k
	return Geometry{
		Size:          size,
		Center:        Point{X: size / 2, Y: size / 2},
		OuterRadius:   ring + referenceDiscExtra*k,
		RingRadius:    ring,
		LabelRadius:   referenceLabel * k,
		MarkerRadius:  ring - referenceMarkerIn*k,
		TickInner:     ring - referenceTickIn*k,
		TickOuter:     ring + referenceTickOut*k,
		DotRadius:     referenceDotRadius * k,
		CenterDotSize: referenceDotRadius * k,
		FontSize:      referenceFontSize * k,
	}
}

// Palette used by the composer.
const (
	ColorDiscFill   = "#F6E7C8"
	ColorGreen      = "#1F7A4A"
	ColorRed        = "#B21F2D"
	ColorLabel      = "#1a1a1a"
	StrokeHeavy     = 3.0
	StrokeTick      = 2.0
	StrokeMarker    = 2.0
	StrokeLeadLine  = 1.5
	OpacityTick     = 0.75
	OpacityLeadLine = 0.6
)
