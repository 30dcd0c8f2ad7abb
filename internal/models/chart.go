// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

package models

import (
	"strings"

	"github.com/goccy/go-json"
)

// GeocodeRequest is the body of POST /api/v1/geocode.
type GeocodeRequest struct {
	City string `json:"city" validate:"required,notblank,max=256"`
}

// GeocodeResponse is the resolved location.
type GeocodeResponse struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"display_name"`
}

// NatalRequest is the body of POST /api/v1/natal and
// POST /api/v1/planetary-positions. Pointers tell a missing coordinate from 0.
type NatalRequest struct {
	Date      string   `json:"date" validate:"required,birthdate"`
	Time      string   `json:"time" validate:"required,birthtime"`
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
	Timezone  string   `json:"timezone,omitempty" validate:"omitempty,timezone"`
}

// RenderNatalRequest is the body of POST /api/v1/render-natal.
type RenderNatalRequest struct {
	NatalRequest
	Format       string          `json:"format,omitempty" validate:"omitempty,oneof=svg png jpg webp pdf"`
	Width        int             `json:"width,omitempty" validate:"omitempty,min=100,max=4000"`
	Scale        float64         `json:"scale,omitempty" validate:"omitempty,gt=0,lte=4"`
	CustomColors json.RawMessage `json:"custom_colors,omitempty"`
}

// WheelBody is one caller-supplied body. Longitude is kept as raw JSON so
// that non-numeric values reach the renderer, which skips them.
type WheelBody struct {
	Label     string          `json:"label"`
	Name      string          `json:"name,omitempty"`
	Longitude json.RawMessage `json:"longitude"`
}

// WheelRequest is the body of POST /api/v1/wheel.
type WheelRequest struct {
	Bodies []WheelBody `json:"bodies" validate:"max=64"`
	Format string      `json:"format,omitempty" validate:"omitempty,oneof=svg png json"`
	Size   float64     `json:"size,omitempty" validate:"omitempty,gte=100,lte=4096"`
	Scale  int         `json:"scale,omitempty" validate:"omitempty,min=1,max=4"`
}

// ChartRequest is the body of POST /api/v1/chart.
type ChartRequest struct {
	First    string `json:"first" validate:"required,notblank,max=100"`
	Middle   string `json:"middle,omitempty" validate:"max=100"`
	Last     string `json:"last" validate:"required,notblank,max=100"`
	Date     string `json:"date" validate:"required,birthdate"`
	Time     string `json:"time" validate:"required,birthtime"`
	City     string `json:"city" validate:"required,notblank,max=256"`
	Timezone string `json:"timezone,omitempty" validate:"omitempty,timezone"`
	Format   string `json:"format,omitempty" validate:"omitempty,oneof=svg png json"`
}

// FullName joins the non-empty name parts with single spaces.
func (r *ChartRequest) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{r.First, r.Middle, r.Last} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// BodyPosition is a body as placed on the wheel, longitude normalized.
type BodyPosition struct {
	Label     string  `json:"label"`
	Longitude float64 `json:"longitude"`
}

// ChartResponse is the result of the server-side chart flow. Exactly one of
// WheelSVG, WheelPNG and Drawing is set, depending on the requested format.
// Drawing holds the encoded wheel drawing so this package stays free of
// renderer types.
type ChartResponse struct {
	Name     string          `json:"name"`
	Location GeocodeResponse `json:"location"`
	Bodies   []BodyPosition  `json:"bodies"`
	Dropped  int             `json:"dropped"`
	WheelSVG string          `json:"wheel_svg,omitempty"`
	WheelPNG string          `json:"wheel_png,omitempty"`
	Drawing  json.RawMessage `json:"drawing,omitempty"`
	Natal    json.RawMessage `json:"natal"`
}
