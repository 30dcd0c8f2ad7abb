// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

package api

import (
	"context"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/natalchart/internal/astrology"
	"github.com/tomtom215/natalchart/internal/config"
	"github.com/tomtom215/natalchart/internal/geocode"
	"github.com/tomtom215/natalchart/internal/wheel"
)

// Version is reported by the health endpoint. Overridden at build time.
var Version = "dev"

// AstrologyClient is the subset of astrology.BreakerClient the handlers use.
type AstrologyClient interface {
	HasAPIKey() bool
	NatalChart(ctx context.Context, bd astrology.BirthData) (json.RawMessage, error)
	RenderNatal(ctx context.Context, bd astrology.BirthData, ro astrology.RenderOptions) (*astrology.RenderedImage, error)
	PlanetaryPositions(ctx context.Context, bd astrology.BirthData) (json.RawMessage, error)
}

// breakerReporter is implemented by clients wrapped in a circuit breaker.
type breakerReporter interface {
	BreakerState() string
}

// Handler serves every API route.
type Handler struct {
	astro     AstrologyClient
	geocoder  geocode.Geocoder
	wheel     config.WheelConfig
	maxBody   int64
	startTime time.Time
}

// NewHandler creates a Handler. cfg supplies wheel defaults and the request
// body limit.
func NewHandler(cfg *config.Config, astro AstrologyClient, geocoder geocode.Geocoder) *Handler {
	h := &Handler{
		astro:     astro,
		geocoder:  geocoder,
		wheel:     config.WheelConfig{Size: wheel.ReferenceSize, Format: string(wheel.FormatSVG), PNGScale: 2},
		maxBody:   1 << 20,
		startTime: time.Now(),
	}
	if cfg != nil {
		h.wheel = cfg.Wheel
		if cfg.Server.MaxBodyBytes > 0 {
			h.maxBody = cfg.Server.MaxBodyBytes
		}
	}
	return h
}

// breakerStates collects the state of every breaker-wrapped dependency.
func (h *Handler) breakerStates() map[string]string {
	out := make(map[string]string, 2)
	if b, ok := h.astro.(breakerReporter); ok {
		out[astrology.BreakerName] = b.BreakerState()
	}
	if b, ok := h.geocoder.(breakerReporter); ok {
		out[geocode.BreakerName] = b.BreakerState()
	}
	return out
}
