// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

// Package geocode resolves a free-text city name to coordinates using a
// Nominatim-compatible search endpoint.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/natalchart/internal/breaker"
	"github.com/tomtom215/natalchart/internal/config"
	"github.com/tomtom215/natalchart/internal/logging"
	"github.com/tomtom215/natalchart/internal/metrics"
)

// BreakerName labels the geocoder breaker in metrics and health output.
const BreakerName = "geocoder"

const maxResponseSize = 1 << 20

var (
	// ErrNotFound is returned when the search has no hits.
	ErrNotFound = errors.New("city not found")

	// ErrEmptyQuery is returned for a blank city.
	ErrEmptyQuery = errors.New("city is required")
)

// Location is the first search hit.
type Location struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"display_name"`
}

// Geocoder looks up a city.
type Geocoder interface {
	Lookup(ctx context.Context, city string) (*Location, error)
}

// StatusError is a non-2xx answer from the search endpoint.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("geocoder returned HTTP %d", e.Status)
}

// Options configures a NominatimGeocoder.
type Options struct {
	BaseURL   string
	UserAgent string
	Language  string
	Timeout   time.Duration
	Breaker   breaker.Settings
}

// OptionsFromConfig maps the geocoder config section.
func OptionsFromConfig(c config.GeocoderConfig) Options {
	return Options{
		BaseURL:   c.BaseURL,
		UserAgent: c.UserAgent,
		Language:  c.Language,
		Timeout:   c.Timeout,
		Breaker:   breaker.FromConfig(c.Breaker),
	}
}

// NominatimGeocoder queries {base}/search?q=<city>&format=jsonv2&limit=1.
type NominatimGeocoder struct {
	opts   Options
	http   *http.Client
	cb     *breaker.Breaker
	logger zerolog.Logger
}

// NewNominatim creates a geocoder. A nil httpClient gets one with
// opts.Timeout.
func NewNominatim(opts Options, httpClient *http.Client) *NominatimGeocoder {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://nominatim.openstreetmap.org"
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.UserAgent == "" {
		opts.UserAgent = "natalchart/1.0"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	opts.Breaker.IsSuccessful = isHealthy
	return &NominatimGeocoder{
		opts:   opts,
		http:   httpClient,
		cb:     breaker.New(BreakerName, opts.Breaker),
		logger: logging.WithComponent("geocode"),
	}
}

// BreakerState returns the breaker state for health reporting.
func (g *NominatimGeocoder) BreakerState() string {
	return g.cb.State()
}

func isHealthy(err error) bool {
	if err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrEmptyQuery) || errors.Is(err, context.Canceled) {
		return true
	}
	var se *StatusError
	return errors.As(err, &se) && se.Status >= 400 && se.Status < 500 && se.Status != http.StatusTooManyRequests
}

type searchHit struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Lookup returns the first hit for city.
func (g *NominatimGeocoder) Lookup(ctx context.Context, city string) (*Location, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, ErrEmptyQuery
	}
	return breaker.Do(g.cb, func() (*Location, error) {
		return g.search(ctx, city)
	})
}

func (g *NominatimGeocoder) search(ctx context.Context, city string) (*Location, error) {
	q := url.Values{}
	q.Set("q", city)
	q.Set("format", "jsonv2")
	q.Set("limit", "1")
	if g.opts.Language != "" {
		q.Set("accept-language", g.opts.Language)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.opts.BaseURL+"/search?"+q.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("geocode: create request: %w", err)
	}
	req.Header.Set("User-Agent", g.opts.UserAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := g.http.Do(req)
	if err != nil {
		metrics.RecordUpstream("geocoder", "search", 0, time.Since(start))
		return nil, fmt.Errorf("geocode: request failed: %w", err)
	}
	defer resp.Body.Close()
	metrics.RecordUpstream("geocoder", "search", resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
		logging.Ctx(ctx).Warn().Int("status", resp.StatusCode).Msg("Geocoder returned an error")
		return nil, &StatusError{Status: resp.StatusCode}
	}

	var hits []searchHit
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&hits); err != nil {
		return nil, fmt.Errorf("geocode: decode response: %w", err)
	}
	if len(hits) == 0 {
		g.logger.Debug().Str("city", logging.Truncate(city, 64)).Msg("No geocoding match")
		return nil, ErrNotFound
	}

	lat, err := strconv.ParseFloat(hits[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("geocode: invalid latitude %q: %w", hits[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(hits[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("geocode: invalid longitude %q: %w", hits[0].Lon, err)
	}
	return &Location{Latitude: lat, Longitude: lon, DisplayName: hits[0].DisplayName}, nil
}
