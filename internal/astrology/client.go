// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

package astrology

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/natalchart/internal/config"
	"github.com/tomtom215/natalchart/internal/logging"
	"github.com/tomtom215/natalchart/internal/metrics"
)

// Upstream paths.
const (
	PathNatalChart         = "/api/v3/charts/natal"
	PathRenderNatal        = "/api/v3/render/natal"
	PathPlanetaryPositions = "/api/v3/planetary-positions"
)

// maxErrorBodySize limits how much of an error body is kept.
const maxErrorBodySize = 64 * 1024

// maxResponseSize bounds successful responses, rendered images included.
const maxResponseSize = 16 << 20

// Options configures a Client. Zero values take the defaults noted.
type Options struct {
	APIKey  string
	BaseURL string
	// Timeout per attempt. Default 30s.
	Timeout      time.Duration
	HouseSystem  string
	ZodiacSystem string
	SubjectName  string
	RenderWidth  int
	RenderScale  float64
	// MaxRetries on HTTP 429. Default 2.
	MaxRetries int
	// RetryBaseDelay doubles on every retry. Default 1s.
	RetryBaseDelay time.Duration
}

// OptionsFromConfig maps the astrology configuration section to Options.
func OptionsFromConfig(c config.AstrologyConfig) Options {
	return Options{
		APIKey:       c.APIKey,
		BaseURL:      c.BaseURL,
		Timeout:      c.Timeout,
		HouseSystem:  c.HouseSystem,
		ZodiacSystem: c.ZodiacSystem,
		SubjectName:  c.SubjectName,
		RenderWidth:  c.RenderWidth,
		RenderScale:  c.RenderScale,
	}
}

// Client calls the Astrology API.
type Client struct {
	opts   Options
	http   *http.Client
	logger zerolog.Logger
}

// NewClient creates a client. A nil httpClient gets one with opts.Timeout.
func NewClient(opts Options, httpClient *http.Client) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.astrology-api.io"
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.HouseSystem == "" {
		opts.HouseSystem = "P"
	}
	if opts.ZodiacSystem == "" {
		opts.ZodiacSystem = "tropical"
	}
	if opts.SubjectName == "" {
		opts.SubjectName = "User"
	}
	if opts.RenderWidth <= 0 {
		opts.RenderWidth = 800
	}
	if opts.RenderScale <= 0 {
		opts.RenderScale = 1.0
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	} else if opts.MaxRetries == 0 {
		opts.MaxRetries = 2
	}
	if opts.RetryBaseDelay <= 0 {
		opts.RetryBaseDelay = time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		opts:   opts,
		http:   httpClient,
		logger: logging.WithComponent("astrology"),
	}
}

// HasAPIKey reports whether calls can be made at all.
func (c *Client) HasAPIKey() bool {
	return c.opts.APIKey != ""
}

type subject struct {
	Name      string    `json:"name"`
	BirthData BirthData `json:"birth_data"`
}

type chartOptions struct {
	HouseSystem  string `json:"house_system"`
	ZodiacSystem string `json:"zodiac_system"`
}

type natalRequest struct {
	Subject subject      `json:"subject"`
	Options chartOptions `json:"options"`
}

func (c *Client) subject(bd BirthData) subject {
	return subject{Name: c.opts.SubjectName, BirthData: bd}
}

// NatalChart fetches the natal chart for bd and returns the upstream JSON
// unchanged.
func (c *Client) NatalChart(ctx context.Context, bd BirthData) (json.RawMessage, error) {
	body := natalRequest{
		Subject: c.subject(bd),
		Options: chartOptions{HouseSystem: c.opts.HouseSystem, ZodiacSystem: c.opts.ZodiacSystem},
	}
	data, _, err := c.post(ctx, "natal", PathNatalChart, body)
	if err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("astrology natal: upstream returned invalid JSON")
	}
	return data, nil
}

// RenderOptions selects the upstream rendered image.
type RenderOptions struct {
	// Format is svg, png, jpg, webp or pdf. Default svg.
	Format string
	Width  int
	Scale  float64
	// CustomColors is passed through untouched when non-empty.
	CustomColors json.RawMessage
}

// RenderedImage is an upstream rendered chart. SVG content is text; every
// other format is base64 encoded.
type RenderedImage struct {
	Format      string `json:"format"`
	ContentType string `json:"content_type,omitempty"`
	Content     string `json:"content"`
}

type renderRequest struct {
	Subject      subject         `json:"subject"`
	Format       string          `json:"format"`
	Width        int             `json:"width"`
	Scale        float64         `json:"scale"`
	CustomColors json.RawMessage `json:"custom_colors,omitempty"`
}

// RenderNatal asks the upstream to draw the chart itself.
func (c *Client) RenderNatal(ctx context.Context, bd BirthData, ro RenderOptions) (*RenderedImage, error) {
	format := strings.ToLower(strings.TrimSpace(ro.Format))
	if format == "" {
		format = "svg"
	}
	width := ro.Width
	if width <= 0 {
		width = c.opts.RenderWidth
	}
	scale := ro.Scale
	if scale <= 0 {
		scale = c.opts.RenderScale
	}

	body := renderRequest{
		Subject:      c.subject(bd),
		Format:       format,
		Width:        width,
		Scale:        scale,
		CustomColors: ro.CustomColors,
	}
	data, contentType, err := c.post(ctx, "render", PathRenderNatal, body)
	if err != nil {
		return nil, err
	}

	if format == "svg" {
		return &RenderedImage{Format: "svg", Content: string(data)}, nil
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &RenderedImage{
		Format:      format,
		ContentType: contentType,
		Content:     base64.StdEncoding.EncodeToString(data),
	}, nil
}

type positionsRequest struct {
	Year      int     `json:"year"`
	Month     int     `json:"month"`
	Day       int     `json:"day"`
	Hour      int     `json:"hour"`
	Minute    int     `json:"minute"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PlanetaryPositions fetches raw positions with the flat request shape the
// positions endpoint expects.
func (c *Client) PlanetaryPositions(ctx context.Context, bd BirthData) (json.RawMessage, error) {
	body := positionsRequest{
		Year: bd.Year, Month: bd.Month, Day: bd.Day,
		Hour: bd.Hour, Minute: bd.Minute,
		Latitude: bd.Latitude, Longitude: bd.Longitude,
	}
	data, _, err := c.post(ctx, "positions", PathPlanetaryPositions, body)
	if err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("astrology positions: upstream returned invalid JSON")
	}
	return data, nil
}

// post sends payload as JSON and returns the successful response body and
// its content type.
func (c *Client) post(ctx context.Context, op, path string, payload interface{}) ([]byte, string, error) {
	if !c.HasAPIKey() {
		return nil, "", ErrMissingAPIKey
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("astrology %s: encode request: %w", op, err)
	}

	start := time.Now()
	resp, err := c.doWithRetry(ctx, c.opts.BaseURL+path, encoded)
	if err != nil {
		metrics.RecordUpstream("astrology", op, 0, time.Since(start))
		return nil, "", fmt.Errorf("astrology %s: %w", op, err)
	}
	defer resp.Body.Close()
	metrics.RecordUpstream("astrology", op, resp.StatusCode, time.Since(start))

	contentType := resp.Header.Get("Content-Type")
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw := readBodyForError(resp.Body)
		logging.Ctx(ctx).Warn().
			Str("operation", op).
			Int("status", resp.StatusCode).
			Str("body", logging.Truncate(string(raw), 256)).
			Msg("Astrology API returned an error")
		return nil, contentType, &UpstreamError{
			Operation: op,
			Status:    resp.StatusCode,
			Details:   decodeDetails(contentType, raw),
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, contentType, fmt.Errorf("astrology %s: read response: %w", op, err)
	}
	c.logger.Debug().Str("operation", op).Int("bytes", len(data)).Dur("took", time.Since(start)).Msg("Astrology API call complete")
	return data, contentType, nil
}

// doWithRetry retries HTTP 429 answers with exponential backoff. A
// Retry-After header replaces the backoff delay; when it asks for longer
// than opts.Timeout the 429 response is returned as is. Backoff delays are
// capped at opts.Timeout.
func (c *Client) doWithRetry(ctx context.Context, url string, body []byte) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json, image/*;q=0.9, */*;q=0.8")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= c.opts.MaxRetries {
			return resp, nil
		}

		delay := min(c.opts.RetryBaseDelay*time.Duration(1<<uint(attempt)), c.opts.Timeout)
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs >= 0 {
			wait := time.Duration(secs) * time.Second
			if wait > c.opts.Timeout {
				logging.Ctx(ctx).Debug().Dur("retry_after", wait).Dur("timeout", c.opts.Timeout).Msg("Astrology API retry window too long, giving up")
				return resp, nil
			}
			delay = wait
		}
		_ = resp.Body.Close()

		logging.Ctx(ctx).Debug().Int("attempt", attempt+1).Dur("delay", delay).Msg("Astrology API rate limited, retrying")
		t := time.NewTimer(delay)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		}
	}
}

// readBodyForError reads at most maxErrorBodySize bytes.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	return body
}
