// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

package astrology

import (
	"context"
	"errors"

	"github.com/goccy/go-json"

	"github.com/tomtom215/natalchart/internal/breaker"
)

// BreakerName labels the astrology breaker in metrics and health output.
const BreakerName = "astrology-api"

// BreakerClient wraps Client with a circuit breaker. All three upstream
// operations share one breaker, named BreakerName, because they hit the
// same API and fail together. It is safe for concurrent use.
type BreakerClient struct {
	client *Client
	cb     *breaker.Breaker
}

// NewBreakerClient wraps client. Upstream 4xx answers, a missing key and
// caller cancellation are not counted as failures.
func NewBreakerClient(client *Client, s breaker.Settings) *BreakerClient {
	s.IsSuccessful = isHealthy
	return &BreakerClient{client: client, cb: breaker.New(BreakerName, s)}
}

func isHealthy(err error) bool {
	if err == nil || errors.Is(err, ErrMissingAPIKey) || errors.Is(err, context.Canceled) {
		return true
	}
	var ue *UpstreamError
	return errors.As(err, &ue) && ue.ClientError()
}

// HasAPIKey reports whether the wrapped client is configured.
func (b *BreakerClient) HasAPIKey() bool {
	return b.client.HasAPIKey()
}

// BreakerState returns the breaker state for health reporting.
func (b *BreakerClient) BreakerState() string {
	return b.cb.State()
}

// NatalChart calls Client.NatalChart through the breaker. While the breaker
// is open the call fails fast with breaker.ErrOpen and no request is sent,
// which also fails the chart endpoint that builds on it.
func (b *BreakerClient) NatalChart(ctx context.Context, bd BirthData) (json.RawMessage, error) {
	return breaker.Do(b.cb, func() (json.RawMessage, error) {
		return b.client.NatalChart(ctx, bd)
	})
}

// RenderNatal calls Client.RenderNatal through the breaker. Upstream 4xx
// answers come back as *UpstreamError without counting against it.
func (b *BreakerClient) RenderNatal(ctx context.Context, bd BirthData, ro RenderOptions) (*RenderedImage, error) {
	return breaker.Do(b.cb, func() (*RenderedImage, error) {
		return b.client.RenderNatal(ctx, bd, ro)
	})
}

// PlanetaryPositions calls Client.PlanetaryPositions through the breaker.
func (b *BreakerClient) PlanetaryPositions(ctx context.Context, bd BirthData) (json.RawMessage, error) {
	return breaker.Do(b.cb, func() (json.RawMessage, error) {
		return b.client.PlanetaryPositions(ctx, bd)
	})
}
