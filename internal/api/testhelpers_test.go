// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/natalchart/internal/astrology"
	"github.com/tomtom215/natalchart/internal/config"
	"github.com/tomtom215/natalchart/internal/geocode"
	"github.com/tomtom215/natalchart/internal/models"
	"github.com/tomtom215/natalchart/internal/ratelimit"
)

// mockAstrology records the birth data it receives.
type mockAstrology struct {
	mu        sync.Mutex
	hasKey    bool
	natal     json.RawMessage
	positions json.RawMessage
	image     *astrology.RenderedImage
	err       error
	state     string
	got       []astrology.BirthData
	renderOpt astrology.RenderOptions
}

func (m *mockAstrology) HasAPIKey() bool { return m.hasKey }

func (m *mockAstrology) BreakerState() string {
	if m.state == "" {
		return "closed"
	}
	return m.state
}

func (m *mockAstrology) record(bd astrology.BirthData) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.got = append(m.got, bd)
}

func (m *mockAstrology) NatalChart(_ context.Context, bd astrology.BirthData) (json.RawMessage, error) {
	m.record(bd)
	return m.natal, m.err
}

func (m *mockAstrology) RenderNatal(_ context.Context, bd astrology.BirthData, ro astrology.RenderOptions) (*astrology.RenderedImage, error) {
	m.record(bd)
	m.mu.Lock()
	m.renderOpt = ro
	m.mu.Unlock()
	return m.image, m.err
}

func (m *mockAstrology) PlanetaryPositions(_ context.Context, bd astrology.BirthData) (json.RawMessage, error) {
	m.record(bd)
	return m.positions, m.err
}

type mockGeocoder struct {
	loc   *geocode.Location
	err   error
	calls int
}

func (m *mockGeocoder) Lookup(_ context.Context, _ string) (*geocode.Location, error) {
	m.calls++
	return m.loc, m.err
}

func testConfig() *config.Config {
	cfg := config.Defaults()
	cfg.Security.RateLimitDisabled = true
	return cfg
}

func newTestServer(t *testing.T, astro *mockAstrology, geo *mockGeocoder) http.Handler {
	t.Helper()
	return newTestServerWithLimiter(t, testConfig(), astro, geo, nil)
}

func newTestServerWithLimiter(t *testing.T, cfg *config.Config, astro *mockAstrology, geo *mockGeocoder, l *ratelimit.Limiter) http.Handler {
	t.Helper()
	if astro == nil {
		astro = &mockAstrology{hasKey: true}
	}
	if geo == nil {
		geo = &mockGeocoder{loc: &geocode.Location{Latitude: 38.7, Longitude: -9.1, DisplayName: "Lisboa"}}
	}
	h := NewHandler(cfg, astro, geo)
	return NewRouter(h, cfg, l).SetupChi()
}

func doJSON(t *testing.T, srv http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.RemoteAddr = "198.51.100.10:40000"
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()
	var resp models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, rec.Body.String())
	}
	return resp
}

// dataAs re-decodes the envelope data into dst.
func dataAs(t *testing.T, resp models.APIResponse, dst interface{}) {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("marshal data: %v", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func httptestRequest(method, path, body, contentType string) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", contentType)
	req.RemoteAddr = "198.51.100.10:40000"
	return req
}

func serve(srv http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}
