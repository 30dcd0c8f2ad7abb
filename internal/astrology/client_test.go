// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

package astrology

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/natalchart/internal/breaker"
)

func testBirthData() BirthData {
	return BirthData{Year: 1990, Month: 7, Day: 4, Hour: 13, Minute: 45, Latitude: 38.72, Longitude: -9.14, Timezone: "UTC"}
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Options{APIKey: "test-key", BaseURL: srv.URL, RetryBaseDelay: time.Millisecond}, srv.Client())
}

func TestNatalChart_RequestShape(t *testing.T) {
	t.Parallel()

	var got map[string]interface{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != PathNatalChart {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization = %q", auth)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"planets":[{"name":"Sun","longitude":102.5}]}`))
	})

	raw, err := c.NatalChart(context.Background(), testBirthData())
	if err != nil {
		t.Fatalf("NatalChart: %v", err)
	}
	if string(raw) != `{"planets":[{"name":"Sun","longitude":102.5}]}` {
		t.Errorf("raw = %s", raw)
	}

	subject := got["subject"].(map[string]interface{})
	if subject["name"] != "User" {
		t.Errorf("subject name = %v", subject["name"])
	}
	bd := subject["birth_data"].(map[string]interface{})
	if bd["year"] != 1990.0 || bd["minute"] != 45.0 || bd["second"] != 0.0 || bd["timezone"] != "UTC" {
		t.Errorf("birth_data = %v", bd)
	}
	opts := got["options"].(map[string]interface{})
	if opts["house_system"] != "P" || opts["zodiac_system"] != "tropical" {
		t.Errorf("options = %v", opts)
	}
}

func TestClient_MissingAPIKey(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL}, srv.Client())
	if c.HasAPIKey() {
		t.Fatal("HasAPIKey should be false")
	}
	_, err := c.NatalChart(context.Background(), testBirthData())
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("err = %v, want ErrMissingAPIKey", err)
	}
	if err.Error() != "Missing ASTROLOGY_API_KEY" {
		t.Errorf("message = %q", err.Error())
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Error("no request should reach the upstream without a key")
	}
}

func TestClient_UpstreamErrorDetails(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		body        string
		status      int
		want        interface{}
	}{
		{"json details", "application/json", `{"message":"bad date"}`, 422, map[string]interface{}{"message": "bad date"}},
		{"json content type but invalid", "application/json; charset=utf-8", `<<oops`, 500, "<<oops"},
		{"html error page", "text/html", "<h1>Bad Gateway</h1>", 502, "<h1>Bad Gateway</h1>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.NatalChart(context.Background(), testBirthData())
			var ue *UpstreamError
			if !errors.As(err, &ue) {
				t.Fatalf("err = %v, want *UpstreamError", err)
			}
			if ue.Status != tt.status {
				t.Errorf("status = %d, want %d", ue.Status, tt.status)
			}
			wantJSON, _ := json.Marshal(tt.want)
			gotJSON, _ := json.Marshal(ue.Details)
			if string(wantJSON) != string(gotJSON) {
				t.Errorf("details = %s, want %s", gotJSON, wantJSON)
			}
		})
	}
}

func TestClient_RetriesRateLimit(t *testing.T) {
	t.Parallel()

	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	if _, err := c.PlanetaryPositions(context.Background(), testBirthData()); err != nil {
		t.Fatalf("PlanetaryPositions: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
}

func TestClient_RetryAfterBeyondTimeout(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Retry-After", "3600")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)
	c := NewClient(Options{
		APIKey:         "test-key",
		BaseURL:        srv.URL,
		Timeout:        2 * time.Second,
		RetryBaseDelay: time.Millisecond,
		MaxRetries:     3,
	}, srv.Client())

	start := time.Now()
	_, err := c.NatalChart(context.Background(), testBirthData())
	if took := time.Since(start); took > time.Second {
		t.Errorf("call took %v, want an immediate answer", took)
	}
	var ue *UpstreamError
	if !errors.As(err, &ue) || ue.Status != http.StatusTooManyRequests {
		t.Fatalf("err = %v, want 429 *UpstreamError", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestClient_BackoffCappedAtTimeout(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(srv.Close)
	c := NewClient(Options{
		APIKey:         "test-key",
		BaseURL:        srv.URL,
		Timeout:        50 * time.Millisecond,
		RetryBaseDelay: time.Hour,
		MaxRetries:     1,
	}, srv.Client())

	start := time.Now()
	if _, err := c.NatalChart(context.Background(), testBirthData()); err != nil {
		t.Fatalf("NatalChart: %v", err)
	}
	if took := time.Since(start); took > 2*time.Second {
		t.Errorf("call took %v, want backoff capped at the timeout", took)
	}
}

func TestPlanetaryPositions_FlatBody(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != PathPlanetaryPositions {
			t.Errorf("path = %s", r.URL.Path)
		}
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if _, nested := body["subject"]; nested {
			t.Error("positions request must be flat")
		}
		if body["latitude"] != 38.72 || body["day"] != 4.0 {
			t.Errorf("body = %v", body)
		}
		_, _ = w.Write([]byte(`[]`))
	})
	if _, err := c.PlanetaryPositions(context.Background(), testBirthData()); err != nil {
		t.Fatal(err)
	}
}

func TestRenderNatal(t *testing.T) {
	t.Parallel()

	png := []byte{0x89, 'P', 'N', 'G'}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		switch body["format"] {
		case "svg":
			if body["width"] != 800.0 || body["scale"] != 1.0 {
				t.Errorf("defaults not applied: %v", body)
			}
			if _, ok := body["custom_colors"]; ok {
				t.Error("custom_colors should be omitted when empty")
			}
			w.Header().Set("Content-Type", "image/svg+xml")
			_, _ = w.Write([]byte("<svg/>"))
		case "png":
			if body["custom_colors"] == nil {
				t.Error("custom_colors should be forwarded")
			}
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(png)
		}
	})

	svg, err := c.RenderNatal(context.Background(), testBirthData(), RenderOptions{})
	if err != nil {
		t.Fatalf("svg: %v", err)
	}
	if svg.Format != "svg" || svg.Content != "<svg/>" || svg.ContentType != "" {
		t.Errorf("svg result = %+v", svg)
	}

	img, err := c.RenderNatal(context.Background(), testBirthData(), RenderOptions{
		Format:       "PNG",
		CustomColors: json.RawMessage(`{"background":"#F6E7C8"}`),
	})
	if err != nil {
		t.Fatalf("png: %v", err)
	}
	if img.Format != "png" || img.ContentType != "image/png" || img.Content != base64.StdEncoding.EncodeToString(png) {
		t.Errorf("png result = %+v", img)
	}
}

// ===================================================================================================
// BreakerClient Tests
// ===================================================================================================

func TestBreakerClient_ClientErrorsDoNotTrip(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	bc := NewBreakerClient(c, breaker.Settings{MaxRequests: 1, Timeout: time.Hour, FailureThreshold: 1})

	for i := 0; i < 3; i++ {
		if _, err := bc.NatalChart(context.Background(), testBirthData()); err == nil {
			t.Fatal("expected upstream error")
		}
	}
	if bc.BreakerState() != "closed" {
		t.Errorf("state = %q, want closed", bc.BreakerState())
	}
}

func TestBreakerClient_ServerErrorsTrip(t *testing.T) {
	t.Parallel()

	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	})
	bc := NewBreakerClient(c, breaker.Settings{MaxRequests: 1, Timeout: time.Hour, FailureThreshold: 2})

	for i := 0; i < 2; i++ {
		_, _ = bc.NatalChart(context.Background(), testBirthData())
	}
	_, err := bc.NatalChart(context.Background(), testBirthData())
	if !errors.Is(err, breaker.ErrOpen) {
		t.Errorf("err = %v, want breaker.ErrOpen", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("upstream calls = %d, want 2", got)
	}
}

func TestBreakerClient_SharedAcrossOperations(t *testing.T) {
	t.Parallel()

	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	bc := NewBreakerClient(c, breaker.Settings{MaxRequests: 1, Timeout: time.Hour, FailureThreshold: 1})

	if _, err := bc.NatalChart(context.Background(), testBirthData()); err == nil {
		t.Fatal("expected upstream error")
	}

	ops := []struct {
		name string
		call func() error
	}{
		{"RenderNatal", func() error {
			_, err := bc.RenderNatal(context.Background(), testBirthData(), RenderOptions{Format: "svg"})
			return err
		}},
		{"PlanetaryPositions", func() error {
			_, err := bc.PlanetaryPositions(context.Background(), testBirthData())
			return err
		}},
		{"NatalChart", func() error {
			_, err := bc.NatalChart(context.Background(), testBirthData())
			return err
		}},
	}
	for _, op := range ops {
		if err := op.call(); !errors.Is(err, breaker.ErrOpen) {
			t.Errorf("%s: err = %v, want breaker.ErrOpen", op.name, err)
		}
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("upstream calls = %d, want 1", got)
	}
}
