// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func serveCompressed(t *testing.T, contentType, body, acceptEncoding string) *httptest.ResponseRecorder {
	t.Helper()
	h := Compression(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
	}))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/wheel", nil)
	if acceptEncoding != "" {
		req.Header.Set("Accept-Encoding", acceptEncoding)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCompression_SVG(t *testing.T) {
	t.Parallel()

	body := `<svg xmlns="http://www.w3.org/2000/svg">` + strings.Repeat(`<circle r="6"/>`, 100) + `</svg>`
	rec := serveCompressed(t, "image/svg+xml", body, "gzip, deflate")

	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("Content-Encoding = %q", rec.Header().Get("Content-Encoding"))
	}
	if rec.Header().Get("Vary") != "Accept-Encoding" {
		t.Errorf("Vary = %q", rec.Header().Get("Vary"))
	}
	zr, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	got, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != body {
		t.Error("decompressed body differs")
	}
}

func TestCompression_SkipsPNG(t *testing.T) {
	t.Parallel()

	body := "\x89PNG\r\n\x1a\n"
	rec := serveCompressed(t, "image/png", body, "gzip")
	if rec.Header().Get("Content-Encoding") != "" {
		t.Error("png must not be gzipped")
	}
	if rec.Body.String() != body {
		t.Error("body altered")
	}
}

func TestCompression_NoAcceptEncoding(t *testing.T) {
	t.Parallel()

	rec := serveCompressed(t, "application/json", `{"status":"success"}`, "")
	if rec.Header().Get("Content-Encoding") != "" {
		t.Error("should not compress without Accept-Encoding")
	}
	if rec.Body.String() != `{"status":"success"}` {
		t.Errorf("body = %q", rec.Body.String())
	}
}
