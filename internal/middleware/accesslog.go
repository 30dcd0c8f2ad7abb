// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/natalchart/internal/logging"
)

// DefaultSlowThreshold is the duration above which a request is logged at
// warn level.
const DefaultSlowThreshold = time.Second

// AccessLog logs one line per request at debug level, or warn when the
// request took longer than slow. Server errors are logged at error level.
func AccessLog(slow time.Duration) func(http.Handler) http.Handler {
	if slow <= 0 {
		slow = DefaultSlowThreshold
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)
			took := time.Since(start)

			logger := logging.Ctx(r.Context())
			var ev *zerolog.Event
			switch {
			case sw.status >= 500:
				ev = logger.Error()
			case took > slow:
				ev = logger.Warn().Bool("slow", true)
			default:
				ev = logger.Debug()
			}
			ev.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", sw.status).
				Int("bytes", sw.bytes).
				Dur("duration", took).
				Str("remote_addr", r.RemoteAddr).
				Msg("HTTP request")
		})
	}
}
