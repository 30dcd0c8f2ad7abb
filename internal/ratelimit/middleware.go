// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

package ratelimit

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/tomtom215/natalchart/internal/logging"
)

// KeyFunc derives the client key for a request.
type KeyFunc func(r *http.Request) string

// RejectFunc writes the 429 body. Retry-After is already set.
type RejectFunc func(w http.ResponseWriter, r *http.Request)

// ClientIP keys by r.RemoteAddr without the port. Run it behind
// middleware.RealIP when the service sits behind a proxy.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}

// Middleware rejects requests whose key has no token left with 429 and a
// Retry-After header in whole seconds.
func Middleware(l *Limiter, key KeyFunc, reject RejectFunc) func(http.Handler) http.Handler {
	if key == nil {
		key = ClientIP
	}
	if reject == nil {
		reject = func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := key(r)
			ok, wait := l.Reserve(client)
			if ok {
				next.ServeHTTP(w, r)
				return
			}
			secs := int(math.Ceil(wait.Seconds()))
			if secs < 1 {
				secs = 1
			}
			logging.Ctx(r.Context()).Debug().
				Str("limiter", l.Name()).
				Str("client", client).
				Int("retry_after", secs).
				Msg("Rate limit exceeded")
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			reject(w, r)
		})
	}
}
