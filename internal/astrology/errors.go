// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

package astrology

import (
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/goccy/go-json"
)

// ErrMissingAPIKey is returned when no ASTROLOGY_API_KEY is configured.
var ErrMissingAPIKey = errors.New("Missing ASTROLOGY_API_KEY") //nolint:staticcheck // message is part of the public error contract

// ErrNoBodies is returned by ExtractBodies when the payload holds no body list.
var ErrNoBodies = errors.New("astrology: response contains no planets")

// UpstreamError is a non-2xx answer from the Astrology API.
type UpstreamError struct {
	Operation string
	Status    int
	// Details is the decoded JSON body when the upstream sent JSON, else the
	// body as text.
	Details interface{}
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("astrology %s: upstream status %d", e.Operation, e.Status)
}

// ClientError reports whether the upstream rejected the request itself
// (4xx). Such answers say nothing about upstream health.
func (e *UpstreamError) ClientError() bool {
	return e.Status >= 400 && e.Status < 500
}

// decodeDetails mirrors what a browser client would show: JSON when the
// content type says so and it parses, plain text otherwise.
func decodeDetails(contentType string, body []byte) interface{} {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil && (mt == "application/json" || strings.HasSuffix(mt, "+json")) {
		var v interface{}
		if err := json.Unmarshal(body, &v); err == nil {
			return v
		}
	}
	return string(body)
}
