// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

package wheel

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
)

// Format is an output encoding for a Drawing.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatJSON Format = "json"
)

// JSONContentType is the media type of the json format.
const JSONContentType = "application/json"

// ErrUnsupportedFormat is returned for unknown output formats.
var ErrUnsupportedFormat = errors.New("wheel: unsupported format")

// ParseFormat accepts a case-insensitive format name. Empty means svg.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatSVG, nil
	case FormatSVG, FormatPNG, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// ContentType returns the media type produced by Encode for f.
func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return PNGContentType
	case FormatJSON:
		return JSONContentType
	default:
		return SVGContentType
	}
}

// Binary reports whether the encoding is not text.
func (f Format) Binary() bool {
	return f == FormatPNG
}

// Encode writes d to w in format f. scale only applies to png.
func Encode(w io.Writer, d Drawing, f Format, scale int) error {
	switch f {
	case FormatSVG, "":
		return WriteSVG(w, d)
	case FormatPNG:
		return WritePNG(w, d, scale)
	case FormatJSON:
		return json.NewEncoder(w).Encode(d)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
	}
}
