// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

package wheel

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"strconv"

	svg "github.com/ajstarks/svgo/float"
)

// SVGContentType is the media type of WriteSVG output.
const SVGContentType = "image/svg+xml"

// WriteSVG writes d as a standalone SVG document. Elements are emitted in
// draw order and each body's primitives share one <g> group.
func WriteSVG(w io.Writer, d Drawing) error {
	bw := bufio.NewWriter(w)
	canvas := svg.New(bw)
	canvas.Start(d.Width, d.Height,
		fmt.Sprintf(`viewBox="0 0 %s %s"`, num(d.Width), num(d.Height)),
		`role="img"`,
		`aria-label="Natal chart wheel"`)

	open := ""
	for _, e := range d.Elements {
		if e.Group != open {
			if open != "" {
				canvas.Gend()
			}
			if e.Group != "" {
				canvas.Gid(e.Group)
			}
			open = e.Group
		}
		switch e.Kind {
		case KindCircle:
			c := d.Circles[e.Index]
			canvas.Circle(c.Center.X, c.Center.Y, c.Radius, circleAttrs(c)...)
		case KindLine:
			l := d.Lines[e.Index]
			canvas.Line(l.From.X, l.From.Y, l.To.X, l.To.Y, lineAttrs(l)...)
		case KindText:
			t := d.Texts[e.Index]
			canvas.Text(t.At.X, t.At.Y, t.Content, textAttrs(t)...)
		}
	}
	if open != "" {
		canvas.Gend()
	}
	canvas.End()
	return bw.Flush()
}

func circleAttrs(c Circle) []string {
	fill := c.Fill
	if fill == "" {
		fill = "none"
	}
	attrs := []string{attr("fill", fill)}
	if c.Stroke != "" {
		attrs = append(attrs, attr("stroke", c.Stroke), attr("stroke-width", num(c.StrokeWidth)))
	}
	if c.Opacity < 1 {
		attrs = append(attrs, attr("opacity", num(c.Opacity)))
	}
	return attrs
}

func lineAttrs(l Line) []string {
	attrs := []string{attr("stroke", l.Stroke), attr("stroke-width", num(l.StrokeWidth))}
	if l.Opacity < 1 {
		attrs = append(attrs, attr("opacity", num(l.Opacity)))
	}
	return attrs
}

func textAttrs(t Text) []string {
	return []string{
		attr("fill", t.Fill),
		attr("font-size", num(t.FontSize)),
		attr("text-anchor", string(t.Anchor)),
		attr("dominant-baseline", t.DominantBaseline),
	}
}

func attr(name, value string) string {
	return name + `="` + html.EscapeString(value) + `"`
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
