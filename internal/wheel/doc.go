// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

/*
Package wheel lays out celestial bodies around a natal wheel.

The package is the rendering core of Natalchart. It takes an ordered list of
bodies, each carrying an ecliptic longitude in degrees, and produces a purely
geometric drawing description: circles, lines and text labels with absolute
coordinates, colors and sizes. It performs no I/O and keeps no state between
calls, so Compose is safe for concurrent use.

# Pipeline

Each call runs the same single pass:

  - Normalize: longitudes are folded into [0, 360). Bodies without a finite
    numeric longitude are dropped silently (Filter).
  - Project: a canonical angle and radius become a point on the drawing
    surface. 0° points straight up and angles grow clockwise, with y
    increasing downward as on SVG and raster surfaces.
  - Compose: the static ring geometry (outer disc, zodiac ring, twelve sign
    boundary ticks, center dot) plus one marker, lead-line and label per body.

# Output

A Drawing keeps its elements in draw order. It can be serialized as JSON
directly, or emitted as SVG markup (WriteSVG) or a PNG image (WritePNG).

	bodies := []wheel.CelestialBody{
	    wheel.Body("Sun", 45),
	    wheel.Body("Moon", 312.5),
	}
	drawing := wheel.Compose(bodies)
	if err := wheel.WriteSVG(w, drawing); err != nil {
	    return err
	}

# Reference Geometry

DefaultGeometry matches the reference wheel: a 420 unit square surface, ring
radius 170, label radius 190, outer disc at ring radius + 28 and markers at
ring radius - 16. NewGeometry scales every radius and offset linearly for
other sizes.
*/
package wheel
