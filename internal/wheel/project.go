// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

package wheel

import "math"

// Point is a position on the drawing surface. Y grows downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Project converts an angle and radius into a point around center.
// 0° is straight up and angles increase clockwise (compass orientation),
// so the angle is rotated by -90° before the usual cos/sin conversion.
func Project(center Point, radius, deg float64) Point {
	rad := (deg - 90) * (math.Pi / 180)
	return Point{
		X: center.X + radius*math.Cos(rad),
		Y: center.Y + radius*math.Sin(rad),
	}
}
