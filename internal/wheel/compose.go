// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

package wheel

import "strconv"

// Compose lays out bodies on the reference geometry.
func Compose(bodies []CelestialBody) Drawing {
	return DefaultGeometry().Compose(bodies)
}

// Compose lays out bodies on g. Bodies without a usable longitude are
// skipped and counted in Drawing.Dropped. Close bodies are not separated;
// their labels may overlap.
func (g Geometry) Compose(bodies []CelestialBody) Drawing {
	placed, dropped := Filter(bodies)

	d := Drawing{
		Width:    g.Size,
		Height:   g.Size,
		Geometry: g,
		Circles:  make([]Circle, 0, 3+len(placed)),
		Lines:    make([]Line, 0, TickCount+len(placed)),
		Texts:    make([]Text, 0, len(placed)),
		Elements: make([]Element, 0, 3+TickCount+3*len(placed)),
		Markers:  make([]RenderedMarker, 0, len(placed)),
		Dropped:  dropped,
	}

	d.addCircle("", Circle{
		Role:        RoleDisc,
		Center:      g.Center,
		Radius:      g.OuterRadius,
		Fill:        ColorDiscFill,
		Stroke:      ColorGreen,
		StrokeWidth: StrokeHeavy,
		Opacity:     1,
	})
	d.addCircle("", Circle{
		Role:        RoleRing,
		Center:      g.Center,
		Radius:      g.RingRadius,
		Stroke:      ColorRed,
		StrokeWidth: StrokeHeavy,
		Opacity:     1,
	})

	for i := 0; i < TickCount; i++ {
		deg := float64(i) * TickStep
		d.addLine("", Line{
			Role:        RoleTick,
			From:        Project(g.Center, g.TickInner, deg),
			To:          Project(g.Center, g.TickOuter, deg),
			Stroke:      ColorGreen,
			StrokeWidth: StrokeTick,
			Opacity:     OpacityTick,
		})
	}

	for i, b := range placed {
		angle := *b.Longitude
		anchor := Project(g.Center, g.MarkerRadius, angle)
		label := Project(g.Center, g.LabelRadius, angle)
		align := AnchorEnd
		if label.X >= g.Center.X {
			align = AnchorStart
		}
		group := "body-" + strconv.Itoa(i)

		d.addCircle(group, Circle{
			Role:        RoleMarker,
			Center:      anchor,
			Radius:      g.DotRadius,
			Fill:        ColorRed,
			Stroke:      ColorGreen,
			StrokeWidth: StrokeMarker,
			Opacity:     1,
		})
		d.addLine(group, Line{
			Role:        RoleLeadLine,
			From:        anchor,
			To:          label,
			Stroke:      ColorRed,
			StrokeWidth: StrokeLeadLine,
			Opacity:     OpacityLeadLine,
		})
		d.addText(group, Text{
			Role:             RoleLabel,
			At:               label,
			Content:          b.Label,
			Fill:             ColorLabel,
			FontSize:         g.FontSize,
			Anchor:           align,
			DominantBaseline: BaselineMiddle,
		})
		d.Markers = append(d.Markers, RenderedMarker{
			Label:       b.Label,
			Longitude:   angle,
			AnchorPoint: anchor,
			LabelPoint:  label,
			TextAnchor:  align,
		})
	}

	d.addCircle("", Circle{
		Role:    RoleCenter,
		Center:  g.Center,
		Radius:  g.CenterDotSize,
		Fill:    ColorGreen,
		Opacity: 1,
	})

	return d
}
