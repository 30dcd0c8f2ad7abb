// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

package wheel

import (
	"math"
	"sync"
	"testing"
)

func TestDefaultGeometry(t *testing.T) {
	t.Parallel()

	g := DefaultGeometry()
	checks := map[string][2]float64{
		"size":    {g.Size, 420},
		"cx":      {g.Center.X, 210},
		"cy":      {g.Center.Y, 210},
		"ring":    {g.RingRadius, 170},
		"outer":   {g.OuterRadius, 198},
		"label":   {g.LabelRadius, 190},
		"marker":  {g.MarkerRadius, 154},
		"tickIn":  {g.TickInner, 166},
		"tickOut": {g.TickOuter, 180},
	}
	for name, c := range checks {
		if c[0] != c[1] {
			t.Errorf("%s = %v, want %v", name, c[0], c[1])
		}
	}
}

func TestNewGeometry_Scales(t *testing.T) {
	t.Parallel()

	g := NewGeometry(840)
	if g.RingRadius != 340 || g.LabelRadius != 380 || g.Center.X != 420 {
		t.Errorf("unexpected scaled geometry: %+v", g)
	}
	if got := NewGeometry(-1); got != DefaultGeometry() {
		t.Errorf("NewGeometry(-1) = %+v, want reference geometry", got)
	}
}

// ===================================================================================================
// Compose Tests
// ===================================================================================================

func TestCompose_EmptyList(t *testing.T) {
	t.Parallel()

	d := Compose(nil)
	if len(d.Circles) != 3 {
		t.Errorf("circles = %d, want disc, ring and center dot", len(d.Circles))
	}
	if len(d.Lines) != TickCount {
		t.Errorf("lines = %d, want %d ticks", len(d.Lines), TickCount)
	}
	if len(d.Texts) != 0 || len(d.Markers) != 0 {
		t.Errorf("expected no labels or markers, got %d/%d", len(d.Texts), len(d.Markers))
	}
	if d.Width != 420 || d.Height != 420 {
		t.Errorf("surface = %vx%v, want 420x420", d.Width, d.Height)
	}
}

func TestCompose_SunAt45(t *testing.T) {
	t.Parallel()

	d := Compose([]CelestialBody{Body("Sun", 45)})
	if len(d.Markers) != 1 {
		t.Fatalf("markers = %d, want 1", len(d.Markers))
	}
	m := d.Markers[0]
	if m.Label != "Sun" || m.Longitude != 45 {
		t.Errorf("marker = %+v", m)
	}
	s := math.Sqrt2 / 2
	wantAnchor := Point{210 + 154*s, 210 - 154*s}
	wantLabel := Point{210 + 190*s, 210 - 190*s}
	if !near(m.AnchorPoint, wantAnchor) {
		t.Errorf("anchor = %+v, want %+v", m.AnchorPoint, wantAnchor)
	}
	if !near(m.LabelPoint, wantLabel) {
		t.Errorf("label point = %+v, want %+v", m.LabelPoint, wantLabel)
	}
	if m.TextAnchor != AnchorStart {
		t.Errorf("text anchor = %q, want start", m.TextAnchor)
	}
}

func TestCompose_MoonNormalizedLeftSide(t *testing.T) {
	t.Parallel()

	d := Compose([]CelestialBody{Body("Moon", -10)})
	m := d.Markers[0]
	if m.Longitude != 350 {
		t.Errorf("longitude = %v, want 350", m.Longitude)
	}
	if m.LabelPoint.X >= 210 {
		t.Errorf("label x = %v, want left of center", m.LabelPoint.X)
	}
	if m.TextAnchor != AnchorEnd {
		t.Errorf("text anchor = %q, want end", m.TextAnchor)
	}
}

func TestCompose_TextAnchorBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		deg  float64
		want TextAnchor
	}{
		{0, AnchorStart},
		{1, AnchorStart},
		{90, AnchorStart},
		{179, AnchorStart},
		{180, AnchorStart},
		{181, AnchorEnd},
		{270, AnchorEnd},
		{359, AnchorEnd},
	}
	for _, size := range []float64{100, 333, ReferenceSize, 777, 1000, 4096} {
		g := NewGeometry(size)
		for _, tt := range tests {
			m := g.Compose([]CelestialBody{Body("X", tt.deg)}).Markers[0]
			if m.TextAnchor != tt.want {
				t.Errorf("size %v, %v°: anchor = %q, want %q (label x %v, center x %v)",
					size, tt.deg, m.TextAnchor, tt.want, m.LabelPoint.X, g.Center.X)
			}
		}
	}
}

// On the vertical axis the label x equals the center x and resolves to start.
func TestCompose_VerticalAxisLabelsStart(t *testing.T) {
	t.Parallel()

	for _, size := range []float64{100, 333, ReferenceSize, 1000} {
		g := NewGeometry(size)
		d := g.Compose([]CelestialBody{Body("Top", 0), Body("Bottom", 180)})
		for _, m := range d.Markers {
			if m.LabelPoint.X != g.Center.X {
				t.Errorf("size %v, %s: label x %v, want center x %v", size, m.Label, m.LabelPoint.X, g.Center.X)
			}
			if m.TextAnchor != AnchorStart {
				t.Errorf("size %v, %s: anchor = %q, want start", size, m.Label, m.TextAnchor)
			}
		}
	}
}

func TestCompose_FiltersAndKeepsOrder(t *testing.T) {
	t.Parallel()

	nan := math.NaN()
	d := Compose([]CelestialBody{
		Body("Sun", 45),
		{Label: "Bad"},
		{Label: "Worse", Longitude: &nan},
		Body("Venus", 200),
	})
	if len(d.Markers) != 2 {
		t.Fatalf("markers = %d, want 2", len(d.Markers))
	}
	if d.Markers[0].Label != "Sun" || d.Markers[1].Label != "Venus" {
		t.Errorf("marker order = %q, %q", d.Markers[0].Label, d.Markers[1].Label)
	}
	if d.Dropped != 2 {
		t.Errorf("dropped = %d, want 2", d.Dropped)
	}
}

func TestCompose_PlaceholderLabel(t *testing.T) {
	t.Parallel()

	d := Compose([]CelestialBody{Body("", 10)})
	if d.Texts[0].Content != DefaultLabel {
		t.Errorf("label = %q, want %q", d.Texts[0].Content, DefaultLabel)
	}
}

func TestCompose_DrawOrder(t *testing.T) {
	t.Parallel()

	d := Compose([]CelestialBody{Body("Sun", 45), Body("Moon", 100)})

	want := []Role{RoleDisc, RoleRing}
	for i := 0; i < TickCount; i++ {
		want = append(want, RoleTick)
	}
	for i := 0; i < 2; i++ {
		want = append(want, RoleMarker, RoleLeadLine, RoleLabel)
	}
	want = append(want, RoleCenter)

	if len(d.Elements) != len(want) {
		t.Fatalf("elements = %d, want %d", len(d.Elements), len(want))
	}
	for i, role := range want {
		if got := d.RoleAt(i); got != role {
			t.Errorf("element %d role = %q, want %q", i, got, role)
		}
	}
	if d.Elements[len(want)-2].Group != "body-1" {
		t.Errorf("group = %q, want body-1", d.Elements[len(want)-2].Group)
	}
}

func TestCompose_MarkerGeometry(t *testing.T) {
	t.Parallel()

	lons := []float64{0, 13.7, 99, 181, 270.25, 359.9}
	bodies := make([]CelestialBody, len(lons))
	for i, l := range lons {
		bodies[i] = Body("B", l)
	}
	d := Compose(bodies)
	c := d.Geometry.Center
	for i, m := range d.Markers {
		if r := math.Hypot(m.AnchorPoint.X-c.X, m.AnchorPoint.Y-c.Y); math.Abs(r-154) > 1e-9 {
			t.Errorf("marker %d anchor radius = %v, want 154", i, r)
		}
		if r := math.Hypot(m.LabelPoint.X-c.X, m.LabelPoint.Y-c.Y); math.Abs(r-190) > 1e-9 {
			t.Errorf("marker %d label radius = %v, want 190", i, r)
		}
	}
}

func TestCompose_Styles(t *testing.T) {
	t.Parallel()

	d := Compose([]CelestialBody{Body("Sun", 45)})

	disc := d.Circles[0]
	if disc.Fill != "#F6E7C8" || disc.Stroke != "#1F7A4A" || disc.StrokeWidth != 3 || disc.Radius != 198 {
		t.Errorf("disc = %+v", disc)
	}
	ring := d.Circles[1]
	if ring.Fill != "" || ring.Stroke != "#B21F2D" || ring.StrokeWidth != 3 || ring.Radius != 170 {
		t.Errorf("ring = %+v", ring)
	}
	tick := d.Lines[0]
	if tick.Stroke != "#1F7A4A" || tick.StrokeWidth != 2 || tick.Opacity != 0.75 {
		t.Errorf("tick = %+v", tick)
	}
	if !near(tick.From, Point{210, 44}) || !near(tick.To, Point{210, 30}) {
		t.Errorf("first tick spans %+v to %+v", tick.From, tick.To)
	}
	marker := d.Circles[2]
	if marker.Radius != 6 || marker.Fill != "#B21F2D" || marker.Stroke != "#1F7A4A" || marker.StrokeWidth != 2 {
		t.Errorf("marker = %+v", marker)
	}
	lead := d.Lines[TickCount]
	if lead.Stroke != "#B21F2D" || lead.StrokeWidth != 1.5 || lead.Opacity != 0.6 {
		t.Errorf("lead line = %+v", lead)
	}
	label := d.Texts[0]
	if label.Fill != "#1a1a1a" || label.FontSize != 12 || label.DominantBaseline != "middle" {
		t.Errorf("label = %+v", label)
	}
	dot := d.Circles[len(d.Circles)-1]
	if dot.Role != RoleCenter || dot.Radius != 6 || dot.Fill != "#1F7A4A" {
		t.Errorf("center dot = %+v", dot)
	}
}

func TestCompose_Concurrent(t *testing.T) {
	t.Parallel()

	bodies := []CelestialBody{Body("Sun", 45), Body("Moon", 312)}
	ref := Compose(bodies)

	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d := Compose(bodies)
			if len(d.Elements) != len(ref.Elements) || d.Markers[1] != ref.Markers[1] {
				errs <- "concurrent compose diverged"
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}
