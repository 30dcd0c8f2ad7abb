// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

package wheel

// ElementKind identifies which primitive list an Element points into.
type ElementKind string

const (
	KindCircle ElementKind = "circle"
	KindLine   ElementKind = "line"
	KindText   ElementKind = "text"
)

// Role names what a primitive represents on the wheel.
type Role string

const (
	RoleDisc     Role = "disc"
	RoleRing     Role = "ring"
	RoleTick     Role = "tick"
	RoleMarker   Role = "marker"
	RoleLeadLine Role = "lead-line"
	RoleLabel    Role = "label"
	RoleCenter   Role = "center"
)

// TextAnchor is the horizontal alignment of a label relative to its point.
type TextAnchor string

const (
	AnchorStart TextAnchor = "start"
	AnchorEnd   TextAnchor = "end"
)

// BaselineMiddle centers text vertically on its point.
const BaselineMiddle = "middle"

// Circle is a filled and/or stroked circle. Empty Fill means no fill.
type Circle struct {
	Role        Role    `json:"role"`
	Center      Point   `json:"center"`
	Radius      float64 `json:"radius"`
	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"stroke_width,omitempty"`
	Opacity     float64 `json:"opacity"`
}

// Line is a straight stroked segment.
type Line struct {
	Role        Role    `json:"role"`
	From        Point   `json:"from"`
	To          Point   `json:"to"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"stroke_width"`
	Opacity     float64 `json:"opacity"`
}

// Text is a single line label.
type Text struct {
	Role             Role       `json:"role"`
	At               Point      `json:"at"`
	Content          string     `json:"content"`
	Fill             string     `json:"fill"`
	FontSize         float64    `json:"font_size"`
	Anchor           TextAnchor `json:"text_anchor"`
	DominantBaseline string     `json:"dominant_baseline"`
}

// Element references one primitive in draw order. Group is "body-<n>" for
// the n-th placed body, or empty for static ring geometry. Group values are
// used verbatim as SVG ids, so they never carry label text.
type Element struct {
	Kind  ElementKind `json:"kind"`
	Index int         `json:"index"`
	Group string      `json:"group,omitempty"`
}

// RenderedMarker records where one body was placed.
type RenderedMarker struct {
	Label       string     `json:"label"`
	Longitude   float64    `json:"longitude"`
	AnchorPoint Point      `json:"anchor_point"`
	LabelPoint  Point      `json:"label_point"`
	TextAnchor  TextAnchor `json:"text_anchor"`
}

// Drawing is the complete declarative description of one wheel.
// Elements lists every primitive exactly once, in the order it must be drawn.
type Drawing struct {
	Width    float64          `json:"width"`
	Height   float64          `json:"height"`
	Geometry Geometry         `json:"geometry"`
	Circles  []Circle         `json:"circles"`
	Lines    []Line           `json:"lines"`
	Texts    []Text           `json:"texts"`
	Elements []Element        `json:"elements"`
	Markers  []RenderedMarker `json:"markers"`
	Dropped  int              `json:"dropped"`
}

func (d *Drawing) addCircle(group string, c Circle) {
	d.Circles = append(d.Circles, c)
	d.Elements = append(d.Elements, Element{Kind: KindCircle, Index: len(d.Circles) - 1, Group: group})
}

func (d *Drawing) addLine(group string, l Line) {
	d.Lines = append(d.Lines, l)
	d.Elements = append(d.Elements, Element{Kind: KindLine, Index: len(d.Lines) - 1, Group: group})
}

func (d *Drawing) addText(group string, t Text) {
	d.Texts = append(d.Texts, t)
	d.Elements = append(d.Elements, Element{Kind: KindText, Index: len(d.Texts) - 1, Group: group})
}

// CountRole returns how many primitives carry the given role.
func (d *Drawing) CountRole(role Role) int {
	n := 0
	for i := range d.Circles {
		if d.Circles[i].Role == role {
			n++
		}
	}
	for i := range d.Lines {
		if d.Lines[i].Role == role {
			n++
		}
	}
	for i := range d.Texts {
		if d.Texts[i].Role == role {
			n++
		}
	}
	return n
}

// RoleAt returns the role of the i-th element in draw order.
func (d *Drawing) RoleAt(i int) Role {
	e := d.Elements[i]
	switch e.Kind {
	case KindCircle:
		return d.Circles[e.Index].Role
	case KindLine:
		return d.Lines[e.Index].Role
	default:
		return d.Texts[e.Index].Role
	}
}
