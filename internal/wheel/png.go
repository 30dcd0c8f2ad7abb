// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

package wheel

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// PNGContentType is the media type of WritePNG output.
const PNGContentType = "image/png"

// Raster scale bounds.
const (
	MinPNGScale = 1
	MaxPNGScale = 4
)

// Raster size limits in pixels per side. MaxPNGSide bounds the output image;
// maxWorkingSide bounds the supersampled canvas it is reduced from.
const (
	MaxPNGSide     = 2048
	maxWorkingSide = 2048
	maxSupersample = 4
)

var (
	// ErrInvalidScale is returned when a PNG scale is outside [MinPNGScale, MaxPNGScale].
	ErrInvalidScale = errors.New("wheel: png scale out of range")
	// ErrCanvasTooLarge is returned when size times scale exceeds MaxPNGSide.
	ErrCanvasTooLarge = errors.New("wheel: png canvas too large")
)

// CheckRaster reports whether a drawing of the given side length can be
// rasterized at scale.
func CheckRaster(side float64, scale int) error {
	if scale < MinPNGScale || scale > MaxPNGScale {
		return fmt.Errorf("%w: %d", ErrInvalidScale, scale)
	}
	if px := math.Ceil(side * float64(scale)); px > MaxPNGSide {
		return fmt.Errorf("%w: %v px exceeds %d", ErrCanvasTooLarge, px, MaxPNGSide)
	}
	return nil
}

// supersample picks the supersampling factor for an output of outSide
// pixels so the working canvas stays within maxWorkingSide.
func supersample(outSide int) int {
	if outSide <= 0 {
		return 1
	}
	ss := maxSupersample
	if limit := maxWorkingSide / outSide; limit < ss {
		ss = limit
	}
	if ss < 1 {
		ss = 1
	}
	return ss
}

var (
	fontOnce sync.Once
	goFont   *opentype.Font
	fontErr  error
)

func regularFont() (*opentype.Font, error) {
	fontOnce.Do(func() {
		goFont, fontErr = opentype.Parse(goregular.TTF)
	})
	return goFont, fontErr
}

// raster draws on a supersampled canvas. k converts drawing units to pixels.
type raster struct {
	img  *image.RGBA
	k    float64
	face font.Face
}

// WritePNG rasterizes d at the given scale (1 = one pixel per drawing unit)
// and writes it as PNG. The canvas is supersampled and reduced with
// Catmull-Rom filtering for smooth edges.
func WritePNG(w io.Writer, d Drawing, scale int) error {
	img, err := Rasterize(d, scale)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// Rasterize renders d into an RGBA image with a transparent background.
func Rasterize(d Drawing, scale int) (*image.RGBA, error) {
	if err := CheckRaster(math.Max(d.Width, d.Height), scale); err != nil {
		return nil, err
	}

	outW := int(math.Ceil(d.Width * float64(scale)))
	outH := int(math.Ceil(d.Height * float64(scale)))
	ss := supersample(max(outW, outH))
	k := float64(scale * ss)

	fnt, err := regularFont()
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	fontSize := d.Geometry.FontSize
	if fontSize <= 0 {
		fontSize = referenceFontSize
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    fontSize * k,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	defer face.Close()

	r := &raster{
		img:  image.NewRGBA(image.Rect(0, 0, outW*ss, outH*ss)),
		k:    k,
		face: face,
	}
	for _, e := range d.Elements {
		switch e.Kind {
		case KindCircle:
			r.circle(d.Circles[e.Index])
		case KindLine:
			r.line(d.Lines[e.Index])
		case KindText:
			r.text(d.Texts[e.Index])
		}
	}

	if ss == 1 {
		return r.img, nil
	}
	out := image.NewRGBA(image.Rect(0, 0, outW, outH))
	draw.CatmullRom.Scale(out, out.Bounds(), r.img, r.img.Bounds(), draw.Over, nil)
	return out, nil
}

func (r *raster) circle(c Circle) {
	cx, cy, rad := c.Center.X*r.k, c.Center.Y*r.k, c.Radius*r.k
	half := c.StrokeWidth * r.k / 2
	var fill, stroke color.NRGBA
	hasFill := c.Fill != ""
	hasStroke := c.Stroke != "" && half > 0
	if hasFill {
		fill = withOpacity(parseHex(c.Fill), c.Opacity)
	}
	if hasStroke {
		stroke = withOpacity(parseHex(c.Stroke), c.Opacity)
	}

	outer := rad + half
	inner := math.Max(rad-half, 0)
	outer2, inner2, rad2 := outer*outer, inner*inner, rad*rad
	b := r.img.Bounds()
	x0, y0 := max(int(math.Floor(cx-outer)), b.Min.X), max(int(math.Floor(cy-outer)), b.Min.Y)
	x1, y1 := min(int(math.Ceil(cx+outer)), b.Max.X-1), min(int(math.Ceil(cy+outer)), b.Max.Y-1)
	for y := y0; y <= y1; y++ {
		dy := float64(y) + 0.5 - cy
		for x := x0; x <= x1; x++ {
			dx := float64(x) + 0.5 - cx
			d2 := dx*dx + dy*dy
			switch {
			case hasStroke && d2 >= inner2 && d2 <= outer2:
				r.blend(x, y, stroke)
			case hasFill && d2 <= rad2:
				r.blend(x, y, fill)
			}
		}
	}
}

func (r *raster) line(l Line) {
	ax, ay := l.From.X*r.k, l.From.Y*r.k
	bx, by := l.To.X*r.k, l.To.Y*r.k
	half := l.StrokeWidth * r.k / 2
	c := withOpacity(parseHex(l.Stroke), l.Opacity)

	x0 := int(math.Floor(math.Min(ax, bx) - half))
	x1 := int(math.Ceil(math.Max(ax, bx) + half))
	y0 := int(math.Floor(math.Min(ay, by) - half))
	y1 := int(math.Ceil(math.Max(ay, by) + half))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if segmentDistance(float64(x)+0.5, float64(y)+0.5, ax, ay, bx, by) <= half {
				r.blend(x, y, c)
			}
		}
	}
}

func (r *raster) text(t Text) {
	width := font.MeasureString(r.face, t.Content)
	x := fixed.Int26_6(t.At.X * r.k * 64)
	if t.Anchor == AnchorEnd {
		x -= width
	}
	y := fixed.Int26_6(t.At.Y * r.k * 64)
	if t.DominantBaseline == BaselineMiddle {
		m := r.face.Metrics()
		y += (m.Ascent - m.Descent) / 2
	}
	d := &font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(parseHex(t.Fill)),
		Face: r.face,
		Dot:  fixed.Point26_6{X: x, Y: y},
	}
	d.DrawString(t.Content)
}

// blend composites c over the pixel at (x, y). The destination is
// alpha-premultiplied.
func (r *raster) blend(x, y int, c color.NRGBA) {
	if !image.Pt(x, y).In(r.img.Rect) {
		return
	}
	a := float64(c.A) / 255
	if a <= 0 {
		return
	}
	i := r.img.PixOffset(x, y)
	p := r.img.Pix[i : i+4 : i+4]
	inv := 1 - a
	p[0] = uint8(float64(c.R)*a + float64(p[0])*inv + 0.5)
	p[1] = uint8(float64(c.G)*a + float64(p[1])*inv + 0.5)
	p[2] = uint8(float64(c.B)*a + float64(p[2])*inv + 0.5)
	p[3] = uint8(255*a + float64(p[3])*inv + 0.5)
}

func segmentDistance(px, py, ax, ay, bx, by float64) float64 {
	dx, dy := bx-ax, by-ay
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(px-ax, py-ay)
	}
	t := ((px-ax)*dx + (py-ay)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(px-(ax+t*dx), py-(ay+t*dy))
}

func withOpacity(c color.NRGBA, opacity float64) color.NRGBA {
	if opacity < 0 {
		opacity = 0
	}
	if opacity < 1 {
		c.A = uint8(float64(c.A)*opacity + 0.5)
	}
	return c
}

// parseHex reads #rgb or #rrggbb. Anything else is opaque black.
func parseHex(s string) color.NRGBA {
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.NRGBA{A: 255}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{A: 255}
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}
