// Package render draws the annotation display: the base raster with finished
// polygons filled in their label colour, plus the polygon under construction.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/disintegration/imaging"
	"golang.org/x/image/vector"

	"github.com/soocke/roi-annotator/domain/annotation"
	"github.com/soocke/roi-annotator/domain/geometry"
	"github.com/soocke/roi-annotator/domain/raster"
)

// Style controls colours and stroke sizes.
type Style struct {
	ColorA    color.NRGBA
	ColorB    color.NRGBA
	RingColor color.NRGBA
	// Alpha is the fill opacity of finished polygons, 0..1. Outlines are opaque.
	Alpha     float64
	LineWidth float64
	Marker    float64
}

// DefaultStyle matches the default configuration.
func DefaultStyle() Style {
	return Style{
		ColorA:    color.NRGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
		ColorB:    color.NRGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
		RingColor: color.NRGBA{R: 0xdc, G: 0x26, B: 0x26, A: 0xff},
		Alpha:     0.4,
		LineWidth: 2,
		Marker:    3,
	}
}

// Renderer owns the display-sized copy of the raster and a cached layer with
// the finished polygons, so ring updates only redraw the overlay.
type Renderer struct {
	base   *image.NRGBA
	layer  *image.NRGBA
	ext    raster.Extent
	style  Style
	labelA string
	labelB string
}

// New scales r to fit within maxW x maxH (no upscaling) and prepares an empty layer.
func New(r *raster.Raster, maxW, maxH int, labelA, labelB string, style Style) (*Renderer, error) {
	if r == nil || r.Image == nil {
		return nil, errors.New("render: nil raster")
	}
	w, h := r.Size()
	var base *image.NRGBA
	if maxW > 0 && maxH > 0 && (w > maxW || h > maxH) {
		base = imaging.Fit(r.Image, maxW, maxH, imaging.Lanczos)
	} else {
		base = imaging.Clone(r.Image)
	}
	rd := &Renderer{base: base, ext: r.Extent, style: style, labelA: labelA, labelB: labelB}
	rd.Rebuild(nil)
	return rd, nil
}

// Size returns the display size in pixels.
func (r *Renderer) Size() (int, int) {
	b := r.base.Bounds()
	return b.Dx(), b.Dy()
}

// PointAt maps a display pixel to extent coordinates (pixel centre).
func (r *Renderer) PointAt(px, py int) geometry.Point {
	w, h := r.Size()
	return r.ext.FromPixel(float64(px)+0.5, float64(py)+0.5, w, h)
}

// Rebuild redraws the base image with every finished polygon.
func (r *Renderer) Rebuild(polys []annotation.Polygon) {
	r.layer = imaging.Clone(r.base)
	for _, p := range polys {
		c := r.colorFor(p.Label)
		fill := c
		fill.A = uint8(math.Round(clamp01(r.style.Alpha) * 255))
		r.fillPolygon(r.layer, p.Vertices, fill)
		for i := 1; i < len(p.Vertices); i++ {
			r.strokeLine(r.layer, p.Vertices[i-1], p.Vertices[i], c)
		}
	}
}

// Frame returns the cached polygon layer with the in-progress ring drawn on top.
// The returned image is a fresh copy.
func (r *Renderer) Frame(ring []geometry.Point, segments []annotation.Segment) image.Image {
	out := imaging.Clone(r.layer)
	for _, s := range segments {
		r.strokeLine(out, s.From, s.To, r.style.RingColor)
	}
	for _, p := range ring {
		r.marker(out, p, r.style.RingColor)
	}
	return out
}

func (r *Renderer) colorFor(label string) color.NRGBA {
	if label == r.labelB && label != r.labelA {
		return r.style.ColorB
	}
	return r.style.ColorA
}

func (r *Renderer) toPixel(p geometry.Point) (float32, float32) {
	w, h := r.Size()
	x, y := r.ext.ToPixel(p, w, h)
	return float32(x), float32(y)
}

func (r *Renderer) fillPolygon(dst *image.NRGBA, pts []geometry.Point, c color.NRGBA) {
	if len(pts) < geometry.MinVertices {
		return
	}
	w, h := r.Size()
	z := vector.NewRasterizer(w, h)
	z.DrawOp = draw.Over
	for i, p := range pts {
		x, y := r.toPixel(p)
		if i == 0 {
			z.MoveTo(x, y)
			continue
		}
		z.LineTo(x, y)
	}
	z.ClosePath()
	z.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
}

// strokeLine rasterizes the segment a-b as a quad LineWidth pixels wide.
func (r *Renderer) strokeLine(dst *image.NRGBA, a, b geometry.Point, c color.NRGBA) {
	ax, ay := r.toPixel(a)
	bx, by := r.toPixel(b)
	dx, dy := bx-ax, by-ay
	l := float32(math.Hypot(float64(dx), float64(dy)))
	if l == 0 {
		return
	}
	half := float32(math.Max(r.style.LineWidth, 1)) / 2
	nx, ny := -dy/l*half, dx/l*half
	w, h := r.Size()
	z := vector.NewRasterizer(w, h)
	z.DrawOp = draw.Over
	z.MoveTo(ax+nx, ay+ny)
	z.LineTo(bx+nx, by+ny)
	z.LineTo(bx-nx, by-ny)
	z.LineTo(ax-nx, ay-ny)
	z.ClosePath()
	z.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
}

// marker draws a filled square centred on p.
func (r *Renderer) marker(dst *image.NRGBA, p geometry.Point, c color.NRGBA) {
	x, y := r.toPixel(p)
	s := float32(math.Max(r.style.Marker, 1))
	w, h := r.Size()
	z := vector.NewRasterizer(w, h)
	z.DrawOp = draw.Over
	z.MoveTo(x-s, y-s)
	z.LineTo(x+s, y-s)
	z.LineTo(x+s, y+s)
	z.LineTo(x-s, y+s)
	z.ClosePath()
	z.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
}

func clamp01(v float64) float64 { return math.Min(math.Max(v, 0), 1) }
