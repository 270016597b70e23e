// Package raster holds the image being annotated together with its display
// extent, and converts between extent coordinates and pixel positions.
package raster

import (
	"image"

	"github.com/cockroachdb/errors"
	"github.com/disintegration/imaging"

	"github.com/soocke/roi-annotator/domain/geometry"
)

// Extent is the coordinate rectangle the raster is displayed over.
// Y grows upwards: MaxY is the top row of the image.
type Extent struct {
	MinX float64 `json:"min_x" yaml:"min_x"`
	MaxX float64 `json:"max_x" yaml:"max_x"`
	MinY float64 `json:"min_y" yaml:"min_y"`
	MaxY float64 `json:"max_y" yaml:"max_y"`
}

// PixelExtent is the default extent for a w x h image: one unit per pixel.
func PixelExtent(w, h int) Extent {
	return Extent{MinX: 0, MaxX: float64(w), MinY: 0, MaxY: float64(h)}
}

func (e Extent) Width() float64  { return e.MaxX - e.MinX }
func (e Extent) Height() float64 { return e.MaxY - e.MinY }

// IsZero reports whether e is the unset extent.
func (e Extent) IsZero() bool { return e == Extent{} }

// Validate requires a non-empty rectangle.
func (e Extent) Validate() error {
	if e.Width() <= 0 {
		return errors.Newf("extent: max_x (%g) must be greater than min_x (%g)", e.MaxX, e.MinX)
	}
	if e.Height() <= 0 {
		return errors.Newf("extent: max_y (%g) must be greater than min_y (%g)", e.MaxY, e.MinY)
	}
	return nil
}

// ToPixel maps p onto a w x h pixel grid. The result is continuous and may lie
// outside the grid when p lies outside the extent.
func (e Extent) ToPixel(p geometry.Point, w, h int) (float64, float64) {
	px := (p.X - e.MinX) / e.Width() * float64(w)
	py := (e.MaxY - p.Y) / e.Height() * float64(h)
	return px, py
}

// FromPixel maps a pixel position on a w x h grid back into the extent.
func (e Extent) FromPixel(px, py float64, w, h int) geometry.Point {
	x := e.MinX + px/float64(w)*e.Width()
	y := e.MaxY - py/float64(h)*e.Height()
	return geometry.Pt(x, y)
}

// Raster is an image with the extent it is displayed over.
type Raster struct {
	Image  image.Image
	Extent Extent
}

// New wraps img. A zero extent defaults to PixelExtent.
func New(img image.Image, ext Extent) (*Raster, error) {
	if img == nil {
		return nil, errors.New("raster: nil image")
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, errors.New("raster: empty image")
	}
	if ext.IsZero() {
		ext = PixelExtent(b.Dx(), b.Dy())
	}
	if err := ext.Validate(); err != nil {
		return nil, err
	}
	return &Raster{Image: img, Extent: ext}, nil
}

// Open decodes an image file (any format registered with imaging, EXIF
// orientation applied) and wraps it with ext.
func Open(path string, ext Extent) (*Raster, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrapf(err, "open raster %s", path)
	}
	return New(img, ext)
}

// Size returns the pixel dimensions.
func (r *Raster) Size() (int, int) {
	b := r.Image.Bounds()
	return b.Dx(), b.Dy()
}

// PixelWindow selects a block of pixels by top-left row/column and size.
type PixelWindow struct {
	Row  int `json:"row" yaml:"row"`
	Col  int `json:"col" yaml:"col"`
	Rows int `json:"rows" yaml:"rows"`
	Cols int `json:"cols" yaml:"cols"`
}

// IsZero reports whether no window is set.
func (w PixelWindow) IsZero() bool { return w.Rows == 0 && w.Cols == 0 }

// Window crops the raster to win, clamped to the raster bounds (at least 1x1),
// and re-derives the extent of the cropped block.
// Returns the cropped raster and the pixel rectangle actually used.
func (r *Raster) Window(win PixelWindow) (*Raster, image.Rectangle, error) {
	if r == nil || r.Image == nil {
		return nil, image.Rectangle{}, errors.New("raster: nil image")
	}
	w, h := r.Size()
	x0, y0 := win.Col, win.Row
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x0 >= w || y0 >= h {
		return nil, image.Rectangle{}, errors.Newf("raster: window origin (row %d, col %d) outside %dx%d image", win.Row, win.Col, w, h)
	}
	cw, ch := win.Cols, win.Rows
	if x0+cw > w {
		cw = w - x0
	}
	if y0+ch > h {
		ch = h - y0
	}
	if cw < 1 {
		cw = 1
	}
	if ch < 1 {
		ch = 1
	}
	rect := image.Rect(x0, y0, x0+cw, y0+ch)
	origin := r.Image.Bounds().Min
	cropped := imaging.Crop(r.Image, rect.Add(origin))

	dx := r.Extent.Width() / float64(w)
	dy := r.Extent.Height() / float64(h)
	ext := Extent{
		MinX: r.Extent.MinX + float64(rect.Min.X)*dx,
		MaxX: r.Extent.MinX + float64(rect.Max.X)*dx,
		MinY: r.Extent.MaxY - float64(rect.Max.Y)*dy,
		MaxY: r.Extent.MaxY - float64(rect.Min.Y)*dy,
	}
	return &Raster{Image: cropped, Extent: ext}, rect, nil
}
