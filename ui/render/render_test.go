package render

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/roi-annotator/domain/annotation"
	"github.com/soocke/roi-annotator/domain/geometry"
	"github.com/soocke/roi-annotator/domain/raster"
)

var white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

func whiteRaster(t *testing.T, w, h int) *raster.Raster {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(white), image.Point{}, draw.Src)
	r, err := raster.New(img, raster.Extent{})
	require.NoError(t, err)
	return r
}

func square(id int, label string, x0, y0, x1, y1 float64) annotation.Polygon {
	ring, _ := geometry.CloseRing([]geometry.Point{
		geometry.Pt(x0, y0), geometry.Pt(x1, y0), geometry.Pt(x1, y1), geometry.Pt(x0, y1),
	})
	return annotation.Polygon{ID: id, Label: label, Vertices: ring}
}

func at(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func TestRenderer_FillsPolygonsInLabelColour(t *testing.T) {
	rd, err := New(whiteRaster(t, 100, 100), 0, 0, "Water", "Land", DefaultStyle())
	require.NoError(t, err)

	// extent y grows upwards, so y 10..50 covers pixel rows 50..90
	rd.Rebuild([]annotation.Polygon{
		square(1, "Water", 10, 10, 50, 50),
		square(2, "Land", 60, 60, 90, 90),
	})
	frame := rd.Frame(nil, nil)

	inA := at(frame, 30, 70)
	assert.NotEqual(t, white, inA)
	assert.Greater(t, inA.B, inA.R, "label A tint is blue")

	inB := at(frame, 75, 25)
	assert.NotEqual(t, white, inB)
	assert.Greater(t, inB.R, inB.B, "label B tint is orange")

	assert.Equal(t, white, at(frame, 80, 80))
}

func TestRenderer_RebuildDropsRemovedPolygons(t *testing.T) {
	rd, err := New(whiteRaster(t, 40, 40), 0, 0, "Water", "Land", DefaultStyle())
	require.NoError(t, err)
	rd.Rebuild([]annotation.Polygon{square(1, "Water", 5, 5, 35, 35)})
	assert.NotEqual(t, white, at(rd.Frame(nil, nil), 20, 20))

	rd.Rebuild(nil)
	assert.Equal(t, white, at(rd.Frame(nil, nil), 20, 20))
}

func TestRenderer_FrameDrawsRingWithoutTouchingLayer(t *testing.T) {
	rd, err := New(whiteRaster(t, 50, 50), 0, 0, "Water", "Land", DefaultStyle())
	require.NoError(t, err)
	ring := []geometry.Point{geometry.Pt(10.5, 39.5), geometry.Pt(40.5, 39.5)}
	segs := []annotation.Segment{{From: ring[0], To: ring[1]}}

	frame := rd.Frame(ring, segs)
	assert.NotEqual(t, white, at(frame, 25, 10))
	assert.NotEqual(t, white, at(frame, 10, 10))
	assert.Equal(t, white, at(frame, 25, 30))

	assert.Equal(t, white, at(rd.Frame(nil, nil), 25, 10))
}

func TestRenderer_ScalesDownAndMapsClicks(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 400, 200))
	r, err := raster.New(img, raster.Extent{MinX: 0, MaxX: 4000, MinY: 0, MaxY: 2000})
	require.NoError(t, err)
	rd, err := New(r, 200, 200, "Water", "Land", DefaultStyle())
	require.NoError(t, err)

	w, h := rd.Size()
	assert.Equal(t, 200, w)
	assert.Equal(t, 100, h)

	p := rd.PointAt(0, 0)
	assert.InDelta(t, 10, p.X, 1e-9)
	assert.InDelta(t, 1990, p.Y, 1e-9)
}

func TestNew_NilRaster(t *testing.T) {
	_, err := New(nil, 0, 0, "a", "b", DefaultStyle())
	require.Error(t, err)
}
