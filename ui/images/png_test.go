package images

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestEncodePNG_Decodes(t *testing.T) {
	src := Placeholder(7, 3, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	data := EncodePNG(src)
	if len(data) == 0 {
		t.Fatalf("expected png bytes")
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 7 || b.Dy() != 3 {
		t.Fatalf("expected 7x3 got %dx%d", b.Dx(), b.Dy())
	}
	r, g, bl, _ := img.At(6, 2).RGBA()
	if r>>8 != 10 || g>>8 != 20 || bl>>8 != 30 {
		t.Fatalf("unexpected pixel %d,%d,%d", r>>8, g>>8, bl>>8)
	}
}

func TestEncodePNG_Nil(t *testing.T) {
	if EncodePNG(nil) != nil {
		t.Fatalf("nil image should encode to nil")
	}
}

func TestPlaceholder_MinSize(t *testing.T) {
	img := Placeholder(0, -3, color.Black)
	if b := img.Bounds(); b != image.Rect(0, 0, 1, 1) {
		t.Fatalf("expected 1x1 got %v", b)
	}
}
