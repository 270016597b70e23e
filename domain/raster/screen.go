package raster

import (
	"image"

	"github.com/cockroachdb/errors"
	"github.com/vova616/screenshot"
)

// FromScreen captures the primary monitor and returns it with a pixel extent.
func FromScreen() (*Raster, error) {
	img, err := screenshot.CaptureScreen()
	if err != nil {
		return nil, errors.Wrap(err, "capture screen")
	}
	return New(img, Extent{})
}

// FromScreenRect captures rect of the screen. An empty rect captures the whole screen.
func FromScreenRect(rect image.Rectangle) (*Raster, error) {
	if rect.Empty() {
		return FromScreen()
	}
	screen, err := screenshot.ScreenRect()
	if err != nil {
		return nil, errors.Wrap(err, "query screen bounds")
	}
	rect = rect.Intersect(screen)
	if rect.Empty() {
		return nil, errors.Newf("capture rect outside screen %v", screen)
	}
	img, err := screenshot.CaptureRect(rect)
	if err != nil {
		return nil, errors.Wrapf(err, "capture %v", rect)
	}
	return New(img, Extent{})
}
