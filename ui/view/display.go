package view

import (
	"image"
	"image/color"

	"github.com/soocke/roi-annotator/config"
	"github.com/soocke/roi-annotator/ui/images"
	"github.com/soocke/roi-annotator/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// DisplayPanel shows the rendered annotation frame and reports pointer clicks
// in image pixel coordinates.
type DisplayPanel interface {
	Show(img image.Image)
}

type displayPanel struct {
	label     *LabelWidget
	prevPhoto *Img // last Tk photo image instance, deleted on replacement
}

// NewDisplayPanel creates the image label sized w x h, grids it at row and binds
// primary/secondary button presses to onClick.
func NewDisplayPanel(row, w, h int, onClick func(button, x, y int)) DisplayPanel {
	bg, err := config.ParseColor(theme.CurrentPalette().Surface)
	if err != nil {
		bg = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}
	placeholder := images.Placeholder(w, h, bg)
	photo := NewPhoto(Data(images.EncodePNG(placeholder)))
	lbl := Label(Image(photo), Borderwidth(0), Anchor("nw"), Cursor("crosshair"))
	Grid(lbl, Row(row), Column(0), Columnspan(4), Sticky("nw"), Padx("0.4m"), Pady("0.4m"))
	if onClick != nil {
		Bind(lbl, "<Button-1>", Command(func(e *Event) { onClick(1, e.X, e.Y) }))
		Bind(lbl, "<Button-3>", Command(func(e *Event) { onClick(3, e.X, e.Y) }))
		// single-button pointers close polygons with ctrl-click
		Bind(lbl, "<Control-Button-1>", Command(func(e *Event) { onClick(3, e.X, e.Y) }))
	}
	return &displayPanel{label: lbl, prevPhoto: photo}
}

func (v *displayPanel) Show(img image.Image) {
	if v == nil || v.label == nil || img == nil {
		return
	}
	pngBytes := images.EncodePNG(img)
	// Replace previous photo to avoid retaining obsolete pixel buffers.
	if v.prevPhoto != nil {
		v.prevPhoto.Delete()
	}
	v.prevPhoto = NewPhoto(Data(pngBytes))
	v.label.Configure(Image(v.prevPhoto))
}
