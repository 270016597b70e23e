package view

import (
	"image"
	"log/slog"

	"github.com/soocke/roi-annotator/config"
	"github.com/soocke/roi-annotator/domain/annotation"
	"github.com/soocke/roi-annotator/ui/model"
	"github.com/soocke/roi-annotator/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Handlers are invoked on user actions.
type Handlers struct {
	OnClick         func(button, x, y int)
	OnToggle        func(annotation.Mode)
	OnClearAll      func()
	OnUndo          func()
	OnExportGeoJSON func()
	OnExportPNG     func()
	OnExit          func()
}

// RootView composes the top-level application layout and wires UI callbacks.
// It owns the subviews and satisfies the presenter view contracts.
type RootView struct {
	cfg    *config.Config
	logger *slog.Logger

	// Subviews
	Display DisplayPanel
	Status  StatusBar

	toggles map[annotation.Mode]*ButtonWidget
	colors  map[annotation.Mode]string
}

// UI abstracts the subset of view operations needed by presenters, enabling decoupling
// from the concrete RootView implementation.
type UI interface {
	ShowImage(img image.Image)
	SetTally(text string)
	SetToggles(a annotation.Affordances)
	SetModeLabel(text string)
	SetStatus(text string, sev model.Severity)
}

var _ UI = (*RootView)(nil)

func NewRootView(cfg *config.Config, logger *slog.Logger) *RootView {
	return &RootView{cfg: cfg, logger: logger}
}

// Build constructs the layout for a w x h display.
//
//	row 0: label A, label B, delete toggles
//	row 1: clear all, clear most recent, export GeoJSON, export PNG, exit
//	row 2: display
//	row 3: mode label, status line and tally
func (rv *RootView) Build(w, h int, hd Handlers) {
	if rv == nil || rv.cfg == nil {
		return
	}
	toggleFrame := Frame()
	Grid(toggleFrame, Row(0), Column(0), Columnspan(4), Sticky("we"), Padx("0.3m"), Pady("0.3m"))
	rv.toggles = make(map[annotation.Mode]*ButtonWidget, 3)
	rv.colors = map[annotation.Mode]string{
		annotation.ModeDrawingA: rv.cfg.ColorA,
		annotation.ModeDrawingB: rv.cfg.ColorB,
		annotation.ModeDelete:   theme.CurrentPalette().Danger,
	}
	makeToggle := func(col int, mode annotation.Mode, text string) {
		btn := Button(Txt(text), Width(18), Relief("raised"), Command(func() {
			if hd.OnToggle != nil {
				hd.OnToggle(mode)
			}
		}))
		Grid(btn, In(toggleFrame), Row(0), Column(col), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
		rv.toggles[mode] = btn
	}
	makeToggle(0, annotation.ModeDrawingA, rv.cfg.LabelA)
	makeToggle(1, annotation.ModeDrawingB, rv.cfg.LabelB)
	makeToggle(2, annotation.ModeDelete, "Delete by click")

	actionFrame := Frame()
	Grid(actionFrame, Row(1), Column(0), Columnspan(4), Sticky("we"), Padx("0.3m"), Pady("0.3m"))
	makeAction := func(col int, text, style string, fn func()) {
		if fn == nil {
			fn = func() {}
		}
		btn := TButton(Txt(text), Style(style), Command(fn))
		Grid(btn, In(actionFrame), Row(0), Column(col), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	}
	makeAction(0, "Clear all", theme.StyleDangerButton, hd.OnClearAll)
	makeAction(1, "Clear most recent", theme.StylePrimaryButton, hd.OnUndo)
	makeAction(2, "Export GeoJSON", theme.StylePrimaryButton, hd.OnExportGeoJSON)
	makeAction(3, "Export PNG", theme.StylePrimaryButton, hd.OnExportPNG)
	makeAction(4, "Exit", theme.StylePrimaryButton, hd.OnExit)

	rv.Display = NewDisplayPanel(2, w, h, hd.OnClick)
	rv.Status = NewStatusBar(3)
}

// ShowImage proxies to the display panel.
func (rv *RootView) ShowImage(img image.Image) {
	if rv != nil && rv.Display != nil {
		rv.Display.Show(img)
	}
}

// SetToggles reflects the affordance projection: active toggles are sunken in
// their label colour, disabled ones greyed out.
func (rv *RootView) SetToggles(a annotation.Affordances) {
	if rv == nil {
		return
	}
	for mode, t := range map[annotation.Mode]annotation.Toggle{
		annotation.ModeDrawingA: a.LabelA,
		annotation.ModeDrawingB: a.LabelB,
		annotation.ModeDelete:   a.Delete,
	} {
		btn := rv.toggles[mode]
		if btn == nil {
			continue
		}
		relief, bg := theme.ToggleLook(t.Active, rv.colors[mode])
		state := "normal"
		if !t.Enabled {
			state = "disabled"
		}
		btn.Configure(Relief(relief), Background(bg), State(state))
	}
}

// SetTally updates the per-label polygon and export counts.
func (rv *RootView) SetTally(text string) {
	if rv != nil && rv.Status != nil {
		rv.Status.SetTally(text)
	}
}

// SetModeLabel updates the mode label text.
func (rv *RootView) SetModeLabel(text string) {
	if rv != nil && rv.Status != nil {
		rv.Status.SetMode(text)
	}
}

// SetStatus updates the status line.
func (rv *RootView) SetStatus(text string, sev model.Severity) {
	if rv == nil || rv.Status == nil {
		return
	}
	rv.Status.SetStatus(text, sev)
	if text != "" && sev == model.SeverityWarn && rv.logger != nil {
		rv.logger.Warn("guard", "message", text)
	}
}
