package presenter

import (
	"fmt"

	"github.com/soocke/roi-annotator/domain/annotation"
)

// ModeSource provides the engine methods the presenter requires.
type ModeSource interface {
	Mode() annotation.Mode
	Affordances() annotation.Affordances
	LabelFor(annotation.Mode) string
}

// ModeView reflects the toggle buttons and the mode label.
type ModeView interface {
	SetToggles(annotation.Affordances)
	SetModeLabel(string)
}

// ModePresenter projects the mode controller onto the toggle buttons.
// It only touches the view when the projection actually changed.
type ModePresenter struct {
	src    ModeSource
	view   ModeView
	latest annotation.Affordances
	mode   annotation.Mode
	synced bool
}

func NewModePresenter(src ModeSource, view ModeView) *ModePresenter {
	return &ModePresenter{src: src, view: view}
}

// OnChange is registered as an engine listener. Every change kind can move
// the lock (the first ring point locks, closing unlocks), so all are handled.
func (p *ModePresenter) OnChange(annotation.ChangeKind) { p.Sync() }

// Sync pushes the current projection to the view.
func (p *ModePresenter) Sync() {
	if p == nil || p.src == nil || p.view == nil {
		return
	}
	aff := p.src.Affordances()
	mode := p.src.Mode()
	if p.synced && aff == p.latest && mode == p.mode {
		return
	}
	p.latest, p.mode, p.synced = aff, mode, true
	p.view.SetToggles(aff)
	p.view.SetModeLabel(modeText(mode, p.src.LabelFor(mode)))
}

func modeText(m annotation.Mode, label string) string {
	switch m {
	case annotation.ModeDrawingA, annotation.ModeDrawingB:
		return fmt.Sprintf("Mode: drawing %s", label)
	case annotation.ModeDelete:
		return "Mode: delete by click"
	default:
		return "Mode: idle"
	}
}
