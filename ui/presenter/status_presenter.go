package presenter

import (
	"time"

	"github.com/soocke/roi-annotator/ui/model"
)

// StatusView displays the status line.
type StatusView interface {
	SetStatus(text string, sev model.Severity)
}

// StatusPresenter pushes status messages to the view and expires them after ttl.
type StatusPresenter struct {
	model *model.StatusModel
	view  StatusView
	ttl   time.Duration
	now   func() time.Time
}

// NewStatusPresenter returns a presenter; ttl <= 0 keeps messages until replaced.
func NewStatusPresenter(m *model.StatusModel, view StatusView, ttl time.Duration) *StatusPresenter {
	return &StatusPresenter{model: m, view: view, ttl: ttl, now: time.Now}
}

// Show replaces the status line.
func (p *StatusPresenter) Show(sev model.Severity, text string) {
	if p == nil || p.model == nil || p.view == nil {
		return
	}
	p.model.Set(sev, text, p.now())
	p.view.SetStatus(text, sev)
}

// Clear empties the status line if it holds a message.
func (p *StatusPresenter) Clear() {
	if p == nil || p.model == nil || p.view == nil {
		return
	}
	if p.model.Clear() {
		p.view.SetStatus("", model.SeverityInfo)
	}
}

// Tick expires the current message once it is older than ttl.
func (p *StatusPresenter) Tick(now time.Time) {
	if p == nil || p.model == nil || p.view == nil || p.ttl <= 0 {
		return
	}
	if text, _ := p.model.Current(); text == "" {
		return
	}
	if p.model.Age(now) >= p.ttl {
		p.Clear()
	}
}
