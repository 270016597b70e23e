package presenter

import (
	"testing"
	"time"

	"github.com/soocke/roi-annotator/ui/model"
)

func TestStatusPresenter_ExpiresAfterTTL(t *testing.T) {
	m := model.NewStatusModel()
	view := &mockStatusView{}
	p := NewStatusPresenter(m, view, 5*time.Second)
	base := time.Unix(100, 0)
	p.now = func() time.Time { return base }

	p.Show(model.SeverityWarn, "select a label first")
	p.Tick(base.Add(4 * time.Second))
	if view.text != "select a label first" {
		t.Fatalf("message expired early: %q", view.text)
	}
	p.Tick(base.Add(5 * time.Second))
	if view.text != "" {
		t.Fatalf("expected expiry, got %q", view.text)
	}
}

func TestLoop_TicksAndReschedules(t *testing.T) {
	m := model.NewStatusModel()
	view := &mockStatusView{}
	p := NewStatusPresenter(m, view, time.Nanosecond)
	p.now = func() time.Time { return time.Unix(0, 0) }
	p.Show(model.SeverityInfo, "saved")

	scheduled := 0
	l := NewLoop(p, func() { scheduled++ })
	l.Tick()
	if view.text != "" || scheduled != 1 {
		t.Fatalf("tick: text=%q scheduled=%d", view.text, scheduled)
	}
	var nilLoop *Loop
	nilLoop.Tick()
}
