package app

import (
	"context"
	"fmt"
	"time"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/soocke/roi-annotator/debug"
	"github.com/soocke/roi-annotator/ui/presenter"
	"github.com/soocke/roi-annotator/ui/theme"
	"github.com/soocke/roi-annotator/ui/view"
)

const tick = 250 * time.Millisecond

// app runs the Tk event loop for one annotation session. Every engine
// mutation happens inside a Tk callback, so the session needs no locking.
type app struct {
	c       *AppContainer
	title   string
	afterID string
	cancel  context.CancelFunc
}

func NewApp(title string, c *AppContainer) *app {
	return &app{c: c, title: title}
}

// Start builds the window and blocks until it is closed.
func (a *app) Start(ctx context.Context) {
	ctx, a.cancel = context.WithCancel(ctx)
	defer a.cancel()

	c := a.c
	App.WmTitle(a.title)
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	theme.SetDark(c.Config.Dark)

	w, h := c.Renderer.Size()
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", w+40, h+160))
	ap := c.AnnotationPresenter
	c.RootView.Build(w, h, view.Handlers{
		OnClick:         ap.Click,
		OnToggle:        ap.ToggleMode,
		OnClearAll:      ap.ClearAll,
		OnUndo:          ap.Undo,
		OnExportGeoJSON: ap.ExportGeoJSON,
		OnExportPNG:     ap.ExportPNG,
		OnExit:          a.exitHandler,
	})
	c.ModePresenter.Sync()
	ap.Refresh()

	if c.Config.Debug {
		debug.StartRuntimeLogger(ctx, 2*time.Second, c.Logger)
	}
	if c.Logger != nil {
		lw, lh := c.Raster.Size()
		c.Logger.Info("annotation session started",
			"session", c.Engine.SessionID(),
			"raster", fmt.Sprintf("%dx%d", lw, lh),
			"display", fmt.Sprintf("%dx%d", w, h),
			"out_dir", c.Exporter.Dir())
	}

	c.Loop = presenter.NewLoop(c.StatusPresenter, a.scheduleUpdate)
	a.scheduleUpdate()

	App.Wait()
}

func (a *app) exitHandler() {
	// Cancel scheduled after event if any.
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
	}
	if a.cancel != nil {
		a.cancel()
	}
	Destroy(App)
}

func (a *app) scheduleUpdate() {
	// Schedule the next tick using TclAfter to stay on Tk's event loop thread.
	a.afterID = TclAfter(tick, func() { a.c.Loop.Tick() })
}
