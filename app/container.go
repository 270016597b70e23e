package app

import (
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"

	"github.com/soocke/roi-annotator/config"
	"github.com/soocke/roi-annotator/domain/annotation"
	"github.com/soocke/roi-annotator/domain/export"
	"github.com/soocke/roi-annotator/domain/raster"
	"github.com/soocke/roi-annotator/ui/model"
	"github.com/soocke/roi-annotator/ui/presenter"
	"github.com/soocke/roi-annotator/ui/render"
	"github.com/soocke/roi-annotator/ui/view"
)

// AppContainer assembles the session, renderer, exporter, presenters and the root view.
type AppContainer struct {
	Config   *config.Config
	Logger   *slog.Logger
	Raster   *raster.Raster
	Engine   *annotation.Engine
	Renderer *render.Renderer
	Exporter *export.Exporter
	Status   *model.StatusModel
	RootView *view.RootView
	UI       view.UI

	// Presenters
	AnnotationPresenter *presenter.AnnotationPresenter
	ModePresenter       *presenter.ModePresenter
	StatusPresenter     *presenter.StatusPresenter
	Loop                *presenter.Loop
}

// BuildContainer constructs all components for annotating r. No widgets are
// created; the root view is built by the app once Tk is running.
func BuildContainer(cfg *config.Config, logger *slog.Logger, r *raster.Raster, fs afero.Fs) (*AppContainer, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &AppContainer{Config: cfg, Logger: logger, Raster: r}

	engine, err := annotation.NewEngine(cfg.LabelA, cfg.LabelB, logger)
	if err != nil {
		return nil, errors.Wrap(err, "start annotation session")
	}
	c.Engine = engine

	style, err := styleFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	c.Renderer, err = render.New(r, cfg.DisplayMaxW, cfg.DisplayMaxH, cfg.LabelA, cfg.LabelB, style)
	if err != nil {
		return nil, err
	}
	c.Exporter = export.NewExporter(fs, cfg.OutDir, logger)
	c.Status = model.NewStatusModel()

	// View
	c.RootView = view.NewRootView(cfg, logger)
	c.UI = c.RootView

	// Presenters
	c.StatusPresenter = presenter.NewStatusPresenter(c.Status, c.UI, time.Duration(cfg.StatusTTLSeconds)*time.Second)
	c.AnnotationPresenter = presenter.NewAnnotationPresenter(engine, c.Renderer, c.Exporter, c.StatusPresenter, c.Status, c.UI,
		presenter.SnapshotOptions{Name: cfg.SnapshotName, Width: cfg.SnapshotWidth}, logger)
	c.ModePresenter = presenter.NewModePresenter(engine, c.UI)
	engine.AddListener(c.AnnotationPresenter.OnChange)
	engine.AddListener(c.ModePresenter.OnChange)
	return c, nil
}

func styleFromConfig(cfg *config.Config) (render.Style, error) {
	style := render.DefaultStyle()
	a, err := config.ParseColor(cfg.ColorA)
	if err != nil {
		return style, err
	}
	b, err := config.ParseColor(cfg.ColorB)
	if err != nil {
		return style, err
	}
	style.ColorA, style.ColorB, style.Alpha = a, b, cfg.Alpha
	return style, nil
}
