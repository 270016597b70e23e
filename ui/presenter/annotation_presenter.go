package presenter

import (
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/soocke/roi-annotator/domain/annotation"
	"github.com/soocke/roi-annotator/domain/export"
	"github.com/soocke/roi-annotator/domain/geometry"
	"github.com/soocke/roi-annotator/ui/model"
)

// Session is the part of the annotation engine the presenter drives.
type Session interface {
	Labels() (string, string)
	Polygons() []annotation.Polygon
	ByLabel(label string) []annotation.Polygon
	Ring() []geometry.Point
	Segments() []annotation.Segment
	Toggle(annotation.Mode) error
	HandlePointer(annotation.PointerEvent) error
	Undo() bool
	ClearAll()
}

// Canvas renders the session and maps display pixels to extent coordinates.
type Canvas interface {
	Rebuild([]annotation.Polygon)
	Frame(ring []geometry.Point, segments []annotation.Segment) image.Image
	PointAt(px, py int) geometry.Point
}

// Exporter writes annotation files and snapshots.
type Exporter interface {
	Annotations(polygons []annotation.Polygon, labelA, labelB string) (export.Result, error)
	Snapshot(img image.Image, name string, width int) (string, error)
}

// DisplayView shows the rendered frame and the per-label tally.
type DisplayView interface {
	ShowImage(image.Image)
	SetTally(text string)
}

// SnapshotOptions configures PNG export.
type SnapshotOptions struct {
	Name  string
	Width int
}

// AnnotationPresenter turns view callbacks into engine operations, redraws
// the display on engine changes and reports outcomes on the status line.
type AnnotationPresenter struct {
	session  Session
	canvas   Canvas
	exporter Exporter
	status   *StatusPresenter
	stats    *model.StatusModel
	view     DisplayView
	logger   *slog.Logger
	snapshot SnapshotOptions
	frame    image.Image
}

func NewAnnotationPresenter(session Session, canvas Canvas, exporter Exporter, status *StatusPresenter, stats *model.StatusModel, view DisplayView, snapshot SnapshotOptions, logger *slog.Logger) *AnnotationPresenter {
	return &AnnotationPresenter{
		session:  session,
		canvas:   canvas,
		exporter: exporter,
		status:   status,
		stats:    stats,
		view:     view,
		snapshot: snapshot,
		logger:   logger,
	}
}

func (p *AnnotationPresenter) ready() bool {
	return p != nil && p.session != nil && p.canvas != nil && p.view != nil
}

// OnChange is registered as an engine listener.
func (p *AnnotationPresenter) OnChange(kind annotation.ChangeKind) {
	if !p.ready() {
		return
	}
	switch kind {
	case annotation.ChangeFull:
		p.canvas.Rebuild(p.session.Polygons())
		p.redraw()
		p.updateTally()
	case annotation.ChangeRing:
		p.redraw()
	}
}

// Refresh rebuilds the whole display.
func (p *AnnotationPresenter) Refresh() { p.OnChange(annotation.ChangeFull) }

func (p *AnnotationPresenter) redraw() {
	p.frame = p.canvas.Frame(p.session.Ring(), p.session.Segments())
	p.view.ShowImage(p.frame)
}

// updateTally shows the polygon count per label and the files exported so far.
func (p *AnnotationPresenter) updateTally() {
	a, b := p.session.Labels()
	p.view.SetTally(fmt.Sprintf("%s: %d  %s: %d  exported: %d",
		a, len(p.session.ByLabel(a)), b, len(p.session.ByLabel(b)), p.stats.Exports()))
}

// Click handles a pointer button press at display pixel (px, py).
func (p *AnnotationPresenter) Click(button, px, py int) {
	if !p.ready() {
		return
	}
	ev := annotation.PointerEvent{Button: annotation.Button(button), At: p.canvas.PointAt(px, py)}
	p.report("click", p.session.HandlePointer(ev))
}

// ToggleMode flips one of the label or delete toggles.
func (p *AnnotationPresenter) ToggleMode(m annotation.Mode) {
	if !p.ready() {
		return
	}
	p.report("toggle", p.session.Toggle(m))
}

// Undo clears the most recent point or polygon.
func (p *AnnotationPresenter) Undo() {
	if !p.ready() {
		return
	}
	if !p.session.Undo() {
		p.status.Show(model.SeverityInfo, "nothing to undo")
		return
	}
	p.status.Clear()
}

// ClearAll drops every annotation.
func (p *AnnotationPresenter) ClearAll() {
	if !p.ready() {
		return
	}
	p.session.ClearAll()
	p.status.Show(model.SeverityInfo, "all annotations cleared")
}

// ExportGeoJSON writes one file per non-empty label.
func (p *AnnotationPresenter) ExportGeoJSON() {
	if !p.ready() || p.exporter == nil {
		return
	}
	a, b := p.session.Labels()
	res, err := p.exporter.Annotations(p.session.Polygons(), a, b)
	p.stats.AddExports(len(res.Written))
	p.updateTally()
	names := make([]string, len(res.Written))
	for i, path := range res.Written {
		names[i] = filepath.Base(path)
	}
	switch {
	case err != nil && len(names) > 0:
		p.status.Show(model.SeverityError, fmt.Sprintf("exported %s; %d file(s) failed", strings.Join(names, ", "), len(res.Failed)))
	case err != nil:
		p.status.Show(model.SeverityError, "export failed: "+err.Error())
	case len(names) == 0:
		p.status.Show(model.SeverityInfo, "no polygons to export")
	default:
		p.status.Show(model.SeverityInfo, "exported "+strings.Join(names, ", "))
	}
	if err != nil && p.logger != nil {
		p.logger.Error("geojson export incomplete", "written", len(res.Written), "failed", len(res.Failed), "error", err)
	}
}

// ExportPNG writes the currently displayed frame.
func (p *AnnotationPresenter) ExportPNG() {
	if !p.ready() || p.exporter == nil {
		return
	}
	if p.frame == nil {
		p.redraw()
	}
	path, err := p.exporter.Snapshot(p.frame, p.snapshot.Name, p.snapshot.Width)
	if err != nil {
		if p.logger != nil {
			p.logger.Error("snapshot export failed", "path", path, "error", err)
		}
		p.status.Show(model.SeverityError, "snapshot failed: "+err.Error())
		return
	}
	p.stats.AddExports(1)
	p.updateTally()
	p.status.Show(model.SeverityInfo, "saved "+filepath.Base(path))
}

// report surfaces guard violations as warnings and anything else as an error.
// A successful operation clears a stale message.
func (p *AnnotationPresenter) report(op string, err error) {
	switch {
	case err == nil:
		p.status.Clear()
	case annotation.IsGuard(err):
		p.status.Show(model.SeverityWarn, err.Error())
	default:
		if p.logger != nil {
			p.logger.Error("annotation operation failed", "op", op, "error", err)
		}
		p.status.Show(model.SeverityError, err.Error())
	}
}
