// Package annotation implements the interactive polygon annotation session:
// the polygon store, the mode controller and the pointer-event engine that drives both.
//
// An Engine is not safe for concurrent use. It is meant to be driven from a
// single UI event loop; every method mutates synchronously and notifies
// listeners before returning.
package annotation

import (
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/soocke/roi-annotator/domain/geometry"
)

// Button identifies the pointer button of an event.
type Button int

const (
	ButtonPrimary   Button = 1
	ButtonSecondary Button = 3
)

// PointerEvent is a click on the displayed image, in extent coordinates.
type PointerEvent struct {
	Button Button
	At     geometry.Point
}

// Engine is one annotation session.
type Engine struct {
	labelA    string
	labelB    string
	session   string
	store     *Store
	modes     ModeController
	logger    *slog.Logger
	listeners []Listener
}

// NewEngine starts a session annotating polygons under two distinct labels.
func NewEngine(labelA, labelB string, logger *slog.Logger) (*Engine, error) {
	if labelA == "" || labelB == "" {
		return nil, errors.New("both labels must be non-empty")
	}
	if labelA == labelB {
		return nil, errors.Newf("labels must differ, both are %q", labelA)
	}
	e := &Engine{labelA: labelA, labelB: labelB, session: uuid.NewString(), store: NewStore()}
	if logger != nil {
		e.logger = logger.With("session", e.session)
	}
	return e, nil
}

// SessionID identifies the session in logs.
func (e *Engine) SessionID() string { return e.session }

// Labels returns the configured label strings.
func (e *Engine) Labels() (a, b string) { return e.labelA, e.labelB }

// LabelFor returns the label a drawing mode produces, or "" for other modes.
func (e *Engine) LabelFor(m Mode) string {
	switch m {
	case ModeDrawingA:
		return e.labelA
	case ModeDrawingB:
		return e.labelB
	default:
		return ""
	}
}

// AddListener registers a callback invoked after each mutation.
func (e *Engine) AddListener(l Listener) {
	if l != nil {
		e.listeners = append(e.listeners, l)
	}
}

func (e *Engine) Mode() Mode                     { return e.modes.Current() }
func (e *Engine) Affordances() Affordances       { return e.modes.Affordances() }
func (e *Engine) Polygons() []Polygon            { return e.store.Polygons() }
func (e *Engine) Ring() []geometry.Point         { return e.store.Ring() }
func (e *Engine) Segments() []Segment            { return e.store.Segments() }
func (e *Engine) MaxID() int                     { return e.store.MaxID() }
func (e *Engine) ByLabel(label string) []Polygon { return e.store.ByLabel(label) }

// Activate switches the interaction mode. Guard errors leave everything unchanged.
func (e *Engine) Activate(m Mode) error {
	prev := e.modes.Current()
	if err := e.modes.Activate(m); err != nil {
		return e.guard("activate", err)
	}
	if prev != m {
		e.debug("mode transition", "from", prev.String(), "to", m.String())
		e.notify(ChangeMode)
	}
	return nil
}

// Deactivate turns m off if it is the active mode.
func (e *Engine) Deactivate(m Mode) error {
	prev := e.modes.Current()
	if err := e.modes.Deactivate(m); err != nil {
		return e.guard("deactivate", err)
	}
	if cur := e.modes.Current(); cur != prev {
		e.debug("mode transition", "from", prev.String(), "to", cur.String())
		e.notify(ChangeMode)
	}
	return nil
}

// Toggle flips m: deactivates it when active, activates it otherwise.
func (e *Engine) Toggle(m Mode) error {
	if e.modes.Current() == m {
		return e.Deactivate(m)
	}
	return e.Activate(m)
}

// HandlePointer dispatches a pointer event to the primary or secondary action.
func (e *Engine) HandlePointer(ev PointerEvent) error {
	switch ev.Button {
	case ButtonPrimary:
		return e.PrimaryAction(ev.At)
	case ButtonSecondary:
		_, _, err := e.SecondaryAction()
		return err
	default:
		return nil
	}
}

// PrimaryAction handles a left click at p according to the active mode.
func (e *Engine) PrimaryAction(p geometry.Point) error {
	switch e.modes.Current() {
	case ModeDrawingA, ModeDrawingB:
		seg, drew := e.store.AppendPoint(p)
		e.modes.Lock()
		if drew {
			e.debug("segment recorded", "from", seg.From.String(), "to", seg.To.String())
		}
		e.notify(ChangeRing)
		return nil
	case ModeDelete:
		if e.store.RingLen() > 0 {
			return e.guard("delete", ErrFinishPolygon)
		}
		removed, ok := e.store.RemoveFirstContaining(p)
		if !ok {
			return nil
		}
		e.info("polygon deleted", "id", removed.ID, "label", removed.Label)
		e.notify(ChangeFull)
		return nil
	default:
		return e.guard("click", ErrNoLabel)
	}
}

// SecondaryAction closes the in-progress polygon. It returns the new polygon
// and true when one was created. Rings of two points or fewer are left alone.
func (e *Engine) SecondaryAction() (Polygon, bool, error) {
	n := e.store.RingLen()
	if n == 0 {
		return Polygon{}, false, nil
	}
	if n <= 2 {
		return Polygon{}, false, e.guard("close", ErrTooFewVertices)
	}
	mode, ok := e.modes.Locked()
	if !ok {
		return Polygon{}, false, errors.AssertionFailedf("open ring of %d points without a locked label", n)
	}
	poly, err := e.store.ClosePolygon(e.LabelFor(mode))
	if err != nil {
		if IsGuard(err) {
			return Polygon{}, false, e.guard("close", err)
		}
		if e.logger != nil {
			e.logger.Error("close polygon failed", "error", err)
		}
		return Polygon{}, false, err
	}
	e.modes.Unlock()
	e.info("polygon closed", "id", poly.ID, "label", poly.Label, "vertices", len(poly.Vertices)-1)
	e.notify(ChangeFull)
	return poly, true, nil
}

// Undo clears the most recent thing: the last ring point (aborting the polygon
// when it is the only one) or, with no open ring, the newest finished polygon.
// It reports whether anything changed.
func (e *Engine) Undo() bool {
	switch n := e.store.RingLen(); {
	case n == 1:
		e.store.AbortRing()
		e.modes.Unlock()
		e.debug("polygon aborted")
		e.notify(ChangeRing)
		return true
	case n > 1:
		e.store.PopPoint()
		e.notify(ChangeRing)
		return true
	}
	removed, ok := e.store.RemoveLast()
	if !ok {
		return false
	}
	e.info("polygon undone", "id", removed.ID, "label", removed.Label)
	e.notify(ChangeFull)
	return true
}

// ClearAll removes every polygon and the open ring and returns to idle.
// The id allocator is not reset; ids stay unique for the whole session.
func (e *Engine) ClearAll() {
	e.store.Clear()
	e.modes.Reset()
	e.info("annotations cleared", "max_id", e.store.MaxID())
	e.notify(ChangeFull)
}

func (e *Engine) notify(kind ChangeKind) {
	for _, l := range e.listeners {
		l(kind)
	}
}

func (e *Engine) guard(op string, err error) error {
	if e.logger != nil {
		e.logger.Debug("guard violation", "op", op, "mode", e.modes.Current().String(), "reason", err.Error())
	}
	return err
}

func (e *Engine) debug(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}

func (e *Engine) info(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Info(msg, args...)
	}
}
