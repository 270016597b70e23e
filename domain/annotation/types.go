package annotation

import (
	"github.com/cockroachdb/errors"
	"github.com/twpayne/go-geom"

	"github.com/soocke/roi-annotator/domain/geometry"
)

// Mode enumerates the mutually exclusive interaction modes.
type Mode int

const (
	ModeIdle Mode = iota
	ModeDrawingA
	ModeDrawingB
	ModeDelete
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeDrawingA:
		return "drawing-a"
	case ModeDrawingB:
		return "drawing-b"
	case ModeDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Drawing reports whether m is one of the two label modes.
func (m Mode) Drawing() bool { return m == ModeDrawingA || m == ModeDrawingB }

// Polygon is a finished, labelled annotation. Vertices is a closed ring.
type Polygon struct {
	ID       int
	Label    string
	Vertices []geometry.Point

	shape *geom.Polygon
}

// Contains reports whether p lies inside the polygon interior.
func (p *Polygon) Contains(pt geometry.Point) bool {
	if p == nil {
		return false
	}
	if p.shape == nil {
		shape, err := geometry.Polygon(p.Vertices)
		if err != nil {
			return false
		}
		p.shape = shape
	}
	return geometry.ContainsPoint(p.shape, pt)
}

// Segment is a connecting line drawn between two consecutive ring points.
type Segment struct {
	From geometry.Point
	To   geometry.Point
}

// ChangeKind classifies what a listener has to redraw.
type ChangeKind int

const (
	// ChangeRing means only the in-progress ring or its segments changed.
	ChangeRing ChangeKind = iota + 1
	// ChangeFull means finished polygons changed and the display must be rebuilt.
	ChangeFull
	// ChangeMode means only the mode/affordances changed.
	ChangeMode
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeRing:
		return "ring"
	case ChangeFull:
		return "full"
	case ChangeMode:
		return "mode"
	default:
		return "unknown"
	}
}

// Listener is called synchronously after every engine mutation.
type Listener func(kind ChangeKind)

// GuardError is a recoverable, user-facing refusal of an operation.
// It never changes state.
type GuardError struct{ msg string }

func (e *GuardError) Error() string { return e.msg }

var (
	ErrNoLabel           = &GuardError{msg: "select a label first"}
	ErrLabelLocked       = &GuardError{msg: "finish current polygon before switching label"}
	ErrFinishPolygon     = &GuardError{msg: "finish current polygon before deleting"}
	ErrTooFewVertices    = &GuardError{msg: "polygon needs at least 3 points"}
	ErrDegeneratePolygon = &GuardError{msg: "polygon needs 3 distinct points"}
)

// IsGuard reports whether err is a guard violation.
func IsGuard(err error) bool {
	var g *GuardError
	return errors.As(err, &g)
}
