package annotation

import (
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/soocke/roi-annotator/domain/geometry"
)

// Store owns the finished polygons (in id order), the in-progress ring and the
// segment log used to roll back connecting lines. It also allocates ids: the
// highest id ever handed out is kept even when polygons are removed.
// The zero value is empty and usable.
type Store struct {
	polygons []*Polygon
	ring     []geometry.Point
	segments []Segment
	maxID    int
}

// NewStore returns an empty store.
func NewStore() *Store { return &Store{} }

// Len returns the number of finished polygons.
func (s *Store) Len() int { return len(s.polygons) }

// MaxID returns the highest id allocated so far (0 if none).
func (s *Store) MaxID() int { return s.maxID }

// Polygons returns a copy of the finished polygons in id order.
func (s *Store) Polygons() []Polygon {
	out := make([]Polygon, len(s.polygons))
	for i, p := range s.polygons {
		out[i] = *p
		out[i].Vertices = slices.Clone(p.Vertices)
	}
	return out
}

// ByLabel returns the finished polygons carrying label, in id order.
func (s *Store) ByLabel(label string) []Polygon {
	var out []Polygon
	for _, p := range s.Polygons() {
		if p.Label == label {
			out = append(out, p)
		}
	}
	return out
}

// Ring returns a copy of the in-progress vertices.
func (s *Store) Ring() []geometry.Point { return slices.Clone(s.ring) }

// RingLen returns the number of in-progress vertices.
func (s *Store) RingLen() int { return len(s.ring) }

// Segments returns a copy of the segment log.
func (s *Store) Segments() []Segment { return slices.Clone(s.segments) }

// AppendPoint adds p to the ring and, when a previous point exists, logs the
// connecting segment. It reports the segment and whether one was recorded.
func (s *Store) AppendPoint(p geometry.Point) (Segment, bool) {
	s.ring = append(s.ring, p)
	if len(s.ring) < 2 {
		return Segment{}, false
	}
	seg := Segment{From: s.ring[len(s.ring)-2], To: p}
	s.segments = append(s.segments, seg)
	return seg, true
}

// PopPoint removes the last ring vertex together with the most recent segment.
func (s *Store) PopPoint() bool {
	if len(s.ring) == 0 {
		return false
	}
	s.ring = s.ring[:len(s.ring)-1]
	if len(s.segments) > 0 {
		s.segments = s.segments[:len(s.segments)-1]
	}
	return true
}

// AbortRing discards the in-progress ring and its segments.
func (s *Store) AbortRing() {
	s.ring = s.ring[:0]
	s.segments = s.segments[:0]
}

// ClosePolygon turns the ring into a finished polygon under label, allocating the next id.
// The ring must hold more than two points and at least three distinct vertices;
// on failure nothing changes.
func (s *Store) ClosePolygon(label string) (Polygon, error) {
	if len(s.ring) < geometry.MinVertices {
		return Polygon{}, ErrTooFewVertices
	}
	if geometry.Validate(s.ring) != nil {
		return Polygon{}, ErrDegeneratePolygon
	}
	closed, err := geometry.CloseRing(s.ring)
	if err != nil {
		return Polygon{}, err
	}
	shape, err := geometry.Polygon(closed)
	if err != nil {
		return Polygon{}, errors.NewAssertionErrorWithWrappedErrf(err, "closed ring rejected")
	}
	p := &Polygon{ID: s.maxID + 1, Label: label, Vertices: closed, shape: shape}
	if err := s.insert(p); err != nil {
		return Polygon{}, err
	}
	s.AbortRing()
	return *p, nil
}

// insert appends p keeping the id order strictly increasing.
func (s *Store) insert(p *Polygon) error {
	for _, q := range s.polygons {
		if q.ID == p.ID {
			return errors.AssertionFailedf("duplicate polygon id %d", p.ID)
		}
	}
	if n := len(s.polygons); n > 0 && s.polygons[n-1].ID > p.ID {
		return errors.AssertionFailedf("polygon id %d allocated below existing id %d", p.ID, s.polygons[n-1].ID)
	}
	s.polygons = append(s.polygons, p)
	if p.ID > s.maxID {
		s.maxID = p.ID
	}
	return nil
}

// RemoveFirstContaining deletes the first polygon (in id order) whose interior contains pt.
func (s *Store) RemoveFirstContaining(pt geometry.Point) (Polygon, bool) {
	for i, p := range s.polygons {
		if p.Contains(pt) {
			s.polygons = slices.Delete(s.polygons, i, i+1)
			return *p, true
		}
	}
	return Polygon{}, false
}

// RemoveLast deletes the most recently created polygon. The id is not reused.
func (s *Store) RemoveLast() (Polygon, bool) {
	n := len(s.polygons)
	if n == 0 {
		return Polygon{}, false
	}
	p := s.polygons[n-1]
	s.polygons = s.polygons[:n-1]
	return *p, true
}

// Clear empties polygons, ring and segments. The id allocator keeps its maximum.
func (s *Store) Clear() {
	s.polygons = nil
	s.AbortRing()
}
