// Package geometry holds the small set of planar helpers the annotation engine
// needs: ring closure, validity and point containment.
package geometry

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"github.com/twpayne/go-geom/xy/location"
)

// MinVertices is the number of distinct vertices a polygon needs.
const MinVertices = 3

// Point is a coordinate in the display (extent) space of the annotated raster.
type Point struct {
	X float64
	Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) String() string { return fmt.Sprintf("(%g,%g)", p.X, p.Y) }

// InsufficientVerticesError reports a ring with too few vertices to form a polygon.
type InsufficientVerticesError struct {
	Got  int
	Want int
}

func (e *InsufficientVerticesError) Error() string {
	return fmt.Sprintf("polygon needs at least %d vertices, got %d", e.Want, e.Got)
}

// CloseRing returns a copy of points with the first point appended.
// Callers must guard the vertex count; fewer than MinVertices points is an error.
func CloseRing(points []Point) ([]Point, error) {
	if len(points) < MinVertices {
		return nil, &InsufficientVerticesError{Got: len(points), Want: MinVertices}
	}
	out := make([]Point, 0, len(points)+1)
	out = append(out, points...)
	return append(out, points[0]), nil
}

// IsClosed reports whether ring has at least four points and ends where it starts.
func IsClosed(ring []Point) bool {
	return len(ring) > MinVertices && ring[0] == ring[len(ring)-1]
}

// DistinctVertices counts the distinct points in ring, ignoring the closing point.
func DistinctVertices(ring []Point) int {
	if IsClosed(ring) {
		ring = ring[:len(ring)-1]
	}
	seen := make(map[Point]struct{}, len(ring))
	for _, p := range ring {
		seen[p] = struct{}{}
	}
	return len(seen)
}

// Validate checks that ring describes a usable polygon: at least three distinct vertices.
func Validate(ring []Point) error {
	if n := DistinctVertices(ring); n < MinVertices {
		return &InsufficientVerticesError{Got: n, Want: MinVertices}
	}
	return nil
}

// Polygon converts a closed ring into a go-geom polygon with a single exterior ring.
func Polygon(ring []Point) (*geom.Polygon, error) {
	if !IsClosed(ring) {
		return nil, errors.Newf("ring of %d points is not closed", len(ring))
	}
	coords := make([]geom.Coord, len(ring))
	for i, p := range ring {
		coords[i] = geom.Coord{p.X, p.Y}
	}
	poly, err := geom.NewPolygon(geom.XY).SetCoords([][]geom.Coord{coords})
	if err != nil {
		return nil, errors.Wrap(err, "building polygon")
	}
	return poly, nil
}

// ContainsPoint reports whether p lies strictly inside poly's exterior ring.
// Points on the boundary are not contained.
func ContainsPoint(poly *geom.Polygon, p Point) bool {
	if poly == nil || poly.NumLinearRings() == 0 {
		return false
	}
	shell := poly.LinearRing(0)
	if !poly.Bounds().OverlapsPoint(geom.XY, geom.Coord{p.X, p.Y}) {
		return false
	}
	return xy.LocatePointInRing(geom.XY, geom.Coord{p.X, p.Y}, shell.FlatCoords()) == location.Interior
}

// Area returns the unsigned area enclosed by a closed ring.
func Area(ring []Point) float64 {
	poly, err := Polygon(ring)
	if err != nil {
		return 0
	}
	return poly.Area()
}
