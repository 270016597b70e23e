package export

import (
	"encoding/json"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/soocke/roi-annotator/domain/annotation"
	"github.com/soocke/roi-annotator/domain/geometry"
)

// Collection is an annotation file read back from disk.
type Collection struct {
	Name     string
	Polygons []annotation.Polygon
	// Dropped counts features discarded for having no geometry.
	Dropped int
}

// ReadAnnotations loads a FeatureCollection written by Annotations. Features
// with a null or empty geometry are dropped; any other non-polygon geometry is an error.
func ReadAnnotations(fs afero.Fs, path string) (Collection, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Collection{}, errors.Wrapf(err, "read %s", path)
	}
	var fc featureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return Collection{}, errors.Wrapf(err, "decode %s", path)
	}
	if fc.Type != "FeatureCollection" {
		return Collection{}, errors.Newf("%s: expected FeatureCollection, got %q", path, fc.Type)
	}
	c := Collection{Name: fc.Name}
	for i, f := range fc.Features {
		if f == nil || f.Geometry == nil || len(f.Geometry.FlatCoords()) == 0 {
			c.Dropped++
			continue
		}
		poly, ok := f.Geometry.(*geom.Polygon)
		if !ok {
			return Collection{}, errors.Newf("%s: feature %d: unsupported geometry %T", path, i, f.Geometry)
		}
		p := annotation.Polygon{ID: featureID(f), Label: fc.Name, Vertices: ringPoints(poly)}
		if err := geometry.Validate(p.Vertices); err != nil {
			c.Dropped++
			continue
		}
		c.Polygons = append(c.Polygons, p)
	}
	return c, nil
}

func featureID(f *geojson.Feature) int {
	switch v := f.Properties["id"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

func ringPoints(poly *geom.Polygon) []geometry.Point {
	if poly.NumLinearRings() == 0 {
		return nil
	}
	coords := poly.LinearRing(0).Coords()
	out := make([]geometry.Point, len(coords))
	for i, c := range coords {
		out[i] = geometry.Pt(c.X(), c.Y())
	}
	return out
}

// Summary aggregates a collection for reporting.
type Summary struct {
	Name     string
	Features int
	Dropped  int
	MinID    int
	MaxID    int
	Area     float64
}

// Summarize computes feature count, id range and total enclosed area.
func Summarize(c Collection) Summary {
	s := Summary{Name: c.Name, Features: len(c.Polygons), Dropped: c.Dropped}
	if len(c.Polygons) == 0 {
		return s
	}
	s.MinID, s.MaxID = math.MaxInt, math.MinInt
	for _, p := range c.Polygons {
		s.MinID = min(s.MinID, p.ID)
		s.MaxID = max(s.MaxID, p.ID)
		s.Area += geometry.Area(p.Vertices)
	}
	return s
}
