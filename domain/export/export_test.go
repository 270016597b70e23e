package export

import (
	"encoding/json"
	"image"
	"image/color"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/disintegration/imaging"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/roi-annotator/domain/annotation"
	"github.com/soocke/roi-annotator/domain/geometry"
)

func closedTriangle(id int, label string, dx float64) annotation.Polygon {
	ring, _ := geometry.CloseRing([]geometry.Point{geometry.Pt(dx, 0), geometry.Pt(dx+10, 0), geometry.Pt(dx+5, 10)})
	return annotation.Polygon{ID: id, Label: label, Vertices: ring}
}

type decodedCollection struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	Features []struct {
		Type       string         `json:"type"`
		Properties map[string]any `json:"properties"`
		Geometry   struct {
			Type        string        `json:"type"`
			Coordinates [][][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

func readCollection(t *testing.T, fs afero.Fs, path string) decodedCollection {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	var fc decodedCollection
	require.NoError(t, json.Unmarshal(data, &fc))
	return fc
}

func TestAnnotations_OneFilePerNonEmptyLabel(t *testing.T) {
	fs := afero.NewMemMapFs()
	x := NewExporter(fs, "out", nil)

	res, err := x.Annotations([]annotation.Polygon{closedTriangle(1, "Water", 0)}, "Water", "Land")
	require.NoError(t, err)
	assert.Equal(t, []string{"out/water.geojson"}, res.Written)
	assert.Empty(t, res.Failed)

	ok, err := afero.Exists(fs, "out/land.geojson")
	require.NoError(t, err)
	assert.False(t, ok)

	fc := readCollection(t, fs, "out/water.geojson")
	assert.Equal(t, "FeatureCollection", fc.Type)
	assert.Equal(t, "Water", fc.Name)
	require.Len(t, fc.Features, 1)
	f := fc.Features[0]
	assert.Equal(t, "Feature", f.Type)
	assert.EqualValues(t, 1, f.Properties["id"])
	assert.Equal(t, "Polygon", f.Geometry.Type)
	assert.Equal(t, [][][]float64{{{0, 0}, {10, 0}, {5, 10}, {0, 0}}}, f.Geometry.Coordinates)
}

func TestAnnotations_EmptyStoreWritesNothing(t *testing.T) {
	fs := afero.NewMemMapFs()
	res, err := NewExporter(fs, "out", nil).Annotations(nil, "Water", "Land")
	require.NoError(t, err)
	assert.Empty(t, res.Written)

	files, err := afero.ReadDir(fs, "out")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestAnnotations_NeverOverwrites(t *testing.T) {
	fs := afero.NewMemMapFs()
	x := NewExporter(fs, "out", nil)
	polys := []annotation.Polygon{closedTriangle(1, "Water", 0)}

	first, err := x.Annotations(polys, "Water", "Land")
	require.NoError(t, err)
	second, err := x.Annotations(polys, "Water", "Land")
	require.NoError(t, err)
	third, err := x.Annotations(polys, "Water", "Land")
	require.NoError(t, err)

	assert.Equal(t, []string{"out/water.geojson"}, first.Written)
	assert.Equal(t, []string{"out/water2.geojson"}, second.Written)
	assert.Equal(t, []string{"out/water3.geojson"}, third.Written)
}

func TestAnnotations_ReportsEachFailedFile(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, base.MkdirAll("out", 0o755))
	x := NewExporter(afero.NewReadOnlyFs(base), "out", nil)

	polys := []annotation.Polygon{closedTriangle(1, "Water", 0), closedTriangle(2, "Land", 20)}
	res, err := x.Annotations(polys, "Water", "Land")
	require.Error(t, err)
	assert.Empty(t, res.Written)
	require.Len(t, res.Failed, 2)
	assert.Equal(t, "Water", res.Failed[0].Label)
	assert.Equal(t, "out/land.geojson", res.Failed[1].Path)

	var fe *FileError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "Water", fe.Label)
}

func TestAnnotations_EngineEndToEnd(t *testing.T) {
	e, err := annotation.NewEngine("Water", "Land", nil)
	require.NoError(t, err)
	rings := map[annotation.Mode][]geometry.Point{
		annotation.ModeDrawingA: {geometry.Pt(0, 0), geometry.Pt(10, 0), geometry.Pt(5, 10)},
		annotation.ModeDrawingB: {geometry.Pt(20, 20), geometry.Pt(30, 20), geometry.Pt(25, 30)},
	}
	for _, mode := range []annotation.Mode{annotation.ModeDrawingA, annotation.ModeDrawingB} {
		require.NoError(t, e.Activate(mode))
		for _, p := range rings[mode] {
			require.NoError(t, e.PrimaryAction(p))
		}
		_, ok, err := e.SecondaryAction()
		require.NoError(t, err)
		require.True(t, ok)
	}

	fs := afero.NewMemMapFs()
	res, err := NewExporter(fs, "out", nil).Annotations(e.Polygons(), "Water", "Land")
	require.NoError(t, err)
	require.Equal(t, []string{"out/water.geojson", "out/land.geojson"}, res.Written)

	water := readCollection(t, fs, "out/water.geojson")
	land := readCollection(t, fs, "out/land.geojson")
	require.Len(t, water.Features, 1)
	require.Len(t, land.Features, 1)
	assert.EqualValues(t, 1, water.Features[0].Properties["id"])
	assert.EqualValues(t, 2, land.Features[0].Properties["id"])
	assert.Equal(t, "Polygon", water.Features[0].Geometry.Type)
	assert.Equal(t, [][][]float64{{{0, 0}, {10, 0}, {5, 10}, {0, 0}}}, water.Features[0].Geometry.Coordinates)
	assert.Equal(t, [][][]float64{{{20, 20}, {30, 20}, {25, 30}, {20, 20}}}, land.Features[0].Geometry.Coordinates)
}

func TestAnnotations_LabelWithSeparatorsStaysInOutDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	polys := []annotation.Polygon{closedTriangle(1, "../Sea/Ice", 0), closedTriangle(2, `Bare\Soil`, 20)}
	res, err := NewExporter(fs, "out", nil).Annotations(polys, "../Sea/Ice", `Bare\Soil`)
	require.NoError(t, err)
	assert.Equal(t, []string{"out/.._sea_ice.geojson", "out/bare_soil.geojson"}, res.Written)
	exists, err := afero.Exists(fs, "sea")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestReadAnnotations_RoundTripsAndDropsEmpty(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := NewExporter(fs, "out", nil).Annotations(
		[]annotation.Polygon{closedTriangle(3, "Water", 0), closedTriangle(7, "Water", 20)}, "Water", "Land")
	require.NoError(t, err)

	c, err := ReadAnnotations(fs, "out/water.geojson")
	require.NoError(t, err)
	assert.Equal(t, "Water", c.Name)
	require.Len(t, c.Polygons, 2)
	assert.Equal(t, 7, c.Polygons[1].ID)
	assert.Equal(t, closedTriangle(7, "Water", 20).Vertices, c.Polygons[1].Vertices)
	assert.True(t, c.Polygons[0].Contains(geometry.Pt(5, 3)))

	raw := `{"type":"FeatureCollection","name":"Land","features":[
		{"type":"Feature","properties":{"id":1},"geometry":null},
		{"type":"Feature","properties":{"id":2},"geometry":{"type":"Polygon","coordinates":[]}},
		{"type":"Feature","properties":{"id":3},"geometry":{"type":"Polygon","coordinates":[[[0,0],[4,0],[0,4],[0,0]]]}}]}`
	require.NoError(t, afero.WriteFile(fs, "land.geojson", []byte(raw), 0o644))
	c, err = ReadAnnotations(fs, "land.geojson")
	require.NoError(t, err)
	assert.Equal(t, 2, c.Dropped)
	require.Len(t, c.Polygons, 1)
	assert.Equal(t, 3, c.Polygons[0].ID)

	s := Summarize(c)
	assert.Equal(t, 1, s.Features)
	assert.Equal(t, 3, s.MinID)
	assert.Equal(t, 3, s.MaxID)
	assert.InDelta(t, 8.0, s.Area, 1e-9)
}

func TestReadAnnotations_RejectsNonCollection(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "f.geojson", []byte(`{"type":"Feature"}`), 0o644))
	_, err := ReadAnnotations(fs, "f.geojson")
	require.Error(t, err)
	_, err = ReadAnnotations(fs, "missing.geojson")
	require.Error(t, err)
}

func TestSnapshot_OverwritesAndResizes(t *testing.T) {
	fs := afero.NewMemMapFs()
	x := NewExporter(fs, "out", nil)
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	img.Set(0, 0, color.RGBA{G: 255, A: 255})

	path, err := x.Snapshot(img, "", 80)
	require.NoError(t, err)
	assert.Equal(t, "out/"+DefaultSnapshotName, path)
	path2, err := x.Snapshot(img, "", 0)
	require.NoError(t, err)
	assert.Equal(t, path, path2)

	f, err := fs.Open(path)
	require.NoError(t, err)
	defer f.Close()
	decoded, err := imaging.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 40, decoded.Bounds().Dx())
	assert.Equal(t, 20, decoded.Bounds().Dy())

	_, err = NewExporter(afero.NewReadOnlyFs(fs), "out", nil).Snapshot(img, "x.png", 0)
	require.Error(t, err)
}
