// Package export writes annotation sessions to disk: one GeoJSON
// FeatureCollection per label and a PNG snapshot of the annotated display.
package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/soocke/roi-annotator/domain/annotation"
	"github.com/soocke/roi-annotator/domain/geometry"
)

const geojsonExt = ".geojson"

// FileError reports one file that could not be written.
type FileError struct {
	Label string
	Path  string
	Err   error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("export %q to %s: %v", e.Label, e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Result lists the outcome of an annotation export.
type Result struct {
	Written []string
	Failed  []*FileError
}

// featureCollection is a GeoJSON FeatureCollection carrying the label as its name.
type featureCollection struct {
	Type     string             `json:"type"`
	Name     string             `json:"name"`
	Features []*geojson.Feature `json:"features"`
}

// Exporter writes into a single output directory.
type Exporter struct {
	fs     afero.Fs
	dir    string
	logger *slog.Logger
}

// NewExporter returns an exporter rooted at dir on fs. A nil fs means the OS filesystem.
func NewExporter(fs afero.Fs, dir string, logger *slog.Logger) *Exporter {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if dir == "" {
		dir = "."
	}
	return &Exporter{fs: fs, dir: dir, logger: logger}
}

// Dir returns the output directory.
func (x *Exporter) Dir() string { return x.dir }

// Annotations writes one FeatureCollection per label that has polygons, labelA
// first. Existing files are never overwritten: the lowercased label is used as
// the base name and a counter starting at 2 is appended until the name is free.
// A failure on one label does not stop the other; files already written stay.
func (x *Exporter) Annotations(polygons []annotation.Polygon, labelA, labelB string) (Result, error) {
	var res Result
	if err := x.ensureDir(); err != nil {
		return res, err
	}
	var errs error
	for _, label := range []string{labelA, labelB} {
		var group []annotation.Polygon
		for _, p := range polygons {
			if p.Label == label {
				group = append(group, p)
			}
		}
		if len(group) == 0 {
			continue
		}
		path, err := x.writeLabel(label, group)
		if err != nil {
			fe := &FileError{Label: label, Path: path, Err: err}
			res.Failed = append(res.Failed, fe)
			errs = errors.CombineErrors(errs, fe)
			if x.logger != nil {
				x.logger.Error("annotation export failed", "label", label, "path", path, "error", err)
			}
			continue
		}
		res.Written = append(res.Written, path)
	}
	return res, errs
}

func (x *Exporter) writeLabel(label string, group []annotation.Polygon) (string, error) {
	path, err := x.freeName(fileBase(label), geojsonExt)
	if err != nil {
		return path, err
	}
	data, err := encodeCollection(label, group)
	if err != nil {
		return path, err
	}
	if err := afero.WriteFile(x.fs, path, data, 0o644); err != nil {
		return path, errors.Wrap(err, "write")
	}
	if x.logger != nil {
		x.logger.Info("annotations exported", "label", label, "path", path,
			"features", len(group), "size", humanize.Bytes(uint64(len(data))))
	}
	return path, nil
}

// fileBase maps a label to a file name stem inside the output directory.
func fileBase(label string) string {
	return pathSeparators.Replace(strings.ToLower(label))
}

var pathSeparators = strings.NewReplacer("/", "_", `\`, "_")

// freeName returns dir/<base><ext>, or dir/<base>N<ext> with the smallest N >= 2 not yet taken.
func (x *Exporter) freeName(base, ext string) (string, error) {
	path := filepath.Join(x.dir, base+ext)
	for n := 2; ; n++ {
		exists, err := afero.Exists(x.fs, path)
		if err != nil {
			return path, errors.Wrapf(err, "stat %s", path)
		}
		if !exists {
			return path, nil
		}
		path = filepath.Join(x.dir, fmt.Sprintf("%s%d%s", base, n, ext))
	}
}

func (x *Exporter) ensureDir() error {
	ok, err := afero.DirExists(x.fs, x.dir)
	if err != nil {
		return errors.Wrapf(err, "stat %s", x.dir)
	}
	if ok {
		return nil
	}
	if err := x.fs.MkdirAll(x.dir, 0o755); err != nil {
		return errors.Wrapf(err, "create output dir %s", x.dir)
	}
	return nil
}

func encodeCollection(label string, group []annotation.Polygon) ([]byte, error) {
	fc := featureCollection{Type: "FeatureCollection", Name: label}
	for _, p := range group {
		shape, err := geometry.Polygon(p.Vertices)
		if err != nil {
			return nil, errors.Wrapf(err, "polygon %d", p.ID)
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry:   shape,
			Properties: map[string]interface{}{"id": p.ID},
		})
	}
	data, err := json.Marshal(fc)
	if err != nil {
		return nil, errors.Wrap(err, "encode feature collection")
	}
	return data, nil
}
