package export

import (
	"image"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
)

// DefaultSnapshotName is the snapshot file name used when none is configured.
const DefaultSnapshotName = "regions_of_interest.png"

// Snapshot writes img as a PNG into the output directory, replacing any
// existing file. A positive width rescales the image to that width first,
// keeping the aspect ratio.
func (x *Exporter) Snapshot(img image.Image, name string, width int) (string, error) {
	if img == nil {
		return "", errors.New("snapshot: nil image")
	}
	if name == "" {
		name = DefaultSnapshotName
	}
	if err := x.ensureDir(); err != nil {
		return "", err
	}
	if width > 0 && img.Bounds().Dx() != width {
		img = imaging.Resize(img, width, 0, imaging.Lanczos)
	}
	path := filepath.Join(x.dir, name)
	f, err := x.fs.Create(path)
	if err != nil {
		return path, errors.Wrapf(err, "create %s", path)
	}
	if err := imaging.Encode(f, img, imaging.PNG); err != nil {
		_ = f.Close()
		return path, errors.Wrapf(err, "encode %s", path)
	}
	if err := f.Close(); err != nil {
		return path, errors.Wrapf(err, "close %s", path)
	}
	if x.logger != nil {
		size := "unknown"
		if fi, err := x.fs.Stat(path); err == nil {
			size = humanize.Bytes(uint64(fi.Size()))
		}
		b := img.Bounds()
		x.logger.Info("snapshot exported", "path", path, "width", b.Dx(), "height", b.Dy(), "size", size)
	}
	return path, nil
}
