package app

import (
	"image"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/roi-annotator/config"
	"github.com/soocke/roi-annotator/domain/annotation"
	"github.com/soocke/roi-annotator/domain/raster"
)

func testRaster(t *testing.T) *raster.Raster {
	t.Helper()
	r, err := raster.New(image.NewNRGBA(image.Rect(0, 0, 100, 80)), raster.Extent{})
	require.NoError(t, err)
	return r
}

func TestBuildContainer_DrivesSessionWithoutWidgets(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OutDir = "out"
	fs := afero.NewMemMapFs()
	c, err := BuildContainer(cfg, nil, testRaster(t), fs)
	require.NoError(t, err)

	a := NewApp("test", c)
	require.NotNil(t, a)
	assert.Equal(t, "test", a.title)

	ap := c.AnnotationPresenter
	ap.ToggleMode(annotation.ModeDrawingA)
	ap.Click(1, 10, 10)
	ap.Click(1, 60, 10)
	ap.Click(1, 30, 50)
	ap.Click(3, 0, 0)
	require.Len(t, c.Engine.Polygons(), 1)
	assert.Equal(t, "Water", c.Engine.Polygons()[0].Label)

	ap.ExportGeoJSON()
	ok, err := afero.Exists(fs, "out/water.geojson")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, c.Status.Exports())
}

func TestBuildContainer_RejectsBadConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LabelB = cfg.LabelA
	_, err := BuildContainer(cfg, nil, testRaster(t), afero.NewMemMapFs())
	require.Error(t, err)

	cfg = config.DefaultConfig()
	cfg.ColorA = "nope"
	_, err = BuildContainer(cfg, nil, testRaster(t), afero.NewMemMapFs())
	require.Error(t, err)
}
