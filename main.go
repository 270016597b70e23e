package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/soocke/roi-annotator/app"
	"github.com/soocke/roi-annotator/config"
	"github.com/soocke/roi-annotator/domain/export"
	"github.com/soocke/roi-annotator/domain/raster"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// annotateFlags are the command-line overrides for config values.
type annotateFlags struct {
	configPath string
	image      string
	extent     string
	window     string
	labelA     string
	labelB     string
	out        string
	screenRect string
	saveConfig string
	screen     bool
	dark       bool
	debug      bool
}

func bindAnnotateFlags(fs *pflag.FlagSet, f *annotateFlags) {
	fs.StringVar(&f.configPath, "config", "", "config file (.json, .yaml or .yml)")
	fs.StringVar(&f.image, "image", "", "raster image to annotate")
	fs.StringVar(&f.extent, "extent", "", "display extent as minX,maxX,minY,maxY")
	fs.StringVar(&f.window, "window", "", "pixel window as row,col,rows,cols")
	fs.StringVar(&f.labelA, "label-a", "", "first label")
	fs.StringVar(&f.labelB, "label-b", "", "second label")
	fs.StringVar(&f.out, "out", "", "output directory for exports")
	fs.BoolVar(&f.screen, "screen", false, "annotate a capture of the primary screen")
	fs.StringVar(&f.screenRect, "screen-rect", "", "annotate a capture of the screen area x0,y0,x1,y1")
	fs.StringVar(&f.saveConfig, "save-config", "", "write the resolved config to this path before starting")
	fs.BoolVar(&f.dark, "dark", false, "dark theme")
	fs.BoolVar(&f.debug, "debug", false, "debug logging and runtime stats")
}

func newRootCmd() *cobra.Command {
	var f annotateFlags
	root := &cobra.Command{
		Use:   "roi-annotator",
		Short: "draw, label and export regions of interest over a raster",
		Long: `
  Opens the raster in a window. Pick a label, left-click to add vertices,
  right-click to close the polygon. Polygons are exported as one GeoJSON
  FeatureCollection per label.
`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnnotate(cmd, &f)
		},
	}
	bindAnnotateFlags(root.Flags(), &f)

	var af annotateFlags
	annotate := &cobra.Command{
		Use:          "annotate",
		Short:        "open an annotation session (default command)",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnnotate(cmd, &af)
		},
	}
	bindAnnotateFlags(annotate.Flags(), &af)

	root.AddCommand(annotate, newSummaryCmd())
	return root
}

// resolveConfig loads the config file and applies the flags that were set explicitly.
func resolveConfig(fs *pflag.FlagSet, f *annotateFlags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	if fs.Changed("image") {
		cfg.Image = f.image
	}
	if fs.Changed("label-a") {
		cfg.LabelA = f.labelA
	}
	if fs.Changed("label-b") {
		cfg.LabelB = f.labelB
	}
	if fs.Changed("out") {
		cfg.OutDir = f.out
	}
	if fs.Changed("debug") {
		cfg.Debug = f.debug
	}
	if fs.Changed("dark") {
		cfg.Dark = f.dark
	}
	if fs.Changed("extent") {
		ext, err := parseExtent(f.extent)
		if err != nil {
			return nil, err
		}
		cfg.Extent = ext
	}
	if fs.Changed("window") {
		win, err := parseWindow(f.window)
		if err != nil {
			return nil, err
		}
		cfg.Window = win
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runAnnotate(cmd *cobra.Command, f *annotateFlags) error {
	cfg, err := resolveConfig(cmd.Flags(), f)
	if err != nil {
		return err
	}
	logger := NewLogger(os.Stderr, parseLevel(cfg.LogLevel, cfg.Debug))
	if f.saveConfig != "" {
		if err := cfg.Save(f.saveConfig); err != nil {
			return err
		}
		logger.Info("config saved", "path", f.saveConfig)
	}

	var r *raster.Raster
	switch {
	case f.screen || f.screenRect != "":
		var rect image.Rectangle
		if f.screenRect != "" {
			if rect, err = parseRect(f.screenRect); err != nil {
				return err
			}
		}
		r, err = raster.FromScreenRect(rect)
		if err == nil && !cfg.Extent.IsZero() {
			r.Extent = cfg.Extent
		}
	case cfg.Image != "":
		r, err = raster.Open(cfg.Image, cfg.Extent)
	default:
		return errors.New("nothing to annotate: pass --image, --screen, --screen-rect or set image in the config file")
	}
	if err != nil {
		return err
	}
	if !cfg.Window.IsZero() {
		var rect image.Rectangle
		r, rect, err = r.Window(cfg.Window)
		if err != nil {
			return err
		}
		logger.Info("pixel window applied", "rect", rect.String(),
			"extent", fmt.Sprintf("%g,%g,%g,%g", r.Extent.MinX, r.Extent.MaxX, r.Extent.MinY, r.Extent.MaxY))
	}

	c, err := app.BuildContainer(cfg, logger, r, afero.NewOsFs())
	if err != nil {
		return err
	}
	app.NewApp("ROI Annotator", c).Start(cmd.Context())
	return nil
}

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary FILE...",
		Short: "print feature counts, id range and area of exported annotation files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(cmd, afero.NewOsFs(), args)
		},
		SilenceUsage: true,
	}
}

func runSummary(cmd *cobra.Command, fs afero.Fs, paths []string) error {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"FILE", "LABEL", "FEATURES", "DROPPED", "IDS", "AREA"})
	var errs error
	for _, path := range paths {
		c, err := export.ReadAnnotations(fs, path)
		if err != nil {
			errs = errors.CombineErrors(errs, err)
			continue
		}
		s := export.Summarize(c)
		ids := "-"
		if s.Features > 0 {
			ids = strconv.Itoa(s.MinID) + ".." + strconv.Itoa(s.MaxID)
		}
		table.Append([]string{path, s.Name, humanize.Comma(int64(s.Features)), strconv.Itoa(s.Dropped),
			ids, humanize.CommafWithDigits(s.Area, 2)})
	}
	table.Render()
	return errs
}

func parseFloats(s string, n int, what string) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, errors.Newf("%s: expected %d comma-separated values, got %q", what, n, s)
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: value %d", what, i+1)
		}
		out[i] = v
	}
	return out, nil
}

func parseExtent(s string) (raster.Extent, error) {
	v, err := parseFloats(s, 4, "extent")
	if err != nil {
		return raster.Extent{}, err
	}
	ext := raster.Extent{MinX: v[0], MaxX: v[1], MinY: v[2], MaxY: v[3]}
	return ext, ext.Validate()
}

func parseWindow(s string) (raster.PixelWindow, error) {
	v, err := parseFloats(s, 4, "window")
	if err != nil {
		return raster.PixelWindow{}, err
	}
	for i, x := range v {
		if x != float64(int(x)) || x < 0 {
			return raster.PixelWindow{}, errors.Newf("window: value %d must be a non-negative integer, got %g", i+1, x)
		}
	}
	return raster.PixelWindow{Row: int(v[0]), Col: int(v[1]), Rows: int(v[2]), Cols: int(v[3])}, nil
}

// parseRect parses x0,y0,x1,y1 screen coordinates into a non-empty rectangle.
func parseRect(s string) (image.Rectangle, error) {
	v, err := parseFloats(s, 4, "screen-rect")
	if err != nil {
		return image.Rectangle{}, err
	}
	for i, x := range v {
		if x != float64(int(x)) {
			return image.Rectangle{}, errors.Newf("screen-rect: value %d must be an integer, got %g", i+1, x)
		}
	}
	rect := image.Rect(int(v[0]), int(v[1]), int(v[2]), int(v[3]))
	if rect.Empty() {
		return image.Rectangle{}, errors.Newf("screen-rect: empty area %q", s)
	}
	return rect, nil
}
