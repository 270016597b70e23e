package config

import (
	"encoding/json"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/soocke/roi-annotator/domain/raster"
)

// Config holds runtime configuration for an annotation session.
// Fields may be loaded from a JSON or YAML file and overridden by command-line flags.
type Config struct {
	Debug    bool   `json:"debug" yaml:"debug"`
	LogLevel string `json:"log_level" yaml:"log_level"`

	// Input
	Image  string             `json:"image" yaml:"image"`
	Extent raster.Extent      `json:"extent" yaml:"extent"`
	Window raster.PixelWindow `json:"window" yaml:"window"`

	// Labels and how they are drawn
	LabelA string  `json:"label_a" yaml:"label_a"`
	LabelB string  `json:"label_b" yaml:"label_b"`
	ColorA string  `json:"color_a" yaml:"color_a"`
	ColorB string  `json:"color_b" yaml:"color_b"`
	Alpha  float64 `json:"alpha" yaml:"alpha"`

	// Display
	DisplayMaxW      int  `json:"display_max_w" yaml:"display_max_w"`
	DisplayMaxH      int  `json:"display_max_h" yaml:"display_max_h"`
	StatusTTLSeconds int  `json:"status_ttl_seconds" yaml:"status_ttl_seconds"`
	Dark             bool `json:"dark" yaml:"dark"`

	// Export
	OutDir        string `json:"out_dir" yaml:"out_dir"`
	SnapshotName  string `json:"snapshot_name" yaml:"snapshot_name"`
	SnapshotWidth int    `json:"snapshot_width" yaml:"snapshot_width"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:            false,
		LogLevel:         "info",
		LabelA:           "Water",
		LabelB:           "Land",
		ColorA:           "#1f77b4",
		ColorB:           "#ff7f0e",
		Alpha:            0.4,
		DisplayMaxW:      1000,
		DisplayMaxH:      700,
		StatusTTLSeconds: 6,
		OutDir:           ".",
		SnapshotName:     "regions_of_interest.png",
		SnapshotWidth:    1600,
	}
}

// Validate clamps/normalizes values to safe ranges. It returns an error only
// for settings that cannot be repaired: identical labels, labels that are not
// usable as file names, malformed colours and an inverted extent.
func (c *Config) Validate() error {
	d := DefaultConfig()
	c.LabelA = strings.TrimSpace(c.LabelA)
	c.LabelB = strings.TrimSpace(c.LabelB)
	if c.LabelA == "" {
		c.LabelA = d.LabelA
	}
	if c.LabelB == "" {
		c.LabelB = d.LabelB
	}
	if c.LabelA == c.LabelB {
		return errors.Newf("config: label_a and label_b must differ (both %q)", c.LabelA)
	}
	for _, l := range []string{c.LabelA, c.LabelB} {
		if strings.ContainsAny(l, `/\`) || l == "." || l == ".." {
			return errors.Newf("config: label %q cannot be used as a file name", l)
		}
	}
	if c.ColorA == "" {
		c.ColorA = d.ColorA
	}
	if c.ColorB == "" {
		c.ColorB = d.ColorB
	}
	for _, hex := range []string{c.ColorA, c.ColorB} {
		if _, err := ParseColor(hex); err != nil {
			return err
		}
	}
	if c.Alpha < 0 || c.Alpha > 1 {
		c.Alpha = d.Alpha
	}
	if c.DisplayMaxW <= 0 {
		c.DisplayMaxW = d.DisplayMaxW
	}
	if c.DisplayMaxH <= 0 {
		c.DisplayMaxH = d.DisplayMaxH
	}
	if c.StatusTTLSeconds < 0 {
		c.StatusTTLSeconds = 0
	}
	if c.OutDir == "" {
		c.OutDir = d.OutDir
	}
	if c.SnapshotName == "" {
		c.SnapshotName = d.SnapshotName
	}
	if c.SnapshotWidth < 0 {
		c.SnapshotWidth = 0
	}
	if c.Window.Rows < 0 || c.Window.Cols < 0 {
		c.Window = raster.PixelWindow{}
	}
	if !c.Extent.IsZero() {
		if err := c.Extent.Validate(); err != nil {
			return errors.Wrap(err, "config")
		}
	}
	return nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Load attempts to read configuration from the given path (YAML for .yaml/.yml,
// JSON otherwise). If the file does not exist it returns DefaultConfig(). On a
// decode error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "open config %s", path)
	}
	defer f.Close()
	loaded := DefaultConfig()
	if err := decode(f, isYAML(path), loaded); err != nil {
		return cfg, errors.Wrapf(err, "decode config %s", path)
	}
	if err := loaded.Validate(); err != nil {
		return cfg, err
	}
	return loaded, nil
}

func decode(r io.Reader, asYAML bool, cfg *Config) error {
	if asYAML {
		err := yaml.NewDecoder(r).Decode(cfg)
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return json.NewDecoder(r).Decode(cfg)
}

// Save writes the configuration to the given path, YAML or JSON by extension.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create config %s", path)
	}
	defer f.Close()
	if isYAML(path) {
		enc := yaml.NewEncoder(f)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return errors.Wrap(err, "encode config")
		}
		return enc.Close()
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

// ParseColor parses "#rrggbb" or "#rgb" into an opaque colour.
func ParseColor(hex string) (color.NRGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.NRGBA{}, errors.Newf("config: invalid colour %q", hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, errors.Newf("config: invalid colour %q", hex)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
