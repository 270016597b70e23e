package theme

// Centralized theming for the annotator UI: palette constants, the toggle
// button look, and SetDark to activate the light or dark base theme.

import (
	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Palette defines core semantic colors used across widgets.
const (
	ColorBg        = "#f7f9fb" // app background
	ColorSurface   = "#ffffff" // panels, status line
	ColorBorder    = "#d0d7de"
	ColorPrimary   = "#2563eb" // export buttons
	ColorDanger    = "#dc2626" // clear all
	ColorWarn      = "#b45309"
	ColorAccent    = "#10b981"
	ColorText      = "#1e293b"
	ColorTextMuted = "#64748b"
)

// PaletteSnapshot represents resolved colors for the active mode.
type PaletteSnapshot struct {
	AppBg     string
	Surface   string
	Border    string
	Primary   string
	Danger    string
	Warn      string
	Accent    string
	Text      string
	TextMuted string
}

// CurrentPalette returns colors for the current dark/light mode.
func CurrentPalette() PaletteSnapshot {
	if darkMode {
		return PaletteSnapshot{
			AppBg:     "#0f172a",
			Surface:   "#1e293b",
			Border:    "#334155",
			Primary:   "#3b82f6",
			Danger:    "#ef4444",
			Warn:      "#f59e0b",
			Accent:    "#10b981",
			Text:      "#f1f5f9",
			TextMuted: "#94a3b8",
		}
	}
	return PaletteSnapshot{
		AppBg:     ColorBg,
		Surface:   ColorSurface,
		Border:    ColorBorder,
		Primary:   ColorPrimary,
		Danger:    ColorDanger,
		Warn:      ColorWarn,
		Accent:    ColorAccent,
		Text:      ColorText,
		TextMuted: ColorTextMuted,
	}
}

// style names used with Style("primary.TButton") etc.
const (
	StylePrimaryButton = "primary.TButton"
	StyleDangerButton  = "danger.TButton"
	StyleStatusLabel   = "status.TLabel"
	StyleModeLabel     = "mode.TLabel"
)

// ToggleLook returns relief and background for a mode toggle. An active
// toggle is drawn sunken in its label colour.
func ToggleLook(active bool, labelColor string) (relief, background string) {
	if active {
		return "sunken", labelColor
	}
	return "raised", CurrentPalette().Surface
}

var darkMode bool

// SetDark selects the light or dark palette and (re)applies all styles.
// Call it before building widgets so they pick up the palette.
func SetDark(dark bool) {
	darkMode = dark
	applyStyles(darkMode)
}

func applyStyles(dark bool) {
	p := CurrentPalette()
	_ = ActivateTheme("azure light")
	if dark {
		_ = ActivateTheme("azure dark")
	}
	App.Configure(Background(p.AppBg))

	StyleConfigure(StylePrimaryButton,
		Background(p.Primary),
		Foreground("white"),
		Padding("4p 3p"),
		Borderwidth(1),
		Relief("ridge"),
	)
	StyleConfigure(StyleDangerButton,
		Background(p.Danger),
		Foreground("white"),
		Padding("4p 3p"),
		Borderwidth(1),
		Relief("ridge"),
	)
	StyleConfigure(StyleStatusLabel,
		Foreground(p.TextMuted),
		Background(p.Surface),
		Padding("2p 1p"),
	)
	StyleConfigure(StyleModeLabel,
		Foreground("white"),
		Background(p.Accent),
		Padding("4p 2p"),
		Borderwidth(1),
		Relief("groove"),
	)
}

// StatusColor returns the status line foreground for a severity name.
func StatusColor(severity string) string {
	p := CurrentPalette()
	switch severity {
	case "warn":
		return p.Warn
	case "error":
		return p.Danger
	default:
		return p.TextMuted
	}
}
