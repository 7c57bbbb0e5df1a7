// Package theme provides color themes for the TUI.
package theme

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds all colors for a TUI theme.
type Theme struct {
	Name        string
	Bg          string // Base background
	BgHighlight string // Location blocks, subtle highlight
	BgSelection string // Cursor, selection
	Fg          string // Primary foreground
	FgMuted     string // Unassigned stops, muted elements
	Accent      string // Title, primary accent, borders
	Activity    string // Scheduled locations
	Parent      string // Locations with nested stops
	Route       string // Route connectors
	Warning     string // Warnings, move mode
}

// Catppuccin variants, keyed by lowercase name.
var themes = map[string]Theme{
	"mocha": {
		Name:        "mocha",
		Bg:          "#1e1e2e",
		BgHighlight: "#313244",
		BgSelection: "#45475a",
		Fg:          "#cdd6f4",
		FgMuted:     "#6c7086",
		Accent:      "#89b4fa",
		Activity:    "#a6e3a1",
		Parent:      "#cba6f7",
		Route:       "#94e2d5",
		Warning:     "#f9e2af",
	},
	"macchiato": {
		Name:        "macchiato",
		Bg:          "#24273a",
		BgHighlight: "#363a4f",
		BgSelection: "#494d64",
		Fg:          "#cad3f5",
		FgMuted:     "#6e738d",
		Accent:      "#8aadf4",
		Activity:    "#a6da95",
		Parent:      "#c6a0f6",
		Route:       "#8bd5ca",
		Warning:     "#eed49f",
	},
	"frappe": {
		Name:        "frappe",
		Bg:          "#303446",
		BgHighlight: "#414559",
		BgSelection: "#51576d",
		Fg:          "#c6d0f5",
		FgMuted:     "#737994",
		Accent:      "#8caaee",
		Activity:    "#a6d189",
		Parent:      "#ca9ee6",
		Route:       "#81c8be",
		Warning:     "#e5c890",
	},
	"latte": {
		Name:        "latte",
		Bg:          "#eff1f5",
		BgHighlight: "#ccd0da",
		BgSelection: "#bcc0cc",
		Fg:          "#4c4f69",
		FgMuted:     "#8c8fa1",
		Accent:      "#1e66f5",
		Activity:    "#40a02b",
		Parent:      "#8839ef",
		Route:       "#179299",
		Warning:     "#df8e1d",
	},
}

// Load returns the theme with the given name.
// Falls back to mocha if the theme is not found.
func Load(name string) (*Theme, error) {
	if name == "" {
		name = "mocha"
	}
	name = strings.ToLower(name)

	t, ok := themes[name]
	if !ok {
		if name != "mocha" {
			return Load("mocha")
		}
		return nil, fmt.Errorf("unknown theme %q", name)
	}

	return &t, nil
}

// Names returns the available theme names.
func Names() []string {
	return []string{"mocha", "macchiato", "frappe", "latte"}
}

// Color returns a lipgloss.Color for the given hex string.
func Color(hex string) lipgloss.Color {
	return lipgloss.Color(hex)
}
