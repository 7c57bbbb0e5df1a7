package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the UI.
var (
	// Scheduled stops: green
	colorScheduled = color.New(color.FgGreen)

	// Areas with nested stops: magenta
	colorParent = color.New(color.FgMagenta, color.Bold)

	// Routes: cyan
	colorRoute = color.New(color.FgCyan)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Muted: for unassigned stops and secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)

	// Warnings
	colorWarn = color.New(color.FgYellow)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// formatScheduled formats text for a stop placed on the board.
func formatScheduled(s string) string {
	return colorScheduled.Sprint(s)
}

// formatParent formats text for an area with nested stops.
func formatParent(s string) string {
	return colorParent.Sprint(s)
}

// formatRoute formats text for a route between stops.
func formatRoute(s string) string {
	return colorRoute.Sprint(s)
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}

// formatWarn formats warning text.
func formatWarn(s string) string {
	return colorWarn.Sprint(s)
}
