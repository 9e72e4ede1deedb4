package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the RapidFire banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// Warm gradient, ember to amber
	lines := []struct {
		text  string
		color string
	}{
		{"  ____             _     _ _____ _          ", "#f87171"},
		{" |  _ \\ __ _ _ __ (_) __| |  ___(_)_ __ ___ ", "#fb923c"},
		{" | |_) / _` | '_ \\| |/ _` | |_  | | '__/ _ \\", "#fbbf24"},
		{" |  _ < (_| | |_) | | (_| |  _| | | | |  __/", "#facc15"},
		{" |_| \\_\\__,_| .__/|_|\\__,_|_|   |_|_|  \\___|", "#a3e635"},
		{"            |_|                             ", "#4ade80"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// WarningLine renders the volume state as a single status line.
func WarningLine(p termenv.Profile, isFull bool) string {
	if isFull {
		return p.String("▲ OUTPUT VOLUME AT MAXIMUM").Foreground(p.Color("#ef4444")).Bold().String()
	}
	return p.String("● output volume ok").Foreground(p.Color("#22c55e")).String()
}
