package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// With tty false it uses the plain "notty" style so output stays pipe-friendly.
func NewRenderer(tty bool) (func(string) (string, error), error) {
	opt := glamour.WithAutoStyle() // Automatically detect light/dark background
	if !tty {
		opt = glamour.WithStandardStyle("notty")
	}

	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(100))
	if err != nil {
		return nil, err
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}, nil
}
