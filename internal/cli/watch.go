package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/rapidfire/internal/presentation/tui"
	"github.com/muesli/termenv"
)

// RunWatch subscribes to the core and prints one line per event until ctx is
// cancelled or the core stops.
func RunWatch(ctx context.Context, opts Options, w io.Writer) error {
	sc := NewSignalContext(ctx)
	defer sc.Cancel()

	deps, err := startApp(sc, opts, func(error) { sc.Cancel() })
	if err != nil {
		return err
	}
	defer deps.Close()

	profile := termenv.Ascii
	if isTerminal(w) {
		profile = termenv.NewOutput(w).Profile
		tui.PrintBanner(w)
	}

	events, err := deps.App.Subscribe(sc)
	if err != nil {
		return err
	}

	warning := deps.App.GetVolumeWarning(sc)
	fmt.Fprintln(w, tui.WarningLine(profile, warning.IsFull))

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return watchExit(deps)
			}
			fmt.Fprintln(w, tui.EventLine(profile, ev))
		case <-sc.Done():
			return watchExit(deps)
		}
	}
}

func watchExit(deps *runtimeDeps) error {
	if err := deps.App.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrExit, err)
	}
	return nil
}
