package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/rapidfire/pkg/adapters/mcp"
)

// RunMCP serves the MCP adapter over Stdio. Logs go to Stderr so they never
// corrupt the JSON-RPC stream on Stdout.
func RunMCP(ctx context.Context, opts Options) error {
	sc := NewSignalContext(ctx)
	defer sc.Cancel()

	deps, err := startApp(sc, opts, func(error) { sc.Cancel() })
	if err != nil {
		return err
	}
	defer deps.Close()

	deps.Logger.Info("Starting MCP server", "transport", "stdio")
	srv := mcp.NewServer(deps.App, mcp.WithLogger(deps.Logger))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ServeStdio() }()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("mcp server: %w", err)
		}
		return nil
	case <-sc.Done():
	case <-deps.App.Done():
	}

	if err := deps.App.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrExit, err)
	}
	return nil
}
