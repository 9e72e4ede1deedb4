package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	httpadapter "github.com/aretw0/rapidfire/pkg/adapters/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

// RunServe starts the HTTP adapter and blocks until ctx is cancelled or the
// core stops on a persistence failure.
func RunServe(ctx context.Context, opts Options, addr string) error {
	sc := NewSignalContext(ctx)
	defer sc.Cancel()

	deps, err := startApp(sc, opts, func(error) { sc.Cancel() })
	if err != nil {
		return err
	}
	defer deps.Close()
	logger := deps.Logger

	if addr == "" {
		addr = deps.Config.Server.Addr
	}

	handlerOpts := []httpadapter.Option{httpadapter.WithLogger(logger)}
	if deps.Config.Server.Metrics {
		handlerOpts = append(handlerOpts, httpadapter.WithMetricsHandler(
			promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}),
		))
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           httpadapter.NewHandler(deps.App, handlerOpts...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-sc.Done():
		if sig := sc.Signal(); sig != nil {
			logger.Info("Shutting down", "signal", sig)
		}
	case <-deps.App.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown incomplete", "err", err)
	}

	if err := deps.App.Err(); err != nil {
		printSystemMessage(os.Stderr, "Core stopped: %v", err)
		return fmt.Errorf("%w: %w", ErrExit, err)
	}
	return nil
}
