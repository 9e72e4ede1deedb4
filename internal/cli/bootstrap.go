package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/rapidfire"
	"github.com/aretw0/rapidfire/internal/adapters/file"
	"github.com/aretw0/rapidfire/internal/adapters/redis"
	"github.com/aretw0/rapidfire/internal/config"
	"github.com/aretw0/rapidfire/internal/notify"
	"github.com/aretw0/rapidfire/pkg/adapters/poll"
	"github.com/aretw0/rapidfire/pkg/adapters/process"
	"github.com/aretw0/rapidfire/pkg/observability"
	"github.com/aretw0/rapidfire/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

const storePingTimeout = 3 * time.Second

// ErrExit signals a failure that has already been reported to the user.
var ErrExit = errors.New("exit")

// openStore builds the configured ProjectStore. The returned closer releases
// backend connections and is never nil.
func openStore(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (ports.ProjectStore, io.Closer, error) {
	switch cfg.Backend {
	case config.BackendFile:
		logger.Debug("Using file store", "path", cfg.Path)
		return file.New(cfg.Path), io.NopCloser(nil), nil
	case config.BackendRedis:
		logger.Debug("Using redis store", "addr", cfg.Redis.Addr, "key", cfg.Redis.Key)
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, redis.WithKey(cfg.Redis.Key))
		pingCtx, cancel := context.WithTimeout(ctx, storePingTimeout)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("redis store unreachable at %s: %w", cfg.Redis.Addr, err)
		}
		return store, store, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}

// newVolumeSource builds the configured volume source, or nil when none is set.
func newVolumeSource(cfg config.VolumeConfig, logger *slog.Logger) ports.VolumeSource {
	if cfg.Command == "" {
		logger.Debug("No volume helper configured")
		return nil
	}
	proc := process.Config{Command: cfg.Command, Args: cfg.Args, Environment: cfg.Env}

	if cfg.Mode == config.VolumePoll {
		logger.Debug("Polling volume helper", "command", cfg.Command, "interval", cfg.PollInterval)
		return poll.NewSource(func(ctx context.Context) (float64, error) {
			return process.ReadOnce(ctx, proc)
		}, cfg.PollInterval, poll.WithLogger(logger))
	}

	logger.Debug("Streaming volume helper", "command", cfg.Command)
	return process.NewSource(proc, process.WithLogger(logger))
}

// runtimeDeps holds everything a command needs to drive the core.
type runtimeDeps struct {
	App      *rapidfire.App
	Registry *prometheus.Registry
	Logger   *slog.Logger
	Config   config.Config
	closer   io.Closer
}

func (d *runtimeDeps) Close() {
	if d.App != nil {
		_ = d.App.Close()
	}
	if d.closer != nil {
		_ = d.closer.Close()
	}
}

// startApp loads config, opens the store and starts the core. Fatal startup
// errors are shown with notify.Alert and reported as ErrExit.
func startApp(ctx context.Context, opts Options, onFatal func(error)) (*runtimeDeps, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	logger := createLogger(cfg.Log)

	store, closer, err := openStore(ctx, cfg.Store, logger)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	var metrics *observability.Metrics
	if cfg.Server.Metrics {
		metrics = observability.NewMetrics(registry)
	}

	app, err := rapidfire.New(ctx, store, newVolumeSource(cfg.Volume, logger),
		rapidfire.WithLogger(logger),
		rapidfire.WithMetrics(metrics),
		rapidfire.WithRequestTimeout(cfg.Core.RequestTimeout),
		rapidfire.WithHubCapacity(cfg.Core.HubCapacity),
		rapidfire.WithInboxCapacity(cfg.Core.InboxCapacity),
		rapidfire.WithThreshold(cfg.Core.Threshold),
		rapidfire.WithFatalHandler(func(err error) {
			_ = notify.Alertf("Failed to save the project: %v", err)
			if onFatal != nil {
				onFatal(err)
			}
		}),
	)
	if err != nil {
		_ = closer.Close()
		logger.Error("Startup failed", "err", err)
		_ = notify.Alertf("Failed to load the project: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrExit, err)
	}

	app.Start(ctx)
	return &runtimeDeps{App: app, Registry: registry, Logger: logger, Config: cfg, closer: closer}, nil
}
