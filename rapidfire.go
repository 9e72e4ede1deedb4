package rapidfire

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/rapidfire/internal/adapters/file"
	"github.com/aretw0/rapidfire/internal/logging"
	"github.com/aretw0/rapidfire/internal/runtime"
	"github.com/aretw0/rapidfire/pkg/domain"
	"github.com/aretw0/rapidfire/pkg/observability"
	"github.com/aretw0/rapidfire/pkg/ports"
)

// DefaultRequestTimeout bounds every facade call that waits on a reply.
const DefaultRequestTimeout = 5 * time.Second

// App is the high-level entry point. It loads the project, owns the actor,
// watcher and hub goroutines, and exposes request/response operations to
// presentation adapters.
type App struct {
	actor   *runtime.Actor
	watcher *runtime.Watcher
	hub     *runtime.Hub

	requestTimeout time.Duration
	logger         *slog.Logger
}

type appConfig struct {
	logger         *slog.Logger
	metrics        *observability.Metrics
	requestTimeout time.Duration
	hubCapacity    int
	inboxCapacity  int
	threshold      float64
	onFatal        func(error)
}

// Option defines a functional option for configuring the App.
type Option func(*appConfig)

// WithLogger sets a custom structured logger for the App and its components.
func WithLogger(logger *slog.Logger) Option {
	return func(c *appConfig) {
		c.logger = logger
	}
}

// WithMetrics enables prometheus instrumentation.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *appConfig) {
		c.metrics = m
	}
}

// WithRequestTimeout overrides DefaultRequestTimeout. Zero disables the timeout.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *appConfig) {
		c.requestTimeout = d
	}
}

// WithHubCapacity sets the event queue size.
func WithHubCapacity(n int) Option {
	return func(c *appConfig) {
		c.hubCapacity = n
	}
}

// WithInboxCapacity sets the actor request queue size.
func WithInboxCapacity(n int) Option {
	return func(c *appConfig) {
		c.inboxCapacity = n
	}
}

// WithThreshold sets the volume level considered full.
func WithThreshold(threshold float64) Option {
	return func(c *appConfig) {
		c.threshold = threshold
	}
}

// WithFatalHandler registers fn to run when a save fails and the App stops serving.
func WithFatalHandler(fn func(error)) Option {
	return func(c *appConfig) {
		c.onFatal = fn
	}
}

// NewFileStore returns the default store: a JSON document at path, replaced atomically on save.
func NewFileStore(path string) ports.ProjectStore {
	return file.New(path)
}

// New loads the project from store and prepares the App. Nothing runs until Start.
// source may be nil; volume queries then always report full.
//
// A missing or malformed project yields an error wrapping domain.ErrFatalStartup.
func New(ctx context.Context, store ports.ProjectStore, source ports.VolumeSource, opts ...Option) (*App, error) {
	cfg := appConfig{
		logger:         logging.NewNop(),
		requestTimeout: DefaultRequestTimeout,
		hubCapacity:    runtime.DefaultHubCapacity,
		inboxCapacity:  runtime.DefaultInboxCapacity,
		threshold:      domain.DefaultFullThreshold,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if store == nil {
		return nil, fmt.Errorf("%w: no project store configured", domain.ErrFatalStartup)
	}

	project, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFatalStartup, err)
	}
	cfg.logger.Info("Project loaded", "name", project.DisplayName, "scenes", len(project.Scenes))

	hub := runtime.NewHub(
		runtime.WithHubCapacity(cfg.hubCapacity),
		runtime.WithHubLogger(cfg.logger),
		runtime.WithHubMetrics(cfg.metrics),
	)

	actorOpts := []runtime.ActorOption{
		runtime.WithInboxCapacity(cfg.inboxCapacity),
		runtime.WithActorLogger(cfg.logger),
		runtime.WithActorMetrics(cfg.metrics),
	}
	if cfg.onFatal != nil {
		actorOpts = append(actorOpts, runtime.WithFatalHandler(cfg.onFatal))
	}

	return &App{
		actor: runtime.NewActor(project, store, hub, actorOpts...),
		watcher: runtime.NewWatcher(source, hub,
			runtime.WithThreshold(cfg.threshold),
			runtime.WithWatcherLogger(cfg.logger),
			runtime.WithWatcherMetrics(cfg.metrics),
		),
		hub:            hub,
		requestTimeout: cfg.requestTimeout,
		logger:         cfg.logger,
	}, nil
}

// Start launches the hub, watcher and actor loops. It must be called once.
func (a *App) Start(ctx context.Context) {
	a.hub.Start(ctx)
	a.watcher.Start(ctx)
	a.actor.Start(ctx)
	a.logger.Debug("RapidFire started")
}

// Close stops every loop, producers first. Subscribers see their channel closed.
func (a *App) Close() error {
	a.actor.Stop()
	a.watcher.Stop()
	a.hub.Stop()
	a.logger.Debug("RapidFire stopped")
	return nil
}

// Done is closed when the actor stops, either on Close or on a fatal save error.
func (a *App) Done() <-chan struct{} {
	return a.actor.Done()
}

// Err returns the fatal error that stopped the App, if any.
func (a *App) Err() error {
	return a.actor.Err()
}

// GetProject returns a snapshot of the current project.
func (a *App) GetProject(ctx context.Context) (domain.Project, error) {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	return a.actor.GetProject(ctx)
}

// PatchSoundVolume sets one sound's volume. Unknown ids are not an error:
// the result reports Matched=false and the project is still saved and broadcast.
func (a *App) PatchSoundVolume(ctx context.Context, patch domain.PatchSoundVolume) (domain.PatchResult, error) {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	return a.actor.PatchSoundVolume(ctx, patch)
}

// PatchSoundLooped sets one sound's loop flag. See PatchSoundVolume for unknown ids.
func (a *App) PatchSoundLooped(ctx context.Context, patch domain.PatchSoundLooped) (domain.PatchResult, error) {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	return a.actor.PatchSoundLooped(ctx, patch)
}

// GetVolumeWarning reports whether the output volume is currently full.
// An unavailable source, a stopped watcher or an expired ctx all report full.
func (a *App) GetVolumeWarning(ctx context.Context) domain.VolumeWarning {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	return a.watcher.CurrentWarning(ctx)
}

// Subscribe attaches the presentation subscriber. Only one may be attached at a time.
func (a *App) Subscribe(ctx context.Context) (<-chan domain.Event, error) {
	return a.hub.Subscribe(ctx)
}

func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.requestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.requestTimeout)
}

// IsFatal reports whether err means the App can no longer serve requests.
func IsFatal(err error) bool {
	return errors.Is(err, domain.ErrFatalStartup) ||
		errors.Is(err, domain.ErrPersistence) ||
		errors.Is(err, domain.ErrActorStopped)
}
