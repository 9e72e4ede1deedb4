package runtime

import (
	"context"
	"log/slog"

	"github.com/aretw0/rapidfire/internal/logging"
	"github.com/aretw0/rapidfire/pkg/domain"
	"github.com/aretw0/rapidfire/pkg/observability"
	"github.com/aretw0/rapidfire/pkg/ports"
)

type warningQuery struct {
	ctx   context.Context
	reply chan domain.VolumeWarning
}

// failSafeWarning is the answer whenever the volume is unknown.
var failSafeWarning = domain.VolumeWarning{IsFull: true}

// Watcher turns a stream of volume readings into threshold-crossing events.
//
// Streaming is edge triggered: a VolumeWarning event is published only when a
// reading lands on the other side of the threshold from the previous one.
// Point queries follow a separate policy: they read the source directly and
// answer IsFull=true whenever the source is missing or fails.
type Watcher struct {
	source    ports.VolumeSource
	events    Publisher
	threshold float64

	queries chan warningQuery
	done    chan struct{}
	cancel  context.CancelFunc

	logger  *slog.Logger
	metrics *observability.Metrics
}

// WatcherOption configures the Watcher.
type WatcherOption func(*Watcher)

// WithThreshold overrides domain.DefaultFullThreshold.
func WithThreshold(threshold float64) WatcherOption {
	return func(w *Watcher) {
		if threshold > 0 {
			w.threshold = threshold
		}
	}
}

// WithWatcherLogger sets the watcher logger.
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithWatcherMetrics reports emitted warnings.
func WithWatcherMetrics(m *observability.Metrics) WatcherOption {
	return func(w *Watcher) {
		w.metrics = m
	}
}

// NewWatcher creates a watcher. source may be nil, in which case no events are
// streamed and every point query answers IsFull=true.
func NewWatcher(source ports.VolumeSource, events Publisher, opts ...WatcherOption) *Watcher {
	if events == nil {
		events = discardPublisher{}
	}
	w := &Watcher{
		source:    source,
		events:    events,
		threshold: domain.DefaultFullThreshold,
		queries:   make(chan warningQuery),
		done:      make(chan struct{}),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With("component", "volume-watcher")
	return w
}

// Start opens the source stream and launches the watch loop. It must be called
// once. Every reading produced after Start returns is observed.
func (w *Watcher) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)

	// A nil channel never delivers, which disables the streaming case in run.
	var readings <-chan float64
	if w.source == nil {
		w.logger.Info("No volume source configured, streaming disabled")
	} else if stream, err := w.source.Subscribe(ctx); err != nil {
		w.logger.Warn("Volume source unavailable, streaming disabled", "err", err)
	} else {
		readings = stream
	}

	go w.run(ctx, readings)
}

// Stop ends the watch loop.
func (w *Watcher) Stop() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	<-w.done
}

// Done is closed once the loop has exited.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

// CurrentWarning answers a point query through the watch loop.
// It never fails: an unknown volume is reported as full.
func (w *Watcher) CurrentWarning(ctx context.Context) domain.VolumeWarning {
	q := warningQuery{ctx: ctx, reply: make(chan domain.VolumeWarning, 1)}

	select {
	case w.queries <- q:
	case <-w.done:
		return failSafeWarning
	case <-ctx.Done():
		return failSafeWarning
	}

	select {
	case v := <-q.reply:
		return v
	case <-w.done:
		select {
		case v := <-q.reply:
			return v
		default:
		}
		return failSafeWarning
	case <-ctx.Done():
		return failSafeWarning
	}
}

func (w *Watcher) run(ctx context.Context, readings <-chan float64) {
	defer close(w.done)

	lastIsFull := false
	for {
		select {
		case <-ctx.Done():
			return

		case level, ok := <-readings:
			if !ok {
				w.logger.Warn("Volume source stream ended")
				readings = nil
				continue
			}
			isFull := domain.IsFullLevel(level, w.threshold)
			if isFull == lastIsFull {
				continue
			}
			w.logger.Debug("Volume threshold crossed", "level", level, "is_full", isFull)
			if err := w.events.Publish(ctx, domain.NewVolumeWarningEvent(isFull)); err != nil {
				w.logger.Warn("Volume warning not broadcast", "err", err)
			} else {
				w.metrics.ObserveWarning(isFull)
			}
			lastIsFull = isFull

		case q := <-w.queries:
			q.reply <- w.pointRead(q.ctx)
		}
	}
}

func (w *Watcher) pointRead(ctx context.Context) domain.VolumeWarning {
	if w.source == nil {
		return failSafeWarning
	}
	level, err := w.source.Level(ctx)
	if err != nil {
		w.logger.Debug("Volume point read failed, reporting full", "err", err)
		return failSafeWarning
	}
	return domain.VolumeWarning{IsFull: domain.IsFullLevel(level, w.threshold)}
}
