// Package poll adapts a point-read volume function into a streaming ports.VolumeSource.
package poll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/rapidfire/internal/logging"
	"github.com/aretw0/rapidfire/pkg/domain"
)

// DefaultInterval is used when NewSource receives a non-positive interval.
const DefaultInterval = 250 * time.Millisecond

// ReadFunc returns the current output volume in [0.0, 1.0].
type ReadFunc func(ctx context.Context) (float64, error)

// Source polls a ReadFunc on a fixed interval.
type Source struct {
	read     ReadFunc
	interval time.Duration
	logger   *slog.Logger
}

// Option configures the Source.
type Option func(*Source)

// WithLogger sets the logger used for failed reads.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) {
		s.logger = logger
	}
}

func NewSource(read ReadFunc, interval time.Duration, opts ...Option) *Source {
	if interval <= 0 {
		interval = DefaultInterval
	}
	s := &Source{read: read, interval: interval, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "volume-poll")
	return s
}

// Subscribe polls immediately and then on every tick until ctx ends.
// Failed reads are skipped; the stream stays open.
func (s *Source) Subscribe(ctx context.Context) (<-chan float64, error) {
	if s.read == nil {
		return nil, fmt.Errorf("%w: no read function", domain.ErrSourceUnavailable)
	}

	readings := make(chan float64)
	go func() {
		defer close(readings)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			if level, err := s.Level(ctx); err == nil {
				select {
				case readings <- level:
				case <-ctx.Done():
					return
				}
			} else if ctx.Err() == nil {
				s.logger.Debug("Volume read failed", "err", err)
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return readings, nil
}

// Level performs one read. Failures wrap domain.ErrSourceUnavailable.
func (s *Source) Level(ctx context.Context) (float64, error) {
	if s.read == nil {
		return 0, fmt.Errorf("%w: no read function", domain.ErrSourceUnavailable)
	}
	level, err := s.read(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrSourceUnavailable) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
	}
	if level < 0 || level > 1 {
		return 0, fmt.Errorf("%w: reading %v out of range", domain.ErrSourceUnavailable, level)
	}
	return level, nil
}
