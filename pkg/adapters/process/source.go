package process

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/aretw0/rapidfire/internal/logging"
	"github.com/aretw0/rapidfire/pkg/domain"
)

// Source implements ports.VolumeSource on top of a long-running helper process.
// Subscribe starts the helper; Level returns the most recent reading it printed.
type Source struct {
	cfg    Config
	logger *slog.Logger

	mu      sync.Mutex
	level   float64
	known   bool
	running bool
}

// SourceOption configures the Source.
type SourceOption func(*Source)

// WithLogger sets the logger used for helper diagnostics.
func WithLogger(logger *slog.Logger) SourceOption {
	return func(s *Source) {
		s.logger = logger
	}
}

// NewSource creates a process-backed volume source. Nothing runs until Subscribe.
func NewSource(cfg Config, opts ...SourceOption) *Source {
	s := &Source{cfg: cfg, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "volume-process", "command", cfg.Command)
	return s
}

// Subscribe starts the helper and streams its readings until it exits or ctx ends.
// Unparseable or out-of-range lines are skipped.
func (s *Source) Subscribe(ctx context.Context) (<-chan float64, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
	}

	cmd := s.cfg.command(ctx)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: failed to start helper: %w", domain.ErrSourceUnavailable, err)
	}
	s.setRunning(true)
	s.logger.Debug("Volume helper started", "pid", cmd.Process.Pid)

	readings := make(chan float64)
	go func() {
		defer close(readings)
		defer s.setRunning(false)

		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			level, ok := ParseReading(scanner.Text())
			if !ok {
				s.logger.Debug("Skipping helper output", "line", scanner.Text())
				continue
			}
			s.record(level)

			select {
			case readings <- level:
			case <-ctx.Done():
				_ = cmd.Wait()
				return
			}
		}

		if err := cmd.Wait(); err != nil && ctx.Err() == nil {
			s.logger.Warn("Volume helper exited", "err", err, "stderr", strings.TrimSpace(stderr.String()))
			return
		}
		s.logger.Debug("Volume helper finished")
	}()

	return readings, nil
}

// Level returns the last reading while the helper is running.
func (s *Source) Level(ctx context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running || !s.known {
		return 0, domain.ErrSourceUnavailable
	}
	return s.level, nil
}

func (s *Source) record(level float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.level = level
	s.known = true
}

func (s *Source) setRunning(running bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = running
	if !running {
		s.known = false
	}
}

// ReadOnce runs the helper to completion and returns the last reading it printed.
// It suits helpers that report a single value per invocation.
func ReadOnce(ctx context.Context, cfg Config) (float64, error) {
	if err := cfg.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
	}

	cmd := cfg.command(ctx)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("%w: execution failed: %w. Stderr: %s", domain.ErrSourceUnavailable, err, strings.TrimSpace(stderr.String()))
	}

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if level, ok := ParseReading(lines[i]); ok {
			return level, nil
		}
	}
	return 0, fmt.Errorf("%w: helper printed no reading", domain.ErrSourceUnavailable)
}

// ParseReading parses one helper line. Readings must lie in [0.0, 1.0].
func ParseReading(line string) (float64, bool) {
	level, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
	if err != nil || math.IsNaN(level) || level < 0 || level > 1 {
		return 0, false
	}
	return level, true
}
