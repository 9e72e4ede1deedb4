package memory

import (
	"context"
	"sync"

	"github.com/aretw0/rapidfire/pkg/domain"
)

const defaultSourceBuffer = 64

// Source implements ports.VolumeSource with readings pushed by the caller.
// It stands in for a platform volume API in tests and demos.
type Source struct {
	mu     sync.Mutex
	stream chan float64
	level  float64
	known  bool
	err    error
	closed bool
}

// NewSource creates a source with no reading yet. Point reads fail until the first Push.
func NewSource() *Source {
	return &Source{}
}

// NewUnavailableSource creates a source that behaves like an unreachable device.
func NewUnavailableSource() *Source {
	return &Source{err: domain.ErrSourceUnavailable}
}

// Subscribe opens the reading stream. A second call replaces (and closes) the first stream.
func (s *Source) Subscribe(ctx context.Context) (<-chan float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	if s.stream != nil && !s.closed {
		close(s.stream)
	}
	stream := make(chan float64, defaultSourceBuffer)
	s.stream = stream
	s.closed = false

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.stream == stream && !s.closed {
			close(stream)
			s.closed = true
		}
	}()

	return stream, nil
}

// Push records level as the current reading and forwards it to the open stream.
// It never blocks: when the stream buffer is full the oldest pending reading is
// dropped, so the newest level always reaches the consumer.
func (s *Source) Push(level float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.level = level
	s.known = true
	if s.stream == nil || s.closed {
		return
	}
	for {
		select {
		case s.stream <- level:
			return
		default:
		}
		select {
		case <-s.stream:
		default:
		}
	}
}

// Level returns the last pushed reading.
func (s *Source) Level(ctx context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return 0, s.err
	}
	if !s.known {
		return 0, domain.ErrSourceUnavailable
	}
	return s.level, nil
}

// Fail marks the source unavailable and ends the stream.
func (s *Source) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err == nil {
		err = domain.ErrSourceUnavailable
	}
	s.err = err
	if s.stream != nil && !s.closed {
		close(s.stream)
		s.closed = true
	}
}
