package runtime

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/aretw0/rapidfire/internal/logging"
	"github.com/aretw0/rapidfire/pkg/domain"
	"github.com/aretw0/rapidfire/pkg/observability"
)

// DefaultHubCapacity is the number of events the hub queues before producers block.
const DefaultHubCapacity = 32

// Publisher is the producer side of the event hub.
type Publisher interface {
	Publish(ctx context.Context, ev domain.Event) error
}

type envelope struct {
	seq uint64
	ev  domain.Event
}

type subscription struct {
	ctx   context.Context
	ch    chan domain.Event
	since uint64
}

type attachRequest struct {
	sub   *subscription
	reply chan error
}

// Hub forwards events from independent producers to exactly one subscriber.
//
// The inbound queue is bounded: once it is full, Publish blocks until the
// delivery loop makes room. Events published while no subscriber is attached
// are discarded; there is no history.
type Hub struct {
	in     chan envelope
	attach chan attachRequest
	detach chan *subscription
	done   chan struct{}
	cancel context.CancelFunc
	seq    atomic.Uint64

	logger  *slog.Logger
	metrics *observability.Metrics
}

// HubOption configures the Hub.
type HubOption func(*Hub)

// WithHubCapacity sets the inbound queue capacity.
func WithHubCapacity(n int) HubOption {
	return func(h *Hub) {
		if n > 0 {
			h.in = make(chan envelope, n)
		}
	}
}

// WithHubLogger sets the hub logger.
func WithHubLogger(logger *slog.Logger) HubOption {
	return func(h *Hub) {
		h.logger = logger
	}
}

// WithHubMetrics reports deliveries and queue depth.
func WithHubMetrics(m *observability.Metrics) HubOption {
	return func(h *Hub) {
		h.metrics = m
	}
}

// NewHub creates a hub. Call Start before publishing.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		in:     make(chan envelope, DefaultHubCapacity),
		attach: make(chan attachRequest),
		detach: make(chan *subscription),
		done:   make(chan struct{}),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With("component", "event-hub")
	return h
}

// Start launches the delivery loop. It must be called once.
func (h *Hub) Start(ctx context.Context) {
	ctx, h.cancel = context.WithCancel(ctx)
	go h.run(ctx)
}

// Stop ends the delivery loop and closes the subscriber channel, if any.
// Queued events are discarded.
func (h *Hub) Stop() {
	if h.cancel == nil {
		return
	}
	h.cancel()
	<-h.done
}

// Done is closed once the delivery loop has exited.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Publish queues ev for delivery, blocking while the queue is full.
func (h *Hub) Publish(ctx context.Context, ev domain.Event) error {
	select {
	case <-h.done:
		return domain.ErrHubClosed
	default:
	}

	env := envelope{seq: h.seq.Add(1), ev: ev}
	select {
	case h.in <- env:
		h.metrics.SetQueueDepth(len(h.in))
		return nil
	case <-h.done:
		return domain.ErrHubClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe attaches the single presentation subscriber. The returned channel
// receives events published after attachment and is closed when ctx ends or
// the hub stops. Returns domain.ErrSubscriberAttached if another subscriber is active.
func (h *Hub) Subscribe(ctx context.Context) (<-chan domain.Event, error) {
	sub := &subscription{ctx: ctx, ch: make(chan domain.Event)}
	req := attachRequest{sub: sub, reply: make(chan error, 1)}

	select {
	case h.attach <- req:
	case <-h.done:
		return nil, domain.ErrHubClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if err := <-req.reply; err != nil {
		return nil, err
	}

	go func() {
		select {
		case <-ctx.Done():
			select {
			case h.detach <- sub:
			case <-h.done:
			}
		case <-h.done:
		}
	}()

	return sub.ch, nil
}

func (h *Hub) run(ctx context.Context) {
	var current *subscription
	defer func() {
		if current != nil {
			close(current.ch)
		}
		close(h.done)
	}()

	h.logger.Debug("Event hub started", "capacity", cap(h.in))

	for {
		select {
		case <-ctx.Done():
			h.logger.Debug("Event hub stopped", "pending", len(h.in))
			return

		case req := <-h.attach:
			if current != nil {
				req.reply <- domain.ErrSubscriberAttached
				continue
			}
			req.sub.since = h.seq.Load()
			current = req.sub
			req.reply <- nil
			h.logger.Info("Subscriber attached")

		case sub := <-h.detach:
			if sub == current {
				close(current.ch)
				current = nil
				h.logger.Info("Subscriber detached")
			}

		case env := <-h.in:
			h.metrics.SetQueueDepth(len(h.in))
			eventType := string(env.ev.Type)

			if current == nil || env.seq <= current.since {
				h.metrics.ObserveEvent(eventType, observability.OutcomeDropped)
				h.logger.Debug("Event discarded, no subscriber", "type", eventType)
				continue
			}

			select {
			case current.ch <- env.ev:
				h.metrics.ObserveEvent(eventType, observability.OutcomeDelivered)
			case <-current.ctx.Done():
				h.metrics.ObserveEvent(eventType, observability.OutcomeDropped)
				close(current.ch)
				current = nil
				h.logger.Info("Subscriber detached")
			case <-ctx.Done():
				return
			}
		}
	}
}
