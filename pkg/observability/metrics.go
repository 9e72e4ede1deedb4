package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "rapidfire"

// Outcome labels for hub deliveries.
const (
	OutcomeDelivered = "delivered"
	OutcomeDropped   = "dropped"
)

// Metrics groups the collectors reported by the core.
type Metrics struct {
	ActorRequests    *prometheus.CounterVec
	UnmatchedPatches prometheus.Counter
	Saves            *prometheus.CounterVec
	HubEvents        *prometheus.CounterVec
	HubQueueDepth    prometheus.Gauge
	VolumeWarnings   *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered (useful in tests).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ActorRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "actor_requests_total",
				Help:      "Requests processed by the project actor, by kind.",
			},
			[]string{"kind"},
		),
		UnmatchedPatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actor_unmatched_patches_total",
			Help:      "Patches whose scene or sound id did not resolve.",
		}),
		Saves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_saves_total",
				Help:      "Write-through saves of the project, by result.",
			},
			[]string{"result"},
		),
		HubEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "hub_events_total",
				Help:      "Events handled by the event hub, by type and outcome.",
			},
			[]string{"type", "outcome"},
		),
		HubQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "hub_queue_depth",
			Help:      "Events waiting in the hub inbound queue.",
		}),
		VolumeWarnings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "volume_warnings_total",
				Help:      "Threshold crossings emitted by the volume watcher.",
			},
			[]string{"is_full"},
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.ActorRequests,
			m.UnmatchedPatches,
			m.Saves,
			m.HubEvents,
			m.HubQueueDepth,
			m.VolumeWarnings,
		)
	}
	return m
}

// ObserveRequest counts one actor request.
func (m *Metrics) ObserveRequest(kind string) {
	if m == nil {
		return
	}
	m.ActorRequests.WithLabelValues(kind).Inc()
}

// ObserveUnmatched counts a patch that did not resolve.
func (m *Metrics) ObserveUnmatched() {
	if m == nil {
		return
	}
	m.UnmatchedPatches.Inc()
}

// ObserveSave counts a save attempt.
func (m *Metrics) ObserveSave(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Saves.WithLabelValues(result).Inc()
}

// ObserveEvent counts an event leaving the hub.
func (m *Metrics) ObserveEvent(eventType, outcome string) {
	if m == nil {
		return
	}
	m.HubEvents.WithLabelValues(eventType, outcome).Inc()
}

// SetQueueDepth reports the hub backlog.
func (m *Metrics) SetQueueDepth(depth int) {
	if m == nil {
		return
	}
	m.HubQueueDepth.Set(float64(depth))
}

// ObserveWarning counts an emitted volume warning.
func (m *Metrics) ObserveWarning(isFull bool) {
	if m == nil {
		return
	}
	label := "false"
	if isFull {
		label = "true"
	}
	m.VolumeWarnings.WithLabelValues(label).Inc()
}
