package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/haasonsaas/agentline/internal/connection"
)

// Metrics exports connection activity to Prometheus.
//
// Usage:
//
//	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
//	for ev := range manager.Events() {
//	    metrics.ObserveEvent(ev)
//	}
type Metrics struct {
	// EventCounter counts manager events by kind.
	EventCounter *prometheus.CounterVec

	// TypingHides counts typing-indicator dismissals by reason
	// (chunk-arrived|timeout).
	TypingHides *prometheus.CounterVec

	// StreamDuration measures how long streaming responses ran, in seconds.
	StreamDuration prometheus.Histogram

	// StreamChunks measures chunks per completed stream.
	StreamChunks prometheus.Histogram

	// ConnectionFailures counts terminal failures by error code.
	ConnectionFailures *prometheus.CounterVec

	// PhaseGauge is 1 for the manager's current phase, 0 for the rest.
	PhaseGauge *prometheus.GaugeVec
}

// NewMetrics registers the connection metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EventCounter: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agentline",
			Name:      "events_total",
			Help:      "Manager events by kind.",
		}, []string{"kind"}),
		TypingHides: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agentline",
			Name:      "typing_hides_total",
			Help:      "Typing indicator dismissals by reason.",
		}, []string{"reason"}),
		StreamDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "agentline",
			Name:      "stream_duration_seconds",
			Help:      "Duration of streaming responses.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60},
		}),
		StreamChunks: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "agentline",
			Name:      "stream_chunks",
			Help:      "Chunks per completed stream.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100},
		}),
		ConnectionFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agentline",
			Name:      "connection_failures_total",
			Help:      "Terminal connection failures by error code.",
		}, []string{"code"}),
		PhaseGauge: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "agentline",
			Name:      "connection_phase",
			Help:      "Current manager phase (1 for active, 0 otherwise).",
		}, []string{"phase"}),
	}
}

// ObserveEvent records one manager event.
func (m *Metrics) ObserveEvent(ev connection.Event) {
	m.EventCounter.WithLabelValues(string(ev.Kind)).Inc()

	switch ev.Kind {
	case connection.EventHideTyping:
		m.TypingHides.WithLabelValues(string(ev.Reason)).Inc()
	case connection.EventStreamingEnd:
		m.StreamDuration.Observe(ev.StreamingFor.Seconds())
		m.StreamChunks.Observe(float64(ev.ChunkIndex))
	case connection.EventFailed, connection.EventExpired, connection.EventConnectionError:
		code := "unknown"
		if ev.Err != nil {
			code = string(ev.Err.Code)
		}
		m.ConnectionFailures.WithLabelValues(code).Inc()
	}
}

var allPhases = []connection.Phase{
	connection.PhaseUninitialized,
	connection.PhaseConnecting,
	connection.PhaseOnline,
	connection.PhaseRecovering,
	connection.PhaseFailed,
}

// SetPhase marks the manager's current phase on the gauge.
func (m *Metrics) SetPhase(phase connection.Phase) {
	for _, p := range allPhases {
		v := 0.0
		if p == phase {
			v = 1.0
		}
		m.PhaseGauge.WithLabelValues(string(p)).Set(v)
	}
}
