package connection

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics provides observability into manager operations: activity counts,
// streaming volume, reconnect churn, and send latency.
type Metrics struct {
	activitiesSent     atomic.Uint64
	activitiesReceived atomic.Uint64
	activitiesFailed   atomic.Uint64

	streamChunks     atomic.Uint64
	streamEnds       atomic.Uint64
	completeMessages atomic.Uint64
	typingTimeouts   atomic.Uint64

	connectionsOpened atomic.Uint64
	connectionsClosed atomic.Uint64
	reconnectAttempts atomic.Uint64
	eventsDropped     atomic.Uint64

	errorsByCode map[ErrorCode]*atomic.Uint64
	errorsMu     sync.RWMutex

	sendLatency *LatencyHistogram

	startTime time.Time
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{
		errorsByCode: make(map[ErrorCode]*atomic.Uint64),
		sendLatency:  NewLatencyHistogram(),
		startTime:    time.Now(),
	}
}

// RecordActivitySent increments the sent activity counter.
func (m *Metrics) RecordActivitySent() { m.activitiesSent.Add(1) }

// RecordActivityReceived increments the received activity counter.
func (m *Metrics) RecordActivityReceived() { m.activitiesReceived.Add(1) }

// RecordActivityFailed increments the failed activity counter.
func (m *Metrics) RecordActivityFailed() { m.activitiesFailed.Add(1) }

// RecordStreamChunk increments the streaming chunk counter.
func (m *Metrics) RecordStreamChunk() { m.streamChunks.Add(1) }

// RecordStreamEnd increments the stream terminator counter.
func (m *Metrics) RecordStreamEnd() { m.streamEnds.Add(1) }

// RecordCompleteMessage increments the complete message counter.
func (m *Metrics) RecordCompleteMessage() { m.completeMessages.Add(1) }

// RecordTypingTimeout increments the typing self-heal counter.
func (m *Metrics) RecordTypingTimeout() { m.typingTimeouts.Add(1) }

// RecordConnectionOpened increments the connections opened counter.
func (m *Metrics) RecordConnectionOpened() { m.connectionsOpened.Add(1) }

// RecordConnectionClosed increments the connections closed counter.
func (m *Metrics) RecordConnectionClosed() { m.connectionsClosed.Add(1) }

// RecordReconnectAttempt increments the reconnect attempts counter.
func (m *Metrics) RecordReconnectAttempt() { m.reconnectAttempts.Add(1) }

// RecordEventDropped increments the dropped event counter.
func (m *Metrics) RecordEventDropped() { m.eventsDropped.Add(1) }

// RecordError increments the error counter for a specific code.
func (m *Metrics) RecordError(code ErrorCode) {
	m.errorsMu.Lock()
	counter, exists := m.errorsByCode[code]
	if !exists {
		counter = &atomic.Uint64{}
		m.errorsByCode[code] = counter
	}
	m.errorsMu.Unlock()

	counter.Add(1)
}

// RecordSendLatency records the latency of a send operation.
func (m *Metrics) RecordSendLatency(duration time.Duration) {
	m.sendLatency.Record(duration)
}

// Snapshot returns a point-in-time view of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.errorsMu.RLock()
	errs := make(map[ErrorCode]uint64, len(m.errorsByCode))
	for code, counter := range m.errorsByCode {
		errs[code] = counter.Load()
	}
	m.errorsMu.RUnlock()

	return MetricsSnapshot{
		ActivitiesSent:     m.activitiesSent.Load(),
		ActivitiesReceived: m.activitiesReceived.Load(),
		ActivitiesFailed:   m.activitiesFailed.Load(),
		StreamChunks:       m.streamChunks.Load(),
		StreamEnds:         m.streamEnds.Load(),
		CompleteMessages:   m.completeMessages.Load(),
		TypingTimeouts:     m.typingTimeouts.Load(),
		ConnectionsOpened:  m.connectionsOpened.Load(),
		ConnectionsClosed:  m.connectionsClosed.Load(),
		ReconnectAttempts:  m.reconnectAttempts.Load(),
		EventsDropped:      m.eventsDropped.Load(),
		ErrorsByCode:       errs,
		SendLatency:        m.sendLatency.Snapshot(),
		Uptime:             time.Since(m.startTime),
	}
}

// MetricsSnapshot represents a point-in-time snapshot of metrics.
type MetricsSnapshot struct {
	ActivitiesSent     uint64
	ActivitiesReceived uint64
	ActivitiesFailed   uint64
	StreamChunks       uint64
	StreamEnds         uint64
	CompleteMessages   uint64
	TypingTimeouts     uint64
	ConnectionsOpened  uint64
	ConnectionsClosed  uint64
	ReconnectAttempts  uint64
	EventsDropped      uint64
	ErrorsByCode       map[ErrorCode]uint64
	SendLatency        LatencySnapshot
	Uptime             time.Duration
}

// LatencyHistogram tracks latency measurements using a bounded sample ring.
type LatencyHistogram struct {
	mu      sync.RWMutex
	samples []time.Duration
	head    int
	count   int
	max     int
}

// NewLatencyHistogram creates a new latency histogram. It keeps the last
// 1000 samples for percentile calculation.
func NewLatencyHistogram() *LatencyHistogram {
	const defaultMaxSamples = 1000
	return &LatencyHistogram{
		samples: make([]time.Duration, defaultMaxSamples),
		max:     defaultMaxSamples,
	}
}

// Record adds a latency sample to the histogram.
func (h *LatencyHistogram) Record(duration time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.max == 0 {
		return
	}

	h.samples[h.head] = duration
	h.head = (h.head + 1) % h.max
	if h.count < h.max {
		h.count++
	}
}

// Snapshot returns a snapshot of latency statistics.
func (h *LatencyHistogram) Snapshot() LatencySnapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.count == 0 {
		return LatencySnapshot{}
	}

	sorted := make([]time.Duration, h.count)
	if h.count < h.max {
		copy(sorted, h.samples[:h.count])
	} else {
		for i := 0; i < h.count; i++ {
			idx := (h.head + i) % h.max
			sorted[i] = h.samples[idx]
		}
	}

	// Insertion sort is fine for 1000 samples.
	for i := 1; i < len(sorted); i++ {
		key := sorted[i]
		j := i - 1
		for j >= 0 && sorted[j] > key {
			sorted[j+1] = sorted[j]
			j--
		}
		sorted[j+1] = key
	}

	var sum time.Duration
	for _, d := range sorted {
		sum += d
	}

	return LatencySnapshot{
		Count: len(sorted),
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
		Mean:  sum / time.Duration(len(sorted)),
		P50:   sorted[len(sorted)*50/100],
		P95:   sorted[len(sorted)*95/100],
		P99:   sorted[len(sorted)*99/100],
	}
}

// LatencySnapshot represents latency statistics.
type LatencySnapshot struct {
	Count int
	Min   time.Duration
	Max   time.Duration
	Mean  time.Duration
	P50   time.Duration
	P95   time.Duration
	P99   time.Duration
}
