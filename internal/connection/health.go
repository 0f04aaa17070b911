package connection

import (
	"sync"
	"sync/atomic"
	"time"
)

// Status is the externally visible connection status.
type Status struct {
	Connected bool   `json:"connected"`
	Error     string `json:"error,omitempty"`
	LastPing  int64  `json:"last_ping,omitempty"` // Unix timestamp
}

// HealthTracker provides shared status and degraded-state tracking for the
// manager.
type HealthTracker struct {
	status   Status
	statusMu sync.RWMutex

	degraded atomic.Bool
}

// NewHealthTracker creates a health tracker in the disconnected state.
func NewHealthTracker() *HealthTracker {
	return &HealthTracker{status: Status{Connected: false}}
}

// Status returns the current connection status.
func (h *HealthTracker) Status() Status {
	h.statusMu.RLock()
	defer h.statusMu.RUnlock()
	return h.status
}

// SetStatus updates the connection status and last ping time.
func (h *HealthTracker) SetStatus(connected bool, errMsg string) {
	h.statusMu.Lock()
	defer h.statusMu.Unlock()
	h.status = Status{
		Connected: connected,
		Error:     errMsg,
		LastPing:  time.Now().Unix(),
	}
}

// UpdateLastPing refreshes the last ping timestamp without changing state.
func (h *HealthTracker) UpdateLastPing() {
	h.statusMu.Lock()
	defer h.statusMu.Unlock()
	h.status.LastPing = time.Now().Unix()
}

// SetDegraded marks the connection as degraded.
func (h *HealthTracker) SetDegraded(value bool) {
	h.degraded.Store(value)
}

// IsDegraded reports whether the connection is in degraded mode.
func (h *HealthTracker) IsDegraded() bool {
	return h.degraded.Load()
}

// Quality grades the connection for health updates: excellent when connected
// and not degraded, degraded otherwise.
func (h *HealthTracker) Quality() Quality {
	if h.Status().Connected && !h.IsDegraded() {
		return QualityExcellent
	}
	return QualityDegraded
}
