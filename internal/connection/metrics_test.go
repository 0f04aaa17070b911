package connection

import (
	"testing"
	"time"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.RecordActivitySent()
	m.RecordActivitySent()
	m.RecordActivityReceived()
	m.RecordActivityFailed()
	m.RecordStreamChunk()
	m.RecordStreamEnd()
	m.RecordCompleteMessage()
	m.RecordTypingTimeout()
	m.RecordConnectionOpened()
	m.RecordConnectionClosed()
	m.RecordReconnectAttempt()
	m.RecordEventDropped()

	snap := m.Snapshot()
	if snap.ActivitiesSent != 2 {
		t.Errorf("ActivitiesSent = %d, want 2", snap.ActivitiesSent)
	}
	if snap.ActivitiesReceived != 1 || snap.ActivitiesFailed != 1 {
		t.Errorf("received/failed = %d/%d, want 1/1", snap.ActivitiesReceived, snap.ActivitiesFailed)
	}
	if snap.StreamChunks != 1 || snap.StreamEnds != 1 || snap.CompleteMessages != 1 {
		t.Errorf("stream counters = %d/%d/%d, want 1/1/1",
			snap.StreamChunks, snap.StreamEnds, snap.CompleteMessages)
	}
	if snap.TypingTimeouts != 1 {
		t.Errorf("TypingTimeouts = %d, want 1", snap.TypingTimeouts)
	}
	if snap.ConnectionsOpened != 1 || snap.ConnectionsClosed != 1 || snap.ReconnectAttempts != 1 {
		t.Errorf("connection counters = %d/%d/%d, want 1/1/1",
			snap.ConnectionsOpened, snap.ConnectionsClosed, snap.ReconnectAttempts)
	}
	if snap.EventsDropped != 1 {
		t.Errorf("EventsDropped = %d, want 1", snap.EventsDropped)
	}
}

func TestMetrics_ErrorsByCode(t *testing.T) {
	m := NewMetrics()
	m.RecordError(ErrCodeConnection)
	m.RecordError(ErrCodeConnection)
	m.RecordError(ErrCodeAuthentication)

	snap := m.Snapshot()
	if snap.ErrorsByCode[ErrCodeConnection] != 2 {
		t.Errorf("connection errors = %d, want 2", snap.ErrorsByCode[ErrCodeConnection])
	}
	if snap.ErrorsByCode[ErrCodeAuthentication] != 1 {
		t.Errorf("auth errors = %d, want 1", snap.ErrorsByCode[ErrCodeAuthentication])
	}
}

func TestLatencyHistogram(t *testing.T) {
	h := NewLatencyHistogram()

	if snap := h.Snapshot(); snap.Count != 0 {
		t.Fatalf("empty histogram reported %d samples", snap.Count)
	}

	for i := 1; i <= 100; i++ {
		h.Record(time.Duration(i) * time.Millisecond)
	}

	snap := h.Snapshot()
	if snap.Count != 100 {
		t.Errorf("Count = %d, want 100", snap.Count)
	}
	if snap.Min != time.Millisecond {
		t.Errorf("Min = %s, want 1ms", snap.Min)
	}
	if snap.Max != 100*time.Millisecond {
		t.Errorf("Max = %s, want 100ms", snap.Max)
	}
	if snap.P50 != 51*time.Millisecond {
		t.Errorf("P50 = %s, want 51ms", snap.P50)
	}
	if snap.P95 != 96*time.Millisecond {
		t.Errorf("P95 = %s, want 96ms", snap.P95)
	}
	if snap.Mean != 50500*time.Microsecond {
		t.Errorf("Mean = %s, want 50.5ms", snap.Mean)
	}
}

func TestLatencyHistogram_RingWraps(t *testing.T) {
	h := NewLatencyHistogram()

	// Overflow the ring: only the most recent 1000 samples survive.
	for i := 1; i <= 1500; i++ {
		h.Record(time.Duration(i) * time.Millisecond)
	}

	snap := h.Snapshot()
	if snap.Count != 1000 {
		t.Errorf("Count = %d, want 1000", snap.Count)
	}
	if snap.Min != 501*time.Millisecond {
		t.Errorf("Min = %s, want 501ms (oldest surviving sample)", snap.Min)
	}
	if snap.Max != 1500*time.Millisecond {
		t.Errorf("Max = %s, want 1500ms", snap.Max)
	}
}
