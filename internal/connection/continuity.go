package connection

import "sync"

// Continuity tracks the conversation id and watermark needed to resume a
// conversation across reconnects. The watermark survives transient failures
// so a recovery resumes rather than restarts; only an explicit Disconnect
// clears it.
type Continuity struct {
	mu             sync.Mutex
	conversationID string
	watermark      string
}

// NewContinuity creates an empty continuity tracker.
func NewContinuity() *Continuity {
	return &Continuity{}
}

// Observe records the latest conversation id and watermark seen on inbound
// traffic. Empty values never overwrite known ones.
func (c *Continuity) Observe(conversationID, watermark string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if conversationID != "" {
		c.conversationID = conversationID
	}
	if watermark != "" {
		c.watermark = watermark
	}
}

// Resume returns the stored conversation id and watermark. ok is false when
// no conversation has been observed yet.
func (c *Continuity) Resume() (conversationID, watermark string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conversationID, c.watermark, c.conversationID != ""
}

// Reset forgets the conversation. Called on explicit disconnect, never on
// transient failure.
func (c *Continuity) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conversationID = ""
	c.watermark = ""
}
