package connection

import "time"

// TypingConfig tunes the adaptive typing-indicator timeout.
type TypingConfig struct {
	// Base is the default wait before a typing indicator self-heals.
	Base time.Duration

	// Extension is added when the last user message was long enough that
	// the agent plausibly needs more time.
	Extension time.Duration

	// LengthThreshold is the user-message length (in runes) above which
	// the extension applies.
	LengthThreshold int

	// Max caps the total wait.
	Max time.Duration
}

// DefaultTypingConfig returns the baseline typing timeout knobs.
func DefaultTypingConfig() TypingConfig {
	return TypingConfig{
		Base:            8 * time.Second,
		Extension:       4 * time.Second,
		LengthThreshold: 100,
		Max:             15 * time.Second,
	}
}

func (c TypingConfig) withDefaults() TypingConfig {
	def := DefaultTypingConfig()
	if c.Base <= 0 {
		c.Base = def.Base
	}
	if c.Extension <= 0 {
		c.Extension = def.Extension
	}
	if c.LengthThreshold <= 0 {
		c.LengthThreshold = def.LengthThreshold
	}
	if c.Max <= 0 {
		c.Max = def.Max
	}
	return c
}

// TypingEstimator computes how long to keep an "agent is typing" indicator
// alive before assuming the agent stalled.
type TypingEstimator struct {
	cfg TypingConfig
}

// NewTypingEstimator creates an estimator, filling zero config values with
// defaults.
func NewTypingEstimator(cfg TypingConfig) TypingEstimator {
	return TypingEstimator{cfg: cfg.withDefaults()}
}

// Window returns the wait for the typing indicator given the length of the
// last user message. With adaptive disabled the base wait always applies.
func (e TypingEstimator) Window(lastUserMessageLen int, adaptive bool) time.Duration {
	window := e.cfg.Base
	if adaptive && lastUserMessageLen > e.cfg.LengthThreshold {
		window += e.cfg.Extension
	}
	if window < 0 {
		window = 0
	}
	if window > e.cfg.Max {
		window = e.cfg.Max
	}
	return window
}
