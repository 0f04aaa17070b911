package connection

import (
	"log/slog"
	"time"

	"github.com/haasonsaas/agentline/internal/retry"
)

// Config holds everything the manager needs for a connection. It is treated
// as immutable once a Connect call has started.
type Config struct {
	// UserID and UserName identify the local participant on outbound
	// activities.
	UserID   string
	UserName string

	// ConnectTimeout bounds the open handshake and individual sends.
	ConnectTimeout time.Duration

	// PollInterval applies when the transport falls back to HTTP polling.
	PollInterval time.Duration

	// MaxRetries is the number of reconnect attempts per failure episode
	// before the manager gives up and enters the failed state.
	MaxRetries int

	// Backoff is the reconnect delay schedule.
	Backoff retry.Policy

	// HealthProbeInterval paces the periodic health events. Independent of
	// the retry schedule.
	HealthProbeInterval time.Duration

	// TokenRefreshInterval paces token refreshes when AutoTokenRefresh is
	// enabled. Independent of the retry schedule.
	TokenRefreshInterval time.Duration

	// GreetingGrace is how long after the greeting sequence to wait for an
	// agent message before sending the empty last-resort trigger.
	GreetingGrace time.Duration

	// StreamSafetyTimeout closes a stream that never received an explicit
	// or inferred end.
	StreamSafetyTimeout time.Duration

	// Feature toggles.
	AutoTokenRefresh   bool
	ConversationResume bool
	AdaptiveTyping     bool

	Typing     TypingConfig
	Classifier ClassifierConfig

	// EventBuffer is the capacity of the outbound event channel.
	EventBuffer int

	Logger *slog.Logger
	Clock  Clock
}

// DefaultConfig returns a baseline manager configuration.
func DefaultConfig() Config {
	return Config{
		ConnectTimeout:       20 * time.Second,
		PollInterval:         time.Second,
		MaxRetries:           5,
		Backoff:              retry.DefaultPolicy(),
		HealthProbeInterval:  30 * time.Second,
		TokenRefreshInterval: 15 * time.Minute,
		GreetingGrace:        3 * time.Second,
		StreamSafetyTimeout:  10 * time.Second,
		AutoTokenRefresh:     true,
		ConversationResume:   true,
		AdaptiveTyping:       true,
		Typing:               DefaultTypingConfig(),
		Classifier:           DefaultClassifierConfig(),
		EventBuffer:          128,
	}
}

// withDefaults fills zero values with defaults so a partially specified
// config behaves sensibly.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = def.ConnectTimeout
	}
	if c.PollInterval <= 0 {
		c.PollInterval = def.PollInterval
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.HealthProbeInterval <= 0 {
		c.HealthProbeInterval = def.HealthProbeInterval
	}
	if c.TokenRefreshInterval <= 0 {
		c.TokenRefreshInterval = def.TokenRefreshInterval
	}
	if c.GreetingGrace <= 0 {
		c.GreetingGrace = def.GreetingGrace
	}
	if c.StreamSafetyTimeout <= 0 {
		c.StreamSafetyTimeout = def.StreamSafetyTimeout
	}
	if c.EventBuffer <= 0 {
		c.EventBuffer = def.EventBuffer
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Clock == nil {
		c.Clock = SystemClock()
	}
	c.Typing = c.Typing.withDefaults()
	c.Classifier = c.Classifier.withDefaults()
	return c
}
