// Package config loads and validates the client configuration file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/haasonsaas/agentline/internal/connection"
	"github.com/haasonsaas/agentline/internal/directline"
	"github.com/haasonsaas/agentline/internal/retry"
)

// Config is the root configuration for the agentline client.
type Config struct {
	// Channel configures the Direct Line transport.
	Channel ChannelConfig `yaml:"channel"`

	// User identifies the local participant.
	User UserConfig `yaml:"user"`

	// Connection tunes the connection manager.
	Connection ConnectionConfig `yaml:"connection"`

	// Logging configures structured log output.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures the optional Prometheus endpoint.
	Metrics MetricsConfig `yaml:"metrics"`
}

// ChannelConfig holds the transport settings. The secret supports
// ${ENV_VAR} expansion so it can stay out of the file.
type ChannelConfig struct {
	Secret        string `yaml:"secret"`
	Endpoint      string `yaml:"endpoint"`
	PreferPolling bool   `yaml:"prefer_polling"`
}

// UserConfig identifies the local participant on outbound activities.
type UserConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// ConnectionConfig tunes the manager's recovery and timing behavior. Zero
// values fall back to the manager defaults.
type ConnectionConfig struct {
	ConnectTimeout      time.Duration `yaml:"connect_timeout"`
	PollInterval        time.Duration `yaml:"poll_interval"`
	MaxRetries          int           `yaml:"max_retries"`
	BackoffInitial      time.Duration `yaml:"backoff_initial"`
	BackoffMax          time.Duration `yaml:"backoff_max"`
	BackoffJitter       time.Duration `yaml:"backoff_jitter"`
	GreetingGrace       time.Duration `yaml:"greeting_grace"`
	StreamSafetyTimeout time.Duration `yaml:"stream_safety_timeout"`
	AutoTokenRefresh    *bool         `yaml:"auto_token_refresh"`
	ConversationResume  *bool         `yaml:"conversation_resume"`
	AdaptiveTyping      *bool         `yaml:"adaptive_typing"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig configures the Prometheus scrape endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// Default returns the baseline configuration.
func Default() *Config {
	return &Config{
		Channel: ChannelConfig{Endpoint: directline.DefaultEndpoint},
		User:    UserConfig{ID: "user", Name: "User"},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Metrics: MetricsConfig{Listen: "127.0.0.1:9464"},
	}
}

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Channel.Secret) == "" {
		return fmt.Errorf("channel.secret is required")
	}
	if strings.TrimSpace(c.User.ID) == "" {
		return fmt.Errorf("user.id is required")
	}
	if c.Connection.MaxRetries < 0 {
		return fmt.Errorf("connection.max_retries must not be negative")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format %q is not one of text, json", c.Logging.Format)
	}
	if c.Metrics.Enabled && strings.TrimSpace(c.Metrics.Listen) == "" {
		return fmt.Errorf("metrics.listen is required when metrics are enabled")
	}
	return nil
}

// ManagerConfig maps the file configuration onto the connection manager's
// config. Unset values keep the manager defaults.
func (c *Config) ManagerConfig() connection.Config {
	cfg := connection.DefaultConfig()
	cfg.UserID = c.User.ID
	cfg.UserName = c.User.Name

	cc := c.Connection
	if cc.ConnectTimeout > 0 {
		cfg.ConnectTimeout = cc.ConnectTimeout
	}
	if cc.PollInterval > 0 {
		cfg.PollInterval = cc.PollInterval
	}
	if cc.MaxRetries > 0 {
		cfg.MaxRetries = cc.MaxRetries
	}
	if cc.GreetingGrace > 0 {
		cfg.GreetingGrace = cc.GreetingGrace
	}
	if cc.StreamSafetyTimeout > 0 {
		cfg.StreamSafetyTimeout = cc.StreamSafetyTimeout
	}

	backoff := retry.DefaultPolicy()
	if cc.BackoffInitial > 0 {
		backoff.InitialDelay = cc.BackoffInitial
	}
	if cc.BackoffMax > 0 {
		backoff.MaxDelay = cc.BackoffMax
	}
	if cc.BackoffJitter > 0 {
		backoff.JitterMax = cc.BackoffJitter
	}
	cfg.Backoff = backoff

	if cc.AutoTokenRefresh != nil {
		cfg.AutoTokenRefresh = *cc.AutoTokenRefresh
	}
	if cc.ConversationResume != nil {
		cfg.ConversationResume = *cc.ConversationResume
	}
	if cc.AdaptiveTyping != nil {
		cfg.AdaptiveTyping = *cc.AdaptiveTyping
	}
	return cfg
}

// TransportConfig maps the file configuration onto the Direct Line client
// config.
func (c *Config) TransportConfig() directline.Config {
	return directline.Config{
		Endpoint:      c.Channel.Endpoint,
		PreferPolling: c.Channel.PreferPolling,
	}
}
