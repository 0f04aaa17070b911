// Package connection implements the channel connection manager: a state
// machine that establishes, monitors, and recovers a long-lived session with
// a remote conversational agent, classifies inbound traffic as streaming or
// complete, and publishes typed events for a UI or session layer to consume.
package connection

import (
	"context"
	"time"

	"github.com/haasonsaas/agentline/pkg/models"
)

// Inbound couples an activity with the watermark it was delivered under.
type Inbound struct {
	Activity  *models.Activity
	Watermark string
}

// Channel is an open transport session with the remote agent service.
// The manager is the sole owner of a channel handle; no other component may
// use it. Implementations must close both streams when the session ends.
type Channel interface {
	// Activities returns the inbound activity stream. Activities are
	// delivered in arrival order and the channel is closed when the
	// session terminates.
	Activities() <-chan Inbound

	// Statuses returns the connection status stream. Status updates are
	// serialized among themselves by the transport.
	Statuses() <-chan models.ChannelStatus

	// Send posts an activity to the conversation and returns the
	// server-assigned activity id.
	Send(ctx context.Context, act *models.Activity) (string, error)

	// RefreshToken exchanges the session token before it expires.
	RefreshToken(ctx context.Context) error

	// ConversationID returns the id of the conversation this session is
	// attached to.
	ConversationID() string

	// Close tears down the session. It is safe to call more than once.
	Close() error
}

// DialOptions carries everything a transport needs to open a channel.
type DialOptions struct {
	// Secret is the channel secret or token presented on open.
	Secret string

	// ConversationID and Watermark resume an existing conversation when
	// both are known; empty values start a fresh one.
	ConversationID string
	Watermark      string

	// PollInterval applies when the transport falls back to HTTP polling.
	PollInterval time.Duration

	// Timeout bounds the open handshake.
	Timeout time.Duration
}

// Dialer opens transport channels. The manager depends on this interface so
// tests can substitute a fake transport.
type Dialer interface {
	Dial(ctx context.Context, opts DialOptions) (Channel, error)
}
