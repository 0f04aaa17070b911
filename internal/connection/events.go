package connection

import (
	"time"

	"github.com/haasonsaas/agentline/pkg/models"
)

// EventKind tags the outbound notifications produced by the manager.
type EventKind string

const (
	// Lifecycle events with a human-readable message.
	EventConnecting EventKind = "connecting"
	EventOnline     EventKind = "online"
	EventExpired    EventKind = "expired"
	EventFailed     EventKind = "failed"
	EventEnded      EventKind = "ended"

	// Typing indicator control.
	EventShowTyping EventKind = "show_typing"
	EventHideTyping EventKind = "hide_typing"

	// Activity events carrying the original activity plus manager-computed
	// metadata.
	EventStreamingActivity  EventKind = "streaming_activity"
	EventStreamingEnd       EventKind = "streaming_end"
	EventCompleteMessage    EventKind = "complete_message"
	EventConversationUpdate EventKind = "conversation_update"
	EventEventActivity      EventKind = "event_activity"

	// EventConnectionError carries a classified, user-presentable error.
	EventConnectionError EventKind = "connection_error"

	// EventHealthUpdate reports periodic connection quality.
	EventHealthUpdate EventKind = "health_update"
)

// HideReason explains why a typing indicator should be hidden.
type HideReason string

const (
	HideChunkArrived HideReason = "chunk-arrived"
	HideTimeout      HideReason = "timeout"
)

// Quality grades the connection for health updates.
type Quality string

const (
	QualityExcellent Quality = "excellent"
	QualityDegraded  Quality = "degraded"
)

// Event is the tagged union published on the manager's outbound channel.
// Kind decides which of the remaining fields are meaningful.
type Event struct {
	Kind      EventKind
	Timestamp time.Time

	// Message is a human-readable description for lifecycle and error
	// events.
	Message string

	// Activity is the original inbound activity for activity events.
	Activity *models.Activity

	// ChunkIndex and StreamingFor describe streaming progress on
	// streaming_activity and streaming_end events.
	ChunkIndex   int
	StreamingFor time.Duration

	// Reason applies to hide_typing events.
	Reason HideReason

	// Quality applies to health_update events.
	Quality Quality

	// Err carries the classified error on connection_error events.
	Err *Error

	// RetryCount carries the exhausted attempt count on failed events.
	RetryCount int
}
