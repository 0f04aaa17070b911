package connection

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/haasonsaas/agentline/internal/retry"
	"github.com/haasonsaas/agentline/pkg/models"
)

// Phase is the manager's lifecycle state.
type Phase string

const (
	PhaseUninitialized Phase = "uninitialized"
	PhaseConnecting    Phase = "connecting"
	PhaseOnline        Phase = "online"
	PhaseRecovering    Phase = "recovering"
	PhaseFailed        Phase = "failed"
)

// Manager owns exactly one upstream channel connection at a time. It drives
// the lifecycle state machine, schedules reconnects with backoff, classifies
// inbound traffic, and publishes typed events on a single outbound channel.
//
// All mutable connection state is exclusively owned by the manager; external
// consumers interact only through the public operations and the event
// stream.
type Manager struct {
	cfg    Config
	dialer Dialer
	clock  Clock
	logger *slog.Logger

	classifier *Classifier
	typing     TypingEstimator
	continuity *Continuity
	health     *HealthTracker
	metrics    *Metrics

	events chan Event

	mu      sync.Mutex
	phase   Phase
	epoch   uint64
	channel Channel
	secret  string

	retryCount     int
	lastContentAt  time.Time
	lastUserMsgLen int

	streamStart time.Time
	chunkIndex  int
	lastChunk   *models.Activity

	greetingDone   bool
	agentResponded bool

	// typingGen and streamGen identify the currently installed timer. A
	// callback whose generation no longer matches lost a race with Stop
	// and must not act on the fresh timer's state.
	typingGen uint64
	streamGen uint64

	typingTimer    Timer
	streamTimer    Timer
	reconnectTimer Timer
	healthTimer    Timer
	tokenTimer     Timer
	greetingTimers []Timer
}

// NewManager creates a connection manager. The dialer supplies the transport;
// everything else comes from the config, with zero values filled in from
// DefaultConfig.
func NewManager(cfg Config, dialer Dialer) *Manager {
	cfg = cfg.withDefaults()
	return &Manager{
		cfg:        cfg,
		dialer:     dialer,
		clock:      cfg.Clock,
		logger:     cfg.Logger.With("component", "connection"),
		classifier: NewClassifier(cfg.Classifier),
		typing:     NewTypingEstimator(cfg.Typing),
		continuity: NewContinuity(),
		health:     NewHealthTracker(),
		metrics:    NewMetrics(),
		events:     make(chan Event, cfg.EventBuffer),
		phase:      PhaseUninitialized,
	}
}

// Events returns the outbound event stream. The channel is never closed; it
// is meant to be consumed by a single dispatcher loop for the lifetime of
// the manager.
func (m *Manager) Events() <-chan Event {
	return m.events
}

// Phase returns the current lifecycle phase.
func (m *Manager) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Health returns the current connection status.
func (m *Manager) Health() Status {
	return m.health.Status()
}

// Metrics returns a snapshot of manager metrics.
func (m *Manager) Metrics() MetricsSnapshot {
	return m.metrics.Snapshot()
}

// ConversationID returns the id of the tracked conversation, or empty when
// none has been observed.
func (m *Manager) ConversationID() string {
	id, _, _ := m.continuity.Resume()
	return id
}

// Connect opens the channel with the given secret and starts monitoring it.
// It fails fast when no transport is available or a connection is already
// active; transient open failures are handled internally through the
// recovery path.
func (m *Manager) Connect(ctx context.Context, secret string) error {
	if m.dialer == nil {
		return ErrTransportUnavailable("no channel transport configured", nil)
	}
	if secret == "" {
		return ErrInvalidInput("secret must not be empty", nil)
	}

	m.mu.Lock()
	switch m.phase {
	case PhaseConnecting, PhaseOnline, PhaseRecovering:
		m.mu.Unlock()
		return ErrInvalidInput("connection already active; call Disconnect first", nil)
	}
	m.epoch++
	epoch := m.epoch
	m.secret = secret
	m.phase = PhaseConnecting
	m.retryCount = 0
	m.lastContentAt = time.Time{}
	m.lastUserMsgLen = 0
	m.resetStreamLocked()
	m.greetingDone = false
	m.agentResponded = false
	m.healthTimer = m.clock.AfterFunc(m.cfg.HealthProbeInterval, func() { m.healthProbe(epoch) })
	m.mu.Unlock()

	m.logger.Info("connecting", "resume", m.cfg.ConversationResume)
	m.emit(Event{Kind: EventConnecting, Message: "connecting to agent channel"})

	return m.open(ctx, epoch)
}

// Restart tears the connection down and reconnects with a new secret.
func (m *Manager) Restart(ctx context.Context, secret string) error {
	m.Disconnect()
	return m.Connect(ctx, secret)
}

// Disconnect tears down the connection: every outstanding timer is stopped,
// the channel handle released, and the continuity watermark cleared. Safe to
// call at any time, including when already disconnected.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	m.epoch++ // invalidates every outstanding scheduled callback
	m.stopAllTimersLocked()
	ch := m.channel
	m.channel = nil
	wasActive := m.phase != PhaseUninitialized
	m.phase = PhaseUninitialized
	m.retryCount = 0
	m.resetStreamLocked()
	m.mu.Unlock()

	m.continuity.Reset()
	if ch != nil {
		_ = ch.Close()
		m.metrics.RecordConnectionClosed()
	}
	if wasActive {
		m.health.SetStatus(false, "disconnected")
		m.logger.Info("disconnected")
	}
}

// SendMessage posts a user message to the conversation and returns the
// server-assigned activity id. Rejected when not online.
func (m *Manager) SendMessage(ctx context.Context, text string, attachments []models.Attachment) (string, error) {
	act := &models.Activity{
		Type:        models.ActivityMessage,
		ID:          uuid.NewString(),
		Timestamp:   m.clock.Now(),
		From:        m.userAccount(),
		Text:        text,
		Attachments: attachments,
	}
	return m.SendActivity(ctx, act)
}

// SendActivity posts an arbitrary activity to the conversation. It is the
// escape hatch for custom activity kinds. Rejected when not online.
func (m *Manager) SendActivity(ctx context.Context, act *models.Activity) (string, error) {
	m.mu.Lock()
	if m.phase != PhaseOnline || m.channel == nil {
		m.mu.Unlock()
		err := ErrNotConnected("cannot send while not connected", nil)
		m.metrics.RecordError(err.Code)
		return "", err
	}
	ch := m.channel
	if act.Type == models.ActivityMessage {
		m.lastUserMsgLen = len([]rune(act.Text))
	}
	m.mu.Unlock()

	if act.From.ID == "" {
		act.From = m.userAccount()
	}

	start := m.clock.Now()
	id, err := ch.Send(ctx, act)
	if err != nil {
		m.metrics.RecordActivityFailed()
		m.metrics.RecordError(GetErrorCode(err))
		return "", ErrConnection("failed to send activity", err)
	}
	m.metrics.RecordActivitySent()
	m.metrics.RecordSendLatency(m.clock.Now().Sub(start))
	return id, nil
}

// open dials the transport for the given epoch and attaches the resulting
// channel. Transient dial failures are routed through the recovery path;
// credential failures are surfaced and terminal.
func (m *Manager) open(ctx context.Context, epoch uint64) error {
	m.mu.Lock()
	if epoch != m.epoch || m.phase == PhaseFailed {
		m.mu.Unlock()
		return nil
	}
	opts := DialOptions{
		Secret:       m.secret,
		PollInterval: m.cfg.PollInterval,
		Timeout:      m.cfg.ConnectTimeout,
	}
	if m.cfg.ConversationResume {
		if convID, watermark, ok := m.continuity.Resume(); ok {
			opts.ConversationID = convID
			opts.Watermark = watermark
		}
	}
	m.mu.Unlock()

	dialCtx, cancel := context.WithTimeout(ctx, m.cfg.ConnectTimeout)
	defer cancel()

	ch, err := m.dialer.Dial(dialCtx, opts)
	if err != nil {
		return m.dialFailed(epoch, err)
	}

	m.mu.Lock()
	if epoch != m.epoch {
		m.mu.Unlock()
		_ = ch.Close()
		return nil
	}
	m.channel = ch
	m.mu.Unlock()

	m.metrics.RecordConnectionOpened()
	go m.pumpActivities(epoch, ch)
	go m.pumpStatuses(epoch, ch)
	return nil
}

func (m *Manager) dialFailed(epoch uint64, err error) error {
	if retry.IsPermanent(err) || IsAuthError(err) {
		m.logger.Error("channel open rejected", "error", err)
		m.handleExpired(epoch, err)
		return err
	}
	m.logger.Warn("channel open failed", "error", err)
	m.handleRecoverable(epoch, models.StatusFailedToConnect)
	return nil // transient open failures recover internally
}

// pumpActivities forwards the channel's activity stream into the state
// machine, preserving arrival order.
func (m *Manager) pumpActivities(epoch uint64, ch Channel) {
	for inb := range ch.Activities() {
		m.handleActivity(epoch, inb)
	}
}

// pumpStatuses forwards the channel's status stream into the state machine.
func (m *Manager) pumpStatuses(epoch uint64, ch Channel) {
	for st := range ch.Statuses() {
		m.handleStatus(epoch, st)
	}
}

// handleStatus processes one transport status update.
func (m *Manager) handleStatus(epoch uint64, st models.ChannelStatus) {
	switch st {
	case models.StatusConnecting:
		m.mu.Lock()
		live := epoch == m.epoch && m.phase != PhaseFailed
		m.mu.Unlock()
		if live {
			m.emit(Event{Kind: EventConnecting, Message: "connecting to agent channel"})
		}
	case models.StatusOnline:
		m.handleOnline(epoch)
	case models.StatusExpiredToken:
		m.handleExpired(epoch, nil)
	case models.StatusFailedToConnect, models.StatusEnded:
		m.handleRecoverable(epoch, st)
	}
}

func (m *Manager) handleOnline(epoch uint64) {
	m.mu.Lock()
	if epoch != m.epoch || m.phase == PhaseFailed {
		m.mu.Unlock()
		return
	}
	m.phase = PhaseOnline
	m.retryCount = 0
	if !m.greetingDone {
		m.greetingDone = true
		m.scheduleGreetingLocked(epoch)
	}
	if m.cfg.AutoTokenRefresh && m.tokenTimer == nil {
		m.tokenTimer = m.clock.AfterFunc(m.cfg.TokenRefreshInterval, func() { m.refreshToken(epoch) })
	}
	m.mu.Unlock()

	m.health.SetStatus(true, "")
	m.logger.Info("online")
	m.emit(Event{Kind: EventOnline, Message: "connected to agent"})
}

// handleExpired surfaces a credential failure. Credential problems are not
// transient, so no reconnect is scheduled; the only way out is a new Connect
// with a fresh secret.
func (m *Manager) handleExpired(epoch uint64, cause error) {
	m.mu.Lock()
	if epoch != m.epoch || m.phase == PhaseFailed {
		m.mu.Unlock()
		return
	}
	m.phase = PhaseFailed
	m.epoch++
	m.stopAllTimersLocked()
	ch := m.channel
	m.channel = nil
	m.mu.Unlock()

	if ch != nil {
		_ = ch.Close()
		m.metrics.RecordConnectionClosed()
	}

	connErr := ErrTokenExpired("channel credentials rejected", cause)
	if cause != nil && GetErrorCode(cause) == ErrCodeAuthentication {
		connErr = ErrAuthentication("channel secret rejected", cause)
	}
	m.metrics.RecordError(connErr.Code)
	m.health.SetStatus(false, connErr.UserMessage())
	m.logger.Error("credentials rejected", "error", connErr)

	m.emit(Event{Kind: EventExpired, Message: connErr.UserMessage()})
	m.emit(Event{Kind: EventConnectionError, Message: connErr.UserMessage(), Err: connErr})
}

// handleRecoverable routes a transient failure through the recovery path:
// increment the retry counter, schedule a single reconnect with backoff, or
// give up once the retry budget is exhausted.
func (m *Manager) handleRecoverable(epoch uint64, st models.ChannelStatus) {
	m.mu.Lock()
	if epoch != m.epoch || m.phase == PhaseFailed {
		// A spurious status update after a terminal transition is a no-op.
		m.mu.Unlock()
		return
	}
	if m.reconnectTimer != nil {
		// At most one pending reconnect attempt.
		m.mu.Unlock()
		return
	}

	m.phase = PhaseRecovering
	m.retryCount++
	attempt := m.retryCount
	ch := m.channel
	m.channel = nil
	m.stopActivityTimersLocked()
	m.stopGreetingTimersLocked()

	if attempt > m.cfg.MaxRetries {
		m.phase = PhaseFailed
		m.epoch++
		m.stopAllTimersLocked()
		exhausted := m.cfg.MaxRetries
		m.mu.Unlock()

		if ch != nil {
			_ = ch.Close()
			m.metrics.RecordConnectionClosed()
		}
		connErr := ErrRetriesExhausted(
			fmt.Sprintf("gave up after %d reconnect attempts", exhausted), nil)
		m.metrics.RecordError(connErr.Code)
		m.health.SetStatus(false, connErr.UserMessage())
		m.logger.Error("reconnect budget exhausted", "attempts", exhausted)
		m.emit(Event{Kind: EventFailed, Message: connErr.UserMessage(), RetryCount: exhausted, Err: connErr})
		return
	}

	delay := m.cfg.Backoff.Delay(attempt)
	m.reconnectTimer = m.clock.AfterFunc(delay, func() { m.reconnect(epoch) })
	m.mu.Unlock()

	if ch != nil {
		_ = ch.Close()
		m.metrics.RecordConnectionClosed()
	}
	m.health.SetStatus(false, "reconnecting")
	m.logger.Warn("connection lost, reconnect scheduled",
		"status", string(st),
		"attempt", attempt,
		"max_retries", m.cfg.MaxRetries,
		"delay", delay,
	)

	if st == models.StatusEnded {
		m.emit(Event{Kind: EventEnded, Message: "the agent service closed the conversation; reconnecting"})
	} else {
		m.emit(Event{Kind: EventConnecting,
			Message: fmt.Sprintf("connection lost; retrying (attempt %d of %d)", attempt, m.cfg.MaxRetries)})
	}
}

// reconnect is the scheduled retry callback. The phase check is the guard
// against duplicate reconnection: if the manager was concurrently marked
// failed or disconnected, the attempt is a no-op even when the timer fired
// before it could be cleared.
func (m *Manager) reconnect(epoch uint64) {
	m.mu.Lock()
	if epoch != m.epoch || m.phase != PhaseRecovering {
		m.mu.Unlock()
		return
	}
	m.reconnectTimer = nil
	m.phase = PhaseConnecting
	attempt := m.retryCount
	m.mu.Unlock()

	m.metrics.RecordReconnectAttempt()
	m.logger.Info("reconnecting", "attempt", attempt)
	m.emit(Event{Kind: EventConnecting,
		Message: fmt.Sprintf("reconnecting (attempt %d of %d)", attempt, m.cfg.MaxRetries)})

	_ = m.open(context.Background(), epoch)
}

// handleActivity processes one inbound activity in arrival order.
func (m *Manager) handleActivity(epoch uint64, inb Inbound) {
	act := inb.Activity
	if act == nil {
		return
	}

	m.mu.Lock()
	if epoch != m.epoch || m.phase == PhaseFailed {
		m.mu.Unlock()
		return
	}
	now := m.clock.Now()

	// Any non-typing activity cancels a pending typing timeout before any
	// other processing.
	typingWasPending := false
	if act.Type != models.ActivityTyping && m.typingTimer != nil {
		m.typingTimer.Stop()
		m.typingTimer = nil
		typingWasPending = true
	}

	convID := ""
	if act.Conversation != nil {
		convID = act.Conversation.ID
	}
	m.continuity.Observe(convID, inb.Watermark)

	// Typing signals carry no content and must not count as the previous
	// arrival for the classifier's timing heuristics, or the response that
	// follows a typing indicator would always look like a stream chunk.
	prev := m.lastContentAt
	if act.Type != models.ActivityTyping {
		m.lastContentAt = now
	}

	fromAgent := m.cfg.UserID == "" || !act.IsFrom(m.cfg.UserID)
	if fromAgent && act.Type == models.ActivityMessage {
		m.agentResponded = true
	}

	m.metrics.RecordActivityReceived()
	m.health.UpdateLastPing()

	switch act.Type {
	case models.ActivityTyping:
		window := m.typing.Window(m.lastUserMsgLen, m.cfg.AdaptiveTyping)
		if m.typingTimer != nil {
			m.typingTimer.Stop()
		}
		m.typingGen++
		gen := m.typingGen
		m.typingTimer = m.clock.AfterFunc(window, func() { m.typingTimedOut(epoch, gen) })
		m.mu.Unlock()
		m.emit(Event{Kind: EventShowTyping, Activity: act, Timestamp: now})

	case models.ActivityConversationUpdate:
		m.mu.Unlock()
		m.emit(Event{Kind: EventConversationUpdate, Activity: act, Timestamp: now})

	case models.ActivityMessage:
		m.handleMessageLocked(epoch, act, prev, now, typingWasPending)

	default:
		// event, endOfConversation, and unknown kinds surface as-is.
		m.mu.Unlock()
		m.emit(Event{Kind: EventEventActivity, Activity: act, Timestamp: now})
	}
}

// handleMessageLocked classifies a message activity and emits the matching
// streaming or complete event. Called with the mutex held; releases it.
func (m *Manager) handleMessageLocked(epoch uint64, act *models.Activity, prev, now time.Time, typingWasPending bool) {
	cls := m.classifier.Annotate(act, prev, now)

	switch cls.Verdict {
	case VerdictStreamChunk:
		if m.streamStart.IsZero() {
			m.streamStart = now
			m.chunkIndex = 0
		}
		m.chunkIndex++
		index := m.chunkIndex
		elapsed := now.Sub(m.streamStart)
		m.lastChunk = cls.Activity
		if m.streamTimer != nil {
			m.streamTimer.Stop()
		}
		m.streamGen++
		gen := m.streamGen
		m.streamTimer = m.clock.AfterFunc(m.cfg.StreamSafetyTimeout, func() { m.streamTimedOut(epoch, gen) })
		m.mu.Unlock()

		m.metrics.RecordStreamChunk()
		if typingWasPending {
			m.emit(Event{Kind: EventHideTyping, Reason: HideChunkArrived, Timestamp: now})
		}
		m.emit(Event{
			Kind:         EventStreamingActivity,
			Activity:     cls.Activity,
			Timestamp:    now,
			ChunkIndex:   index,
			StreamingFor: elapsed,
		})

	case VerdictStreamEnd:
		index := m.chunkIndex + 1
		var elapsed time.Duration
		if !m.streamStart.IsZero() {
			elapsed = now.Sub(m.streamStart)
		}
		m.resetStreamLocked()
		m.mu.Unlock()

		m.metrics.RecordStreamEnd()
		if typingWasPending {
			m.emit(Event{Kind: EventHideTyping, Reason: HideChunkArrived, Timestamp: now})
		}
		m.emit(Event{
			Kind:         EventStreamingEnd,
			Activity:     cls.Activity,
			Timestamp:    now,
			ChunkIndex:   index,
			StreamingFor: elapsed,
		})

	default: // VerdictComplete
		// A complete message implicitly closes any open stream.
		m.resetStreamLocked()
		m.mu.Unlock()

		m.metrics.RecordCompleteMessage()
		if typingWasPending {
			m.emit(Event{Kind: EventHideTyping, Reason: HideChunkArrived, Timestamp: now})
		}
		m.emit(Event{Kind: EventCompleteMessage, Activity: cls.Activity, Timestamp: now})
	}
}

// typingTimedOut is the scheduled typing self-heal: if no activity suppressed
// the timer, hide the indicator with reason timeout.
func (m *Manager) typingTimedOut(epoch, gen uint64) {
	m.mu.Lock()
	if epoch != m.epoch || gen != m.typingGen || m.typingTimer == nil {
		m.mu.Unlock()
		return
	}
	m.typingTimer = nil
	m.mu.Unlock()

	m.metrics.RecordTypingTimeout()
	m.emit(Event{Kind: EventHideTyping, Reason: HideTimeout})
}

// streamTimedOut is the streaming safety net: a stream that never received
// an end marker is closed with a synthesized terminator.
func (m *Manager) streamTimedOut(epoch, gen uint64) {
	m.mu.Lock()
	if epoch != m.epoch || gen != m.streamGen || m.streamTimer == nil || m.streamStart.IsZero() {
		m.mu.Unlock()
		return
	}
	m.streamTimer = nil
	index := m.chunkIndex
	elapsed := m.clock.Now().Sub(m.streamStart)
	last := m.lastChunk
	m.resetStreamLocked()
	m.mu.Unlock()

	m.metrics.RecordStreamEnd()
	m.logger.Debug("stream closed by safety timeout", "chunks", index, "elapsed", elapsed)
	m.emit(Event{
		Kind:         EventStreamingEnd,
		Activity:     last,
		Message:      "stream closed by safety timeout",
		ChunkIndex:   index,
		StreamingFor: elapsed,
	})
}

// healthProbe emits a periodic quality event and reschedules itself while
// the connection is live. The cadence is fixed and independent of backoff.
func (m *Manager) healthProbe(epoch uint64) {
	m.mu.Lock()
	if epoch != m.epoch || m.phase == PhaseFailed || m.phase == PhaseUninitialized {
		m.healthTimer = nil
		m.mu.Unlock()
		return
	}
	m.healthTimer = m.clock.AfterFunc(m.cfg.HealthProbeInterval, func() { m.healthProbe(epoch) })
	phase := m.phase
	m.mu.Unlock()

	quality := QualityDegraded
	if phase == PhaseOnline && !m.health.IsDegraded() {
		quality = QualityExcellent
	}
	m.emit(Event{Kind: EventHealthUpdate, Quality: quality, Message: string(phase)})
}

// refreshToken exchanges the session token on its fixed cadence while the
// connection is live.
func (m *Manager) refreshToken(epoch uint64) {
	m.mu.Lock()
	if epoch != m.epoch || m.phase == PhaseFailed {
		m.tokenTimer = nil
		m.mu.Unlock()
		return
	}
	ch := m.channel
	m.tokenTimer = m.clock.AfterFunc(m.cfg.TokenRefreshInterval, func() { m.refreshToken(epoch) })
	m.mu.Unlock()

	if ch == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.ConnectTimeout)
	defer cancel()
	if err := ch.RefreshToken(ctx); err != nil {
		m.logger.Warn("token refresh failed", "error", err)
		m.metrics.RecordError(GetErrorCode(err))
		return
	}
	m.logger.Debug("token refreshed")
}

// emit publishes an event on the outbound channel. A full buffer drops the
// event rather than blocking the state machine.
func (m *Manager) emit(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = m.clock.Now()
	}
	select {
	case m.events <- ev:
	default:
		m.metrics.RecordEventDropped()
		m.logger.Warn("event buffer full, dropping event", "kind", string(ev.Kind))
	}
}

func (m *Manager) userAccount() models.ChannelAccount {
	id := m.cfg.UserID
	if id == "" {
		id = "user"
	}
	return models.ChannelAccount{ID: id, Name: m.cfg.UserName}
}

// resetStreamLocked clears streaming progress and stops the safety timer.
func (m *Manager) resetStreamLocked() {
	m.streamStart = time.Time{}
	m.chunkIndex = 0
	m.lastChunk = nil
	if m.streamTimer != nil {
		m.streamTimer.Stop()
		m.streamTimer = nil
	}
}

// stopActivityTimersLocked stops the typing and streaming timers.
func (m *Manager) stopActivityTimersLocked() {
	if m.typingTimer != nil {
		m.typingTimer.Stop()
		m.typingTimer = nil
	}
	if m.streamTimer != nil {
		m.streamTimer.Stop()
		m.streamTimer = nil
	}
}

func (m *Manager) stopGreetingTimersLocked() {
	for _, t := range m.greetingTimers {
		t.Stop()
	}
	m.greetingTimers = nil
}

// stopAllTimersLocked cancels every outstanding timer so no orphaned
// callback can later mutate stale state.
func (m *Manager) stopAllTimersLocked() {
	m.stopActivityTimersLocked()
	m.stopGreetingTimersLocked()
	if m.reconnectTimer != nil {
		m.reconnectTimer.Stop()
		m.reconnectTimer = nil
	}
	if m.healthTimer != nil {
		m.healthTimer.Stop()
		m.healthTimer = nil
	}
	if m.tokenTimer != nil {
		m.tokenTimer.Stop()
		m.tokenTimer = nil
	}
}
