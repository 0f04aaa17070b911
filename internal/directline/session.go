package directline

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/haasonsaas/agentline/internal/connection"
	"github.com/haasonsaas/agentline/pkg/models"
)

const (
	// maxStreamFrame bounds a single websocket frame.
	maxStreamFrame = 1 << 20

	// pollFailureLimit is how many consecutive poll failures count as a
	// lost connection.
	pollFailureLimit = 3
)

type sessionConfig struct {
	client         *Client
	conversationID string
	token          string
	streamURL      string
	watermark      string
	pollInterval   time.Duration
	usePolling     bool
	logger         *slog.Logger
}

// session is one live conversation. It implements connection.Channel,
// delivering inbound activities over a websocket stream or, when the
// service offers none, by polling the activities endpoint.
type session struct {
	client         *Client
	conversationID string
	streamURL      string
	pollInterval   time.Duration
	usePolling     bool
	logger         *slog.Logger

	acts  chan connection.Inbound
	stats chan models.ChannelStatus

	mu        sync.Mutex
	token     string
	watermark string

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

func newSession(cfg sessionConfig) *session {
	ctx, cancel := context.WithCancel(context.Background())
	return &session{
		client:         cfg.client,
		conversationID: cfg.conversationID,
		streamURL:      cfg.streamURL,
		pollInterval:   cfg.pollInterval,
		usePolling:     cfg.usePolling,
		logger:         cfg.logger.With("conversation_id", cfg.conversationID),
		acts:           make(chan connection.Inbound, 64),
		stats:          make(chan models.ChannelStatus, 16),
		token:          cfg.token,
		watermark:      cfg.watermark,
		ctx:            ctx,
		cancel:         cancel,
	}
}

func (s *session) start() {
	go s.run()
}

func (s *session) Activities() <-chan connection.Inbound {
	return s.acts
}

func (s *session) Statuses() <-chan models.ChannelStatus {
	return s.stats
}

func (s *session) ConversationID() string {
	return s.conversationID
}

// Send posts one activity on the conversation.
func (s *session) Send(ctx context.Context, act *models.Activity) (string, error) {
	return s.client.postActivity(ctx, s.conversationID, s.currentToken(), act)
}

// RefreshToken exchanges the session token and swaps it in for subsequent
// requests.
func (s *session) RefreshToken(ctx context.Context) error {
	token, err := s.client.refreshToken(ctx, s.currentToken())
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

// Close stops the stream. The activity and status channels close once the
// run loop drains out.
func (s *session) Close() error {
	s.closeOnce.Do(s.cancel)
	return nil
}

func (s *session) currentToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *session) currentWatermark() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watermark
}

func (s *session) setWatermark(watermark string) {
	if watermark == "" {
		return
	}
	s.mu.Lock()
	s.watermark = watermark
	s.mu.Unlock()
}

// run owns the inbound side of the session. It publishes numeric transport
// codes translated to channel statuses, delivers activities, and closes both
// channels on exit.
func (s *session) run() {
	defer close(s.acts)
	defer close(s.stats)

	s.publish(codeConnecting)

	var code connectionCode
	if s.usePolling {
		code = s.poll()
	} else {
		code = s.stream()
	}
	if s.ctx.Err() != nil {
		// Local close: the manager already knows, no terminal status.
		return
	}
	s.publish(code)
}

// publish forwards one transport code as a channel status. Cancellation wins
// over a slow consumer.
func (s *session) publish(code connectionCode) {
	select {
	case s.stats <- code.channelStatus():
	case <-s.ctx.Done():
	}
}

// deliver forwards one inbound activity, tagging it with the set watermark.
func (s *session) deliver(act *models.Activity, watermark string) bool {
	select {
	case s.acts <- connection.Inbound{Activity: act, Watermark: watermark}:
		return true
	case <-s.ctx.Done():
		return false
	}
}

// stream reads activity sets from the websocket until the connection drops.
// The returned code describes why it stopped.
func (s *session) stream() connectionCode {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+s.currentToken())

	dialer := websocket.Dialer{HandshakeTimeout: 20 * time.Second}
	conn, resp, err := dialer.DialContext(s.ctx, s.streamURL, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			s.logger.Error("websocket handshake rejected", "status", resp.StatusCode)
			return codeExpiredToken
		}
		s.logger.Warn("websocket dial failed", "error", err)
		return codeFailedToConnect
	}
	defer conn.Close()
	conn.SetReadLimit(maxStreamFrame)

	// Unblock ReadMessage on local close.
	go func() {
		<-s.ctx.Done()
		conn.Close()
	}()

	s.publish(codeOnline)
	s.logger.Debug("websocket stream established")

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if s.ctx.Err() != nil {
				return codeEnded
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Info("websocket closed by service")
				return codeEnded
			}
			s.logger.Warn("websocket read failed", "error", err)
			return codeFailedToConnect
		}

		// The service sends empty frames as keepalives.
		if len(payload) == 0 {
			continue
		}

		var set models.ActivitySet
		if err := json.Unmarshal(payload, &set); err != nil {
			s.logger.Warn("dropping malformed activity set", "error", err)
			continue
		}
		s.setWatermark(set.Watermark)
		for _, act := range set.Activities {
			if !s.deliver(act, set.Watermark) {
				return codeEnded
			}
		}
	}
}

// poll fetches activities on a fixed interval. A run of consecutive failures
// counts as a lost connection so recovery can take over.
func (s *session) poll() connectionCode {
	s.publish(codeOnline)
	s.logger.Debug("polling for activities", "interval", s.pollInterval)

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-s.ctx.Done():
			return codeEnded
		case <-ticker.C:
		}

		set, err := s.client.getActivities(s.ctx, s.conversationID, s.currentToken(), s.currentWatermark())
		if err != nil {
			if errors.Is(err, context.Canceled) || s.ctx.Err() != nil {
				return codeEnded
			}
			if connection.IsAuthError(err) {
				return codeExpiredToken
			}
			var connErr *connection.Error
			if errors.As(err, &connErr) && connErr.Code == connection.ErrCodeEnded {
				return codeEnded
			}
			failures++
			s.logger.Warn("activity poll failed", "failures", failures, "error", err)
			if failures >= pollFailureLimit {
				return codeFailedToConnect
			}
			continue
		}
		failures = 0
		s.setWatermark(set.Watermark)
		for _, act := range set.Activities {
			if !s.deliver(act, set.Watermark) {
				return codeEnded
			}
		}
	}
}
