// Package directline implements the Direct Line 3.0 transport: conversation
// lifecycle over HTTPS plus activity delivery over websocket, with HTTP
// polling as the fallback.
package directline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/haasonsaas/agentline/internal/connection"
	"github.com/haasonsaas/agentline/internal/retry"
	"github.com/haasonsaas/agentline/pkg/models"
)

const (
	// DefaultEndpoint is the public Direct Line service.
	DefaultEndpoint = "https://directline.botframework.com"

	apiBase = "/v3/directline"

	// maxErrorBody bounds how much of an error response body is read.
	maxErrorBody = 8 << 10
)

// Config configures the Direct Line client.
type Config struct {
	// Endpoint is the service base URL. Defaults to DefaultEndpoint.
	Endpoint string

	// HTTPClient is used for all REST calls. A default with a 30s timeout
	// applies when nil.
	HTTPClient *http.Client

	// PreferPolling forces HTTP polling even when the service advertises a
	// websocket stream URL.
	PreferPolling bool

	Logger *slog.Logger
}

// Client opens Direct Line conversations. It implements connection.Dialer.
type Client struct {
	endpoint      string
	httpClient    *http.Client
	preferPolling bool
	logger        *slog.Logger
}

// NewClient creates a Direct Line client.
func NewClient(cfg Config) *Client {
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		endpoint:      endpoint,
		httpClient:    httpClient,
		preferPolling: cfg.PreferPolling,
		logger:        logger.With("component", "directline"),
	}
}

// conversationResponse is the service's conversation descriptor.
type conversationResponse struct {
	ConversationID string `json:"conversationId"`
	Token          string `json:"token"`
	ExpiresIn      int    `json:"expires_in"`
	StreamURL      string `json:"streamUrl"`
}

// Dial starts or resumes a conversation and returns a live channel.
// Credential rejections come back wrapped as permanent so callers do not
// retry them.
func (c *Client) Dial(ctx context.Context, opts connection.DialOptions) (connection.Channel, error) {
	var (
		conv *conversationResponse
		err  error
	)
	if opts.ConversationID != "" {
		conv, err = c.reconnectConversation(ctx, opts)
	} else {
		conv, err = c.startConversation(ctx, opts.Secret)
	}
	if err != nil {
		return nil, err
	}

	pollInterval := opts.PollInterval
	if pollInterval <= 0 {
		pollInterval = time.Second
	}

	s := newSession(sessionConfig{
		client:         c,
		conversationID: conv.ConversationID,
		token:          conv.Token,
		streamURL:      conv.StreamURL,
		watermark:      opts.Watermark,
		pollInterval:   pollInterval,
		usePolling:     c.preferPolling || conv.StreamURL == "",
		logger:         c.logger,
	})
	s.start()
	return s, nil
}

// startConversation opens a fresh conversation with the channel secret.
func (c *Client) startConversation(ctx context.Context, secret string) (*conversationResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint+apiBase+"/conversations", nil)
	if err != nil {
		return nil, connection.ErrConnection("failed to build conversation request", err)
	}
	req.Header.Set("Authorization", "Bearer "+secret)

	return c.doConversation(req)
}

// reconnectConversation resumes an existing conversation from a watermark.
func (c *Client) reconnectConversation(ctx context.Context, opts connection.DialOptions) (*conversationResponse, error) {
	u := fmt.Sprintf("%s%s/conversations/%s", c.endpoint, apiBase, url.PathEscape(opts.ConversationID))
	if opts.Watermark != "" {
		u += "?watermark=" + url.QueryEscape(opts.Watermark)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, connection.ErrConnection("failed to build reconnect request", err)
	}
	req.Header.Set("Authorization", "Bearer "+opts.Secret)

	c.logger.Debug("resuming conversation",
		"conversation_id", opts.ConversationID, "watermark", opts.Watermark)
	return c.doConversation(req)
}

func (c *Client) doConversation(req *http.Request) (*conversationResponse, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, connection.ErrConnection("conversation request failed", err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return nil, err
	}

	var conv conversationResponse
	if err := json.NewDecoder(resp.Body).Decode(&conv); err != nil {
		return nil, connection.ErrConnection("failed to decode conversation response", err)
	}
	if conv.ConversationID == "" {
		return nil, connection.ErrConnection("service returned no conversation id", nil)
	}
	return &conv, nil
}

// checkResponse maps a non-2xx response to a classified error. 401 and 403
// are permanent credential failures; everything else is transient.
func checkResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	cause := fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return retry.Permanent(connection.ErrAuthentication("service rejected credentials", cause))
	case http.StatusNotFound:
		return connection.ErrEnded("conversation no longer exists", cause)
	default:
		return connection.ErrConnection("service request failed", cause)
	}
}

// postActivity sends one activity and returns the server-assigned id.
func (c *Client) postActivity(ctx context.Context, conversationID, token string, act *models.Activity) (string, error) {
	payload, err := json.Marshal(act)
	if err != nil {
		return "", connection.ErrInvalidInput("failed to encode activity", err)
	}

	u := fmt.Sprintf("%s%s/conversations/%s/activities",
		c.endpoint, apiBase, url.PathEscape(conversationID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(string(payload)))
	if err != nil {
		return "", connection.ErrConnection("failed to build activity request", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", connection.ErrConnection("activity request failed", err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return "", err
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", connection.ErrConnection("failed to decode activity response", err)
	}
	return result.ID, nil
}

// getActivities polls for activities after the given watermark.
func (c *Client) getActivities(ctx context.Context, conversationID, token, watermark string) (*models.ActivitySet, error) {
	u := fmt.Sprintf("%s%s/conversations/%s/activities",
		c.endpoint, apiBase, url.PathEscape(conversationID))
	if watermark != "" {
		u += "?watermark=" + url.QueryEscape(watermark)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, connection.ErrConnection("failed to build activities request", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, connection.ErrConnection("activities request failed", err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return nil, err
	}

	var set models.ActivitySet
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, connection.ErrConnection("failed to decode activity set", err)
	}
	return &set, nil
}

// refreshToken exchanges the session token for a fresh one.
func (c *Client) refreshToken(ctx context.Context, token string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint+apiBase+"/tokens/refresh", nil)
	if err != nil {
		return "", connection.ErrConnection("failed to build token refresh request", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", connection.ErrConnection("token refresh request failed", err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return "", err
	}

	var result struct {
		Token     string `json:"token"`
		ExpiresIn int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", connection.ErrConnection("failed to decode token response", err)
	}
	if result.Token == "" {
		return "", connection.ErrTokenExpired("service returned no refreshed token", nil)
	}
	return result.Token, nil
}
