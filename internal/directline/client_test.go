package directline

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/haasonsaas/agentline/internal/connection"
	"github.com/haasonsaas/agentline/internal/retry"
	"github.com/haasonsaas/agentline/pkg/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitStatus(t *testing.T, ch connection.Channel, want models.ChannelStatus) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case st, ok := <-ch.Statuses():
			if !ok {
				t.Fatalf("status channel closed while waiting for %s", want)
			}
			if st == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for status %s", want)
		}
	}
}

func waitActivity(t *testing.T, ch connection.Channel) connection.Inbound {
	t.Helper()
	select {
	case inb, ok := <-ch.Activities():
		if !ok {
			t.Fatal("activity channel closed while waiting for an activity")
		}
		return inb
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for an activity")
	}
	return connection.Inbound{}
}

func conversationJSON(id, token, streamURL string) string {
	conv := conversationResponse{
		ConversationID: id,
		Token:          token,
		ExpiresIn:      1800,
		StreamURL:      streamURL,
	}
	b, _ := json.Marshal(conv)
	return string(b)
}

func TestClient_DialWebSocketStream(t *testing.T) {
	upgrader := websocket.Upgrader{}
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	var gotAuth string
	mux.HandleFunc("/v3/directline/conversations", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		gotAuth = r.Header.Get("Authorization")
		streamURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/stream"
		io.WriteString(w, conversationJSON("conv-1", "token-1", streamURL))
	})
	mux.HandleFunc("/stream", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		// Keepalive frames are empty and must be skipped.
		conn.WriteMessage(websocket.TextMessage, []byte{})

		set := models.ActivitySet{
			Activities: []*models.Activity{{
				Type: models.ActivityMessage,
				From: models.ChannelAccount{ID: "agent-1"},
				Text: "hello from the agent",
			}},
			Watermark: "7",
		}
		payload, _ := json.Marshal(&set)
		conn.WriteMessage(websocket.TextMessage, payload)

		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		// Give the client a moment to read the close frame.
		conn.ReadMessage()
	})

	c := NewClient(Config{Endpoint: srv.URL, Logger: testLogger()})
	ch, err := c.Dial(context.Background(), connection.DialOptions{Secret: "secret-1"})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer ch.Close()

	if gotAuth != "Bearer secret-1" {
		t.Errorf("expected bearer secret on conversation start, got %q", gotAuth)
	}
	if ch.ConversationID() != "conv-1" {
		t.Errorf("ConversationID = %q, want conv-1", ch.ConversationID())
	}

	waitStatus(t, ch, models.StatusOnline)

	inb := waitActivity(t, ch)
	if inb.Activity.Text != "hello from the agent" {
		t.Errorf("unexpected activity text %q", inb.Activity.Text)
	}
	if inb.Watermark != "7" {
		t.Errorf("expected watermark 7, got %q", inb.Watermark)
	}

	// Normal server close surfaces as a recoverable ended status.
	waitStatus(t, ch, models.StatusEnded)
}

func TestClient_DialRejectedCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid secret", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(Config{Endpoint: srv.URL, Logger: testLogger()})
	_, err := c.Dial(context.Background(), connection.DialOptions{Secret: "bad"})
	if err == nil {
		t.Fatal("expected dial to fail")
	}
	if !retry.IsPermanent(err) {
		t.Error("credential rejection must be permanent")
	}
	if !connection.IsAuthError(err) {
		t.Errorf("expected auth error, got %v", err)
	}
}

func TestClient_DialResumesConversation(t *testing.T) {
	var gotPath, gotWatermark string
	mux := http.NewServeMux()
	mux.HandleFunc("/v3/directline/conversations/conv-9", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET on reconnect, got %s", r.Method)
		}
		gotPath = r.URL.Path
		gotWatermark = r.URL.Query().Get("watermark")
		io.WriteString(w, conversationJSON("conv-9", "token-9", ""))
	})
	mux.HandleFunc("/v3/directline/conversations/conv-9/activities", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"activities":[],"watermark":"42"}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(Config{Endpoint: srv.URL, Logger: testLogger()})
	ch, err := c.Dial(context.Background(), connection.DialOptions{
		Secret:         "secret-1",
		ConversationID: "conv-9",
		Watermark:      "42",
		PollInterval:   10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer ch.Close()

	if gotPath != "/v3/directline/conversations/conv-9" {
		t.Errorf("unexpected reconnect path %q", gotPath)
	}
	if gotWatermark != "42" {
		t.Errorf("expected watermark 42 on reconnect, got %q", gotWatermark)
	}
	waitStatus(t, ch, models.StatusOnline)
}

func TestClient_PollingDeliversActivities(t *testing.T) {
	var mu sync.Mutex
	polls := 0

	mux := http.NewServeMux()
	mux.HandleFunc("/v3/directline/conversations", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, conversationJSON("conv-2", "token-2", ""))
	})
	mux.HandleFunc("/v3/directline/conversations/conv-2/activities", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		polls++
		n := polls
		mu.Unlock()
		if n == 1 {
			io.WriteString(w, `{"activities":[{"type":"message","text":"polled reply","from":{"id":"agent-1"}}],"watermark":"3"}`)
			return
		}
		io.WriteString(w, `{"activities":[],"watermark":"3"}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(Config{Endpoint: srv.URL, Logger: testLogger()})
	ch, err := c.Dial(context.Background(), connection.DialOptions{
		Secret:       "secret-1",
		PollInterval: 10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer ch.Close()

	waitStatus(t, ch, models.StatusOnline)
	inb := waitActivity(t, ch)
	if inb.Activity.Text != "polled reply" {
		t.Errorf("unexpected activity %q", inb.Activity.Text)
	}
	if inb.Watermark != "3" {
		t.Errorf("expected watermark 3, got %q", inb.Watermark)
	}
}

func TestClient_PollingFailuresMarkConnectionLost(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v3/directline/conversations", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, conversationJSON("conv-3", "token-3", ""))
	})
	mux.HandleFunc("/v3/directline/conversations/conv-3/activities", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(Config{Endpoint: srv.URL, Logger: testLogger()})
	ch, err := c.Dial(context.Background(), connection.DialOptions{
		Secret:       "secret-1",
		PollInterval: 5 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer ch.Close()

	waitStatus(t, ch, models.StatusOnline)
	// Three consecutive failures give up on the session.
	waitStatus(t, ch, models.StatusFailedToConnect)
}

func TestClient_SendAndRefreshToken(t *testing.T) {
	var mu sync.Mutex
	var sendAuths []string
	var received models.Activity

	mux := http.NewServeMux()
	mux.HandleFunc("/v3/directline/conversations", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, conversationJSON("conv-4", "token-4", ""))
	})
	mux.HandleFunc("/v3/directline/conversations/conv-4/activities", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			io.WriteString(w, `{"activities":[]}`)
			return
		}
		mu.Lock()
		sendAuths = append(sendAuths, r.Header.Get("Authorization"))
		mu.Unlock()
		json.NewDecoder(r.Body).Decode(&received)
		io.WriteString(w, `{"id":"act-99"}`)
	})
	mux.HandleFunc("/v3/directline/tokens/refresh", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token-4" {
			t.Errorf("refresh used %q, want the session token", got)
		}
		io.WriteString(w, `{"token":"token-5","expires_in":1800}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(Config{Endpoint: srv.URL, Logger: testLogger(), PreferPolling: true})
	ch, err := c.Dial(context.Background(), connection.DialOptions{
		Secret:       "secret-1",
		PollInterval: time.Minute, // keep polling out of the way
	})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer ch.Close()

	id, err := ch.Send(context.Background(), &models.Activity{
		Type: models.ActivityMessage,
		From: models.ChannelAccount{ID: "user-1"},
		Text: "hello agent",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if id != "act-99" {
		t.Errorf("Send returned id %q, want act-99", id)
	}
	if received.Text != "hello agent" {
		t.Errorf("server received %q", received.Text)
	}

	if err := ch.RefreshToken(context.Background()); err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}
	if _, err := ch.Send(context.Background(), &models.Activity{Type: models.ActivityMessage, Text: "again"}); err != nil {
		t.Fatalf("Send after refresh: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(sendAuths) != 2 || sendAuths[0] != "Bearer token-4" || sendAuths[1] != "Bearer token-5" {
		t.Errorf("send authorizations = %v", sendAuths)
	}
}

func TestCheckResponse(t *testing.T) {
	tests := []struct {
		status  int
		wantErr connection.ErrorCode
	}{
		{http.StatusUnauthorized, connection.ErrCodeAuthentication},
		{http.StatusForbidden, connection.ErrCodeAuthentication},
		{http.StatusNotFound, connection.ErrCodeEnded},
		{http.StatusInternalServerError, connection.ErrCodeConnection},
	}
	for _, tt := range tests {
		resp := &http.Response{
			StatusCode: tt.status,
			Body:       io.NopCloser(strings.NewReader("nope")),
		}
		err := checkResponse(resp)
		if got := connection.GetErrorCode(err); got != tt.wantErr {
			t.Errorf("status %d: code = %s, want %s", tt.status, got, tt.wantErr)
		}
	}

	ok := &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(""))}
	if err := checkResponse(ok); err != nil {
		t.Errorf("2xx should pass, got %v", err)
	}
}
