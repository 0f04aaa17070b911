package connection

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_ErrorAndUnwrap(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := ErrConnection("failed to open channel", cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}

	var connErr *Error
	if !errors.As(err, &connErr) {
		t.Fatal("expected errors.As to match *Error")
	}
	if connErr.Code != ErrCodeConnection {
		t.Errorf("expected CONNECTION_ERROR, got %s", connErr.Code)
	}

	msg := err.Error()
	if msg != "[CONNECTION_ERROR] failed to open channel: dial tcp: connection refused" {
		t.Errorf("unexpected error string %q", msg)
	}
}

func TestError_IsRetryable(t *testing.T) {
	tests := []struct {
		err  *Error
		want bool
	}{
		{ErrConnection("net down", nil), true},
		{ErrEnded("server closed", nil), true},
		{ErrAuthentication("bad secret", nil), false},
		{ErrTokenExpired("expired", nil), false},
		{ErrTransportUnavailable("no transport", nil), false},
		{ErrRetriesExhausted("gave up", nil), false},
		{ErrNotConnected("offline", nil), false},
		{ErrInvalidInput("empty secret", nil), false},
	}
	for _, tt := range tests {
		if got := tt.err.IsRetryable(); got != tt.want {
			t.Errorf("%s: IsRetryable() = %v, want %v", tt.err.Code, got, tt.want)
		}
	}
}

func TestError_UserMessageNeverLeaksTransportDetails(t *testing.T) {
	raw := "read tcp 10.0.0.1:443: i/o timeout"
	for _, err := range []*Error{
		ErrConnection("send failed", fmt.Errorf("%s", raw)),
		ErrAuthentication("rejected", fmt.Errorf("%s", raw)),
		ErrTokenExpired("expired", fmt.Errorf("%s", raw)),
		ErrRetriesExhausted("gave up", fmt.Errorf("%s", raw)),
	} {
		msg := err.UserMessage()
		if msg == "" {
			t.Errorf("%s: empty user message", err.Code)
		}
		if msg == raw || msg == err.Message {
			t.Errorf("%s: user message leaks internals: %q", err.Code, msg)
		}
	}
}

func TestError_WithContext(t *testing.T) {
	err := ErrConnection("send failed", nil).
		WithContext("conversation_id", "conv-1").
		WithContext("attempt", 2)

	if err.Context["conversation_id"] != "conv-1" {
		t.Errorf("missing context value, got %v", err.Context)
	}
	if err.Context["attempt"] != 2 {
		t.Errorf("missing context value, got %v", err.Context)
	}
}

func TestGetErrorCode(t *testing.T) {
	if got := GetErrorCode(ErrTokenExpired("expired", nil)); got != ErrCodeTokenExpired {
		t.Errorf("expected TOKEN_EXPIRED, got %s", got)
	}
	if got := GetErrorCode(fmt.Errorf("plain")); got != ErrCodeConnection {
		t.Errorf("unclassified errors default to CONNECTION_ERROR, got %s", got)
	}
	wrapped := fmt.Errorf("outer: %w", ErrAuthentication("bad secret", nil))
	if got := GetErrorCode(wrapped); got != ErrCodeAuthentication {
		t.Errorf("expected AUTH_ERROR through wrapping, got %s", got)
	}
}

func TestIsAuthError(t *testing.T) {
	if !IsAuthError(ErrAuthentication("bad secret", nil)) {
		t.Error("AUTH_ERROR should be an auth error")
	}
	if !IsAuthError(ErrTokenExpired("expired", nil)) {
		t.Error("TOKEN_EXPIRED should be an auth error")
	}
	if IsAuthError(ErrConnection("net down", nil)) {
		t.Error("CONNECTION_ERROR is not an auth error")
	}
}

func TestUserMessageFallback(t *testing.T) {
	if msg := UserMessage(fmt.Errorf("raw")); msg != "the connection to the agent failed" {
		t.Errorf("unexpected fallback message %q", msg)
	}
	if msg := UserMessage(ErrNotConnected("offline", nil)); msg != "not connected to the agent; connect before sending" {
		t.Errorf("unexpected message %q", msg)
	}
}
