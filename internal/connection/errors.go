package connection

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific failure class in connection operations.
// The code decides whether the manager retries and what the user sees.
type ErrorCode string

const (
	// ErrCodeTransportUnavailable indicates the underlying transport
	// cannot be loaded at all. Fatal, no retry.
	ErrCodeTransportUnavailable ErrorCode = "TRANSPORT_UNAVAILABLE"

	// ErrCodeAuthentication indicates an invalid secret or token.
	// Fatal, no retry; the caller must supply a new secret.
	ErrCodeAuthentication ErrorCode = "AUTH_ERROR"

	// ErrCodeTokenExpired indicates the session token expired mid-session.
	// Fatal like an auth error.
	ErrCodeTokenExpired ErrorCode = "TOKEN_EXPIRED"

	// ErrCodeConnection indicates a transient network or connect failure,
	// retryable via backoff.
	ErrCodeConnection ErrorCode = "CONNECTION_ERROR"

	// ErrCodeEnded indicates a server-initiated close, retryable via
	// backoff up to the limit.
	ErrCodeEnded ErrorCode = "CONNECTION_ENDED"

	// ErrCodeRetriesExhausted is terminal; only an explicit new Connect
	// leaves this state.
	ErrCodeRetriesExhausted ErrorCode = "MAX_RETRIES_EXHAUSTED"

	// ErrCodeNotConnected indicates an operation that requires an online
	// channel was attempted without one.
	ErrCodeNotConnected ErrorCode = "NOT_CONNECTED"

	// ErrCodeInvalidInput indicates invalid configuration or arguments.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Error is a structured connection error carrying a classification code,
// a user-presentable message, and the underlying cause.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error so errors.Is and errors.As work.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithContext adds contextual information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// IsRetryable reports whether the failure class is transient.
func (e *Error) IsRetryable() bool {
	switch e.Code {
	case ErrCodeConnection, ErrCodeEnded:
		return true
	default:
		return false
	}
}

// UserMessage returns the actionable, user-facing description of the error,
// never a raw transport error string.
func (e *Error) UserMessage() string {
	switch e.Code {
	case ErrCodeTransportUnavailable:
		return "chat transport is unavailable; the client cannot reach any channel implementation"
	case ErrCodeAuthentication:
		return "the channel secret was rejected; check your credentials and reconnect"
	case ErrCodeTokenExpired:
		return "the session token expired; reconnect with a fresh secret"
	case ErrCodeConnection:
		return "the agent service is unreachable; retrying in the background"
	case ErrCodeEnded:
		return "the agent service closed the conversation; attempting to resume"
	case ErrCodeRetriesExhausted:
		return "could not restore the connection after repeated attempts; reconnect manually"
	case ErrCodeNotConnected:
		return "not connected to the agent; connect before sending"
	default:
		return e.Message
	}
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// ErrTransportUnavailable creates a transport-unavailable error.
func ErrTransportUnavailable(message string, err error) *Error {
	return NewError(ErrCodeTransportUnavailable, message, err)
}

// ErrAuthentication creates an authentication error.
func ErrAuthentication(message string, err error) *Error {
	return NewError(ErrCodeAuthentication, message, err)
}

// ErrTokenExpired creates an expired-token error.
func ErrTokenExpired(message string, err error) *Error {
	return NewError(ErrCodeTokenExpired, message, err)
}

// ErrConnection creates a transient connection error.
func ErrConnection(message string, err error) *Error {
	return NewError(ErrCodeConnection, message, err)
}

// ErrEnded creates a server-initiated close error.
func ErrEnded(message string, err error) *Error {
	return NewError(ErrCodeEnded, message, err)
}

// ErrRetriesExhausted creates a terminal retries-exhausted error.
func ErrRetriesExhausted(message string, err error) *Error {
	return NewError(ErrCodeRetriesExhausted, message, err)
}

// ErrNotConnected creates a not-connected error.
func ErrNotConnected(message string, err error) *Error {
	return NewError(ErrCodeNotConnected, message, err)
}

// ErrInvalidInput creates an invalid input error.
func ErrInvalidInput(message string, err error) *Error {
	return NewError(ErrCodeInvalidInput, message, err)
}

// GetErrorCode extracts the ErrorCode from an error if it is a connection
// Error, otherwise returns ErrCodeConnection.
func GetErrorCode(err error) ErrorCode {
	var connErr *Error
	if errors.As(err, &connErr) {
		return connErr.Code
	}
	return ErrCodeConnection
}

// IsAuthError reports whether the error is a credential problem that
// reconnecting cannot fix.
func IsAuthError(err error) bool {
	switch GetErrorCode(err) {
	case ErrCodeAuthentication, ErrCodeTokenExpired:
		return true
	default:
		return false
	}
}

// UserMessage returns the user-facing message for any error, falling back to
// a generic connection message for unclassified errors.
func UserMessage(err error) string {
	var connErr *Error
	if errors.As(err, &connErr) {
		return connErr.UserMessage()
	}
	return "the connection to the agent failed"
}
