// Package retry provides the backoff schedule used for reconnection attempts
// and the permanent-error marker that stops them.
package retry

import (
	"errors"
	"math"
	"math/rand"
	"time"
)

// Policy computes the delay before a given reconnection attempt. The schedule
// is pure: the same attempt number and policy always produce the same delay
// for a fixed randomness source.
type Policy struct {
	// InitialDelay is the delay after the first failure.
	InitialDelay time.Duration
	// MaxDelay caps the exponential portion of the delay.
	MaxDelay time.Duration
	// Factor is the multiplier for exponential backoff.
	Factor float64
	// JitterMax bounds the uniform random jitter added to each delay.
	// Jitter is added after capping so the cap cannot silently defeat it.
	JitterMax time.Duration
	// Rand is the randomness source for jitter. Tests inject a seeded
	// source; nil falls back to the global source.
	Rand *rand.Rand
}

// DefaultPolicy returns a baseline reconnection schedule.
func DefaultPolicy() Policy {
	return Policy{
		InitialDelay: 2 * time.Second,
		MaxDelay:     30 * time.Second,
		Factor:       2,
		JitterMax:    500 * time.Millisecond,
	}
}

// Delay returns the wait before the given attempt (1-based):
// min(initial * factor^(attempt-1), max) + uniform(0, jitterMax).
func (p Policy) Delay(attempt int) time.Duration {
	if attempt <= 0 {
		attempt = 1
	}
	initial := p.InitialDelay
	if initial <= 0 {
		initial = DefaultPolicy().InitialDelay
	}
	maxDelay := p.MaxDelay
	if maxDelay <= 0 {
		maxDelay = DefaultPolicy().MaxDelay
	}
	factor := p.Factor
	if factor <= 0 {
		factor = DefaultPolicy().Factor
	}

	delay := float64(initial) * math.Pow(factor, float64(attempt-1))
	if delay > float64(maxDelay) {
		delay = float64(maxDelay)
	}
	return time.Duration(delay) + p.jitter()
}

func (p Policy) jitter() time.Duration {
	if p.JitterMax <= 0 {
		return 0
	}
	f := rand.Float64() // #nosec G404 -- jitter does not require cryptographic randomness
	if p.Rand != nil {
		f = p.Rand.Float64()
	}
	return time.Duration(f * float64(p.JitterMax))
}

// PermanentError is an error that should not be retried.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// Permanent wraps an error to indicate it should not be retried.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsPermanent checks if an error is permanent (shouldn't retry).
func IsPermanent(err error) bool {
	var permanent *PermanentError
	return errors.As(err, &permanent)
}

// IsRetryable checks if an error is retryable (not permanent and not nil).
func IsRetryable(err error) bool {
	return err != nil && !IsPermanent(err)
}
