package retry

import (
	"errors"
	"math/rand"
	"testing"
	"time"
)

func TestPolicy_DelayGrowsToCap(t *testing.T) {
	p := Policy{
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Factor:       2,
		JitterMax:    0,
	}

	want := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		30 * time.Second, // capped, would be 32s
		30 * time.Second,
	}
	for i, w := range want {
		got := p.Delay(i + 1)
		if got != w {
			t.Errorf("Delay(%d) = %v, want %v", i+1, got, w)
		}
	}
}

func TestPolicy_DelayNonDecreasing(t *testing.T) {
	p := Policy{
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Factor:       1.7,
		JitterMax:    0,
	}

	prev := time.Duration(0)
	for attempt := 1; attempt <= 20; attempt++ {
		d := p.Delay(attempt)
		if d < prev {
			t.Fatalf("Delay(%d) = %v decreased from %v", attempt, d, prev)
		}
		prev = d
	}
}

func TestPolicy_JitterBounded(t *testing.T) {
	p := Policy{
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Factor:       2,
		JitterMax:    300 * time.Millisecond,
		Rand:         rand.New(rand.NewSource(42)),
	}

	noJitter := p
	noJitter.JitterMax = 0

	for attempt := 1; attempt <= 10; attempt++ {
		d := p.Delay(attempt)
		if d > p.MaxDelay+p.JitterMax {
			t.Errorf("Delay(%d) = %v exceeds maxDelay+jitterMax = %v", attempt, d, p.MaxDelay+p.JitterMax)
		}
		if base := noJitter.Delay(attempt); d < base {
			t.Errorf("Delay(%d) = %v below un-jittered base %v", attempt, d, base)
		}
	}
}

func TestPolicy_JitterAppliedAfterCap(t *testing.T) {
	// At the cap, jitter must still vary the delay above MaxDelay.
	p := Policy{
		InitialDelay: 1 * time.Second,
		MaxDelay:     2 * time.Second,
		Factor:       2,
		JitterMax:    1 * time.Second,
		Rand:         rand.New(rand.NewSource(1)),
	}

	sawAboveCap := false
	for i := 0; i < 50; i++ {
		if p.Delay(10) > p.MaxDelay {
			sawAboveCap = true
			break
		}
	}
	if !sawAboveCap {
		t.Error("jitter never pushed a capped delay above MaxDelay; jitter appears capped")
	}
}

func TestPolicy_DeterministicWithSeed(t *testing.T) {
	a := Policy{InitialDelay: time.Second, MaxDelay: 10 * time.Second, Factor: 2, JitterMax: time.Second, Rand: rand.New(rand.NewSource(7))}
	b := Policy{InitialDelay: time.Second, MaxDelay: 10 * time.Second, Factor: 2, JitterMax: time.Second, Rand: rand.New(rand.NewSource(7))}

	for attempt := 1; attempt <= 8; attempt++ {
		if da, db := a.Delay(attempt), b.Delay(attempt); da != db {
			t.Fatalf("Delay(%d) differs across identical seeds: %v vs %v", attempt, da, db)
		}
	}
}

func TestPolicy_ZeroValueDefaults(t *testing.T) {
	var p Policy
	d := p.Delay(1)
	if d <= 0 {
		t.Errorf("zero-value policy Delay(1) = %v, want positive default", d)
	}
	if d > DefaultPolicy().MaxDelay+DefaultPolicy().JitterMax {
		t.Errorf("zero-value policy Delay(1) = %v unexpectedly large", d)
	}
}

func TestPermanent(t *testing.T) {
	base := errors.New("invalid secret")
	perm := Permanent(base)

	if !IsPermanent(perm) {
		t.Error("IsPermanent(Permanent(err)) = false")
	}
	if IsPermanent(base) {
		t.Error("IsPermanent(plain err) = true")
	}
	if !errors.Is(perm, base) {
		t.Error("Permanent does not unwrap to the original error")
	}
	if Permanent(nil) != nil {
		t.Error("Permanent(nil) should be nil")
	}
}

func TestIsRetryable(t *testing.T) {
	if IsRetryable(nil) {
		t.Error("nil error is not retryable")
	}
	if IsRetryable(Permanent(errors.New("auth"))) {
		t.Error("permanent error is not retryable")
	}
	if !IsRetryable(errors.New("network unreachable")) {
		t.Error("plain error should be retryable")
	}
}
