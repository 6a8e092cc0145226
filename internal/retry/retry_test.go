package retry

import (
	"testing"
	"time"
)

func TestDefaultBackoffSequence(t *testing.T) {
	p := NewPolicy(DefaultConfig())

	wantDelays := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
	wantRetry := []bool{true, true, false}

	for i := 0; i < 3; i++ {
		d := p.RecordFailure("photos/cat.jpg", FailureIO)
		if d.Attempt != i+1 {
			t.Errorf("attempt %d: got Attempt=%d", i+1, d.Attempt)
		}
		if d.NextDelay != wantDelays[i] {
			t.Errorf("attempt %d: got delay %v, want %v", i+1, d.NextDelay, wantDelays[i])
		}
		if d.ShouldRetry != wantRetry[i] {
			t.Errorf("attempt %d: got ShouldRetry=%v, want %v", i+1, d.ShouldRetry, wantRetry[i])
		}
	}
}

func TestDelaySaturatesAtMax(t *testing.T) {
	p := NewPolicy(Config{
		MaxAttempts: 10,
		BaseDelay:   1 * time.Second,
		MaxDelay:    10 * time.Second,
		Multiplier:  2,
	})

	var last Decision
	for i := 0; i < 10; i++ {
		last = p.RecordFailure("big.jpg", FailureIO)
		if last.NextDelay > 10*time.Second {
			t.Fatalf("attempt %d: delay %v exceeds cap", last.Attempt, last.NextDelay)
		}
	}
	if last.NextDelay != 10*time.Second {
		t.Errorf("expected saturated delay of 10s, got %v", last.NextDelay)
	}
}

func TestResetOnSuccessClearsCounter(t *testing.T) {
	p := NewPolicy(DefaultConfig())

	p.RecordFailure("flaky.jpg", FailureIO)
	p.RecordFailure("flaky.jpg", FailureIO)
	if got := p.AttemptCount("flaky.jpg"); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}

	p.ResetOnSuccess("flaky.jpg")
	if got := p.AttemptCount("flaky.jpg"); got != 0 {
		t.Fatalf("expected counter cleared, got %d", got)
	}

	// A later unrelated failure must not inherit the stale count.
	d := p.RecordFailure("flaky.jpg", FailureDecode)
	if d.Attempt != 1 {
		t.Errorf("expected fresh attempt=1 after reset, got %d", d.Attempt)
	}
	if !d.ShouldRetry {
		t.Error("first failure after reset should retry")
	}
}

func TestCountersAreIndependentPerEntry(t *testing.T) {
	p := NewPolicy(DefaultConfig())

	p.RecordFailure("a.jpg", FailureIO)
	p.RecordFailure("a.jpg", FailureIO)
	d := p.RecordFailure("b.jpg", FailureDecode)

	if d.Attempt != 1 {
		t.Errorf("b.jpg should have its own counter, got attempt %d", d.Attempt)
	}
	if got := p.AttemptCount("a.jpg"); got != 2 {
		t.Errorf("a.jpg counter disturbed: %d", got)
	}
}

func TestAttemptCountUnknownEntry(t *testing.T) {
	p := NewPolicy(DefaultConfig())
	if got := p.AttemptCount("never-seen.jpg"); got != 0 {
		t.Errorf("expected 0 for unknown entry, got %d", got)
	}
}

func TestBlankKeyIsNoOp(t *testing.T) {
	p := NewPolicy(DefaultConfig())

	d := p.RecordFailure("  ", FailureIO)
	if d.ShouldRetry || d.Attempt != 0 {
		t.Errorf("blank key should produce zero decision, got %+v", d)
	}
}

func TestLastFailureKind(t *testing.T) {
	p := NewPolicy(DefaultConfig())

	p.RecordFailure("x.jpg", FailureIO)
	p.RecordFailure("x.jpg", FailureDecode)

	if got := p.LastFailure("x.jpg"); got != FailureDecode {
		t.Errorf("expected last failure decode, got %s", got)
	}
	if got := p.LastFailure("unseen.jpg"); got != FailureUnknown {
		t.Errorf("expected unknown for unseen entry, got %s", got)
	}
}

func TestForgetDropsCounterSilently(t *testing.T) {
	p := NewPolicy(DefaultConfig())
	obs := &countingObserver{}
	p.SetObserver(obs)

	p.RecordFailure("gone.jpg", FailureIO)
	p.Forget("gone.jpg")

	if got := p.AttemptCount("gone.jpg"); got != 0 {
		t.Errorf("expected counter dropped, got %d", got)
	}
	if obs.resets != 0 {
		t.Errorf("Forget must not report a reset, got %d", obs.resets)
	}
}

func TestConfigDefaultsApplied(t *testing.T) {
	p := NewPolicy(Config{})

	d := p.RecordFailure("d.jpg", FailureIO)
	if d.NextDelay != 1*time.Second {
		t.Errorf("expected default base delay 1s, got %v", d.NextDelay)
	}
	if !d.ShouldRetry {
		t.Error("first failure should retry with default max attempts")
	}
}

type countingObserver struct {
	attempts  int
	exhausted int
	resets    int
}

func (o *countingObserver) ObserveAttempt(string) { o.attempts++ }
func (o *countingObserver) ObserveExhausted()     { o.exhausted++ }
func (o *countingObserver) ObserveReset()         { o.resets++ }

func TestObserverCallbacks(t *testing.T) {
	p := NewPolicy(DefaultConfig())
	obs := &countingObserver{}
	p.SetObserver(obs)

	p.RecordFailure("o.jpg", FailureIO)
	p.RecordFailure("o.jpg", FailureIO)
	p.RecordFailure("o.jpg", FailureIO) // exhausts the budget
	p.ResetOnSuccess("o.jpg")

	if obs.attempts != 3 {
		t.Errorf("expected 3 attempt observations, got %d", obs.attempts)
	}
	if obs.exhausted != 1 {
		t.Errorf("expected 1 exhausted observation, got %d", obs.exhausted)
	}
	if obs.resets != 1 {
		t.Errorf("expected 1 reset observation, got %d", obs.resets)
	}
}
