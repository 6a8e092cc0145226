package retry

import (
	"strings"
	"sync"
	"time"

	"slideshow-viewer/internal/logging"
)

// FailureKind classifies why a load failed.
type FailureKind string

const (
	// FailureIO covers filesystem and network read errors.
	FailureIO FailureKind = "io"
	// FailureDecode covers undecodable or corrupt media.
	FailureDecode FailureKind = "decode"
	// FailureUnknown covers everything else.
	FailureUnknown FailureKind = "unknown"
)

// Config configures retry behavior for entry load failures.
type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Multiplier  float64
}

// DefaultConfig returns sensible defaults for slide load retries.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		BaseDelay:   1 * time.Second,
		MaxDelay:    10 * time.Second,
		Multiplier:  2,
	}
}

// Decision is the outcome of recording one failure.
type Decision struct {
	// ShouldRetry is true while the attempt budget is not exhausted.
	ShouldRetry bool
	// NextDelay is the backoff before the next reload attempt.
	NextDelay time.Duration
	// Attempt is the failure count after this record, starting at 1.
	Attempt int
}

// Observer records retry metrics. The metrics package provides the
// implementation; a nil observer skips recording.
type Observer interface {
	ObserveAttempt(failure string)
	ObserveExhausted()
	ObserveReset()
}

type attemptState struct {
	count       int
	lastFailure FailureKind
}

// Policy tracks per-entry attempt counters and computes backoff delays.
// It is safe for concurrent use.
type Policy struct {
	cfg      Config
	mu       sync.Mutex
	attempts map[string]*attemptState
	observer Observer
}

// NewPolicy creates a Policy with the given configuration. Non-positive
// configuration values fall back to the defaults.
func NewPolicy(cfg Config) *Policy {
	def := DefaultConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = def.BaseDelay
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = def.MaxDelay
	}
	if cfg.Multiplier <= 1 {
		cfg.Multiplier = def.Multiplier
	}
	return &Policy{
		cfg:      cfg,
		attempts: make(map[string]*attemptState),
	}
}

// SetObserver sets the metrics observer. Call once at startup.
func (p *Policy) SetObserver(o Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observer = o
}

// RecordFailure increments the attempt counter for the entry and returns the
// retry decision. The delay grows exponentially from BaseDelay and saturates
// at MaxDelay. Blank keys are no-ops that never retry.
func (p *Policy) RecordFailure(key string, failure FailureKind) Decision {
	if strings.TrimSpace(key) == "" {
		return Decision{}
	}

	p.mu.Lock()
	st, ok := p.attempts[key]
	if !ok {
		st = &attemptState{}
		p.attempts[key] = st
	}
	st.count++
	st.lastFailure = failure
	attempt := st.count
	observer := p.observer
	p.mu.Unlock()

	delay := p.cfg.BaseDelay
	for i := 1; i < attempt; i++ {
		delay = time.Duration(float64(delay) * p.cfg.Multiplier)
		if delay >= p.cfg.MaxDelay {
			delay = p.cfg.MaxDelay
			break
		}
	}

	d := Decision{
		ShouldRetry: attempt < p.cfg.MaxAttempts,
		NextDelay:   delay,
		Attempt:     attempt,
	}

	if observer != nil {
		observer.ObserveAttempt(string(failure))
		if !d.ShouldRetry {
			observer.ObserveExhausted()
		}
	}

	if d.ShouldRetry {
		logging.Debug("load failure (%s) for %s, attempt %d/%d, retrying in %v",
			failure, key, attempt, p.cfg.MaxAttempts, delay)
	} else {
		logging.Warn("load failed permanently (%s) for %s after %d attempts",
			failure, key, attempt)
	}

	return d
}

// ResetOnSuccess clears the attempt counter for the entry. Must be called
// exactly once on successful load so later unrelated failures start fresh.
func (p *Policy) ResetOnSuccess(key string) {
	p.mu.Lock()
	_, had := p.attempts[key]
	delete(p.attempts, key)
	observer := p.observer
	p.mu.Unlock()

	if had && observer != nil {
		observer.ObserveReset()
	}
}

// Forget discards the counter without reporting success, used when an entry
// is dropped from the playlist or permanently skipped.
func (p *Policy) Forget(key string) {
	p.mu.Lock()
	delete(p.attempts, key)
	p.mu.Unlock()
}

// AttemptCount returns the current failure count for the entry, 0 if it
// never failed or was already reset.
func (p *Policy) AttemptCount(key string) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	if st, ok := p.attempts[key]; ok {
		return st.count
	}
	return 0
}

// LastFailure returns the most recent failure kind for the entry, or
// FailureUnknown if none is tracked.
func (p *Policy) LastFailure(key string) FailureKind {
	p.mu.Lock()
	defer p.mu.Unlock()

	if st, ok := p.attempts[key]; ok {
		return st.lastFailure
	}
	return FailureUnknown
}
