package scheduler

import (
	"fmt"
	"time"

	"slideshow-viewer/internal/retry"
)

// SignalKind identifies the kind of completion or load event carried by a
// Signal.
type SignalKind int

const (
	// SignalLoadSucceeded means the rendering collaborator finished loading
	// the entry.
	SignalLoadSucceeded SignalKind = iota
	// SignalLoadFailed means loading the entry failed.
	SignalLoadFailed
	// SignalAnimationDuration reports the decoded cycle duration of an
	// animated image. Optional; absence triggers the fallback duration.
	SignalAnimationDuration
	// SignalPlaybackEnded means a video finished playing.
	SignalPlaybackEnded
)

// Signal is the single tagged-union input of the scheduler's state machine.
// All external completion and load events funnel through it, which keeps the
// state machine centralized and testable without a rendering environment.
type Signal struct {
	Kind     SignalKind
	Key      string
	Failure  retry.FailureKind
	Duration time.Duration
}

// LoadSucceeded builds the successful-load signal for an entry.
func LoadSucceeded(key string) Signal {
	return Signal{Kind: SignalLoadSucceeded, Key: key}
}

// LoadFailed builds the load-failure signal for an entry.
func LoadFailed(key string, failure retry.FailureKind) Signal {
	return Signal{Kind: SignalLoadFailed, Key: key, Failure: failure}
}

// AnimationDuration builds the decoded-cycle-duration signal for an
// animated entry.
func AnimationDuration(key string, d time.Duration) Signal {
	return Signal{Kind: SignalAnimationDuration, Key: key, Duration: d}
}

// PlaybackEnded builds the end-of-playback signal for a video entry.
func PlaybackEnded(key string) Signal {
	return Signal{Kind: SignalPlaybackEnded, Key: key}
}

// String returns a readable form for logging.
func (s Signal) String() string {
	switch s.Kind {
	case SignalLoadSucceeded:
		return fmt.Sprintf("load-succeeded(%s)", s.Key)
	case SignalLoadFailed:
		return fmt.Sprintf("load-failed(%s, %s)", s.Key, s.Failure)
	case SignalAnimationDuration:
		return fmt.Sprintf("animation-duration(%s, %v)", s.Key, s.Duration)
	case SignalPlaybackEnded:
		return fmt.Sprintf("playback-ended(%s)", s.Key)
	default:
		return fmt.Sprintf("unknown-signal(%d)", s.Kind)
	}
}
