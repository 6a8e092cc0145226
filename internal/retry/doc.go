/*
Package retry provides per-entry retry and backoff decisions for media load
failures.

# Purpose

Loading a slide can fail transiently (slow network mount, partially written
file, decoder hiccup). This package decides whether a failed load should be
retried and after how long, using exponential backoff with a cap. It keeps
one attempt counter per entry identity, so counters survive playlist
reordering and are unaffected by failures of other entries.

The policy never navigates: when the attempt budget is exhausted the caller
(the playback scheduler) is responsible for skipping the entry.

# Usage

	policy := retry.NewPolicy(retry.DefaultConfig())

	d := policy.RecordFailure("photos/cat.jpg", retry.FailureDecode)
	if d.ShouldRetry {
	    // schedule one reload after d.NextDelay
	}

	// on successful load, exactly once:
	policy.ResetOnSuccess("photos/cat.jpg")

# Metrics

Attempt recording is reported through an Observer interface so the package
does not depend on the metrics package. The metrics package provides the
Prometheus-backed implementation; a nil observer silently skips recording,
which keeps tests free of metric state.
*/
package retry
