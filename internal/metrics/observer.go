package metrics

import "slideshow-viewer/internal/retry"

// retryObserver implements retry.Observer using the Prometheus metrics
// declared in this package.
type retryObserver struct{}

// NewRetryObserver creates an observer that records retry activity into the
// Prometheus counters declared in metrics.go.
func NewRetryObserver() retry.Observer {
	return &retryObserver{}
}

func (o *retryObserver) ObserveAttempt(failure string) {
	RetryAttemptsTotal.WithLabelValues(failure).Inc()
}

func (o *retryObserver) ObserveExhausted() {
	RetryExhaustedTotal.Inc()
}

func (o *retryObserver) ObserveReset() {
	RetryResetsTotal.Inc()
}
