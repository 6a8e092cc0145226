// Package metrics provides Prometheus instrumentation for the
// slideshow-viewer application.
//
// All metrics are prefixed with "slideshow_" to avoid naming collisions
// with other applications. They are registered with the default Prometheus
// registry via promauto; expose them by mounting promhttp.Handler() on the
// metrics endpoint.
//
// # Metric Categories
//
// HTTP metrics track request rates, latency, in-flight requests, and
// connected server-sent-event clients.
//
// Scheduler metrics track playback signals, advances by trigger reason,
// dropped advance attempts, watch arm/cancel churn, and entries skipped for
// exhausting their retry budget.
//
// Retry metrics count recorded failures by kind, exhausted budgets, and
// counters cleared by successful loads. They are recorded through
// [NewRetryObserver], which adapts the counters to the retry package's
// Observer interface.
//
// Playlist, scanner, probe, database, and authentication metrics cover the
// remaining subsystems.
//
// # Recording Metrics
//
// Import this package and use the exported metric variables:
//
//	metrics.SchedulerAdvancesTotal.WithLabelValues("image_delay").Inc()
//	metrics.ProbeDuration.WithLabelValues("image").Observe(0.042)
//
// # Collector
//
// [Collector] periodically gathers playlist composition from a
// [StatsProvider] plus SQLite file sizes and updates the corresponding
// gauges:
//
//	collector := metrics.NewCollector(statsProvider, dbPath, time.Minute)
//	collector.Start()
//	defer collector.Stop()
package metrics
