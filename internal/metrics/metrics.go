package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slideshow_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "slideshow_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slideshow_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	SSEClientsConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slideshow_sse_clients_connected",
			Help: "Number of connected server-sent-event clients",
		},
	)
)

// Scheduler metrics
var (
	SchedulerSignalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slideshow_scheduler_signals_total",
			Help: "Total number of playback signals handled by the scheduler",
		},
		[]string{"kind"},
	)

	SchedulerAdvancesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slideshow_scheduler_advances_total",
			Help: "Total number of slideshow advances by trigger reason",
		},
		[]string{"reason"},
	)

	SchedulerAdvancesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "slideshow_scheduler_advances_dropped_total",
			Help: "Advance attempts dropped because one was already in flight",
		},
	)

	SchedulerWatchArms = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slideshow_scheduler_watch_arms_total",
			Help: "Total number of watches armed by kind",
		},
		[]string{"kind"},
	)

	SchedulerWatchCancels = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "slideshow_scheduler_watch_cancels_total",
			Help: "Total number of armed watches torn down before firing",
		},
	)

	SchedulerPermanentFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "slideshow_scheduler_permanent_failures_total",
			Help: "Entries skipped after exhausting their retry budget",
		},
	)

	SchedulerPlaying = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slideshow_scheduler_playing",
			Help: "Whether the slideshow is auto-advancing (1 = playing, 0 = paused)",
		},
	)
)

// Retry metrics
var (
	RetryAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slideshow_retry_attempts_total",
			Help: "Total number of recorded load failures by failure kind",
		},
		[]string{"failure"},
	)

	RetryExhaustedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "slideshow_retry_exhausted_total",
			Help: "Total number of entries whose retry budget was exhausted",
		},
	)

	RetryResetsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "slideshow_retry_resets_total",
			Help: "Total number of retry counters cleared by a successful load",
		},
	)
)

// Playlist metrics
var (
	PlaylistEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "slideshow_playlist_entries",
			Help: "Number of playlist entries by media kind",
		},
		[]string{"kind"},
	)

	PlaylistIndex = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slideshow_playlist_index",
			Help: "Current playlist cursor position (-1 = unset)",
		},
	)
)

// Scanner metrics
var (
	ScannerRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "slideshow_scanner_runs_total",
			Help: "Total number of media directory scans",
		},
	)

	ScannerLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slideshow_scanner_last_run_timestamp",
			Help: "Timestamp of the last completed scan",
		},
	)

	ScannerLastRunDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slideshow_scanner_last_run_duration_seconds",
			Help: "Duration of the last completed scan in seconds",
		},
	)

	ScannerFilesSeen = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "slideshow_scanner_files_seen_total",
			Help: "Total number of files examined by the scanner",
		},
	)

	ScannerErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "slideshow_scanner_errors_total",
			Help: "Total number of scanner errors",
		},
	)

	ScannerIsRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slideshow_scanner_running",
			Help: "Whether a scan is currently running (1 = running, 0 = idle)",
		},
	)

	ScannerWatchEvents = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "slideshow_scanner_watch_events_total",
			Help: "Total number of filesystem change notifications received",
		},
	)
)

// Probe metrics
var (
	ProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slideshow_probes_total",
			Help: "Total number of media load probes by kind and status",
		},
		[]string{"kind", "status"},
	)

	ProbeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "slideshow_probe_duration_seconds",
			Help:    "Media load probe duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"kind"},
	)
)

// Database metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slideshow_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "slideshow_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	DBConnectionsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slideshow_db_connections_open",
			Help: "Number of open database connections",
		},
	)

	DBSizeBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "slideshow_db_size_bytes",
			Help: "Size of SQLite database files in bytes",
		},
		[]string{"file"}, // "main", "wal", "shm"
	)
)

// Authentication metrics
var (
	AuthAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slideshow_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"status"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slideshow_active_sessions",
			Help: "Number of active user sessions",
		},
	)
)

// Application info
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "slideshow_app_info",
			Help: "Application build information",
		},
		[]string{"version", "go_version"},
	)
)
