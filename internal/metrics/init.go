package metrics

// InitializeMetrics pre-populates the expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	// --- Scheduler signals and advances ---
	for _, kind := range []string{"load_succeeded", "load_failed", "animation_duration", "playback_ended"} {
		SchedulerSignalsTotal.WithLabelValues(kind)
	}
	for _, reason := range []string{"image_delay", "video_ended", "animation_cycle", "skip_failed", "resume", "manual_next", "manual_previous"} {
		SchedulerAdvancesTotal.WithLabelValues(reason)
	}
	for _, kind := range []string{"image_tick", "animation", "retry"} {
		SchedulerWatchArms.WithLabelValues(kind)
	}

	// --- Retry failure kinds ---
	for _, failure := range []string{"io", "decode", "unknown"} {
		RetryAttemptsTotal.WithLabelValues(failure)
	}

	// --- Playlist composition and probes (per media kind) ---
	for _, kind := range []string{"image", "animated", "video"} {
		PlaylistEntries.WithLabelValues(kind)
		ProbesTotal.WithLabelValues(kind, "success")
		ProbesTotal.WithLabelValues(kind, "error")
		ProbeDuration.WithLabelValues(kind)
	}

	// --- Database storage files ---
	for _, file := range []string{"main", "wal", "shm"} {
		DBSizeBytes.WithLabelValues(file)
	}

	// --- DB query operations ---
	for _, op := range []string{"initialize_schema", "replace_entries", "list_entries",
		"mark_failed", "clear_failed", "list_failed", "get_user", "upsert_user",
		"create_session", "get_session", "extend_session", "delete_session",
		"cleanup_sessions"} {
		DBQueryTotal.WithLabelValues(op, "success")
		DBQueryTotal.WithLabelValues(op, "error")
		DBQueryDuration.WithLabelValues(op)
	}

	// --- Authentication outcomes ---
	for _, status := range []string{"success", "failure"} {
		AuthAttemptsTotal.WithLabelValues(status)
	}
}
