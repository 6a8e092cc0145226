package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"slideshow-viewer/internal/database"
	"slideshow-viewer/internal/handlers"
	"slideshow-viewer/internal/logging"
	"slideshow-viewer/internal/metrics"
	"slideshow-viewer/internal/middleware"
	"slideshow-viewer/internal/playlist"
	"slideshow-viewer/internal/probe"
	"slideshow-viewer/internal/retry"
	"slideshow-viewer/internal/scanner"
	"slideshow-viewer/internal/scheduler"
	"slideshow-viewer/internal/startup"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	startTime := time.Now()

	config, err := startup.LoadConfig()
	if err != nil {
		logging.Fatal("Configuration error: %v", err)
	}

	metrics.InitializeMetrics()
	metrics.AppInfo.WithLabelValues(startup.Version, startup.GoVersion).Set(1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := database.New(ctx, config.DatabasePath)
	if err != nil {
		logging.Fatal("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Clean up expired sessions periodically
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := db.CleanExpiredSessions(); err != nil {
					logging.Warn("session cleanup failed: %v", err)
				}
			}
		}
	}()

	// Image decoding via libvips where available
	if err := probe.InitVips(); err != nil {
		logging.Warn("libvips unavailable, using pure-Go decoding: %v", err)
	}
	defer probe.ShutdownVips()

	// Playlist, retry policy, scheduler
	pl := playlist.New()
	policy := retry.NewPolicy(retry.DefaultConfig())
	policy.SetObserver(metrics.NewRetryObserver())

	hub := handlers.NewHub()

	schedCfg := scheduler.DefaultConfig()
	schedCfg.Delay = config.SlideDelay

	// The loader is created after the scheduler, so route reload requests
	// through an indirection the events can close over.
	var loader *probe.Loader

	events := scheduler.Events{
		OnIndexChanged: func(index int, e playlist.Entry) {
			metrics.PlaylistIndex.Set(float64(index))
			hub.Broadcast(handlers.Event{Type: handlers.EventIndexChanged, Data: map[string]interface{}{
				"index": index,
				"entry": e,
			}})
		},
		OnPlayingChanged: func(playing bool) {
			hub.Broadcast(handlers.Event{Type: handlers.EventPlayingChanged, Data: playing})
		},
		OnEntryFailed: func(key string) {
			if err := db.MarkFailed(ctx, key, "exhausted"); err != nil {
				logging.Warn("failed to persist failure mark for %s: %v", key, err)
			}
			hub.Broadcast(handlers.Event{Type: handlers.EventEntryFailed, Data: map[string]string{"key": key}})
		},
		OnReloadRequested: func(key string) {
			if loader != nil {
				loader.Request(key)
			}
			hub.Broadcast(handlers.Event{Type: handlers.EventReload, Data: map[string]string{"key": key}})
		},
	}

	sched := scheduler.New(pl, policy, schedCfg, events)
	defer sched.Stop()

	// Scanner and media loader
	sc := scanner.New(config.MediaDir, scanner.Options{IncludeMotion: config.IncludeMotion})
	loader = probe.NewLoader(sc, sched, 0)
	defer loader.Stop()

	// Handlers
	var h *handlers.Handlers
	rescan := func() error {
		h.SetScanning(true)
		err := runScan(ctx, db, sc, pl, sched, hub, config)
		entries, _ := pl.Snapshot()
		h.RecordScan(len(entries), err)
		return err
	}
	h = handlers.New(db, pl, sched, sc, hub, rescan)

	// Seed the playlist from the database so a restart resumes without
	// waiting for the filesystem walk.
	if seeded, err := db.ListEntries(ctx); err != nil {
		logging.Warn("failed to load persisted playlist: %v", err)
	} else if len(seeded) > 0 {
		pl.ReplaceAll(seeded)
		pl.Sort(config.SortField, config.SortOrder)
		sched.PlaylistReplaced()
		updatePlaylistMetrics(seeded)
		logging.Info("Restored %d entries from database", len(seeded))
	}

	// Initial scan in the background, then periodic rescans and a
	// filesystem watch.
	go func() {
		if err := rescan(); err != nil {
			logging.Error("initial scan failed: %v", err)
		}
		sched.Play()
	}()

	go func() {
		ticker := time.NewTicker(config.RescanInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := rescan(); err != nil {
					logging.Error("periodic rescan failed: %v", err)
				}
			}
		}
	}()

	go func() {
		if err := sc.Watch(ctx, func() {
			if err := rescan(); err != nil {
				logging.Error("watch-triggered rescan failed: %v", err)
			}
		}); err != nil && err != context.Canceled {
			logging.Warn("filesystem watch unavailable: %v", err)
		}
	}()

	// Metrics server
	var metricsSrv *http.Server
	if config.MetricsEnabled {
		collector := metrics.NewCollector(h, config.DatabasePath, 30*time.Second)
		collector.Start()
		defer collector.Stop()

		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{
			Addr:         ":" + config.MetricsPort,
			Handler:      metricsMux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != http.ErrServerClosed {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	// Router and middleware chain
	router := setupRouter(h)
	startup.LogHTTPRoutes(router)

	authedRouter := h.AuthMiddleware(router)

	metricsHandler := middleware.Metrics(middleware.DefaultMetricsConfig())(authedRouter)

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	handler := middleware.Logger(loggingConfig)(metricsHandler)

	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // SSE connections stay open indefinitely
		IdleTimeout:  60 * time.Second,
	}

	go handleShutdown(srv, metricsSrv, sched, loader, cancel)

	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logging.Fatal("Server error: %v", err)
	}
}

// runScan walks the media directory and swaps the result into the playlist.
func runScan(ctx context.Context, db *database.Database, sc *scanner.Scanner, pl *playlist.Playlist, sched *scheduler.Scheduler, hub *handlers.Hub, config *startup.Config) error {
	entries, err := sc.Scan()
	if err != nil {
		return err
	}

	pl.ReplaceAll(entries)
	pl.Sort(config.SortField, config.SortOrder)
	sched.PlaylistReplaced()
	updatePlaylistMetrics(entries)

	if err := db.ReplaceEntries(ctx, entries); err != nil {
		logging.Warn("failed to persist playlist: %v", err)
	}

	sorted, _ := pl.Snapshot()
	hub.Broadcast(handlers.Event{Type: handlers.EventPlaylist, Data: map[string]int{"total": len(sorted)}})
	logging.Info("Scan complete: %d entries", len(sorted))
	return nil
}

func updatePlaylistMetrics(entries []playlist.Entry) {
	counts := make(map[string]int)
	for _, e := range entries {
		counts[string(e.Kind)]++
	}
	for _, kind := range []string{"image", "animated", "video"} {
		metrics.PlaylistEntries.WithLabelValues(kind).Set(float64(counts[kind]))
	}
}

func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()

	// Health check and version routes (no auth required)
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	// Auth routes
	auth := r.PathPrefix("/api/auth").Subrouter()
	auth.HandleFunc("/setup-required", h.CheckSetupRequired).Methods("GET")
	auth.HandleFunc("/setup", h.Setup).Methods("POST")
	auth.HandleFunc("/login", h.Login).Methods("POST")
	auth.HandleFunc("/logout", h.Logout).Methods("POST")
	auth.HandleFunc("/check", h.CheckAuth).Methods("GET")
	auth.HandleFunc("/change-password", h.ChangePassword).Methods("POST")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/playback/state", h.GetPlaybackState).Methods("GET")
	api.HandleFunc("/playback/next", h.NextEntry).Methods("POST")
	api.HandleFunc("/playback/previous", h.PreviousEntry).Methods("POST")
	api.HandleFunc("/playback/play", h.Play).Methods("POST")
	api.HandleFunc("/playback/pause", h.Pause).Methods("POST")
	api.HandleFunc("/playback/delay", h.SetDelay).Methods("PUT")

	// Playback signals from rendering clients
	api.HandleFunc("/playback/signal/loaded", h.SignalLoaded).Methods("POST")
	api.HandleFunc("/playback/signal/failed", h.SignalFailed).Methods("POST")
	api.HandleFunc("/playback/signal/ended", h.SignalEnded).Methods("POST")
	api.HandleFunc("/playback/signal/duration", h.SignalDuration).Methods("POST")

	api.HandleFunc("/entries", h.ListEntries).Methods("GET")
	api.HandleFunc("/entries/failed", h.ListFailedEntries).Methods("GET")
	api.HandleFunc("/entries/{key:.*}", h.RemoveEntry).Methods("DELETE")
	api.HandleFunc("/rescan", h.TriggerRescan).Methods("POST")
	api.HandleFunc("/file/{path:.*}", h.GetFile).Methods("GET")
	api.HandleFunc("/events", h.Events).Methods("GET")

	return r
}

func handleShutdown(srv, metricsSrv *http.Server, sched *scheduler.Scheduler, loader *probe.Loader, cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	startup.LogShutdownStep("Stopping scheduler")
	sched.Stop()
	startup.LogShutdownStepComplete("Scheduler stopped")

	startup.LogShutdownStep("Stopping media loader")
	loader.Stop()
	startup.LogShutdownStepComplete("Media loader stopped")

	startup.LogShutdownStep("Stopping background workers")
	cancel()
	startup.LogShutdownStepComplete("Background workers stopped")

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownComplete()
}
