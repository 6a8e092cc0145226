package handlers

import (
	"net/http"
	"runtime"
	"time"

	"slideshow-viewer/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusStarting = "starting"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Ready     bool   `json:"ready"`
	Version   string `json:"version"`
	Uptime    string `json:"uptime"`
	Scanning  bool   `json:"scanning"`
	LastScan  string `json:"lastScan,omitempty"`
	ScanError string `json:"scanError,omitempty"`

	// Playback summary
	TotalEntries int  `json:"totalEntries"`
	CurrentIndex int  `json:"currentIndex"`
	Playing      bool `json:"playing"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck returns the health status of the service
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	scan := h.scanStatus()
	status := h.sched.Status()

	response := HealthResponse{
		Ready:        scan.Ready,
		Version:      startup.Version,
		Uptime:       time.Since(h.startedAt).Round(time.Second).String(),
		Scanning:     scan.Scanning,
		TotalEntries: status.Total,
		CurrentIndex: status.Index,
		Playing:      status.Playing,
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}

	if scan.Ready {
		response.Status = statusHealthy
	} else {
		response.Status = statusStarting
	}

	if !scan.LastScan.IsZero() {
		response.LastScan = scan.LastScan.Format(time.RFC3339)
	}

	if scan.LastError != "" {
		response.ScanError = scan.LastError
		response.Status = statusDegraded
	}

	w.Header().Set("Content-Type", "application/json")
	if !scan.Ready {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	writeJSON(w, response)
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	// For HEAD requests, only send headers (no body)
	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{"status": "alive"})
	}
}

// ReadinessCheck returns 200 only after the initial scan has completed
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if h.scanStatus().Ready {
		writeJSON(w, map[string]string{"status": "ready"})
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
		writeJSON(w, map[string]string{"status": "not_ready"})
	}
}
