package handlers

import (
	"sync"
	"time"

	"slideshow-viewer/internal/database"
	"slideshow-viewer/internal/mediakind"
	"slideshow-viewer/internal/metrics"
	"slideshow-viewer/internal/playlist"
	"slideshow-viewer/internal/scanner"
	"slideshow-viewer/internal/scheduler"
)

// RescanFunc triggers a full media rescan. Wired up in main so the
// handlers stay free of scan orchestration.
type RescanFunc func() error

// ScanStatus describes the most recent scan for health reporting.
type ScanStatus struct {
	Ready     bool
	Scanning  bool
	LastScan  time.Time
	LastError string
	FilesSeen int
}

type Handlers struct {
	db      *database.Database
	pl      *playlist.Playlist
	sched   *scheduler.Scheduler
	scanner *scanner.Scanner
	hub     *Hub
	rescan  RescanFunc

	startedAt time.Time

	scanMu sync.RWMutex
	scan   ScanStatus
}

func New(db *database.Database, pl *playlist.Playlist, sched *scheduler.Scheduler, sc *scanner.Scanner, hub *Hub, rescan RescanFunc) *Handlers {
	return &Handlers{
		db:        db,
		pl:        pl,
		sched:     sched,
		scanner:   sc,
		hub:       hub,
		rescan:    rescan,
		startedAt: time.Now(),
	}
}

// SetScanning marks a scan as started or finished.
func (h *Handlers) SetScanning(scanning bool) {
	h.scanMu.Lock()
	defer h.scanMu.Unlock()
	h.scan.Scanning = scanning
}

// RecordScan records the outcome of a completed scan. The first recorded
// scan, successful or not, marks the service ready.
func (h *Handlers) RecordScan(filesSeen int, err error) {
	h.scanMu.Lock()
	defer h.scanMu.Unlock()
	h.scan.Ready = true
	h.scan.Scanning = false
	h.scan.LastScan = time.Now()
	h.scan.FilesSeen = filesSeen
	if err != nil {
		h.scan.LastError = err.Error()
	} else {
		h.scan.LastError = ""
	}
}

// GetStats summarizes the playlist for the metrics collector.
func (h *Handlers) GetStats() metrics.Stats {
	entries, index := h.pl.Snapshot()

	stats := metrics.Stats{
		TotalEntries: len(entries),
		CurrentIndex: index,
	}
	for _, e := range entries {
		switch e.Kind {
		case mediakind.KindImage:
			stats.TotalImages++
		case mediakind.KindAnimated:
			stats.TotalAnimated++
		case mediakind.KindVideo:
			stats.TotalVideos++
		}
	}
	return stats
}

func (h *Handlers) scanStatus() ScanStatus {
	h.scanMu.RLock()
	defer h.scanMu.RUnlock()
	return h.scan
}
