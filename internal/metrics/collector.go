package metrics

import (
	"os"
	"time"

	"slideshow-viewer/internal/logging"
)

// StatsProvider supplies current playlist statistics for the collector.
type StatsProvider interface {
	GetStats() Stats
}

// Stats holds a snapshot of the playlist composition.
type Stats struct {
	TotalEntries  int
	TotalImages   int
	TotalAnimated int
	TotalVideos   int
	CurrentIndex  int
}

// Collector periodically gathers playlist and storage statistics and updates
// the corresponding gauges.
type Collector struct {
	statsProvider StatsProvider
	dbPath        string
	interval      time.Duration
	stopChan      chan struct{}
}

// NewCollector creates a new metrics collector. dbPath may be empty when no
// database size tracking is wanted.
func NewCollector(provider StatsProvider, dbPath string, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		dbPath:        dbPath,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the metrics collection loop.
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection.
func (c *Collector) Stop() {
	close(c.stopChan)
}

func (c *Collector) collectLoop() {
	// Collect immediately on start
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	if c.statsProvider != nil {
		stats := c.statsProvider.GetStats()

		PlaylistEntries.WithLabelValues("image").Set(float64(stats.TotalImages))
		PlaylistEntries.WithLabelValues("animated").Set(float64(stats.TotalAnimated))
		PlaylistEntries.WithLabelValues("video").Set(float64(stats.TotalVideos))
		PlaylistIndex.Set(float64(stats.CurrentIndex))

		logging.Debug("Metrics collected: entries=%d, images=%d, animated=%d, videos=%d",
			stats.TotalEntries, stats.TotalImages, stats.TotalAnimated, stats.TotalVideos)
	}

	c.updateDBSizes()
}

func (c *Collector) updateDBSizes() {
	if c.dbPath == "" {
		return
	}
	for suffix, label := range map[string]string{"": "main", "-wal": "wal", "-shm": "shm"} {
		if info, err := os.Stat(c.dbPath + suffix); err == nil {
			DBSizeBytes.WithLabelValues(label).Set(float64(info.Size()))
		}
	}
}
