package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

type mockStatsProvider struct {
	stats Stats
}

func (m *mockStatsProvider) GetStats() Stats {
	return m.stats
}

func TestNewCollector(t *testing.T) {
	provider := &mockStatsProvider{
		stats: Stats{
			TotalEntries:  100,
			TotalImages:   70,
			TotalAnimated: 10,
			TotalVideos:   20,
			CurrentIndex:  3,
		},
	}

	collector := NewCollector(provider, "/tmp/test.db", 5*time.Second)
	if collector == nil {
		t.Fatal("NewCollector returned nil")
	}
	if collector.interval != 5*time.Second {
		t.Errorf("interval = %v, want 5s", collector.interval)
	}
}

func TestCollectorCollect(t *testing.T) {
	provider := &mockStatsProvider{
		stats: Stats{
			TotalEntries:  42,
			TotalImages:   30,
			TotalAnimated: 5,
			TotalVideos:   7,
			CurrentIndex:  11,
		},
	}

	c := NewCollector(provider, "", time.Minute)
	c.collect()

	if got := testutil.ToFloat64(PlaylistEntries.WithLabelValues("image")); got != 30 {
		t.Errorf("image entries gauge = %v, want 30", got)
	}
	if got := testutil.ToFloat64(PlaylistEntries.WithLabelValues("animated")); got != 5 {
		t.Errorf("animated entries gauge = %v, want 5", got)
	}
	if got := testutil.ToFloat64(PlaylistEntries.WithLabelValues("video")); got != 7 {
		t.Errorf("video entries gauge = %v, want 7", got)
	}
	if got := testutil.ToFloat64(PlaylistIndex); got != 11 {
		t.Errorf("playlist index gauge = %v, want 11", got)
	}
}

func TestCollectorNilProvider(t *testing.T) {
	c := NewCollector(nil, "", time.Minute)
	// Must not panic.
	c.collect()
}

func TestCollectorDBSizes(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "index.db")

	if err := os.WriteFile(dbPath, make([]byte, 1024), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dbPath+"-wal", make([]byte, 512), 0o644); err != nil {
		t.Fatal(err)
	}

	c := NewCollector(nil, dbPath, time.Minute)
	c.collect()

	if got := testutil.ToFloat64(DBSizeBytes.WithLabelValues("main")); got != 1024 {
		t.Errorf("main db size gauge = %v, want 1024", got)
	}
	if got := testutil.ToFloat64(DBSizeBytes.WithLabelValues("wal")); got != 512 {
		t.Errorf("wal size gauge = %v, want 512", got)
	}
}

func TestCollectorStartStop(t *testing.T) {
	provider := &mockStatsProvider{}
	c := NewCollector(provider, "", 10*time.Millisecond)

	c.Start()
	time.Sleep(30 * time.Millisecond)
	c.Stop()
}

func TestRetryObserver(t *testing.T) {
	o := NewRetryObserver()

	before := testutil.ToFloat64(RetryAttemptsTotal.WithLabelValues("io"))
	o.ObserveAttempt("io")
	if got := testutil.ToFloat64(RetryAttemptsTotal.WithLabelValues("io")); got != before+1 {
		t.Errorf("io attempt counter = %v, want %v", got, before+1)
	}

	before = testutil.ToFloat64(RetryExhaustedTotal)
	o.ObserveExhausted()
	if got := testutil.ToFloat64(RetryExhaustedTotal); got != before+1 {
		t.Errorf("exhausted counter = %v, want %v", got, before+1)
	}

	before = testutil.ToFloat64(RetryResetsTotal)
	o.ObserveReset()
	if got := testutil.ToFloat64(RetryResetsTotal); got != before+1 {
		t.Errorf("resets counter = %v, want %v", got, before+1)
	}
}

func TestInitializeMetrics(t *testing.T) {
	// Must not panic and must leave zero-valued series behind.
	InitializeMetrics()

	if got := testutil.ToFloat64(SchedulerAdvancesTotal.WithLabelValues("image_delay")); got < 0 {
		t.Errorf("unexpected negative counter: %v", got)
	}
}
