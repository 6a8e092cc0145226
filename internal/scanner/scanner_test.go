package scanner

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"slideshow-viewer/internal/mediakind"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("test data"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func setupMediaDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "photo1.jpg"))
	writeFile(t, filepath.Join(dir, "photo2.png"))
	writeFile(t, filepath.Join(dir, "clip.gif"))
	writeFile(t, filepath.Join(dir, "movie.mp4"))
	writeFile(t, filepath.Join(dir, "notes.txt"))
	writeFile(t, filepath.Join(dir, "albums", "vacation", "beach.jpg"))
	writeFile(t, filepath.Join(dir, ".hidden", "secret.jpg"))
	writeFile(t, filepath.Join(dir, ".DS_Store"))
	return dir
}

func TestScanImagesOnly(t *testing.T) {
	dir := setupMediaDir(t)
	s := New(dir, Options{IncludeMotion: false, NumWorkers: 2})

	entries, err := s.Scan()
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	keys := make(map[string]mediakind.Kind)
	for _, e := range entries {
		keys[e.Key] = e.Kind
	}

	want := []string{"photo1.jpg", "photo2.png", "albums/vacation/beach.jpg"}
	if len(keys) != len(want) {
		t.Errorf("got %d entries %v, want %d", len(keys), keys, len(want))
	}
	for _, k := range want {
		if _, ok := keys[k]; !ok {
			t.Errorf("missing entry %q", k)
		}
	}
	if _, ok := keys["clip.gif"]; ok {
		t.Error("animated image included without IncludeMotion")
	}
	if _, ok := keys[".hidden/secret.jpg"]; ok {
		t.Error("hidden directory was not skipped")
	}
}

func TestScanWithMotion(t *testing.T) {
	dir := setupMediaDir(t)
	s := New(dir, Options{IncludeMotion: true, NumWorkers: 2})

	entries, err := s.Scan()
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	keys := make(map[string]mediakind.Kind)
	for _, e := range entries {
		keys[e.Key] = e.Kind
	}

	if kind, ok := keys["clip.gif"]; !ok || kind != mediakind.KindAnimated {
		t.Errorf("clip.gif = %v, %v; want animated entry", kind, ok)
	}
	if kind, ok := keys["movie.mp4"]; !ok || kind != mediakind.KindVideo {
		t.Errorf("movie.mp4 = %v, %v; want video entry", kind, ok)
	}
	if _, ok := keys["notes.txt"]; ok {
		t.Error("non-media file included")
	}
}

func TestScanPopulatesEntryFields(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.jpg"))

	s := New(dir, Options{NumWorkers: 1})
	entries, err := s.Scan()
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}

	e := entries[0]
	if e.Name != "a.jpg" {
		t.Errorf("Name = %q, want a.jpg", e.Name)
	}
	if e.Size != int64(len("test data")) {
		t.Errorf("Size = %d, want %d", e.Size, len("test data"))
	}
	if e.ModTime.IsZero() {
		t.Error("ModTime not populated")
	}
}

func TestScanEmptyDir(t *testing.T) {
	s := New(t.TempDir(), Options{NumWorkers: 1})
	entries, err := s.Scan()
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries from empty dir, want 0", len(entries))
	}
}

func TestResolvePath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "sub", "a.jpg"))
	s := New(dir, Options{})

	got, err := s.ResolvePath("sub/a.jpg")
	if err != nil {
		t.Fatalf("ResolvePath failed: %v", err)
	}
	if got != filepath.Join(dir, "sub", "a.jpg") {
		t.Errorf("ResolvePath = %q", got)
	}

	if _, err := s.ResolvePath("../outside.jpg"); err == nil {
		t.Error("path escaping the media directory was accepted")
	}
	if _, err := s.ResolvePath("missing.jpg"); err == nil {
		t.Error("missing file was accepted")
	}
	if _, err := s.ResolvePath("sub"); err == nil {
		t.Error("directory was accepted as a file")
	}
}

func TestWatchDebouncesBursts(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping watcher test in short mode")
	}

	dir := t.TempDir()
	s := New(dir, Options{Debounce: 50 * time.Millisecond})

	var changes atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Watch(ctx, func() { changes.Add(1) })
	}()

	// Give the watcher time to register the directory.
	time.Sleep(50 * time.Millisecond)

	// A burst of writes must coalesce into a single notification.
	for i := 0; i < 5; i++ {
		writeFile(t, filepath.Join(dir, "new"+string(rune('a'+i))+".jpg"))
		time.Sleep(5 * time.Millisecond)
	}

	deadline := time.Now().Add(2 * time.Second)
	for changes.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if got := changes.Load(); got != 1 {
		t.Errorf("change notifications = %d, want 1", got)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("Watch did not return after context cancellation")
	}
}
