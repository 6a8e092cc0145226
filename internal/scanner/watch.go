package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"slideshow-viewer/internal/logging"
	"slideshow-viewer/internal/metrics"

	"github.com/fsnotify/fsnotify"
)

// Watch monitors the media directory for changes and invokes onChange after
// events settle for the configured debounce window. A burst of events (a
// large copy in progress, for example) produces a single notification.
// Watch blocks until the context is cancelled.
func (s *Scanner) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		metrics.ScannerErrors.Inc()
		return err
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			logging.Error("failed to close file watcher: %v", err)
		}
	}()

	watchCount := s.addDirectoriesToWatcher(watcher)
	logging.Debug("Media watcher started, watching %d directories", watchCount)

	// The debounce timer is created stopped; every relevant event resets it.
	debounce := newStoppedTimer()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !s.relevantEvent(event) {
				continue
			}
			metrics.ScannerWatchEvents.Inc()
			if event.Op&fsnotify.Create != 0 {
				s.maybeWatchNewDir(watcher, event.Name)
			}
			debounce.Reset(s.debounce)

		case <-debounce.C:
			logging.Debug("Media directory changed, triggering rescan")
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			metrics.ScannerErrors.Inc()
			logging.Error("Watcher error: %v", err)
		}
	}
}

// newStoppedTimer returns a timer that is safe to Reset, with its channel
// drained.
func newStoppedTimer() *time.Timer {
	t := time.NewTimer(time.Hour)
	if !t.Stop() {
		<-t.C
	}
	return t
}

// relevantEvent filters out hidden files and event types that cannot affect
// the playlist.
func (s *Scanner) relevantEvent(event fsnotify.Event) bool {
	if strings.Contains(event.Name, string(filepath.Separator)+".") {
		return false
	}
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}

// addDirectoriesToWatcher adds all directories under mediaDir to the watcher.
func (s *Scanner) addDirectoriesToWatcher(watcher *fsnotify.Watcher) int {
	watchCount := 0
	err := filepath.WalkDir(s.mediaDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != s.mediaDir {
			return fs.SkipDir
		}
		if addErr := watcher.Add(path); addErr != nil {
			logging.Warn("failed to add path to watcher %s: %v", path, addErr)
			metrics.ScannerErrors.Inc()
		} else {
			watchCount++
		}
		return nil
	})
	if err != nil {
		logging.Error("failed to walk media directory for watcher: %v", err)
		metrics.ScannerErrors.Inc()
	}
	return watchCount
}

// maybeWatchNewDir adds a newly created directory to the watcher so files
// appearing inside it are seen.
func (s *Scanner) maybeWatchNewDir(watcher *fsnotify.Watcher, path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if addErr := watcher.Add(path); addErr != nil {
		logging.Warn("failed to add new directory to watcher %s: %v", path, addErr)
		metrics.ScannerErrors.Inc()
	} else {
		logging.Debug("Added new directory to watcher: %s", path)
	}
}
