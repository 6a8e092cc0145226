package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"slideshow-viewer/internal/logging"
	"slideshow-viewer/internal/mediakind"
	"slideshow-viewer/internal/metrics"
	"slideshow-viewer/internal/playlist"
	"slideshow-viewer/internal/workers"
)

// Options configures a Scanner.
type Options struct {
	// IncludeMotion includes animated images and videos in scan results.
	// When false only static images are returned.
	IncludeMotion bool
	// NumWorkers is the number of parallel stat workers (0 = auto).
	NumWorkers int
	// Debounce is how long the watcher waits after the last filesystem
	// event before reporting a change (0 = default).
	Debounce time.Duration
}

// Scanner walks a media directory and produces playlist entries.
type Scanner struct {
	mediaDir      string
	includeMotion bool
	numWorkers    int
	debounce      time.Duration
}

const defaultDebounce = 2 * time.Second

// New creates a Scanner for the given media directory.
func New(mediaDir string, opts Options) *Scanner {
	numWorkers := opts.NumWorkers
	if numWorkers <= 0 {
		numWorkers = workers.ForIO(8)
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &Scanner{
		mediaDir:      mediaDir,
		includeMotion: opts.IncludeMotion,
		numWorkers:    numWorkers,
		debounce:      debounce,
	}
}

// scanJob carries one candidate file from the walker to a stat worker.
type scanJob struct {
	path string
	d    fs.DirEntry
	kind mediakind.Kind
}

// Scan walks the media directory and returns every playable file as a
// playlist entry. Entry keys are paths relative to the media directory.
// The result order is not significant; callers sort via the playlist.
func (s *Scanner) Scan() ([]playlist.Entry, error) {
	start := time.Now()
	metrics.ScannerIsRunning.Set(1)
	defer metrics.ScannerIsRunning.Set(0)

	logging.Debug("Starting media scan of %s with %d workers", s.mediaDir, s.numWorkers)

	jobs := make(chan scanJob, 256)
	results := make(chan playlist.Entry, 256)

	var wg sync.WaitGroup
	for i := 0; i < s.numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				info, err := job.d.Info()
				if err != nil {
					metrics.ScannerErrors.Inc()
					logging.Warn("failed to stat %s: %v", job.path, err)
					continue
				}
				rel, err := filepath.Rel(s.mediaDir, job.path)
				if err != nil {
					metrics.ScannerErrors.Inc()
					continue
				}
				results <- playlist.Entry{
					Key:     filepath.ToSlash(rel),
					Name:    info.Name(),
					Kind:    job.kind,
					Size:    info.Size(),
					ModTime: info.ModTime(),
				}
			}
		}()
	}

	var entries []playlist.Entry
	var collectorWg sync.WaitGroup
	collectorWg.Add(1)
	go func() {
		defer collectorWg.Done()
		for e := range results {
			entries = append(entries, e)
		}
	}()

	var filesSeen int64
	walkErr := filepath.WalkDir(s.mediaDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			metrics.ScannerErrors.Inc()
			logging.Warn("scan error at %s: %v", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != s.mediaDir {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		filesSeen++
		kind := mediakind.KindForPath(path)
		if !s.includeKind(kind) {
			return nil
		}
		jobs <- scanJob{path: path, d: d, kind: kind}
		return nil
	})

	close(jobs)
	wg.Wait()
	close(results)
	collectorWg.Wait()

	elapsed := time.Since(start)
	metrics.ScannerRunsTotal.Inc()
	metrics.ScannerLastRunTimestamp.SetToCurrentTime()
	metrics.ScannerLastRunDuration.Set(elapsed.Seconds())
	metrics.ScannerFilesSeen.Add(float64(filesSeen))

	logging.Info("Scan complete: %d playable entries from %d files in %v",
		len(entries), filesSeen, elapsed.Round(time.Millisecond))

	return entries, walkErr
}

func (s *Scanner) includeKind(kind mediakind.Kind) bool {
	switch kind {
	case mediakind.KindImage:
		return true
	case mediakind.KindAnimated, mediakind.KindVideo:
		return s.includeMotion
	default:
		return false
	}
}

// ResolvePath validates a playlist entry key and returns the absolute path
// of the underlying file. Keys escaping the media directory are rejected.
func (s *Scanner) ResolvePath(key string) (string, error) {
	fullPath := filepath.Join(s.mediaDir, filepath.FromSlash(key))

	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", err
	}
	absMediaDir, err := filepath.Abs(s.mediaDir)
	if err != nil {
		return "", err
	}
	if absPath != absMediaDir && !strings.HasPrefix(absPath, absMediaDir+string(filepath.Separator)) {
		return "", os.ErrPermission
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", os.ErrInvalid
	}
	return absPath, nil
}
