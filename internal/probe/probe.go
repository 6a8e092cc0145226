package probe

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"slideshow-viewer/internal/logging"
	"slideshow-viewer/internal/mediakind"
	"slideshow-viewer/internal/metrics"
	"slideshow-viewer/internal/retry"

	// Image format decoders
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // BMP format support
	_ "golang.org/x/image/webp" // WebP format support
)

// Result carries what a successful probe learned about a file.
type Result struct {
	// CycleDuration is the duration of one animation loop. Zero means
	// unknown (non-GIF animations, or GIFs without frame delays).
	CycleDuration time.Duration
}

// Probe validates that a media file can actually be served, decoding as much
// as the kind requires. For animated GIFs it also extracts the cycle
// duration.
func Probe(path string, kind mediakind.Kind) (Result, error) {
	start := time.Now()
	var err error
	defer func() {
		status := "success"
		if err != nil {
			status = "error"
		}
		metrics.ProbesTotal.WithLabelValues(string(kind), status).Inc()
		metrics.ProbeDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	}()

	var res Result
	switch kind {
	case mediakind.KindImage:
		err = validateImage(path)
	case mediakind.KindAnimated:
		res.CycleDuration, err = validateAnimation(path)
	case mediakind.KindVideo:
		err = validateReadable(path)
	default:
		err = fmt.Errorf("unplayable media kind %q", kind)
	}
	return res, err
}

// Classify maps a probe error to the failure kind the retry policy tracks.
func Classify(err error) retry.FailureKind {
	if err == nil {
		return retry.FailureUnknown
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) {
		return retry.FailureIO
	}
	return retry.FailureDecode
}

// validateImage decodes a static image, preferring the libvips fast path
// and falling back to the pure-Go decoders.
func validateImage(path string) error {
	if err := validateWithVips(path); err == nil {
		return nil
	} else if vipsAvailable {
		logging.Debug("vips probe of %s failed, falling back to Go decoders: %v", filepath.Base(path), err)
	}

	_, err := imaging.Open(path, imaging.AutoOrientation(true))
	return err
}

// validateAnimation decodes an animated image. For GIFs the full frame set
// is decoded and the per-frame delays summed into one cycle duration.
func validateAnimation(path string) (time.Duration, error) {
	if strings.ToLower(filepath.Ext(path)) != ".gif" {
		// WebP and APNG animations validate via a header decode only; the
		// cycle duration stays unknown.
		return 0, validateHeader(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer closeFile(f, path)

	g, err := gif.DecodeAll(f)
	if err != nil {
		return 0, err
	}
	if len(g.Image) == 0 {
		return 0, fmt.Errorf("gif %s has no frames", filepath.Base(path))
	}

	// Delays are in hundredths of a second.
	var hundredths int
	for _, d := range g.Delay {
		if d > 0 {
			hundredths += d
		}
	}
	cycle := time.Duration(hundredths) * 10 * time.Millisecond
	logging.Debug("gif %s: %d frames, cycle %v", filepath.Base(path), len(g.Image), cycle)
	return cycle, nil
}

// validateHeader decodes only the image header.
func validateHeader(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer closeFile(f, path)

	if _, _, err := image.DecodeConfig(f); err != nil {
		return fmt.Errorf("failed to decode header of %s: %w", filepath.Base(path), err)
	}
	return nil
}

// validateReadable checks that a video file exists and its first bytes can
// be read. Full validation happens in the rendering client's decoder.
func validateReadable(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer closeFile(f, path)

	buf := make([]byte, 512)
	if _, err := f.Read(buf); err != nil {
		return &fs.PathError{Op: "read", Path: path, Err: err}
	}
	return nil
}

func closeFile(f *os.File, path string) {
	if err := f.Close(); err != nil {
		logging.Warn("failed to close %s: %v", path, err)
	}
}
