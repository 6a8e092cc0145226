package probe

import (
	"image"
	"image/color/palette"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"slideshow-viewer/internal/mediakind"
	"slideshow-viewer/internal/retry"
	"slideshow-viewer/internal/scheduler"
)

func writePNG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatal(err)
	}
}

func writeGIF(t *testing.T, path string, delays []int) {
	t.Helper()
	g := &gif.GIF{}
	for _, d := range delays {
		g.Image = append(g.Image, image.NewPaletted(image.Rect(0, 0, 4, 4), palette.Plan9))
		g.Delay = append(g.Delay, d)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := gif.EncodeAll(f, g); err != nil {
		t.Fatal(err)
	}
}

func TestProbeImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ok.png")
	writePNG(t, path)

	if _, err := Probe(path, mediakind.KindImage); err != nil {
		t.Errorf("probe of valid png failed: %v", err)
	}
}

func TestProbeCorruptImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.jpg")
	if err := os.WriteFile(path, []byte("not an image at all"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Probe(path, mediakind.KindImage)
	if err == nil {
		t.Fatal("probe of corrupt image succeeded")
	}
	if got := Classify(err); got != retry.FailureDecode {
		t.Errorf("Classify = %v, want decode failure", got)
	}
}

func TestProbeMissingFile(t *testing.T) {
	_, err := Probe(filepath.Join(t.TempDir(), "missing.png"), mediakind.KindImage)
	if err == nil {
		t.Fatal("probe of missing file succeeded")
	}
	if got := Classify(err); got != retry.FailureIO {
		t.Errorf("Classify = %v, want io failure", got)
	}
}

func TestProbeGIFCycleDuration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "anim.gif")
	// Delays are hundredths of a second: 10+20+30 = 600ms per cycle.
	writeGIF(t, path, []int{10, 20, 30})

	res, err := Probe(path, mediakind.KindAnimated)
	if err != nil {
		t.Fatalf("probe of valid gif failed: %v", err)
	}
	if res.CycleDuration != 600*time.Millisecond {
		t.Errorf("CycleDuration = %v, want 600ms", res.CycleDuration)
	}
}

func TestProbeGIFZeroDelays(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "static.gif")
	writeGIF(t, path, []int{0, 0})

	res, err := Probe(path, mediakind.KindAnimated)
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if res.CycleDuration != 0 {
		t.Errorf("CycleDuration = %v, want 0 (unknown)", res.CycleDuration)
	}
}

func TestProbeVideoReadable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(path, []byte("ftyp fake video payload"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Probe(path, mediakind.KindVideo); err != nil {
		t.Errorf("probe of readable video failed: %v", err)
	}

	_, err := Probe(filepath.Join(dir, "gone.mp4"), mediakind.KindVideo)
	if got := Classify(err); err == nil || got != retry.FailureIO {
		t.Errorf("missing video: err=%v classify=%v, want io failure", err, got)
	}
}

func TestProbeUnplayableKind(t *testing.T) {
	if _, err := Probe("whatever.txt", mediakind.KindOther); err == nil {
		t.Error("probe of unplayable kind succeeded")
	}
}

// sinkRecorder collects signals emitted by the loader.
type sinkRecorder struct {
	signals chan scheduler.Signal
}

func (r *sinkRecorder) Handle(sig scheduler.Signal) {
	r.signals <- sig
}

func (r *sinkRecorder) next(t *testing.T) scheduler.Signal {
	t.Helper()
	select {
	case s := <-r.signals:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a signal")
		return scheduler.Signal{}
	}
}

type resolverFunc func(key string) (string, error)

func (f resolverFunc) ResolvePath(key string) (string, error) { return f(key) }

func TestLoaderEmitsSignals(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"))
	writeGIF(t, filepath.Join(dir, "b.gif"), []int{50})

	rec := &sinkRecorder{signals: make(chan scheduler.Signal, 16)}
	resolver := resolverFunc(func(key string) (string, error) {
		p := filepath.Join(dir, key)
		if _, err := os.Stat(p); err != nil {
			return "", err
		}
		return p, nil
	})

	// One worker keeps the signal order deterministic.
	l := NewLoader(resolver, rec, 1)
	defer l.Stop()

	l.Request("a.png")
	l.Request("b.gif")
	l.Request("missing.png")

	if sig := rec.next(t); sig.Kind != scheduler.SignalLoadSucceeded || sig.Key != "a.png" {
		t.Errorf("signal 1 = %v, want load success for a.png", sig)
	}
	if sig := rec.next(t); sig.Kind != scheduler.SignalLoadSucceeded || sig.Key != "b.gif" {
		t.Errorf("signal 2 = %v, want load success for b.gif", sig)
	}
	sig := rec.next(t)
	if sig.Kind != scheduler.SignalAnimationDuration || sig.Key != "b.gif" || sig.Duration != 500*time.Millisecond {
		t.Errorf("signal 3 = %v, want 500ms animation duration for b.gif", sig)
	}
	sig = rec.next(t)
	if sig.Kind != scheduler.SignalLoadFailed || sig.Key != "missing.png" || sig.Failure != retry.FailureIO {
		t.Errorf("signal 4 = %v, want io load failure for missing.png", sig)
	}
}

func TestLoaderIgnoresBlankKey(t *testing.T) {
	rec := &sinkRecorder{signals: make(chan scheduler.Signal, 1)}
	l := NewLoader(resolverFunc(func(string) (string, error) { return "", os.ErrNotExist }), rec, 1)

	l.Request("")
	l.Stop()

	select {
	case sig := <-rec.signals:
		t.Errorf("blank key produced a signal: %v", sig)
	default:
	}
}
