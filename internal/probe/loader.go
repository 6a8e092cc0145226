package probe

import (
	"sync"

	"slideshow-viewer/internal/logging"
	"slideshow-viewer/internal/mediakind"
	"slideshow-viewer/internal/retry"
	"slideshow-viewer/internal/scheduler"
	"slideshow-viewer/internal/workers"
)

// PathResolver turns a playlist entry key into an absolute file path.
type PathResolver interface {
	ResolvePath(key string) (string, error)
}

// SignalSink receives the load and duration signals a probe produces.
type SignalSink interface {
	Handle(sig scheduler.Signal)
}

// Loader probes entries on request from a small worker pool and reports the
// outcome as playback signals. It is the load collaborator behind the
// scheduler's reload requests.
type Loader struct {
	resolver PathResolver
	sink     SignalSink
	jobs     chan string
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewLoader creates a Loader. numWorkers <= 0 sizes the pool automatically.
func NewLoader(resolver PathResolver, sink SignalSink, numWorkers int) *Loader {
	if numWorkers <= 0 {
		numWorkers = workers.ForMixed(8)
	}
	l := &Loader{
		resolver: resolver,
		sink:     sink,
		jobs:     make(chan string, 64),
	}
	for i := 0; i < numWorkers; i++ {
		l.wg.Add(1)
		go l.worker()
	}
	logging.Debug("Loader started with %d probe workers", numWorkers)
	return l
}

// Request asks for an entry to be probed. Requests are dropped rather than
// queued indefinitely when the backlog is full; the scheduler's retry path
// recovers from a dropped request on the next play or navigation.
func (l *Loader) Request(key string) {
	if key == "" {
		return
	}
	select {
	case l.jobs <- key:
	default:
		logging.Warn("probe backlog full, dropping load request for %s", key)
	}
}

// Stop drains the worker pool. No signals are emitted after Stop returns.
func (l *Loader) Stop() {
	l.stopOnce.Do(func() { close(l.jobs) })
	l.wg.Wait()
}

func (l *Loader) worker() {
	defer l.wg.Done()
	for key := range l.jobs {
		l.probeOne(key)
	}
}

func (l *Loader) probeOne(key string) {
	path, err := l.resolver.ResolvePath(key)
	if err != nil {
		logging.Debug("cannot resolve %s: %v", key, err)
		l.sink.Handle(scheduler.LoadFailed(key, retry.FailureIO))
		return
	}

	kind := mediakind.KindForPath(key)
	res, err := Probe(path, kind)
	if err != nil {
		logging.Debug("probe of %s failed: %v", key, err)
		l.sink.Handle(scheduler.LoadFailed(key, Classify(err)))
		return
	}

	l.sink.Handle(scheduler.LoadSucceeded(key))
	if kind == mediakind.KindAnimated && res.CycleDuration > 0 {
		l.sink.Handle(scheduler.AnimationDuration(key, res.CycleDuration))
	}
}
