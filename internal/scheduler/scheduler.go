package scheduler

import (
	"sync"
	"sync/atomic"
	"time"

	"slideshow-viewer/internal/logging"
	"slideshow-viewer/internal/mediakind"
	"slideshow-viewer/internal/metrics"
	"slideshow-viewer/internal/playlist"
	"slideshow-viewer/internal/retry"
)

// entryState is the per-entry lifecycle inside the scheduler. It resets
// whenever the current entry changes.
type entryState int

const (
	stateAwaitingLoad entryState = iota
	stateLoaded
	stateRetrying
	stateCompleted
)

func (s entryState) String() string {
	switch s {
	case stateAwaitingLoad:
		return "awaiting-load"
	case stateLoaded:
		return "loaded"
	case stateRetrying:
		return "retrying"
	case stateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Config holds the scheduler's timing parameters.
type Config struct {
	// Delay is how long a static image stays on screen. Non-positive means
	// never auto-advance.
	Delay time.Duration
	// TickInterval is the recurring check interval for static images.
	TickInterval time.Duration
	// AnimationFallback is used when an animated image's cycle duration is
	// unknown, so the show never hangs on it.
	AnimationFallback time.Duration
	// AnimationMin and AnimationMax clamp decoded cycle durations.
	AnimationMin time.Duration
	AnimationMax time.Duration
}

// DefaultConfig returns the standard slideshow timing parameters.
func DefaultConfig() Config {
	return Config{
		Delay:             4 * time.Second,
		TickInterval:      100 * time.Millisecond,
		AnimationFallback: 3 * time.Second,
		AnimationMin:      500 * time.Millisecond,
		AnimationMax:      30 * time.Second,
	}
}

// Events are the scheduler's outbound notifications. Callbacks are invoked
// outside the scheduler's lock and may call back into it.
type Events struct {
	// OnIndexChanged fires whenever the current entry changes, for any
	// reason (auto-advance, manual navigation, playlist replace).
	OnIndexChanged func(index int, e playlist.Entry)
	// OnPlayingChanged fires on play/pause transitions.
	OnPlayingChanged func(playing bool)
	// OnEntryFailed fires exactly once when an entry's retry budget is
	// exhausted and it is skipped.
	OnEntryFailed func(key string)
	// OnReloadRequested asks the load collaborator to (re)load an entry.
	// This is the only load trigger path.
	OnReloadRequested func(key string)
}

// emit is a deferred callback collected under the lock and run after it is
// released, so event handlers can safely call back into the scheduler.
type emit func()

func runEmits(emits []emit) {
	for _, e := range emits {
		e()
	}
}

// watch is the single armed timer or tick loop permitted to exist at a time.
// It remembers which entry it was armed for; every fire revalidates that the
// entry is still current before acting. Cancellation is idempotent and a
// cancelled watch never fires.
type watch struct {
	key    string
	cancel chan struct{}
	once   sync.Once
}

func (w *watch) stop() {
	w.once.Do(func() { close(w.cancel) })
}

// Scheduler is the sole authority for when the slideshow advances. It
// consumes the current entry's kind plus load and completion signals,
// enforcing the single-armed-watch and single-in-flight-advance invariants.
type Scheduler struct {
	cfg    Config
	pl     *playlist.Playlist
	policy *retry.Policy
	events Events

	mu            sync.Mutex
	delay         time.Duration
	playing       bool
	state         entryState
	currentKey    string
	currentKind   mediakind.Kind
	loadedAt      time.Time
	cycleDuration time.Duration // decoded animation duration, 0 = unknown
	failed        map[string]bool
	watch         *watch

	// advancing guards against re-entrant advances: while an advance (or
	// manual navigation) and its callbacks are in flight, further advance
	// attempts are dropped, not queued.
	advancing atomic.Bool
}

// New creates a Scheduler over the given playlist and retry policy.
// Zero config fields fall back to DefaultConfig values, except Delay which
// is taken as configured (non-positive disables image auto-advance).
func New(pl *playlist.Playlist, policy *retry.Policy, cfg Config, events Events) *Scheduler {
	def := DefaultConfig()
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = def.TickInterval
	}
	if cfg.AnimationFallback <= 0 {
		cfg.AnimationFallback = def.AnimationFallback
	}
	if cfg.AnimationMin <= 0 {
		cfg.AnimationMin = def.AnimationMin
	}
	if cfg.AnimationMax <= 0 {
		cfg.AnimationMax = def.AnimationMax
	}
	return &Scheduler{
		cfg:    cfg,
		pl:     pl,
		policy: policy,
		events: events,
		delay:  cfg.Delay,
		state:  stateAwaitingLoad,
		failed: make(map[string]bool),
	}
}

// Handle dispatches one signal into the state machine. All load and
// completion events enter here.
func (s *Scheduler) Handle(sig Signal) {
	metrics.SchedulerSignalsTotal.WithLabelValues(signalLabel(sig.Kind)).Inc()
	logging.Debug("scheduler signal: %s", sig)

	s.mu.Lock()
	var emits []emit
	switch sig.Kind {
	case SignalLoadSucceeded:
		emits = s.loadSucceededLocked(sig.Key)
	case SignalLoadFailed:
		emits = s.loadFailedLocked(sig.Key, sig.Failure)
	case SignalAnimationDuration:
		emits = s.animationDurationLocked(sig.Key, sig.Duration)
	case SignalPlaybackEnded:
		emits = s.playbackEndedLocked(sig.Key)
	}
	s.mu.Unlock()
	runEmits(emits)
}

func signalLabel(k SignalKind) string {
	switch k {
	case SignalLoadSucceeded:
		return "load_succeeded"
	case SignalLoadFailed:
		return "load_failed"
	case SignalAnimationDuration:
		return "animation_duration"
	case SignalPlaybackEnded:
		return "playback_ended"
	default:
		return "unknown"
	}
}

// Play starts or resumes automatic advancement.
func (s *Scheduler) Play() {
	s.mu.Lock()
	if s.playing {
		s.mu.Unlock()
		return
	}
	s.playing = true
	metrics.SchedulerPlaying.Set(1)
	cb := s.events.OnPlayingChanged
	emits := []emit{func() {
		if cb != nil {
			cb(true)
		}
	}}

	if _, ok := s.pl.Current(); !ok {
		// Nothing selected yet; begin the cycle at the first entry.
		if e, ok := s.pl.MoveNext(); ok {
			idx := s.pl.Index()
			s.beginEntryLocked(e, true)
			emits = append(emits, s.announceLocked(idx, e)...)
		}
	} else {
		switch s.state {
		case stateLoaded:
			s.armForKindLocked()
		case stateCompleted:
			// The entry finished while paused; move on now.
			emits = append(emits, s.advanceLocked("resume")...)
		case stateAwaitingLoad, stateRetrying:
			// Pause tore down any retry timer; kick a fresh load.
			s.state = stateAwaitingLoad
			key := s.currentKey
			cbLoad := s.events.OnReloadRequested
			emits = append(emits, func() {
				if cbLoad != nil && key != "" {
					cbLoad(key)
				}
			})
		}
	}
	s.mu.Unlock()
	runEmits(emits)
}

// Pause stops automatic advancement and tears down the armed watch.
func (s *Scheduler) Pause() {
	s.mu.Lock()
	emits := s.pauseLocked()
	s.mu.Unlock()
	runEmits(emits)
}

func (s *Scheduler) pauseLocked() []emit {
	if !s.playing {
		return nil
	}
	s.playing = false
	metrics.SchedulerPlaying.Set(0)
	s.disarmLocked()
	cb := s.events.OnPlayingChanged
	return []emit{func() {
		if cb != nil {
			cb(false)
		}
	}}
}

// Playing reports whether the show is auto-advancing.
func (s *Scheduler) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// Next moves to the next entry directly, bypassing the per-kind policy.
// The pending watch is torn down first. Returns false if the playlist is
// empty or an advance is already in flight.
func (s *Scheduler) Next() bool {
	return s.navigate(1, "manual_next")
}

// Previous moves to the previous entry directly, bypassing the per-kind
// policy.
func (s *Scheduler) Previous() bool {
	return s.navigate(-1, "manual_previous")
}

func (s *Scheduler) navigate(delta int, reason string) bool {
	s.mu.Lock()
	if s.pl.Len() == 0 {
		s.mu.Unlock()
		return false
	}
	if !s.advancing.CompareAndSwap(false, true) {
		s.mu.Unlock()
		metrics.SchedulerAdvancesDropped.Inc()
		return false
	}
	s.disarmLocked()

	var e playlist.Entry
	var ok bool
	if delta > 0 {
		e, ok = s.pl.MoveNext()
	} else {
		e, ok = s.pl.MovePrevious()
	}
	if !ok {
		s.advancing.Store(false)
		s.mu.Unlock()
		return false
	}

	idx := s.pl.Index()
	s.beginEntryLocked(e, true)
	metrics.SchedulerAdvancesTotal.WithLabelValues(reason).Inc()

	emits := append(s.announceLocked(idx, e), func() { s.advancing.Store(false) })
	s.mu.Unlock()
	runEmits(emits)
	return true
}

// SetDelay changes the configured image display delay. For an image on
// screen the watch is torn down and re-armed; elapsed time carries over
// because it is measured from the load timestamp, so a shortened delay can
// complete on the next tick.
func (s *Scheduler) SetDelay(d time.Duration) {
	s.mu.Lock()
	s.delay = d
	if s.playing && s.state == stateLoaded && s.currentKind == mediakind.KindImage {
		s.disarmLocked()
		s.armForKindLocked()
	}
	s.mu.Unlock()
	logging.Debug("display delay set to %v", d)
}

// Delay returns the configured image display delay.
func (s *Scheduler) Delay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delay
}

// PlaylistReplaced must be called after the playlist's entries were replaced
// wholesale. It tears down the watch, clears per-entry state and, when
// playing, selects the first entry of the new sequence.
func (s *Scheduler) PlaylistReplaced() {
	s.mu.Lock()
	s.disarmLocked()
	s.currentKey = ""
	s.currentKind = mediakind.KindOther
	s.state = stateAwaitingLoad
	s.cycleDuration = 0
	s.failed = make(map[string]bool)

	var emits []emit
	if s.playing {
		if e, ok := s.pl.MoveNext(); ok {
			idx := s.pl.Index()
			s.beginEntryLocked(e, true)
			emits = s.announceLocked(idx, e)
		}
	}
	s.mu.Unlock()
	runEmits(emits)
}

// RemoveEntry removes an entry from the playlist and fixes up scheduling
// state. Removing the entry on screen tears down its watch and moves to the
// playlist's new current entry. Returns true if an entry was removed.
func (s *Scheduler) RemoveEntry(key string) bool {
	s.mu.Lock()
	wasCurrent := key != "" && key == s.currentKey
	removed := s.pl.Remove(key)
	var emits []emit
	if removed {
		s.policy.Forget(key)
		delete(s.failed, key)
		if wasCurrent {
			s.disarmLocked()
			if e, ok := s.pl.Current(); ok {
				idx := s.pl.Index()
				s.beginEntryLocked(e, false)
				emits = s.announceLocked(idx, e)
			} else {
				s.currentKey = ""
				s.state = stateAwaitingLoad
			}
		}
	}
	s.mu.Unlock()
	runEmits(emits)
	return removed
}

// Status is a consistent snapshot for observers.
type Status struct {
	Entry   *playlist.Entry `json:"entry,omitempty"`
	Index   int             `json:"index"`
	Total   int             `json:"total"`
	Playing bool            `json:"playing"`
	DelayMs int64           `json:"delayMs"`
	State   string          `json:"state"`
}

// Status returns the scheduler's current observable state.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		Index:   s.pl.Index(),
		Total:   s.pl.Len(),
		Playing: s.playing,
		DelayMs: s.delay.Milliseconds(),
		State:   s.state.String(),
	}
	if e, ok := s.pl.Current(); ok {
		st.Entry = &e
	}
	return st
}

// Stop tears everything down for shutdown.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.playing = false
	metrics.SchedulerPlaying.Set(0)
	s.disarmLocked()
	s.mu.Unlock()
}

// --- signal handlers (locked) ---

func (s *Scheduler) loadSucceededLocked(key string) []emit {
	// Reset exactly once per successful load, even for an entry that is no
	// longer current, so stale counters never leak into later failures.
	s.policy.ResetOnSuccess(key)

	if key != s.currentKey {
		logging.Debug("ignoring stale load success for %s (current %s)", key, s.currentKey)
		return nil
	}
	if s.state != stateAwaitingLoad && s.state != stateRetrying {
		return nil
	}

	s.disarmLocked() // a pending retry timer is now moot
	s.state = stateLoaded
	s.loadedAt = time.Now()
	if s.playing {
		s.armForKindLocked()
	}
	return nil
}

func (s *Scheduler) loadFailedLocked(key string, failure retry.FailureKind) []emit {
	if key != s.currentKey || s.state == stateCompleted {
		return nil
	}

	d := s.policy.RecordFailure(key, failure)
	if d.ShouldRetry {
		s.state = stateRetrying
		s.disarmLocked()
		s.armRetryLocked(d.NextDelay)
		return nil
	}

	// Budget exhausted: surface once, mark permanently failed, skip past it.
	s.failed[key] = true
	s.policy.Forget(key)
	metrics.SchedulerPermanentFailures.Inc()
	cb := s.events.OnEntryFailed
	emits := []emit{func() {
		if cb != nil {
			cb(key)
		}
	}}
	return append(emits, s.advanceLocked("skip_failed")...)
}

func (s *Scheduler) animationDurationLocked(key string, d time.Duration) []emit {
	if key != s.currentKey {
		return nil
	}
	s.cycleDuration = d
	if s.playing && s.state == stateLoaded && s.currentKind == mediakind.KindAnimated {
		// Re-arm against loadedAt plus the now-known clamped duration.
		s.disarmLocked()
		s.armForKindLocked()
	}
	return nil
}

func (s *Scheduler) playbackEndedLocked(key string) []emit {
	if key != s.currentKey || s.state != stateLoaded || s.currentKind != mediakind.KindVideo {
		return nil
	}
	return s.completeLocked("video_ended")
}

// --- state transitions (locked) ---

// beginEntryLocked starts a fresh state-machine instance for the entry.
// Manual selection clears a permanent-failure mark so the entry gets a
// fresh chance when the user deliberately navigates to it.
func (s *Scheduler) beginEntryLocked(e playlist.Entry, manual bool) {
	s.disarmLocked()
	s.currentKey = e.Key
	s.currentKind = e.Kind
	s.state = stateAwaitingLoad
	s.loadedAt = time.Time{}
	s.cycleDuration = 0
	if manual {
		delete(s.failed, e.Key)
	}
}

// completeLocked marks the current entry done and, when playing, advances.
// While paused the completion stays pending and Play picks it up.
func (s *Scheduler) completeLocked(reason string) []emit {
	s.state = stateCompleted
	s.disarmLocked()
	if !s.playing {
		return nil
	}
	return s.advanceLocked(reason)
}

// advanceLocked moves the cursor forward exactly once, skipping entries
// already marked permanently failed. Concurrent advances are dropped via the
// advancing flag, which is held until the emitted callbacks have run.
func (s *Scheduler) advanceLocked(reason string) []emit {
	if !s.advancing.CompareAndSwap(false, true) {
		metrics.SchedulerAdvancesDropped.Inc()
		return nil
	}
	release := emit(func() { s.advancing.Store(false) })

	if s.pl.Len() == 0 {
		return []emit{release}
	}
	s.disarmLocked()

	n := s.pl.Len()
	var next playlist.Entry
	found := false
	for i := 0; i < n; i++ {
		e, ok := s.pl.MoveNext()
		if !ok {
			return []emit{release}
		}
		if !s.failed[e.Key] {
			next = e
			found = true
			break
		}
	}
	if !found {
		// Every entry is permanently failed; stop rather than spin.
		logging.Warn("all %d entries failed permanently, pausing show", n)
		emits := s.pauseLocked()
		return append(emits, release)
	}

	idx := s.pl.Index()
	s.beginEntryLocked(next, false)
	metrics.SchedulerAdvancesTotal.WithLabelValues(reason).Inc()
	logging.Debug("advance (%s) -> [%d] %s", reason, idx, next.Key)

	return append(s.announceLocked(idx, next), release)
}

// announceLocked builds the index-changed and load-request emits for a newly
// selected entry.
func (s *Scheduler) announceLocked(idx int, e playlist.Entry) []emit {
	cbIdx := s.events.OnIndexChanged
	cbLoad := s.events.OnReloadRequested
	key := e.Key
	return []emit{func() {
		if cbIdx != nil {
			cbIdx(idx, e)
		}
		if cbLoad != nil {
			cbLoad(key)
		}
	}}
}

// --- watch management (locked) ---

// disarmLocked funnels every teardown through one place, keeping the
// at-most-one-watch invariant. Safe to call with no watch armed.
func (s *Scheduler) disarmLocked() {
	if s.watch != nil {
		s.watch.stop()
		s.watch = nil
		metrics.SchedulerWatchCancels.Inc()
	}
}

// armForKindLocked arms the watch appropriate for the current entry's kind.
// Only meaningful in the loaded state while playing.
func (s *Scheduler) armForKindLocked() {
	s.disarmLocked()
	if !s.playing || s.state != stateLoaded {
		return
	}
	switch s.currentKind {
	case mediakind.KindImage:
		s.armImageTickLocked()
	case mediakind.KindAnimated:
		s.armAnimationLocked()
	case mediakind.KindVideo:
		// Completion arrives as an explicit signal; no timer runs.
	}
}

// armImageTickLocked starts the recurring elapsed-time check for a static
// image. A recurring check rather than a one-shot wait, so a delay changed
// mid-display is honored without resetting elapsed time.
func (s *Scheduler) armImageTickLocked() {
	w := &watch{key: s.currentKey, cancel: make(chan struct{})}
	s.watch = w
	metrics.SchedulerWatchArms.WithLabelValues("image_tick").Inc()

	go func() {
		ticker := time.NewTicker(s.cfg.TickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-w.cancel:
				return
			case <-ticker.C:
				if s.imageTick(w) {
					return
				}
			}
		}
	}()
}

// imageTick runs one recurring check. Returns true when the loop should
// stop, either because the watch was superseded or the entry completed.
func (s *Scheduler) imageTick(w *watch) bool {
	s.mu.Lock()
	if s.watch != w || w.key != s.currentKey {
		s.mu.Unlock()
		return true
	}
	d := s.delay
	if d <= 0 || time.Since(s.loadedAt) < d {
		// Not due yet; with a non-positive delay, keep ticking so a later
		// SetDelay can still complete without rebuilding state.
		s.mu.Unlock()
		return false
	}
	s.watch = nil // consumed
	emits := s.completeLocked("image_delay")
	s.mu.Unlock()
	runEmits(emits)
	return true
}

// armAnimationLocked arms the one-shot wait for an animated image's cycle.
// Unknown durations use the fallback so the show never hangs; known
// durations are clamped and measured from the load timestamp, so a duration
// reported late can fire immediately.
func (s *Scheduler) armAnimationLocked() {
	d := s.cycleDuration
	if d <= 0 {
		d = s.cfg.AnimationFallback
	}
	if d < s.cfg.AnimationMin {
		d = s.cfg.AnimationMin
	}
	if d > s.cfg.AnimationMax {
		d = s.cfg.AnimationMax
	}

	wait := time.Until(s.loadedAt.Add(d))
	if wait < 0 {
		wait = 0
	}

	w := &watch{key: s.currentKey, cancel: make(chan struct{})}
	s.watch = w
	metrics.SchedulerWatchArms.WithLabelValues("animation").Inc()

	go func() {
		t := time.NewTimer(wait)
		defer t.Stop()
		select {
		case <-w.cancel:
			return
		case <-t.C:
			s.mu.Lock()
			if s.watch != w || w.key != s.currentKey || s.state != stateLoaded {
				s.mu.Unlock()
				return
			}
			s.watch = nil
			emits := s.completeLocked("animation_cycle")
			s.mu.Unlock()
			runEmits(emits)
		}
	}()
}

// armRetryLocked arms the one-shot reload timer after a transient failure.
// The fire returns the entry to AwaitingLoad and asks the load collaborator
// for another attempt; it never navigates.
func (s *Scheduler) armRetryLocked(delay time.Duration) {
	w := &watch{key: s.currentKey, cancel: make(chan struct{})}
	s.watch = w
	metrics.SchedulerWatchArms.WithLabelValues("retry").Inc()

	go func() {
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-w.cancel:
			return
		case <-t.C:
			s.mu.Lock()
			if s.watch != w || w.key != s.currentKey || s.state != stateRetrying {
				s.mu.Unlock()
				return
			}
			s.watch = nil
			s.state = stateAwaitingLoad
			key := w.key
			cb := s.events.OnReloadRequested
			s.mu.Unlock()
			if cb != nil {
				cb(key)
			}
		}
	}()
}
