package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"slideshow-viewer/internal/retry"
	"slideshow-viewer/internal/scheduler"
)

// maxSlideDelay guards against unreasonable client-supplied delays.
const maxSlideDelay = time.Hour

// GetPlaybackState returns a snapshot of the scheduler for clients joining
// or reconnecting mid-show.
func (h *Handlers) GetPlaybackState(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, h.sched.Status())
}

// NextEntry advances to the next entry immediately.
func (h *Handlers) NextEntry(w http.ResponseWriter, _ *http.Request) {
	if !h.sched.Next() {
		writeJSONError(w, "Playlist is empty", http.StatusConflict)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, h.sched.Status())
}

// PreviousEntry steps back to the previous entry immediately.
func (h *Handlers) PreviousEntry(w http.ResponseWriter, _ *http.Request) {
	if !h.sched.Previous() {
		writeJSONError(w, "Playlist is empty", http.StatusConflict)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, h.sched.Status())
}

// Play resumes automatic advancement.
func (h *Handlers) Play(w http.ResponseWriter, _ *http.Request) {
	h.sched.Play()
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, h.sched.Status())
}

// Pause suspends automatic advancement. The current entry stays up.
func (h *Handlers) Pause(w http.ResponseWriter, _ *http.Request) {
	h.sched.Pause()
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, h.sched.Status())
}

// DelayRequest carries a slide delay change.
type DelayRequest struct {
	DelayMs int64 `json:"delayMs"`
}

// SetDelay changes the slide delay. A delay of zero disables automatic
// image advancement; elapsed display time is preserved either way.
func (h *Handlers) SetDelay(w http.ResponseWriter, r *http.Request) {
	var req DelayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	d := time.Duration(req.DelayMs) * time.Millisecond
	if d < 0 || d > maxSlideDelay {
		writeJSONError(w, "Delay out of range", http.StatusBadRequest)
		return
	}

	h.sched.SetDelay(d)
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, h.sched.Status())
}

// SignalRequest carries a playback signal reported by the rendering client.
type SignalRequest struct {
	Key        string `json:"key"`
	Failure    string `json:"failure,omitempty"`
	DurationMs int64  `json:"durationMs,omitempty"`
}

func decodeSignalRequest(w http.ResponseWriter, r *http.Request) (SignalRequest, bool) {
	var req SignalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return req, false
	}
	if req.Key == "" {
		writeJSONError(w, "Key is required", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

// SignalLoaded reports that the client finished loading the current entry.
func (h *Handlers) SignalLoaded(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSignalRequest(w, r)
	if !ok {
		return
	}
	h.sched.Handle(scheduler.LoadSucceeded(req.Key))
	writeJSONStatus(w, "ok")
}

// SignalFailed reports that the client could not load the current entry.
func (h *Handlers) SignalFailed(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSignalRequest(w, r)
	if !ok {
		return
	}
	h.sched.Handle(scheduler.LoadFailed(req.Key, parseFailureKind(req.Failure)))
	writeJSONStatus(w, "ok")
}

// SignalEnded reports that a video finished playing.
func (h *Handlers) SignalEnded(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSignalRequest(w, r)
	if !ok {
		return
	}
	h.sched.Handle(scheduler.PlaybackEnded(req.Key))
	writeJSONStatus(w, "ok")
}

// SignalDuration reports the decoded cycle duration of an animated image.
func (h *Handlers) SignalDuration(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSignalRequest(w, r)
	if !ok {
		return
	}
	if req.DurationMs <= 0 {
		writeJSONError(w, "Duration must be positive", http.StatusBadRequest)
		return
	}
	h.sched.Handle(scheduler.AnimationDuration(req.Key, time.Duration(req.DurationMs)*time.Millisecond))
	writeJSONStatus(w, "ok")
}

func parseFailureKind(s string) retry.FailureKind {
	switch retry.FailureKind(s) {
	case retry.FailureIO:
		return retry.FailureIO
	case retry.FailureDecode:
		return retry.FailureDecode
	default:
		return retry.FailureUnknown
	}
}
