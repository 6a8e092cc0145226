package handlers

import (
	"net/http"

	"slideshow-viewer/internal/logging"
	"slideshow-viewer/internal/playlist"

	"github.com/gorilla/mux"
)

// EntriesResponse is the payload for listing the playlist.
type EntriesResponse struct {
	Entries []playlist.Entry `json:"entries"`
	Index   int              `json:"index"`
	Total   int              `json:"total"`
}

// ListEntries returns the current playlist contents and cursor.
func (h *Handlers) ListEntries(w http.ResponseWriter, _ *http.Request) {
	entries, index := h.pl.Snapshot()

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, EntriesResponse{
		Entries: entries,
		Index:   index,
		Total:   len(entries),
	})
}

// ListFailedEntries returns the keys marked permanently failed.
func (h *Handlers) ListFailedEntries(w http.ResponseWriter, r *http.Request) {
	keys, err := h.db.ListFailed(r.Context())
	if err != nil {
		logging.Error("failed to list failed entries: %v", err)
		writeJSONError(w, "Failed to list failed entries", http.StatusInternalServerError)
		return
	}
	if keys == nil {
		keys = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string][]string{"failed": keys})
}

// RemoveEntry removes an entry from the playlist by key. If the current
// entry is removed the scheduler moves on to its successor.
func (h *Handlers) RemoveEntry(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if key == "" {
		writeJSONError(w, "Key is required", http.StatusBadRequest)
		return
	}

	if !h.sched.RemoveEntry(key) {
		writeJSONError(w, "Entry not found", http.StatusNotFound)
		return
	}

	if err := h.db.ClearFailed(r.Context(), key); err != nil {
		logging.Warn("failed to clear failure mark for removed entry %s: %v", key, err)
	}

	writeJSONStatus(w, "removed")
}

// TriggerRescan kicks off a media rescan in the background.
func (h *Handlers) TriggerRescan(w http.ResponseWriter, _ *http.Request) {
	if h.rescan == nil {
		writeJSONError(w, "Rescan not available", http.StatusServiceUnavailable)
		return
	}

	if h.scanStatus().Scanning {
		writeJSONStatus(w, "rescan already in progress")
		return
	}

	go func() {
		if err := h.rescan(); err != nil {
			logging.Error("rescan failed: %v", err)
		}
	}()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	writeJSON(w, map[string]string{"status": "rescan started"})
}
