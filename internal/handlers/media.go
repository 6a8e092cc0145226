package handlers

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"slideshow-viewer/internal/mediakind"

	"github.com/gorilla/mux"
)

// GetFile serves a media file by its playlist key. Path resolution goes
// through the scanner so traversal outside the media directory is rejected.
func (h *Handlers) GetFile(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["path"]
	if key == "" {
		writeJSONError(w, "Path is required", http.StatusBadRequest)
		return
	}

	fullPath, err := h.scanner.ResolvePath(key)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			writeJSONError(w, "File not found", http.StatusNotFound)
		case errors.Is(err, os.ErrPermission), errors.Is(err, os.ErrInvalid):
			writeJSONError(w, "Invalid path", http.StatusBadRequest)
		default:
			writeJSONError(w, "Failed to resolve path", http.StatusInternalServerError)
		}
		return
	}

	ext := strings.ToLower(filepath.Ext(key))
	w.Header().Set("Content-Type", mediakind.GetMimeType(ext))
	w.Header().Set("Cache-Control", "private, max-age=3600")

	http.ServeFile(w, r, fullPath)
}
