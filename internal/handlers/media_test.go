package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
)

func fileRequest(key string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/file/"+key, nil)
	return mux.SetURLVars(req, map[string]string{"path": key})
}

func TestGetFile(t *testing.T) {
	env := newTestEnv(t)
	content := []byte("fake image bytes")
	env.writeMediaFile(t, "photos/a.jpg", content)

	rec := httptest.NewRecorder()
	env.h.GetFile(rec, fileRequest("photos/a.jpg"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Body.String(); got != string(content) {
		t.Errorf("body = %q, want %q", got, content)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("Content-Type = %q, want image/jpeg", ct)
	}
}

func TestGetFileNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.h.GetFile(rec, fileRequest("nope.jpg"))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestGetFileRejectsTraversal(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.h.GetFile(rec, fileRequest("../../../etc/passwd"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestGetFileEmptyPath(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.h.GetFile(rec, fileRequest(""))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
