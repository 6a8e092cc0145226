package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthCheckStarting(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d before initial scan", rec.Code, http.StatusServiceUnavailable)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != statusStarting {
		t.Errorf("Status = %q, want %q", resp.Status, statusStarting)
	}
	if resp.Ready {
		t.Error("Ready should be false before initial scan")
	}
}

func TestHealthCheckHealthy(t *testing.T) {
	env := newTestEnv(t)
	env.seedPlaylist(t, "a.jpg", "b.jpg")
	env.h.RecordScan(2, nil)

	rec := httptest.NewRecorder()
	env.h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != statusHealthy {
		t.Errorf("Status = %q, want %q", resp.Status, statusHealthy)
	}
	if resp.TotalEntries != 2 {
		t.Errorf("TotalEntries = %d, want 2", resp.TotalEntries)
	}
	if resp.LastScan == "" {
		t.Error("LastScan should be set after a scan")
	}
}

func TestHealthCheckDegraded(t *testing.T) {
	env := newTestEnv(t)
	env.h.RecordScan(0, http.ErrServerClosed)

	rec := httptest.NewRecorder()
	env.h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != statusDegraded {
		t.Errorf("Status = %q, want %q", resp.Status, statusDegraded)
	}
	if resp.ScanError == "" {
		t.Error("ScanError should be populated")
	}
}

func TestLivenessCheck(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.h.LivenessCheck(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.Len() == 0 {
		t.Error("GET liveness should have a body")
	}

	rec = httptest.NewRecorder()
	env.h.LivenessCheck(rec, httptest.NewRequest(http.MethodHead, "/livez", nil))
	if rec.Body.Len() != 0 {
		t.Error("HEAD liveness should have no body")
	}
}

func TestReadinessCheck(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.h.ReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d before scan", rec.Code, http.StatusServiceUnavailable)
	}

	env.h.RecordScan(0, nil)

	rec = httptest.NewRecorder()
	env.h.ReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d after scan", rec.Code, http.StatusOK)
	}
}

func TestGetVersion(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.h.GetVersion(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["version"] == "" {
		t.Error("version should not be empty")
	}
	if resp["goVersion"] == "" {
		t.Error("goVersion should not be empty")
	}
}
