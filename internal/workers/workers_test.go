package workers

import (
	"os"
	"runtime"
	"testing"
)

func TestCount(t *testing.T) {
	originalEnv := os.Getenv("SCAN_WORKERS")
	defer func() {
		if originalEnv != "" {
			os.Setenv("SCAN_WORKERS", originalEnv)
		} else {
			os.Unsetenv("SCAN_WORKERS")
		}
	}()
	os.Unsetenv("SCAN_WORKERS")

	availableCPU := runtime.GOMAXPROCS(0)

	tests := []struct {
		name       string
		multiplier float64
		limit      int
		minExpect  int
		maxExpect  int
	}{
		{
			name:       "CPU-bound task (1.0x multiplier)",
			multiplier: 1.0,
			limit:      0,
			minExpect:  1,
			maxExpect:  availableCPU,
		},
		{
			name:       "I/O-bound task (2.0x multiplier)",
			multiplier: 2.0,
			limit:      0,
			minExpect:  1,
			maxExpect:  availableCPU * 2,
		},
		{
			name:       "With limit lower than calculated",
			multiplier: 2.0,
			limit:      2,
			minExpect:  1,
			maxExpect:  2,
		},
		{
			name:       "Zero multiplier still yields a worker",
			multiplier: 0.0,
			limit:      0,
			minExpect:  1,
			maxExpect:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Count(tt.multiplier, tt.limit)
			if got < tt.minExpect {
				t.Errorf("Count(%v, %d) = %d, expected >= %d", tt.multiplier, tt.limit, got, tt.minExpect)
			}
			if got > tt.maxExpect {
				t.Errorf("Count(%v, %d) = %d, expected <= %d", tt.multiplier, tt.limit, got, tt.maxExpect)
			}
		})
	}
}

func TestCountWithEnvOverride(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		limit    int
		expected int
		invalid  bool
	}{
		{name: "Valid override", envValue: "8", limit: 0, expected: 8},
		{name: "Override capped by limit", envValue: "20", limit: 10, expected: 10},
		{name: "Override below limit", envValue: "5", limit: 10, expected: 5},
		{name: "Non-numeric falls back", envValue: "invalid", limit: 0, invalid: true},
		{name: "Zero falls back", envValue: "0", limit: 0, invalid: true},
		{name: "Negative falls back", envValue: "-5", limit: 0, invalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv("SCAN_WORKERS", tt.envValue)
			defer os.Unsetenv("SCAN_WORKERS")

			got := Count(1.0, tt.limit)
			if tt.invalid {
				if got < 1 {
					t.Errorf("Count with invalid override should return at least 1, got %d", got)
				}
			} else if got != tt.expected {
				t.Errorf("Count(1.0, %d) with SCAN_WORKERS=%s = %d, want %d", tt.limit, tt.envValue, got, tt.expected)
			}
		})
	}
}

func TestHelpers(t *testing.T) {
	os.Unsetenv("SCAN_WORKERS")
	defer os.Unsetenv("SCAN_WORKERS")

	cpus := runtime.GOMAXPROCS(0)

	if got := ForCPU(0); got < 1 || got > cpus {
		t.Errorf("ForCPU(0) = %d, want between 1 and %d", got, cpus)
	}
	if got := ForIO(0); got < 1 || got > cpus*2 {
		t.Errorf("ForIO(0) = %d, want between 1 and %d", got, cpus*2)
	}
	if got := ForMixed(0); got < 1 {
		t.Errorf("ForMixed(0) = %d, want >= 1", got)
	}
	if got := ForIO(3); got > 3 {
		t.Errorf("ForIO(3) = %d, should not exceed limit", got)
	}
	if got := ForCPU(1); got != 1 {
		t.Errorf("ForCPU(1) = %d, want 1", got)
	}
}
