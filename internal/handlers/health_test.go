package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"sync"
	"testing"

	"media-converter/internal/convert"
	"media-converter/internal/engine"
	"media-converter/internal/profile"
	"media-converter/internal/startup"
	"media-converter/internal/tempfile"
	"media-converter/internal/upload"
)

func newHealthEnv(t *testing.T, engineAvailable bool) *Handlers {
	t.Helper()

	alloc, err := tempfile.NewAllocator(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create allocator: %v", err)
	}
	orch := convert.New(convert.Config{Binding: &stubBinding{}, Runner: &stubRunner{}, Alloc: alloc})
	config := &startup.Config{
		EngineAvailable: engineAvailable,
		ResolvedFFmpeg:  "/usr/bin/ffmpeg",
	}
	if !engineAvailable {
		config.ResolvedFFmpeg = ""
	}
	return New(upload.NewIngestor(1<<20), profile.Builtin(), orch, alloc, engine.NewProcessRegistry(), config)
}

func TestHealthCheckWhenEngineAvailable(t *testing.T) {
	h := newHealthEnv(t, true)

	req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
	w := httptest.NewRecorder()

	h.HealthCheck(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if !response.Ready {
		t.Error("Expected ready=true")
	}
	if response.Status != "healthy" {
		t.Errorf("Expected status=healthy, got %s", response.Status)
	}
	if !response.EngineAvailable {
		t.Error("Expected engineAvailable=true")
	}
	if response.EnginePath != "/usr/bin/ffmpeg" {
		t.Errorf("Expected enginePath=/usr/bin/ffmpeg, got %s", response.EnginePath)
	}
	if response.Formats == 0 {
		t.Error("Expected a non-zero format count")
	}
}

func TestHealthCheckWhenEngineMissing(t *testing.T) {
	h := newHealthEnv(t, false)

	req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
	w := httptest.NewRecorder()

	h.HealthCheck(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status %d, got %d", http.StatusServiceUnavailable, w.Code)
	}

	var response HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response.Ready {
		t.Error("Expected ready=false")
	}
	if response.Status != "degraded" {
		t.Errorf("Expected status=degraded, got %s", response.Status)
	}
	if response.EnginePath != "" {
		t.Errorf("Expected enginePath omitted, got %s", response.EnginePath)
	}
}

func TestHealthCheckSystemInfo(t *testing.T) {
	h := newHealthEnv(t, true)

	req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
	w := httptest.NewRecorder()

	h.HealthCheck(w, req)

	var response HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response.Version == "" {
		t.Error("Expected version to be set")
	}
	if response.Uptime == "" {
		t.Error("Expected uptime to be set")
	}
	if !strings.HasPrefix(response.GoVersion, "go") {
		t.Errorf("Expected goVersion to start with 'go', got %s", response.GoVersion)
	}
	if response.NumCPU != runtime.NumCPU() {
		t.Errorf("Expected numCpu=%d, got %d", runtime.NumCPU(), response.NumCPU)
	}
	if response.NumGoroutine <= 0 {
		t.Error("Expected numGoroutine to be positive")
	}
	if response.ActiveJobs != 0 {
		t.Errorf("Expected activeJobs=0 with no conversions running, got %d", response.ActiveJobs)
	}
}

func TestLivenessCheckAlwaysSucceeds(t *testing.T) {
	// Liveness ignores engine availability entirely
	h := newHealthEnv(t, false)

	req := httptest.NewRequest(http.MethodGet, "/livez", http.NoBody)
	w := httptest.NewRecorder()

	h.LivenessCheck(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response["status"] != "alive" {
		t.Errorf("Expected status=alive, got %s", response["status"])
	}
}

func TestLivenessCheckHead(t *testing.T) {
	h := newHealthEnv(t, true)

	req := httptest.NewRequest(http.MethodHead, "/livez", http.NoBody)
	w := httptest.NewRecorder()

	h.LivenessCheck(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("Expected empty body for HEAD, got %q", w.Body.String())
	}
}

func TestReadinessCheck(t *testing.T) {
	tests := []struct {
		name           string
		engine         bool
		expectedCode   int
		expectedStatus string
	}{
		{
			name:           "Ready when engine present",
			engine:         true,
			expectedCode:   http.StatusOK,
			expectedStatus: "ready",
		},
		{
			name:           "Not ready when engine missing",
			engine:         false,
			expectedCode:   http.StatusServiceUnavailable,
			expectedStatus: "not_ready",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHealthEnv(t, tt.engine)

			req := httptest.NewRequest(http.MethodGet, "/readyz", http.NoBody)
			w := httptest.NewRecorder()

			h.ReadinessCheck(w, req)

			if w.Code != tt.expectedCode {
				t.Errorf("Expected status %d, got %d", tt.expectedCode, w.Code)
			}

			var response map[string]string
			if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if response["status"] != tt.expectedStatus {
				t.Errorf("Expected status=%s, got %s", tt.expectedStatus, response["status"])
			}
		})
	}
}

func TestHealthCheckConcurrent(t *testing.T) {
	h := newHealthEnv(t, true)

	var wg sync.WaitGroup
	numRequests := 10

	for i := 0; i < numRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
			w := httptest.NewRecorder()

			h.HealthCheck(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("Concurrent request failed: %d", w.Code)
			}
		}()
	}

	wg.Wait()
}
