package handlers

import (
	"net/http"
	"runtime"
	"time"

	"media-converter/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

// HealthResponse is the detailed health payload
type HealthResponse struct {
	Status          string `json:"status"`
	Ready           bool   `json:"ready"`
	Version         string `json:"version"`
	Uptime          string `json:"uptime"`
	EngineAvailable bool   `json:"engineAvailable"`
	EnginePath      string `json:"enginePath,omitempty"`
	ActiveJobs      int    `json:"activeJobs"`
	Formats         int    `json:"formats"`
	GoVersion       string `json:"goVersion"`
	NumCPU          int    `json:"numCpu"`
	NumGoroutine    int    `json:"numGoroutine"`
}

// HealthCheck returns detailed service health. The service runs without the
// conversion engine but reports itself degraded, since every conversion
// will fail.
// GET /health, GET /healthz
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	response := HealthResponse{
		Ready:           h.engineOK,
		Version:         startup.Version,
		Uptime:          time.Since(h.startTime).Round(time.Second).String(),
		EngineAvailable: h.engineOK,
		EnginePath:      h.enginePath,
		ActiveJobs:      h.procs.Active(),
		Formats:         len(h.profiles.Names()),
		GoVersion:       runtime.Version(),
		NumCPU:          runtime.NumCPU(),
		NumGoroutine:    runtime.NumGoroutine(),
	}

	if response.Ready {
		response.Status = statusHealthy
	} else {
		response.Status = statusDegraded
	}

	w.Header().Set("Content-Type", "application/json")
	if !response.Ready {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	writeJSON(w, response)
}

// LivenessCheck reports that the process is alive. Always succeeds while
// the server can answer at all.
// GET /livez
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}
	writeJSONStatus(w, "alive")
}

// ReadinessCheck reports whether the service can currently convert, which
// requires the engine binary to have been found at startup.
// GET /readyz
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if h.engineOK {
		writeJSONStatus(w, "ready")
		return
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	writeJSONStatus(w, "not_ready")
}
