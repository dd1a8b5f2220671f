package engine

import (
	"context"
	"sync"

	"media-converter/internal/logging"
	"media-converter/internal/metrics"
)

// ProcessRegistry tracks the cancel functions of running engine processes so
// shutdown can stop them all. Both execution paths register here; entries
// are released when their process terminates.
type ProcessRegistry struct {
	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// NewProcessRegistry returns an empty registry.
func NewProcessRegistry() *ProcessRegistry {
	return &ProcessRegistry{cancels: make(map[string]context.CancelFunc)}
}

// Track registers the cancel function for a running job.
func (r *ProcessRegistry) Track(id string, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancels[id] = cancel
	metrics.EngineProcessesActive.Set(float64(len(r.cancels)))
}

// Release forgets a job. Safe to call for jobs that were never tracked.
func (r *ProcessRegistry) Release(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cancels, id)
	metrics.EngineProcessesActive.Set(float64(len(r.cancels)))
}

// Active returns the number of currently tracked engine processes.
func (r *ProcessRegistry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cancels)
}

// StopAll cancels every tracked engine process. Used during shutdown.
func (r *ProcessRegistry) StopAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, cancel := range r.cancels {
		logging.Info("Stopping engine process for job %s", id)
		cancel()
	}
}
