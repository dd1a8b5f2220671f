package workers

import "runtime"

// Count returns a worker or thread count sized to the CPUs this process
// may actually use. It respects container CPU limits via GOMAXPROCS
// (Go 1.19+).
//
// The multiplier adjusts for task characteristics:
//   - 1.0 for CPU-bound tasks
//   - 2.0 for I/O-bound tasks
//
// The limit parameter caps the count to prevent resource exhaustion.
// Use 0 for no limit.
func Count(multiplier float64, limit int) int {
	// GOMAXPROCS is automatically set to the container CPU limit in Go 1.19+
	available := runtime.GOMAXPROCS(0)

	workers := int(float64(available) * multiplier)

	if workers < 1 {
		workers = 1
	}
	if limit > 0 && workers > limit {
		workers = limit
	}

	return workers
}

// ForCPU returns a count for CPU-bound work (1 per CPU).
// The limit parameter caps the maximum.
func ForCPU(limit int) int {
	return Count(1.0, limit)
}

// EngineThreads resolves the thread count handed to the conversion engine.
// A positive configured value wins, capped by limit. Zero or negative
// auto-sizes from available CPUs: the engine's own thread auto-detection
// counts host CPUs and oversubscribes inside a container with a CPU limit.
func EngineThreads(configured, limit int) int {
	if configured > 0 {
		if limit > 0 && configured > limit {
			return limit
		}
		return configured
	}
	return ForCPU(limit)
}
