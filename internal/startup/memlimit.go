package startup

import (
	"math"
	"os"
	"runtime/debug"

	"media-converter/internal/logging"
)

// defaultMemoryRatio is the fraction of the container memory limit given to
// the Go heap. Engine processes share the same cgroup limit and take the
// bulk of it during a conversion, so the heap gets half at most.
const defaultMemoryRatio = 0.5

// memoryLimitResult records what configureMemoryLimit decided
type memoryLimitResult struct {
	configured     bool
	source         string // "GOMEMLIMIT", "MEMORY_LIMIT", or "none"
	containerLimit int64
	heapLimit      int64
	ratio          float64
}

// configureMemoryLimit sets GOMEMLIMIT from the container memory limit so
// the garbage collector stays ahead of the cgroup OOM killer. Unlike
// GOMAXPROCS, GOMEMLIMIT is not derived from cgroup limits automatically.
//
// Environment variables:
//   - GOMEMLIMIT: standard Go variable; when set it wins outright
//   - MEMORY_LIMIT: container memory limit in bytes (Kubernetes Downward API)
//   - MEMORY_RATIO: fraction of MEMORY_LIMIT for the Go heap (default 0.5)
func configureMemoryLimit() memoryLimitResult {
	result := memoryLimitResult{source: "none"}

	// An explicit GOMEMLIMIT was already applied by the runtime; report it
	if goMemLimit := os.Getenv("GOMEMLIMIT"); goMemLimit != "" {
		if limit := debug.SetMemoryLimit(-1); limit > 0 && limit < math.MaxInt64 {
			result.configured = true
			result.source = "GOMEMLIMIT"
			result.heapLimit = limit
		}
		logging.Info("  GOMEMLIMIT:      %s (set via environment)", goMemLimit)
		return result
	}

	containerLimit := getEnvInt64("MEMORY_LIMIT", 0)
	if containerLimit <= 0 {
		logging.Debug("  MEMORY_LIMIT not set, GOMEMLIMIT left unconfigured")
		return result
	}

	ratio := getEnvFloat("MEMORY_RATIO", defaultMemoryRatio)
	if ratio <= 0 || ratio > 1 {
		logging.Warn("  MEMORY_RATIO %g out of range (0.0-1.0], using default %.2f", ratio, defaultMemoryRatio)
		ratio = defaultMemoryRatio
	}

	heapLimit := int64(float64(containerLimit) * ratio)
	debug.SetMemoryLimit(heapLimit)

	result.configured = true
	result.source = "MEMORY_LIMIT"
	result.containerLimit = containerLimit
	result.heapLimit = heapLimit
	result.ratio = ratio

	logging.Info("  GOMEMLIMIT:      %s (%.0f%% of %s container limit)",
		formatBytesStartup(heapLimit), ratio*100, formatBytesStartup(containerLimit))

	return result
}
