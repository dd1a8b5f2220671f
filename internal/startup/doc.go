// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// This package centralizes all application configuration and provides consistent
// logging throughout the application lifecycle. Configuration is captured
// exactly once, before any component is constructed; nothing else in the
// application reads the environment.
//
// # Configuration
//
// All configuration is loaded from environment variables via [LoadConfig].
// A .env file in the working directory is honored when present (local
// development convenience). The following environment variables are supported:
//
//   - PORT: HTTP server port (default: 8080)
//   - METRICS_PORT: Prometheus metrics server port (default: 9090)
//   - METRICS_ENABLED: Enable or disable the metrics server (default: true)
//   - WORK_DIR: Scratch directory for uploads and conversion outputs (default: /work)
//   - WORK_DIR_MAX_BYTES: Scratch space budget for the capacity guard,
//     0 disables admission control (default: 0)
//   - MAX_UPLOAD_BYTES: Upload size cap in bytes (default: 536870912, 512 MiB)
//   - CONVERT_TIMEOUT: Per-job conversion deadline as Go duration (default: 10m)
//   - FFMPEG_PATH: Conversion engine binary name or path (default: ffmpeg)
//   - FFPROBE_PATH: Analyzer binary name or path (default: ffprobe)
//   - ENGINE_THREADS: Encoder thread count, 0 lets the engine decide (default: 0)
//   - RATE_LIMIT_RPS: Convert requests per second per client IP (default: 1)
//   - RATE_LIMIT_BURST: Rate limiter burst per client IP (default: 5)
//   - CORS_ORIGINS: Comma-separated allowed origins (default: *)
//   - LOG_LEVEL: Logging level - debug, info, warn, error (default: info)
//   - DEBUG: Shorthand for LOG_LEVEL=debug (default: false)
//
// # Runtime Memory
//
// GOMEMLIMIT is not derived from cgroup limits the way GOMAXPROCS is, so
// LoadConfig configures it explicitly when the container memory limit is
// known:
//
//   - GOMEMLIMIT: Standard Go variable; when set it is respected as-is
//   - MEMORY_LIMIT: Container memory limit in bytes, typically wired from
//     the Kubernetes Downward API (resourceFieldRef: limits.memory)
//   - MEMORY_RATIO: Fraction of MEMORY_LIMIT given to the Go heap
//     (default: 0.5). Engine processes share the container limit, so the
//     heap never gets all of it.
//
// # Working Directory
//
// The working directory holds every upload and every conversion output for
// the lifetime of a request. It is created if missing and must be writable;
// the service refuses to start otherwise.
//
// # Engine Discovery
//
// The ffmpeg and ffprobe binaries are resolved via PATH lookup at startup.
// A missing engine is not fatal: the service starts, reports itself
// degraded on the readiness probe, and fails conversions until restarted
// with the binary installed.
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo]:
//   - Version: Application version
//   - Commit: Git commit hash
//   - BuildTime: Build timestamp
//   - GoVersion: Go compiler version
package startup
