package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"media-converter/internal/metrics"
)

// metricsResponseWriter wraps http.ResponseWriter to capture the status code
// and, for streaming endpoints, the time the first response byte was written.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode      int
	headerWritten   bool
	startTime       time.Time
	firstByteTime   time.Time
	isStreamingPath bool
}

func newMetricsResponseWriter(w http.ResponseWriter, startTime time.Time, isStreaming bool) *metricsResponseWriter {
	return &metricsResponseWriter{
		ResponseWriter:  w,
		statusCode:      http.StatusOK,
		startTime:       startTime,
		isStreamingPath: isStreaming,
	}
}

func (rw *metricsResponseWriter) WriteHeader(code int) {
	if rw.headerWritten {
		return
	}
	rw.statusCode = code
	rw.headerWritten = true
	if rw.isStreamingPath && rw.firstByteTime.IsZero() {
		rw.firstByteTime = time.Now()
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *metricsResponseWriter) Write(b []byte) (int, error) {
	if !rw.headerWritten {
		rw.headerWritten = true
		if rw.isStreamingPath && rw.firstByteTime.IsZero() {
			rw.firstByteTime = time.Now()
		}
	}
	return rw.ResponseWriter.Write(b)
}

func (rw *metricsResponseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// GetDuration returns the duration to record for this request. Streaming
// endpoints report time to first byte so the histogram reflects server-side
// work rather than the client's download bandwidth.
func (rw *metricsResponseWriter) GetDuration() time.Duration {
	if rw.isStreamingPath && !rw.firstByteTime.IsZero() {
		return rw.firstByteTime.Sub(rw.startTime)
	}
	return time.Since(rw.startTime)
}

// isStreamingPath reports whether the path delivers converted media back to
// the client. Conversion responses can run to gigabytes, so their total
// request duration is dominated by the client connection.
func isStreamingPath(path string) bool {
	return strings.HasPrefix(path, "/api/convert/")
}

// MetricsConfig holds configuration for the metrics middleware
type MetricsConfig struct {
	// SkipPaths are paths that should not be recorded
	SkipPaths []string
}

// DefaultMetricsConfig returns the default metrics configuration
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		SkipPaths: []string{"/metrics", "/health", "/healthz", "/livez", "/readyz"},
	}
}

// Metrics returns a middleware that records Prometheus metrics
func Metrics(config MetricsConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip metrics for certain paths
			for _, path := range config.SkipPaths {
				if strings.HasPrefix(r.URL.Path, path) {
					next.ServeHTTP(w, r)
					return
				}
			}

			// Track in-flight requests
			metrics.HTTPRequestsInFlight.Inc()
			defer metrics.HTTPRequestsInFlight.Dec()

			start := time.Now()
			wrapped := newMetricsResponseWriter(w, start, isStreamingPath(r.URL.Path))

			next.ServeHTTP(wrapped, r)

			// Record metrics
			duration := wrapped.GetDuration().Seconds()
			path := normalizePath(r.URL.Path)
			status := strconv.Itoa(wrapped.statusCode)

			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
		})
	}
}

// normalizePath normalizes the path for metrics to avoid high cardinality.
// The conversion target segment is client-supplied and unbounded.
func normalizePath(path string) string {
	if strings.HasPrefix(path, "/api/convert/") {
		return "/api/convert/{format}"
	}

	// Truncate unexpectedly deep paths so stray requests cannot mint labels
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i > 3 {
			parts[i] = "{path}"
			return strings.Join(parts[:i+1], "/")
		}
	}

	return path
}
