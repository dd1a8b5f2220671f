package middleware

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"time"

	"media-converter/internal/metrics"
)

// CapacityGuard reports whether new work may start and how long a refused
// client should wait before retrying. The disk guard satisfies this.
type CapacityGuard interface {
	Admit() bool
	RetryAfter() time.Duration
}

// durationSeconds converts a duration into a whole-second Retry-After
// hint, never less than one second
func durationSeconds(d time.Duration) string {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

// Capacity returns a middleware that rejects requests with 503 Service
// Unavailable while the guard refuses admission. In-flight work is never
// touched; only new requests are turned away.
func Capacity(guard CapacityGuard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !guard.Admit() {
				metrics.CapacityRejectedTotal.Inc()
				w.Header().Set("Retry-After", durationSeconds(guard.RetryAfter()))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{"error": "server is over capacity"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
