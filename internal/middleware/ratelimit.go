package middleware

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"media-converter/internal/metrics"
)

// RateLimitConfig holds configuration for the per-client rate limiter
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained request rate allowed per client
	RequestsPerSecond float64
	// Burst is the number of requests a client may send above the sustained rate
	Burst int
	// ClientTTL is how long an idle client entry is kept before eviction
	ClientTTL time.Duration
}

// DefaultRateLimitConfig returns defaults sized for conversion traffic.
// Each request can start an engine process, so the sustained rate is low.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 1,
		Burst:             5,
		ClientTTL:         10 * time.Minute,
	}
}

// clientLimiter pairs a token bucket with its last access time
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter tracks one token bucket per client IP
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	config    RateLimitConfig
	lastSweep time.Time
}

// NewRateLimiter creates a rate limiter with per-client token buckets
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		clients:   make(map[string]*clientLimiter),
		config:    config,
		lastSweep: time.Now(),
	}
}

// getLimiter returns the token bucket for a client, creating it on first
// sight. Idle entries are swept opportunistically so the map stays bounded
// without a background goroutine.
func (rl *RateLimiter) getLimiter(clientIP string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.lastSweep) > rl.config.ClientTTL {
		rl.sweepLocked(now)
	}

	client, ok := rl.clients[clientIP]
	if !ok {
		client = &clientLimiter{
			limiter: rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.Burst),
		}
		rl.clients[clientIP] = client
	}
	client.lastSeen = now
	return client.limiter
}

// sweepLocked drops clients idle longer than ClientTTL. Callers hold mu.
func (rl *RateLimiter) sweepLocked(now time.Time) {
	for ip, client := range rl.clients {
		if now.Sub(client.lastSeen) > rl.config.ClientTTL {
			delete(rl.clients, ip)
		}
	}
	rl.lastSweep = now
}

// retryAfterSeconds converts the sustained rate into a whole-second
// Retry-After hint, never less than one second
func retryAfterSeconds(rps float64) string {
	if rps <= 0 {
		return "1"
	}
	secs := int(math.Ceil(1 / rps))
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

// RateLimit returns a middleware that rejects clients exceeding their token
// bucket with 429 Too Many Requests and a Retry-After hint
func RateLimit(config RateLimitConfig) func(http.Handler) http.Handler {
	limiter := NewRateLimiter(config)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.getLimiter(getClientIP(r)).Allow() {
				metrics.RateLimitedTotal.Inc()
				w.Header().Set("Retry-After", retryAfterSeconds(config.RequestsPerSecond))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{"error": "rate limit exceeded"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
