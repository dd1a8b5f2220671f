// Package middleware provides HTTP middleware for the conversion API.
//
// It includes:
//   - Request logging in W3C Extended Log Format
//   - Response compression (gzip) for API responses
//   - Prometheus request metrics with streaming-aware latency
//   - Per-client rate limiting for conversion submissions
//   - Capacity-based admission control backed by the disk guard
package middleware
