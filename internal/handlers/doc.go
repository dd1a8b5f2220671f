// Package handlers provides HTTP request handlers for the media converter API.
//
// It includes handlers for:
//   - Upload-and-convert round trips with attachment delivery
//   - Listing the supported target formats
//   - Health, liveness, and readiness probes
//   - Version and build information
package handlers
