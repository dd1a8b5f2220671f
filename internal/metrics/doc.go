// Package metrics provides Prometheus instrumentation for the media-converter
// application.
//
// This package defines and exposes the metrics scraped by Prometheus to
// monitor the health, performance, and behavior of the service. All metrics
// are prefixed with "media_converter_" to avoid naming collisions with other
// applications.
//
// # Metric Categories
//
// ## HTTP Metrics
//
// Track HTTP request performance and error rates:
//   - HTTPRequestsTotal: Counter of total requests by method, path, and status
//   - HTTPRequestDuration: Histogram of request duration by method and path
//   - HTTPRequestsInFlight: Gauge of currently processing requests
//   - RateLimitedTotal: Counter of requests rejected by the rate limiter
//
// ## Upload Metrics
//
// Track streaming upload ingestion:
//   - UploadsTotal: Counter of upload attempts by terminal status
//     (accepted, too_large, too_many_files, empty, malformed, no_file)
//   - UploadBytes: Histogram of accepted upload sizes
//   - UploadDuration: Histogram of time spent receiving upload bodies
//
// ## Conversion Metrics
//
// Monitor the dual-path conversion orchestrator:
//   - ConversionsTotal: Counter by format, execution method
//     (none/primary/fallback), and terminal state
//   - ConversionDuration: Histogram of job duration by execution method
//   - ConversionsInFlight: Gauge of running jobs
//   - FallbacksTotal: Counter of jobs that fell back to the raw runner
//
// ## Delivery Metrics
//
// Track result streaming:
//   - DeliveriesTotal: Counter of deliveries by status
//   - DeliveredBytes: Counter of converted bytes streamed to clients
//
// ## Engine Metrics
//
//   - EngineProcessesActive: Gauge of tracked engine processes
//
// ## Working Directory Metrics
//
// Fed by the Collector and the capacity guard; watch for leaked artifacts:
//   - WorkDirFiles: Gauge of files in the working directory
//   - WorkDirBytes: Gauge of working directory size
//   - WorkDirUsageRatio: Gauge of usage as a fraction of the scratch budget
//   - WorkDirPaused: Gauge set to 1 while admission is suspended
//   - CapacityRejectedTotal: Counter of conversions refused over capacity
//
// ## Application Info
//
//   - AppInfo: Gauge with version, commit, and Go version labels
//
// # Usage
//
// Metrics are automatically registered with the default Prometheus registry
// using promauto. To expose them, mount the promhttp.Handler() on your
// metrics endpoint:
//
//	import "github.com/prometheus/client_golang/prometheus/promhttp"
//
//	mux.Handle("/metrics", promhttp.Handler())
//
// To record metrics from other packages, import this package and use the
// exported metric variables:
//
//	metrics.UploadsTotal.WithLabelValues("accepted").Inc()
//	metrics.ConversionDuration.WithLabelValues("primary").Observe(12.3)
//	metrics.ConversionsInFlight.Set(2)
//
// # Collector
//
// The [Collector] periodically gathers statistics from a [StatsProvider]
// and updates the working-directory gauges:
//
//	collector := metrics.NewCollector(statsProvider, 1*time.Minute)
//	collector.Start()
//	defer collector.Stop()
//
// # Prometheus Queries
//
// Fallback rate:
//
//	rate(media_converter_fallbacks_total[5m]) /
//	sum(rate(media_converter_conversions_total[5m]))
//
// P95 conversion time on the primary path:
//
//	histogram_quantile(0.95, sum(rate(media_converter_conversion_duration_seconds_bucket{method="primary"}[5m])) by (le))
//
// Rejected upload rate by reason:
//
//	sum(rate(media_converter_uploads_total{status!="accepted"}[5m])) by (status)
package metrics
