package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_converter_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_converter_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_converter_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_converter_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)
)

// Upload metrics
var (
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_converter_uploads_total",
			Help: "Total number of upload attempts by terminal status",
		},
		[]string{"status"},
	)

	UploadBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "media_converter_upload_bytes",
			Help:    "Size distribution of accepted uploads in bytes",
			Buckets: []float64{1 << 10, 64 << 10, 1 << 20, 16 << 20, 64 << 20, 256 << 20, 1 << 30},
		},
	)

	UploadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "media_converter_upload_duration_seconds",
			Help:    "Time spent receiving an upload body in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		},
	)
)

// Conversion metrics
var (
	ConversionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_converter_conversions_total",
			Help: "Total number of conversion jobs by format, execution method, and terminal state",
		},
		[]string{"format", "method", "status"},
	)

	ConversionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_converter_conversion_duration_seconds",
			Help:    "Conversion job duration in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"method"},
	)

	ConversionsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_converter_conversions_in_flight",
			Help: "Number of conversion jobs currently running",
		},
	)

	FallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_converter_fallbacks_total",
			Help: "Total number of jobs that fell back to the raw engine runner",
		},
	)
)

// Delivery metrics
var (
	DeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_converter_deliveries_total",
			Help: "Total number of result deliveries by status",
		},
		[]string{"status"},
	)

	DeliveredBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_converter_delivered_bytes_total",
			Help: "Total bytes of converted output streamed to clients",
		},
	)
)

// Engine metrics
var (
	EngineProcessesActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_converter_engine_processes_active",
			Help: "Number of engine processes currently tracked",
		},
	)
)

// Working directory metrics, fed by the Collector
var (
	WorkDirFiles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_converter_workdir_files",
			Help: "Number of files currently in the conversion working directory",
		},
	)

	WorkDirBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_converter_workdir_bytes",
			Help: "Total size of the conversion working directory in bytes",
		},
	)

	WorkDirUsageRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_converter_workdir_usage_ratio",
			Help: "Working directory usage as a fraction of the configured limit (0 when unlimited)",
		},
	)

	WorkDirPaused = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_converter_workdir_paused",
			Help: "Whether new conversions are paused because the working directory is over its critical watermark (1 = paused)",
		},
	)

	CapacityRejectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_converter_capacity_rejected_total",
			Help: "Total number of conversion requests rejected while the working directory was over capacity",
		},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "media_converter_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
