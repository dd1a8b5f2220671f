package metrics

// Upload terminal statuses as recorded by the HTTP layer.
var uploadStatuses = []string{"accepted", "too_large", "too_many_files", "empty", "malformed", "no_file"}

// Conversion label values. These mirror the orchestrator's Method and State
// string forms; they are spelled out here because the orchestrator imports
// this package, not the other way around.
var (
	conversionMethods  = []string{"none", "primary", "fallback"}
	conversionStatuses = []string{"succeeded", "failed", "timed-out"}
)

// InitializeMetrics pre-populates the expected label combinations so that
// every series is exported from the first Prometheus scrape instead of
// appearing only after its first event. Call this once at startup with the
// catalog's format names.
func InitializeMetrics(formats []string) {
	for _, status := range uploadStatuses {
		UploadsTotal.WithLabelValues(status)
	}

	for _, format := range formats {
		for _, method := range conversionMethods {
			for _, status := range conversionStatuses {
				ConversionsTotal.WithLabelValues(format, method, status)
			}
		}
	}
	for _, method := range conversionMethods {
		ConversionDuration.WithLabelValues(method)
	}

	for _, status := range []string{"ok", "failed"} {
		DeliveriesTotal.WithLabelValues(status)
	}
}
