package delivery

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"media-converter/internal/logging"
	"media-converter/internal/mediatypes"
	"media-converter/internal/metrics"
	"media-converter/internal/tempfile"
)

// ErrDeliveryFailed wraps any error encountered while streaming a finished
// conversion result to the client.
var ErrDeliveryFailed = errors.New("delivering result failed")

// Deliver streams the file at outputPath to the client as an attachment
// named downloadName, then removes the file no matter how the stream ended.
// Headers are set from the file's size and extension before the first byte
// goes out, so callers must not have written to w yet.
func Deliver(w http.ResponseWriter, r *http.Request, outputPath, downloadName string, config TimeoutWriterConfig) error {
	defer tempfile.Remove(outputPath)

	f, err := os.Open(outputPath)
	if err != nil {
		metrics.DeliveriesTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("%w: opening result: %w", ErrDeliveryFailed, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		metrics.DeliveriesTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("%w: stat result: %w", ErrDeliveryFailed, err)
	}

	name := SanitizeDownloadName(downloadName)
	w.Header().Set("Content-Type", mediatypes.GetMimeType(strings.ToLower(filepath.Ext(name))))
	w.Header().Set("Content-Length", strconv.FormatInt(fi.Size(), 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("X-Content-Type-Options", "nosniff")

	tw := NewTimeoutWriter(r.Context(), w, config)
	defer tw.Close()

	_, err = io.Copy(tw, f)
	bytesWritten, duration := tw.Stats()

	if err != nil {
		metrics.DeliveriesTotal.WithLabelValues("failed").Inc()
		logging.Warn("Delivery of %s aborted after %d bytes: %v", name, bytesWritten, err)
		return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}

	metrics.DeliveriesTotal.WithLabelValues("ok").Inc()
	metrics.DeliveredBytes.Add(float64(bytesWritten))
	logging.Debug("Delivered %s: %d bytes in %v", name, bytesWritten, duration)
	return nil
}

// SanitizeDownloadName strips path components and control characters from a
// client-influenced filename so it is safe inside a Content-Disposition
// header. An unusable result falls back to "download".
func SanitizeDownloadName(name string) string {
	// Both separator styles: clients upload from all platforms.
	name = strings.ReplaceAll(name, "\\", "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	var b strings.Builder
	for _, r := range name {
		if r < 0x20 || r == 0x7f || r == '"' {
			continue
		}
		b.WriteRune(r)
	}
	name = strings.TrimSpace(b.String())

	if name == "" || name == "." || name == ".." {
		return "download"
	}
	return name
}

// DownloadName composes the attachment filename for a converted upload:
// the original base name with its extension swapped for the target's.
func DownloadName(originalFilename, targetExt string) string {
	base := originalFilename
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	if base == "" {
		base = "converted"
	}
	if targetExt != "" && !strings.HasPrefix(targetExt, ".") {
		targetExt = "." + targetExt
	}
	return SanitizeDownloadName(base + targetExt)
}
