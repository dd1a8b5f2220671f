package handlers

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"media-converter/internal/convert"
	"media-converter/internal/delivery"
	"media-converter/internal/engine"
	"media-converter/internal/logging"
	"media-converter/internal/metrics"
	"media-converter/internal/upload"

	"github.com/gorilla/mux"
)

// Convert runs the whole round trip: ingest the upload, orchestrate the
// conversion, stream the result back as an attachment.
// POST /api/convert/{format}
func (h *Handlers) Convert(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	format := mux.Vars(r)["format"]

	prof, err := h.profiles.Lookup(format)
	if err != nil {
		writeJSONError(w, fmt.Sprintf("unknown format %q (supported: %s)",
			format, strings.Join(h.profiles.Names(), ", ")), http.StatusBadRequest)
		return
	}

	// Reject before the client streams a large body at a dead engine
	if !h.engineOK {
		writeJSONError(w, "conversion engine is not available", http.StatusServiceUnavailable)
		return
	}

	inputPath := h.alloc.Allocate(uploadExt)
	res, err := h.ingestor.Ingest(r, inputPath)
	if err != nil {
		status, label, message := classifyUploadError(err)
		metrics.UploadsTotal.WithLabelValues(label).Inc()
		logging.Warn("Upload rejected: %v", err)
		writeJSONError(w, message, status)
		return
	}
	metrics.UploadsTotal.WithLabelValues("accepted").Inc()
	metrics.UploadBytes.Observe(float64(res.Size))
	metrics.UploadDuration.Observe(time.Since(start).Seconds())

	outcome, err := h.orchestrator.Convert(r.Context(), convert.Request{
		InputPath:  res.SavedPath,
		OutputPath: h.alloc.Allocate(prof.Extension),
		Profile:    prof,
	})
	if err != nil {
		status, message := classifyConversionError(err)
		writeJSONError(w, message, status)
		return
	}

	name := delivery.DownloadName(res.OriginalFilename, prof.Extension)
	if err := delivery.Deliver(w, r, outcome.OutputPath, name, h.stream); err != nil {
		// Once streaming begins the response is committed and there is
		// nothing left to report to the client. The only pre-header failure
		// is the result file going missing between verify and open.
		if errors.Is(err, fs.ErrNotExist) {
			writeJSONError(w, "conversion result is no longer available", http.StatusInternalServerError)
		}
		return
	}
}

// classifyUploadError maps an ingestion failure to an HTTP status, the
// metric status label, and a client-safe message.
func classifyUploadError(err error) (status int, label, message string) {
	switch {
	case errors.Is(err, upload.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "too_large", "uploaded file exceeds the size limit"
	case errors.Is(err, upload.ErrTooManyFiles):
		return http.StatusBadRequest, "too_many_files", "exactly one file field is accepted"
	case errors.Is(err, upload.ErrEmptyUpload):
		return http.StatusBadRequest, "empty", "uploaded file is empty"
	case errors.Is(err, upload.ErrNoFile):
		return http.StatusBadRequest, "no_file", "request contains no file field"
	case errors.Is(err, upload.ErrMalformedUpload):
		return http.StatusBadRequest, "malformed", "malformed multipart body"
	default:
		return http.StatusInternalServerError, "error", "failed to store upload"
	}
}

// classifyConversionError maps a terminal conversion failure to an HTTP
// status and a client-safe message. Engine stderr stays in the logs.
func classifyConversionError(err error) (status int, message string) {
	var engineErr *engine.EngineError
	switch {
	case errors.Is(err, convert.ErrTimedOut):
		return http.StatusGatewayTimeout, "conversion timed out"
	case errors.As(err, &engineErr):
		return http.StatusInternalServerError,
			fmt.Sprintf("conversion failed: engine exited with code %d", engineErr.ExitCode)
	case errors.Is(err, convert.ErrOutputMissing), errors.Is(err, convert.ErrOutputEmpty):
		return http.StatusInternalServerError, "conversion produced no usable output"
	case errors.Is(err, convert.ErrInputUnavailable):
		return http.StatusInternalServerError, "uploaded file disappeared before conversion"
	default:
		return http.StatusInternalServerError, "conversion failed"
	}
}
