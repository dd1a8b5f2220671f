package handlers

import (
	"net/http"

	"media-converter/internal/startup"
)

// Index describes the API surface for anyone hitting the root path.
// GET /
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSONError(w, "not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]interface{}{
		"service": "media-converter",
		"version": startup.Version,
		"endpoints": map[string]string{
			"convert": "POST /api/convert/{format}",
			"formats": "GET /api/formats",
			"health":  "GET /health",
			"version": "GET /version",
		},
	})
}
