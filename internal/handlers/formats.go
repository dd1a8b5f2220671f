package handlers

import (
	"net/http"
)

// ListFormats returns the supported target formats with their extension and
// MIME type.
// GET /api/formats
func (h *Handlers) ListFormats(w http.ResponseWriter, _ *http.Request) {
	profiles := h.profiles.Profiles()

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	writeJSON(w, map[string]interface{}{
		"formats": profiles,
		"count":   len(profiles),
	})
}
