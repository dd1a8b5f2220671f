package handlers

import (
	"encoding/json"
	"net/http"

	"media-converter/internal/logging"
)

// writeJSON encodes v into the response, logging encode failures instead of
// surfacing them (headers are already out by then).
func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("Failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes the standard error envelope with the given status.
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	writeJSON(w, map[string]string{"error": message})
}

// writeJSONStatus writes the one-field status envelope used by the probes.
func writeJSONStatus(w http.ResponseWriter, status string) {
	writeJSON(w, map[string]string{"status": status})
}
