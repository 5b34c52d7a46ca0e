package api

import (
	"encoding/json"
	"net/http"
)

// Error responses carry no body beyond the status code; the dashboard UI
// interprets the status itself. Success responses are JSON or 204.

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeNoContent writes a content-less success response.
func writeNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// writeNotFound writes a bare 404 response.
func writeNotFound(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNotFound)
}

// writeBadRequest writes a bare 400 response.
func writeBadRequest(w http.ResponseWriter) {
	w.WriteHeader(http.StatusBadRequest)
}

// writeInternalError writes a bare 500 response.
func writeInternalError(w http.ResponseWriter) {
	w.WriteHeader(http.StatusInternalServerError)
}
