package main

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// maxBodyBytes caps incoming request bodies. Schema documents are the
// largest payloads this server accepts and they are bounded anyway.
const maxBodyBytes = 4 << 20

// errorResponse is the standard error payload.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// writeJSON encodes data as the JSON response body.
func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.S().Warnw("failed to encode response body", "error", err)
	}
}

// writeError writes a standard error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, errorResponse{Error: message})
}

// readJSONBody decodes the request body into v, bounded by maxBodyBytes.
func readJSONBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes)).Decode(v)
}
