// Package common holds HTTP response helpers shared by all handlers.
package common

import (
	"encoding/json"
	"net/http"
)

// MessageResponse is the body used for status and error responses. The API
// contract is a bare `{message}` object, not an envelope.
type MessageResponse struct {
	Message string `json:"message"`
}

// RespondJSON sends data as a JSON response with the given status.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondMessage sends a `{message}` body with the given status.
func RespondMessage(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, MessageResponse{Message: message})
}

// ParseJSONBody parses a JSON request body with a size limit.
func ParseJSONBody(w http.ResponseWriter, r *http.Request, v interface{}, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	return json.NewDecoder(r.Body).Decode(v)
}
