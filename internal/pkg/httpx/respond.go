// Package httpx holds the HTTP plumbing shared by all services: JSON
// response helpers and the request middleware stack (metadata, tracing,
// logging, metrics).
package httpx

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the plain error envelope used by every service.
type ErrorBody struct {
	Error string `json:"error"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes a bare {"error": msg} envelope.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorBody{Error: msg})
}
