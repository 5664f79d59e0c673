// Package httpx holds the HTTP plumbing shared by the module handlers.
package httpx

import (
	"encoding/json"
	"net/http"
	"strings"
)

// ActorHeader names the operator performing a write. It is recorded, not authenticated.
const ActorHeader = "X-Actor"

// DefaultActor is used when a request carries no actor header.
const DefaultActor = "api"

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes a JSON error body.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorBody{Error: msg})
}

// Actor returns the trimmed actor header or DefaultActor.
func Actor(r *http.Request) string {
	if a := strings.TrimSpace(r.Header.Get(ActorHeader)); a != "" {
		return a
	}
	return DefaultActor
}
