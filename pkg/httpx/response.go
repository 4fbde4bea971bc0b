package httpx

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope every freshmart endpoint returns: a status code, a
// plain-English message and an optional payload. Clients pattern-match on the
// message text, so treat existing messages as a wire contract.
type Response struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// WriteJSON writes a JSON response with the given status code and disables
// caching, since most of what we serve is token material.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteMessage writes a Response envelope with no payload.
func WriteMessage(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, Response{Status: code, Message: msg})
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
