package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/hlog"
)

// respondJSON writes payload merged under a success envelope. payload keys
// are emitted at the top level alongside "success": true.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, payload map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	writeJSON(w, r, status, body)
}

// respondError writes a failure envelope with a client-facing message.
func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, map[string]any{
		"success": false,
		"error":   message,
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("encode response")
	}
}
