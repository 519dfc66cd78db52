package middleware

import (
	"encoding/json"
	"net/http"
)

// writeError writes the failure envelope used by every API response.
// The correlation id set by RequestIDMiddleware is echoed so a reported error can be found in the logs.
func writeError(w http.ResponseWriter, status int, message string) {
	body := map[string]any{
		"success": false,
		"error":   message,
	}
	if requestID := w.Header().Get(RequestIDHeader); requestID != "" {
		body["requestId"] = requestID
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
