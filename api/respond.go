package api

import (
	"encoding/json"
	"net/http"
	"time"
)

// errorResponse is the uniform JSON error envelope. Message carries the
// same generic remediation text for every classification so the body
// never reveals which check failed; Code is the machine-readable
// classification for programmatic clients.
type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

const remediationMessage = "Refresh the page and try again."

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, errMsg string) {
	writeJSON(w, status, errorResponse{
		Error:     errMsg,
		Code:      code,
		Message:   remediationMessage,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
