package utils

import (
	"encoding/json"
	"net/http"
)

// APIResponse is the envelope every endpoint returns. Data carries the
// payload on success, or branching hints (already_claimed, already_completed)
// on domain conflicts.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
