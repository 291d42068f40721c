package api

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
)

// HealthHandler serves /health. It reports healthy until the server starts
// draining.
type HealthHandler struct {
	draining atomic.Bool
}

// NewHealthHandler creates a HealthHandler in the healthy state.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// SetDraining marks the server as shutting down.
func (h *HealthHandler) SetDraining() {
	h.draining.Store(true)
}

// ServeHTTP returns 200 while healthy and 503 once draining.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	status, code := "healthy", http.StatusOK
	if h.draining.Load() {
		status, code = "draining", http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]string{"status": status})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
