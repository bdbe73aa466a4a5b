package handler

import (
	"context"
	"net/http"
	"time"
)

// Pinger is the health-check view of the storage backend
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	storage Pinger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(storage Pinger) *HealthHandler {
	return &HealthHandler{storage: storage}
}

// GetHealth handles GET /health
func GetHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// GetLiveness handles GET /health/live
func GetLiveness(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "alive"}, http.StatusOK)
}

// GetReadiness handles GET /health/ready: verifies the storage backend
// is reachable.
func (h *HealthHandler) GetReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.storage.Ping(ctx); err != nil {
		respondJSON(w, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		}, http.StatusServiceUnavailable)
		return
	}
	respondJSON(w, map[string]string{"status": "ready"}, http.StatusOK)
}
