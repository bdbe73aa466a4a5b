package handler

import (
	"net/http"

	"github.com/Fuzara/cashcraft/internal/analytics"
)

// AnalyticsHandler serves aggregate ledger views
type AnalyticsHandler struct {
	analytics *analytics.Service
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(svc *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: svc}
}

// GetSummary handles GET /api/v1/analytics/summary
func (h *AnalyticsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	summary, err := h.analytics.Summary(r.Context(), owner)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, summary, http.StatusOK)
}
