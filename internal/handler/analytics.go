package handler

import (
	"context"
	"net/http"

	"github.com/propcodes/platform/internal/domain"
	"github.com/propcodes/platform/internal/service"
)

// AnalyticsService is the subset of service.AnalyticsService used by AnalyticsHandler.
type AnalyticsService interface {
	Record(ctx context.Context, input service.RecordEventInput, clientIP, userAgent string) error
	Stats(ctx context.Context, rawDealID string) (domain.AnalyticsStats, error)
}

// AnalyticsHandler handles deal interaction tracking.
type AnalyticsHandler struct {
	analytics AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analytics AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

type analyticsRequest struct {
	DealID    string `json:"dealId" validate:"required"`
	EventType string `json:"eventType" validate:"required,max=64"`
}

// Record handles POST /analytics.
func (h *AnalyticsHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req analyticsRequest
	if err := DecodeAndValidate(r, &req); err != nil {
		RespondError(w, err)
		return
	}

	err := h.analytics.Record(r.Context(), service.RecordEventInput{
		DealID:    req.DealID,
		EventType: req.EventType,
	}, ClientIP(r), r.UserAgent())
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Stats handles GET /analytics?dealId=. Without dealId the counts are global.
func (h *AnalyticsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analytics.Stats(r.Context(), r.URL.Query().Get("dealId"))
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, stats)
}
