package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/propcodes/platform/internal/domain"
)

// DealCatalog is the public read side of service.DealService.
type DealCatalog interface {
	ListPublic(ctx context.Context) ([]domain.Deal, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Deal, error)
}

// DealHandler serves the public deal catalogue.
type DealHandler struct {
	deals DealCatalog
}

// NewDealHandler creates a new DealHandler.
func NewDealHandler(deals DealCatalog) *DealHandler {
	return &DealHandler{deals: deals}
}

// List handles GET /deals, best-scored first.
func (h *DealHandler) List(w http.ResponseWriter, r *http.Request) {
	deals, err := h.deals.ListPublic(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, deals)
}

// Get handles GET /deals/{slug}.
func (h *DealHandler) Get(w http.ResponseWriter, r *http.Request) {
	deal, err := h.deals.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, deal)
}
