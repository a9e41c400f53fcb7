package admin

import (
	"context"
	"net/http"

	"github.com/propcodes/platform/internal/domain"
	"github.com/propcodes/platform/internal/handler"
)

// DealService is the admin side of service.DealService.
type DealService interface {
	List(ctx context.Context) ([]domain.Deal, error)
	Create(ctx context.Context, in domain.DealInput) (*domain.Deal, error)
	Update(ctx context.Context, rawID string, patch domain.DealPatch) (*domain.Deal, error)
	Delete(ctx context.Context, rawID string) error
}

// DealAdminHandler handles deal management.
type DealAdminHandler struct {
	deals DealService
}

// NewDealAdminHandler creates a new DealAdminHandler.
func NewDealAdminHandler(deals DealService) *DealAdminHandler {
	return &DealAdminHandler{deals: deals}
}

// dealUpdateRequest is the PUT body: the deal id plus any fields to change.
type dealUpdateRequest struct {
	ID string `json:"id"`
	domain.DealPatch
}

// List handles GET /admin/deals, newest first.
func (h *DealAdminHandler) List(w http.ResponseWriter, r *http.Request) {
	deals, err := h.deals.List(r.Context())
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, deals)
}

// Create handles POST /admin/deals.
func (h *DealAdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.DealInput
	if err := handler.DecodeJSON(r, &in); err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	deal, err := h.deals.Create(r.Context(), in)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusCreated, deal)
}

// Update handles PUT /admin/deals with body {id, ...fields}.
func (h *DealAdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dealUpdateRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	deal, err := h.deals.Update(r.Context(), req.ID, req.DealPatch)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, deal)
}

// Delete handles DELETE /admin/deals?id=.
func (h *DealAdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.deals.Delete(r.Context(), r.URL.Query().Get("id")); err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
