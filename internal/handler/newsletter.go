package handler

import (
	"context"
	"net/http"
)

// NewsletterService is the subset of service.NewsletterService used by NewsletterHandler.
type NewsletterService interface {
	Subscribe(ctx context.Context, email string) error
	Unsubscribe(ctx context.Context, email string) error
}

// NewsletterHandler handles newsletter subscription endpoints.
type NewsletterHandler struct {
	subs NewsletterService
}

// NewNewsletterHandler creates a new NewsletterHandler.
func NewNewsletterHandler(subs NewsletterService) *NewsletterHandler {
	return &NewsletterHandler{subs: subs}
}

type newsletterRequest struct {
	Email string `json:"email" validate:"required"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Subscribe handles POST /newsletter.
func (h *NewsletterHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req newsletterRequest
	if err := DecodeAndValidate(r, &req); err != nil {
		RespondError(w, err)
		return
	}
	if err := h.subs.Subscribe(r.Context(), req.Email); err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Successfully subscribed"})
}

// Unsubscribe handles POST /newsletter/unsubscribe.
func (h *NewsletterHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req newsletterRequest
	if err := DecodeAndValidate(r, &req); err != nil {
		RespondError(w, err)
		return
	}
	if err := h.subs.Unsubscribe(r.Context(), req.Email); err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Successfully unsubscribed"})
}
