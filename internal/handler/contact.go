package handler

import (
	"context"
	"net/http"

	"github.com/propcodes/platform/internal/service"
)

// ContactSubmitter accepts contact form messages.
type ContactSubmitter interface {
	Submit(ctx context.Context, in service.ContactInput) error
}

type contactRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,max=5000"`
}

// SubmitContact handles POST /contact.
func SubmitContact(contact ContactSubmitter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req contactRequest
		if err := DecodeAndValidate(r, &req); err != nil {
			RespondError(w, err)
			return
		}
		err := contact.Submit(r.Context(), service.ContactInput{
			Name:    req.Name,
			Email:   req.Email,
			Message: req.Message,
		})
		if err != nil {
			RespondError(w, err)
			return
		}
		RespondJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Message received"})
	}
}
