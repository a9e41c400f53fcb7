package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/propcodes/platform/internal/domain"
)

// ContactInput holds the contact form fields.
type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// ContactService accepts contact form submissions. Messages are logged only.
type ContactService struct {
	logger *slog.Logger
}

// NewContactService creates a new ContactService.
func NewContactService(logger *slog.Logger) *ContactService {
	return &ContactService{logger: logger}
}

// Submit validates and logs a contact message.
func (s *ContactService) Submit(ctx context.Context, in ContactInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Message = strings.TrimSpace(in.Message)
	if in.Name == "" || in.Message == "" {
		return domain.ErrValidation("Name, email and message are required")
	}
	if err := domain.ValidateEmail(strings.TrimSpace(in.Email)); err != nil {
		return domain.ErrValidation(err.Error())
	}

	s.logger.InfoContext(ctx, "contact form submission",
		"name", in.Name,
		"email", strings.TrimSpace(in.Email),
		"message_length", len(in.Message),
	)
	return nil
}
