package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/propcodes/platform/internal/domain"
	"github.com/propcodes/platform/internal/repository"
)

// NewsletterService manages newsletter subscriptions.
type NewsletterService struct {
	db     repository.DBTX
	subs   repository.NewsletterRepository
	logger *slog.Logger
}

// NewNewsletterService creates a new NewsletterService.
func NewNewsletterService(db repository.DBTX, subs repository.NewsletterRepository, logger *slog.Logger) *NewsletterService {
	return &NewsletterService{db: db, subs: subs, logger: logger}
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if err := domain.ValidateEmail(email); err != nil {
		return "", domain.ErrValidation(err.Error())
	}
	return email, nil
}

// Subscribe adds an email, or reactivates one that previously unsubscribed.
func (s *NewsletterService) Subscribe(ctx context.Context, rawEmail string) error {
	email, err := normalizeEmail(rawEmail)
	if err != nil {
		return err
	}

	existing, err := s.subs.FindByEmail(ctx, s.db, email)
	if err != nil {
		return domain.ErrInternal("find subscriber", err)
	}
	switch {
	case existing == nil:
		err = s.subs.Insert(ctx, s.db, email)
		if repository.IsUniqueViolation(err, "") {
			return domain.ErrValidation("Already subscribed")
		}
	case existing.Status == domain.SubscriberActive:
		return domain.ErrValidation("Already subscribed")
	default:
		err = s.subs.SetStatus(ctx, s.db, email, domain.SubscriberActive)
	}
	if err != nil {
		return domain.ErrInternal("subscribe", err)
	}

	s.logger.Info("newsletter subscription", "reactivated", existing != nil)
	return nil
}

// Unsubscribe marks an email inactive.
func (s *NewsletterService) Unsubscribe(ctx context.Context, rawEmail string) error {
	email, err := normalizeEmail(rawEmail)
	if err != nil {
		return err
	}
	if err := s.subs.SetStatus(ctx, s.db, email, domain.SubscriberUnsubscribed); err != nil {
		if domain.IsCode(err, domain.CodeNotFound) {
			return err
		}
		return domain.ErrInternal("unsubscribe", err)
	}
	return nil
}
