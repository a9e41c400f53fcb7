package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/propcodes/platform/internal/domain"
)

type newsletterRepo struct{}

// NewNewsletterRepository returns a pgx-backed NewsletterRepository.
func NewNewsletterRepository() NewsletterRepository {
	return &newsletterRepo{}
}

func (r *newsletterRepo) FindByEmail(ctx context.Context, db DBTX, email string) (*domain.Subscriber, error) {
	s := &domain.Subscriber{}
	err := db.QueryRow(ctx, `
		SELECT email, status, subscribed_at, unsubscribed_at
		FROM newsletter_subscribers WHERE email = $1`, email,
	).Scan(&s.Email, &s.Status, &s.SubscribedAt, &s.UnsubscribedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find subscriber: %w", err)
	}
	return s, nil
}

func (r *newsletterRepo) Insert(ctx context.Context, db DBTX, email string) error {
	_, err := db.Exec(ctx, `
		INSERT INTO newsletter_subscribers (email, status) VALUES ($1, $2)`,
		email, domain.SubscriberActive)
	if err != nil {
		return fmt.Errorf("insert subscriber: %w", err)
	}
	return nil
}

// SetStatus flips a subscriber between active and unsubscribed, stamping
// unsubscribed_at accordingly.
func (r *newsletterRepo) SetStatus(ctx context.Context, db DBTX, email, status string) error {
	tag, err := db.Exec(ctx, `
		UPDATE newsletter_subscribers
		SET status = $2,
		    subscribed_at = CASE WHEN $2 = 'active' THEN now() ELSE subscribed_at END,
		    unsubscribed_at = CASE WHEN $2 = 'active' THEN NULL ELSE now() END
		WHERE email = $1`, email, status)
	if err != nil {
		return fmt.Errorf("update subscriber: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("subscriber", email)
	}
	return nil
}
