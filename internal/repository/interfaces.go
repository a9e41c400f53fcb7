package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/propcodes/platform/internal/domain"
)

// DBTX abstracts pgx.Tx and pgxpool.Pool so repositories work with both.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// AdminUserRepository provides access to admin_users (the credential store).
type AdminUserRepository interface {
	// FindByEmail returns an admin by exact email match, or nil if none exists.
	FindByEmail(ctx context.Context, db DBTX, email string) (*domain.AdminUser, error)

	// Upsert creates the admin or replaces its password hash and role.
	Upsert(ctx context.Context, db DBTX, user *domain.AdminUser) error

	// UpdatePasswordHash replaces the stored hash for email.
	UpdatePasswordHash(ctx context.Context, db DBTX, email, hash string) error
}

// DealRepository provides access to prop_deals.
type DealRepository interface {
	// ListNewest returns all deals ordered by created_at DESC.
	ListNewest(ctx context.Context, db DBTX) ([]domain.Deal, error)

	// ListRanked returns all deals ordered by prop_score DESC NULLS LAST, then newest.
	ListRanked(ctx context.Context, db DBTX) ([]domain.Deal, error)

	// FindByID returns a deal, or nil if not found.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Deal, error)

	// FindBySlug returns a deal, or nil if not found.
	FindBySlug(ctx context.Context, db DBTX, slug string) (*domain.Deal, error)

	// Insert creates a deal from normalized input and returns the stored row.
	Insert(ctx context.Context, db DBTX, in domain.DealInput) (*domain.Deal, error)

	// Update writes the editable columns of d. Vote counters are never written here.
	Update(ctx context.Context, db DBTX, d *domain.Deal) (*domain.Deal, error)

	// Delete removes a deal. Returns false if no row matched.
	Delete(ctx context.Context, db DBTX, id uuid.UUID) (bool, error)

	// IncrementCounter atomically adds one to the counter for voteType and
	// returns all three counters after the increment.
	IncrementCounter(ctx context.Context, db DBTX, id uuid.UUID, voteType domain.VoteType) (domain.VoteCounters, error)
}

// VoteRepository provides access to deal_votes.
type VoteRepository interface {
	// Insert stores a vote. A repeat (deal, client, type) fails with a unique violation.
	Insert(ctx context.Context, db DBTX, vote *domain.Vote) error

	// ListByDeal returns the votes for a deal, newest first.
	ListByDeal(ctx context.Context, db DBTX, dealID uuid.UUID) ([]domain.Vote, error)
}

// AnalyticsRepository provides access to deal_analytics.
type AnalyticsRepository interface {
	// Insert appends an event.
	Insert(ctx context.Context, db DBTX, ev *domain.AnalyticsEvent) error

	// Stats counts events per known type; a nil dealID counts globally.
	Stats(ctx context.Context, db DBTX, dealID *uuid.UUID) (domain.AnalyticsStats, error)
}

// BookRepository provides access to books.
type BookRepository interface {
	List(ctx context.Context, db DBTX) ([]domain.Book, error)
	Insert(ctx context.Context, db DBTX, b *domain.Book) (*domain.Book, error)
	Delete(ctx context.Context, db DBTX, id uuid.UUID) (bool, error)
}

// NewsletterRepository provides access to newsletter_subscribers.
type NewsletterRepository interface {
	FindByEmail(ctx context.Context, db DBTX, email string) (*domain.Subscriber, error)
	Insert(ctx context.Context, db DBTX, email string) error
	SetStatus(ctx context.Context, db DBTX, email, status string) error
}

// OutboxRepository provides access to the event_outbox table.
type OutboxRepository interface {
	// Insert writes an outbox event (within the same transaction as the change it describes).
	Insert(ctx context.Context, db DBTX, draft domain.OutboxDraft) error

	// FetchUnpublished returns unpublished events oldest first.
	FetchUnpublished(ctx context.Context, db DBTX, limit int) ([]domain.OutboxDraft, error)

	// MarkPublished stamps published_at on the given rows.
	MarkPublished(ctx context.Context, db DBTX, seqIDs []int64) error

	// PurgePublished deletes rows published before the cutoff and returns how many went.
	PurgePublished(ctx context.Context, db DBTX, before time.Time) (int64, error)
}

// LoginAttemptRepository provides access to login_attempts.
type LoginAttemptRepository interface {
	Insert(ctx context.Context, db DBTX, email, ip string, success bool) error
	CountFailedSince(ctx context.Context, db DBTX, email string, since time.Time) (int, error)
}
