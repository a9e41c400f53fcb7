package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/propcodes/platform/internal/domain"
)

const dealColumns = `id, firm, code, discount, expiry::text, slug, link, description, prop_score,
	verification_status, votes_got_paid, votes_still_waiting, votes_failed, created_at, updated_at`

type dealRepo struct{}

// NewDealRepository returns a pgx-backed DealRepository.
func NewDealRepository() DealRepository {
	return &dealRepo{}
}

func scanDeal(row pgx.Row) (*domain.Deal, error) {
	d := &domain.Deal{}
	err := row.Scan(&d.ID, &d.Firm, &d.Code, &d.Discount, &d.Expiry, &d.Slug, &d.Link,
		&d.Description, &d.PropScore, &d.VerificationStatus,
		&d.VotesGotPaid, &d.VotesStillWaiting, &d.VotesFailed, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *dealRepo) list(ctx context.Context, db DBTX, orderBy string) ([]domain.Deal, error) {
	rows, err := db.Query(ctx, `SELECT `+dealColumns+` FROM prop_deals ORDER BY `+orderBy)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	defer rows.Close()

	deals := []domain.Deal{}
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deal: %w", err)
		}
		deals = append(deals, *d)
	}
	return deals, rows.Err()
}

func (r *dealRepo) ListNewest(ctx context.Context, db DBTX) ([]domain.Deal, error) {
	return r.list(ctx, db, "created_at DESC")
}

func (r *dealRepo) ListRanked(ctx context.Context, db DBTX) ([]domain.Deal, error) {
	return r.list(ctx, db, "prop_score DESC NULLS LAST, created_at DESC")
}

func (r *dealRepo) findOne(ctx context.Context, db DBTX, where string, arg interface{}) (*domain.Deal, error) {
	d, err := scanDeal(db.QueryRow(ctx, `SELECT `+dealColumns+` FROM prop_deals WHERE `+where+` = $1`, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find deal: %w", err)
	}
	return d, nil
}

func (r *dealRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Deal, error) {
	return r.findOne(ctx, db, "id", id)
}

func (r *dealRepo) FindBySlug(ctx context.Context, db DBTX, slug string) (*domain.Deal, error) {
	return r.findOne(ctx, db, "slug", slug)
}

func (r *dealRepo) Insert(ctx context.Context, db DBTX, in domain.DealInput) (*domain.Deal, error) {
	row := db.QueryRow(ctx, `
		INSERT INTO prop_deals
		  (id, firm, code, discount, expiry, slug, link, description, prop_score, verification_status)
		VALUES ($1, $2, $3, $4, $5::date, $6, $7, $8, $9, $10)
		RETURNING `+dealColumns,
		uuid.New(), in.Firm, in.Code, in.Discount, in.Expiry, in.Slug, in.Link,
		in.Description, in.PropScore, string(in.VerificationStatus),
	)
	d, err := scanDeal(row)
	if err != nil {
		return nil, fmt.Errorf("insert deal: %w", err)
	}
	return d, nil
}

func (r *dealRepo) Update(ctx context.Context, db DBTX, d *domain.Deal) (*domain.Deal, error) {
	row := db.QueryRow(ctx, `
		UPDATE prop_deals SET
		  firm = $2, code = $3, discount = $4, expiry = $5::date, slug = $6, link = $7,
		  description = $8, prop_score = $9, verification_status = $10, updated_at = now()
		WHERE id = $1
		RETURNING `+dealColumns,
		d.ID, d.Firm, d.Code, d.Discount, d.Expiry, d.Slug, d.Link,
		d.Description, d.PropScore, string(d.VerificationStatus),
	)
	updated, err := scanDeal(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update deal: %w", err)
	}
	return updated, nil
}

func (r *dealRepo) Delete(ctx context.Context, db DBTX, id uuid.UUID) (bool, error) {
	tag, err := db.Exec(ctx, `DELETE FROM prop_deals WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete deal: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// IncrementCounter uses server-side arithmetic so concurrent votes never lose updates.
func (r *dealRepo) IncrementCounter(ctx context.Context, db DBTX, id uuid.UUID, voteType domain.VoteType) (domain.VoteCounters, error) {
	col, ok := voteType.CounterColumn()
	if !ok {
		return domain.VoteCounters{}, fmt.Errorf("unknown vote type %q", voteType)
	}

	var c domain.VoteCounters
	err := db.QueryRow(ctx, fmt.Sprintf(`
		UPDATE prop_deals SET %[1]s = %[1]s + 1, updated_at = now()
		WHERE id = $1
		RETURNING votes_got_paid, votes_still_waiting, votes_failed`, col), id,
	).Scan(&c.GotPaid, &c.StillWaiting, &c.Failed)
	if errors.Is(err, pgx.ErrNoRows) {
		return c, domain.ErrNotFound("deal", id.String())
	}
	if err != nil {
		return c, fmt.Errorf("increment %s: %w", col, err)
	}
	return c, nil
}
