package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/propcodes/platform/internal/domain"
)

type voteRepo struct{}

// NewVoteRepository returns a pgx-backed VoteRepository.
func NewVoteRepository() VoteRepository {
	return &voteRepo{}
}

func (r *voteRepo) Insert(ctx context.Context, db DBTX, v *domain.Vote) error {
	err := db.QueryRow(ctx, `
		INSERT INTO deal_votes (deal_id, vote_type, client_ip, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		v.DealID, string(v.VoteType), v.ClientIP, v.Comment,
	).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert vote: %w", err)
	}
	return nil
}

func (r *voteRepo) ListByDeal(ctx context.Context, db DBTX, dealID uuid.UUID) ([]domain.Vote, error) {
	rows, err := db.Query(ctx, `
		SELECT id, deal_id, vote_type, comment, created_at
		FROM deal_votes WHERE deal_id = $1
		ORDER BY created_at DESC, id DESC`, dealID)
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	defer rows.Close()

	votes := []domain.Vote{}
	for rows.Next() {
		var v domain.Vote
		if err := rows.Scan(&v.ID, &v.DealID, &v.VoteType, &v.Comment, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}
