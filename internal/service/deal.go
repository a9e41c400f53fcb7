package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/propcodes/platform/internal/domain"
	"github.com/propcodes/platform/internal/repository"
)

// DealService is the admin CRUD gateway over prop_deals plus the public read path.
// Authorization happens in the router before any method here is reached.
type DealService struct {
	db     repository.DBTX
	deals  repository.DealRepository
	logger *slog.Logger
}

// NewDealService creates a new DealService.
func NewDealService(db repository.DBTX, deals repository.DealRepository, logger *slog.Logger) *DealService {
	return &DealService{db: db, deals: deals, logger: logger}
}

// List returns every deal, newest first.
func (s *DealService) List(ctx context.Context) ([]domain.Deal, error) {
	deals, err := s.deals.ListNewest(ctx, s.db)
	if err != nil {
		return nil, domain.ErrInternal("list deals", err)
	}
	return deals, nil
}

// ListPublic returns every deal ranked by prop score.
func (s *DealService) ListPublic(ctx context.Context) ([]domain.Deal, error) {
	deals, err := s.deals.ListRanked(ctx, s.db)
	if err != nil {
		return nil, domain.ErrInternal("list deals", err)
	}
	return deals, nil
}

// GetBySlug returns a single deal.
func (s *DealService) GetBySlug(ctx context.Context, slug string) (*domain.Deal, error) {
	d, err := s.deals.FindBySlug(ctx, s.db, slug)
	if err != nil {
		return nil, domain.ErrInternal("find deal", err)
	}
	if d == nil {
		return nil, domain.ErrNotFound("deal", slug)
	}
	return d, nil
}

// Create validates, normalizes and stores a new deal. A slug collision is
// rejected, never renamed.
func (s *DealService) Create(ctx context.Context, in domain.DealInput) (*domain.Deal, error) {
	if err := domain.NormalizeDealInput(&in); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	d, err := s.deals.Insert(ctx, s.db, in)
	if err != nil {
		if repository.IsUniqueViolation(err, repository.ConstraintDealSlug) {
			return nil, slugConflict(in.Slug)
		}
		return nil, domain.ErrInternal("create deal", err)
	}

	s.logger.Info("deal created", "deal_id", d.ID, "slug", d.Slug)
	return d, nil
}

// Update applies the supplied fields to an existing deal.
func (s *DealService) Update(ctx context.Context, rawID string, patch domain.DealPatch) (*domain.Deal, error) {
	id, err := parseID("deal", rawID)
	if err != nil {
		return nil, err
	}

	current, err := s.deals.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, domain.ErrInternal("find deal", err)
	}
	if current == nil {
		return nil, domain.ErrNotFound("deal", rawID)
	}
	if patch.Empty() {
		return current, nil
	}

	if err := domain.ApplyDealPatch(current, patch); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	updated, err := s.deals.Update(ctx, s.db, current)
	if err != nil {
		if repository.IsUniqueViolation(err, repository.ConstraintDealSlug) {
			return nil, slugConflict(current.Slug)
		}
		return nil, domain.ErrInternal("update deal", err)
	}
	if updated == nil {
		// deleted between read and write
		return nil, domain.ErrNotFound("deal", rawID)
	}

	s.logger.Info("deal updated", "deal_id", updated.ID)
	return updated, nil
}

// Delete removes a deal. Deleting a missing id is NotFound.
func (s *DealService) Delete(ctx context.Context, rawID string) error {
	id, err := parseID("deal", rawID)
	if err != nil {
		return err
	}
	ok, err := s.deals.Delete(ctx, s.db, id)
	if err != nil {
		return domain.ErrInternal("delete deal", err)
	}
	if !ok {
		return domain.ErrNotFound("deal", rawID)
	}
	s.logger.Info("deal deleted", "deal_id", id)
	return nil
}

func slugConflict(slug string) *domain.AppError {
	return domain.ErrConflict(fmt.Sprintf("A deal with slug '%s' already exists", slug))
}

func parseID(entity, raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, domain.ErrValidation(entity + " id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.ErrValidation("invalid " + entity + " id")
	}
	return id, nil
}
