package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/propcodes/platform/internal/domain"
	"github.com/propcodes/platform/internal/repository"
)

// MaxCommentLength bounds the optional vote comment.
const MaxCommentLength = 1000

// VoteService records payout feedback votes and maintains the deal counters.
type VoteService struct {
	db       repository.Database
	deals    repository.DealRepository
	votes    repository.VoteRepository
	outbox   repository.OutboxRepository
	recorder Recorder
}

// NewVoteService creates a new VoteService.
func NewVoteService(
	db repository.Database,
	deals repository.DealRepository,
	votes repository.VoteRepository,
	outbox repository.OutboxRepository,
	recorder Recorder,
) *VoteService {
	return &VoteService{db: db, deals: deals, votes: votes, outbox: outbox, recorder: recorderOrNop(recorder)}
}

// SubmitVoteInput holds the vote request fields.
type SubmitVoteInput struct {
	DealID   string  `json:"dealId"`
	VoteType string  `json:"voteType"`
	Comment  *string `json:"comment,omitempty"`
}

// Submit stores a vote and increments the matching counter in one transaction.
// The unique (deal, client, type) constraint is the duplicate check, so two
// concurrent identical votes cannot both count.
func (s *VoteService) Submit(ctx context.Context, input SubmitVoteInput, clientIP string) (domain.VoteCounters, error) {
	var counters domain.VoteCounters

	dealID, err := parseID("deal", input.DealID)
	if err != nil {
		return counters, err
	}
	voteType, err := domain.ParseVoteType(input.VoteType)
	if err != nil {
		return counters, domain.ErrValidation(err.Error())
	}
	comment := input.Comment
	if comment != nil {
		c := strings.TrimSpace(*comment)
		switch {
		case c == "":
			comment = nil
		case utf8.RuneCountInString(c) > MaxCommentLength:
			return counters, domain.ErrValidation("comment is too long")
		default:
			comment = &c
		}
	}

	vote := &domain.Vote{DealID: dealID, VoteType: voteType, ClientIP: cleanHeaderValue(clientIP, maxClientIPLength), Comment: comment}

	err = s.db.WithTx(ctx, func(tx repository.DBTX) error {
		if err := s.votes.Insert(ctx, tx, vote); err != nil {
			return err
		}
		c, err := s.deals.IncrementCounter(ctx, tx, dealID, voteType)
		if err != nil {
			return err
		}
		counters = c
		return s.outbox.Insert(ctx, tx, domain.NewVoteRecordedEvent(dealID, voteType, c))
	})
	if err != nil {
		return domain.VoteCounters{}, translateVoteError(err, input.DealID)
	}

	s.recorder.VoteRecorded(voteType)
	return counters, nil
}

// List returns the votes for a deal, newest first.
func (s *VoteService) List(ctx context.Context, rawDealID string) ([]domain.Vote, error) {
	if rawDealID == "" {
		return nil, domain.ErrValidation("dealId required")
	}
	dealID, err := parseID("deal", rawDealID)
	if err != nil {
		return nil, err
	}
	votes, err := s.votes.ListByDeal(ctx, s.db, dealID)
	if err != nil {
		return nil, domain.ErrInternal("list votes", err)
	}
	return votes, nil
}

func translateVoteError(err error, dealID string) error {
	var appErr *domain.AppError
	switch {
	case repository.IsUniqueViolation(err, repository.ConstraintVoteUnique):
		return domain.ErrDuplicateVote()
	case repository.IsForeignKeyViolation(err, repository.ConstraintVoteDeal):
		return domain.ErrNotFound("deal", dealID)
	case errors.As(err, &appErr):
		return appErr
	}
	return domain.ErrInternal("record vote", err)
}
