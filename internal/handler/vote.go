package handler

import (
	"context"
	"net/http"

	"github.com/propcodes/platform/internal/domain"
	"github.com/propcodes/platform/internal/service"
)

// VoteService is the subset of service.VoteService used by VoteHandler.
type VoteService interface {
	Submit(ctx context.Context, input service.SubmitVoteInput, clientIP string) (domain.VoteCounters, error)
	List(ctx context.Context, rawDealID string) ([]domain.Vote, error)
}

// VoteHandler handles the public payout-vote endpoints.
type VoteHandler struct {
	votes VoteService
}

// NewVoteHandler creates a new VoteHandler.
func NewVoteHandler(votes VoteService) *VoteHandler {
	return &VoteHandler{votes: votes}
}

type voteRequest struct {
	DealID   string  `json:"dealId" validate:"required"`
	VoteType string  `json:"voteType" validate:"required"`
	Comment  *string `json:"comment" validate:"omitempty,max=1000"`
}

type voteResponse struct {
	Success bool                `json:"success"`
	Votes   domain.VoteCounters `json:"votes"`
}

// Submit handles POST /votes.
func (h *VoteHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if err := DecodeAndValidate(r, &req); err != nil {
		RespondError(w, err)
		return
	}

	counters, err := h.votes.Submit(r.Context(), service.SubmitVoteInput{
		DealID:   req.DealID,
		VoteType: req.VoteType,
		Comment:  req.Comment,
	}, ClientIP(r))
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, voteResponse{Success: true, Votes: counters})
}

// List handles GET /votes?dealId=.
func (h *VoteHandler) List(w http.ResponseWriter, r *http.Request) {
	votes, err := h.votes.List(r.Context(), r.URL.Query().Get("dealId"))
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, votes)
}
