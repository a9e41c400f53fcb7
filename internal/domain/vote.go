package domain

import (
	"time"

	"github.com/google/uuid"
)

// VoteType is one of the three payout-feedback categories.
type VoteType string

const (
	VoteGotPaid      VoteType = "got_paid"
	VoteStillWaiting VoteType = "still_waiting"
	VoteFailed       VoteType = "failed"
)

// AllVoteTypes returns every recognized vote type.
func AllVoteTypes() []VoteType {
	return []VoteType{VoteGotPaid, VoteStillWaiting, VoteFailed}
}

// CounterColumn maps a vote type to its prop_deals counter column.
// The second return is false for unrecognized types.
func (v VoteType) CounterColumn() (string, bool) {
	switch v {
	case VoteGotPaid:
		return "votes_got_paid", true
	case VoteStillWaiting:
		return "votes_still_waiting", true
	case VoteFailed:
		return "votes_failed", true
	}
	return "", false
}

// Vote represents a deal_votes row.
type Vote struct {
	ID        int64     `json:"-"`
	DealID    uuid.UUID `json:"-"`
	VoteType  VoteType  `json:"voteType"`
	ClientIP  string    `json:"-"`
	Comment   *string   `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// VoteCounters are the denormalized counters on a deal.
type VoteCounters struct {
	GotPaid      int64 `json:"gotPaid"`
	StillWaiting int64 `json:"stillWaiting"`
	Failed       int64 `json:"failed"`
}

// VoteRecordedPayload is the outbox payload emitted for each accepted vote.
type VoteRecordedPayload struct {
	DealID   uuid.UUID    `json:"deal_id"`
	VoteType VoteType     `json:"vote_type"`
	Counters VoteCounters `json:"counters"`
}
