package domain

import (
	"time"

	"github.com/google/uuid"
)

// VerificationStatus labels how a deal was vetted.
type VerificationStatus string

const (
	StatusVerified          VerificationStatus = "verified"
	StatusSponsored         VerificationStatus = "sponsored"
	StatusCommunityFavorite VerificationStatus = "community-favorite"
	StatusLimitedTime       VerificationStatus = "limited-time"
)

// Valid reports whether s is a known verification status.
func (s VerificationStatus) Valid() bool {
	switch s {
	case StatusVerified, StatusSponsored, StatusCommunityFavorite, StatusLimitedTime:
		return true
	}
	return false
}

// Deal represents a prop_deals row.
type Deal struct {
	ID                 uuid.UUID          `json:"id"`
	Firm               string             `json:"firm"`
	Code               string             `json:"code"`
	Discount           string             `json:"discount"`
	Expiry             *string            `json:"expiry"` // YYYY-MM-DD, nil = never expires
	Slug               string             `json:"slug"`
	Link               string             `json:"link"`
	Description        *string            `json:"description"`
	PropScore          *float64           `json:"prop_score"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	VotesGotPaid       int64              `json:"votes_got_paid"`
	VotesStillWaiting  int64              `json:"votes_still_waiting"`
	VotesFailed        int64              `json:"votes_failed"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// Counters returns the deal's current vote counters.
func (d *Deal) Counters() VoteCounters {
	return VoteCounters{
		GotPaid:      d.VotesGotPaid,
		StillWaiting: d.VotesStillWaiting,
		Failed:       d.VotesFailed,
	}
}

// DealInput holds the fields accepted when creating a deal.
type DealInput struct {
	Firm               string             `json:"firm"`
	Code               string             `json:"code"`
	Discount           string             `json:"discount"`
	Expiry             *string            `json:"expiry"`
	Slug               string             `json:"slug"`
	Link               string             `json:"link"`
	Description        *string            `json:"description"`
	PropScore          *float64           `json:"prop_score"`
	VerificationStatus VerificationStatus `json:"verification_status"`
}

// DealPatch holds a partial update. Nil fields are left untouched.
// An empty Expiry string clears the expiry.
type DealPatch struct {
	Firm               *string             `json:"firm"`
	Code               *string             `json:"code"`
	Discount           *string             `json:"discount"`
	Expiry             *string             `json:"expiry"`
	Slug               *string             `json:"slug"`
	Link               *string             `json:"link"`
	Description        *string             `json:"description"`
	PropScore          *float64            `json:"prop_score"`
	VerificationStatus *VerificationStatus `json:"verification_status"`
}

// Empty reports whether the patch changes nothing.
func (p DealPatch) Empty() bool {
	return p.Firm == nil && p.Code == nil && p.Discount == nil && p.Expiry == nil &&
		p.Slug == nil && p.Link == nil && p.Description == nil && p.PropScore == nil &&
		p.VerificationStatus == nil
}
