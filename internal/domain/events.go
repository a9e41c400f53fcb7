package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// NewVoteRecordedEvent creates the outbox event for an accepted vote.
func NewVoteRecordedEvent(dealID uuid.UUID, voteType VoteType, counters VoteCounters) OutboxDraft {
	payload, _ := json.Marshal(VoteRecordedPayload{
		DealID:   dealID,
		VoteType: voteType,
		Counters: counters,
	})
	return newDealEvent(dealID, EventVoteRecorded, payload)
}

// NewAnalyticsRecordedEvent creates the outbox event for a stored analytics event.
// Client IP and raw user agent stay out of the payload.
func NewAnalyticsRecordedEvent(ev *AnalyticsEvent) OutboxDraft {
	payload, _ := json.Marshal(ev)
	return newDealEvent(ev.DealID, EventAnalyticsEvent, payload)
}

func newDealEvent(dealID uuid.UUID, eventType EventType, payload []byte) OutboxDraft {
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateDeal,
		AggregateID:   dealID.String(),
		EventType:     eventType,
		PartitionKey:  dealID.String(),
		Headers:       json.RawMessage(`{}`),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}
