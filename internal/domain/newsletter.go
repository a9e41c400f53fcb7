package domain

import "time"

// Subscriber statuses.
const (
	SubscriberActive       = "active"
	SubscriberUnsubscribed = "unsubscribed"
)

// Subscriber represents a newsletter_subscribers row.
type Subscriber struct {
	Email          string     `json:"email"`
	Status         string     `json:"status"`
	SubscribedAt   time.Time  `json:"subscribed_at"`
	UnsubscribedAt *time.Time `json:"unsubscribed_at,omitempty"`
}
