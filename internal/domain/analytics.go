package domain

import (
	"time"

	"github.com/google/uuid"
)

// Known analytics event types. Any non-empty type is accepted and stored.
const (
	EventCodeCopied  = "code_copied"
	EventLinkClicked = "link_clicked"
	EventPageViewed  = "page_viewed"
)

// MaxEventTypeLength bounds the free-form event type.
const MaxEventTypeLength = 64

// AnalyticsEvent represents a deal_analytics row.
type AnalyticsEvent struct {
	ID         int64     `json:"id"`
	DealID     uuid.UUID `json:"deal_id"`
	EventType  string    `json:"event_type"`
	ClientIP   string    `json:"-"`
	UserAgent  string    `json:"-"`
	Browser    string    `json:"browser"`
	OS         string    `json:"os"`
	DeviceType string    `json:"device_type"`
	CreatedAt  time.Time `json:"created_at"`
}

// AnalyticsStats are per-type counts computed at read time.
type AnalyticsStats struct {
	CodeCopied  int64 `json:"codeCopied"`
	LinkClicked int64 `json:"linkClicked"`
	PageViewed  int64 `json:"pageViewed"`
	Total       int64 `json:"total"`
}
