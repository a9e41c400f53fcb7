package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/propcodes/platform/internal/domain"
)

type analyticsRepo struct{}

// NewAnalyticsRepository returns a pgx-backed AnalyticsRepository.
func NewAnalyticsRepository() AnalyticsRepository {
	return &analyticsRepo{}
}

func (r *analyticsRepo) Insert(ctx context.Context, db DBTX, ev *domain.AnalyticsEvent) error {
	err := db.QueryRow(ctx, `
		INSERT INTO deal_analytics (deal_id, event_type, client_ip, user_agent, browser, os, device_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		ev.DealID, ev.EventType, ev.ClientIP, ev.UserAgent, ev.Browser, ev.OS, ev.DeviceType,
	).Scan(&ev.ID, &ev.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert analytics event: %w", err)
	}
	return nil
}

// Stats counts at read time; there are no materialized analytics counters.
func (r *analyticsRepo) Stats(ctx context.Context, db DBTX, dealID *uuid.UUID) (domain.AnalyticsStats, error) {
	var s domain.AnalyticsStats
	err := db.QueryRow(ctx, `
		SELECT
		  COUNT(*) FILTER (WHERE event_type = $2),
		  COUNT(*) FILTER (WHERE event_type = $3),
		  COUNT(*) FILTER (WHERE event_type = $4),
		  COUNT(*)
		FROM deal_analytics
		WHERE $1::uuid IS NULL OR deal_id = $1`,
		dealID, domain.EventCodeCopied, domain.EventLinkClicked, domain.EventPageViewed,
	).Scan(&s.CodeCopied, &s.LinkClicked, &s.PageViewed, &s.Total)
	if err != nil {
		return s, fmt.Errorf("analytics stats: %w", err)
	}
	return s, nil
}
