package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/mileusna/useragent"

	"github.com/propcodes/platform/internal/domain"
	"github.com/propcodes/platform/internal/repository"
)

// Header-derived values are truncated to these byte lengths before storage.
const (
	maxUserAgentLength = 512
	maxClientIPLength  = 255
)

// AnalyticsService appends deal interaction events and counts them on read.
type AnalyticsService struct {
	db        repository.Database
	analytics repository.AnalyticsRepository
	outbox    repository.OutboxRepository
	recorder  Recorder
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(
	db repository.Database,
	analytics repository.AnalyticsRepository,
	outbox repository.OutboxRepository,
	recorder Recorder,
) *AnalyticsService {
	return &AnalyticsService{db: db, analytics: analytics, outbox: outbox, recorder: recorderOrNop(recorder)}
}

// RecordEventInput holds the analytics request fields.
type RecordEventInput struct {
	DealID    string `json:"dealId"`
	EventType string `json:"eventType"`
}

// Record appends an event. There is no deduplication.
func (s *AnalyticsService) Record(ctx context.Context, input RecordEventInput, clientIP, userAgent string) error {
	dealID, err := parseID("deal", input.DealID)
	if err != nil {
		return err
	}
	eventType := strings.TrimSpace(input.EventType)
	if err := domain.ValidateEventType(eventType); err != nil {
		return domain.ErrValidation(err.Error())
	}

	userAgent = cleanHeaderValue(userAgent, maxUserAgentLength)
	ev := &domain.AnalyticsEvent{
		DealID:    dealID,
		EventType: eventType,
		ClientIP:  cleanHeaderValue(clientIP, maxClientIPLength),
		UserAgent: userAgent,
	}
	ev.Browser, ev.OS, ev.DeviceType = parseUserAgent(userAgent)

	err = s.db.WithTx(ctx, func(tx repository.DBTX) error {
		if err := s.analytics.Insert(ctx, tx, ev); err != nil {
			return err
		}
		return s.outbox.Insert(ctx, tx, domain.NewAnalyticsRecordedEvent(ev))
	})
	if err != nil {
		return domain.ErrInternal("record analytics event", err)
	}

	s.recorder.AnalyticsRecorded(eventType)
	return nil
}

// Stats counts events per known type, scoped to rawDealID when it is non-empty.
func (s *AnalyticsService) Stats(ctx context.Context, rawDealID string) (domain.AnalyticsStats, error) {
	if rawDealID == "" {
		stats, err := s.analytics.Stats(ctx, s.db, nil)
		if err != nil {
			return stats, domain.ErrInternal("analytics stats", err)
		}
		return stats, nil
	}

	dealID, err := parseID("deal", rawDealID)
	if err != nil {
		return domain.AnalyticsStats{}, err
	}
	stats, err := s.analytics.Stats(ctx, s.db, &dealID)
	if err != nil {
		return stats, domain.ErrInternal("analytics stats", err)
	}
	return stats, nil
}

// parseUserAgent extracts browser, OS and device type from a user agent string.
func parseUserAgent(raw string) (browser, os, device string) {
	ua := useragent.Parse(raw)

	browser, os = ua.Name, ua.OS
	if browser == "" {
		browser = "Unknown"
	}
	if os == "" {
		os = "Unknown"
	}

	switch {
	case ua.Bot:
		device = "bot"
	case ua.Tablet:
		device = "tablet"
	case ua.Mobile:
		device = "mobile"
	default:
		device = "desktop"
	}
	return browser, os, device
}

// cleanHeaderValue drops invalid UTF-8 and cuts s to at most limit bytes on a
// rune boundary. Request headers are client-controlled and Postgres rejects
// invalid UTF-8 in text columns.
func cleanHeaderValue(s string, limit int) string {
	s = strings.ToValidUTF8(s, "")
	if len(s) <= limit {
		return s
	}
	n := limit
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
