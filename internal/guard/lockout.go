package guard

import (
	"context"
	"log/slog"
	"time"

	"github.com/propcodes/platform/internal/domain"
	"github.com/propcodes/platform/internal/repository"
)

const (
	MaxAttempts   = 5
	LockoutWindow = 15 * time.Minute
)

// Lockout blocks an email after repeated failed logins.
type Lockout struct {
	db       repository.DBTX
	attempts repository.LoginAttemptRepository
	logger   *slog.Logger
	now      func() time.Time
}

// NewLockout creates a DB-backed login lockout.
func NewLockout(db repository.DBTX, attempts repository.LoginAttemptRepository, logger *slog.Logger) *Lockout {
	return &Lockout{db: db, attempts: attempts, logger: logger, now: time.Now}
}

// RecordAttempt stores the outcome of a login attempt. Failures to record are logged only.
func (l *Lockout) RecordAttempt(ctx context.Context, email, ip string, success bool) {
	if err := l.attempts.Insert(ctx, l.db, email, ip, success); err != nil {
		l.logger.Warn("record login attempt failed", "error", err)
	}
}

// CheckLocked returns ErrAccountLocked if the account has >= MaxAttempts failed
// logins within the lockout window.
func (l *Lockout) CheckLocked(ctx context.Context, email string) error {
	count, err := l.attempts.CountFailedSince(ctx, l.db, email, l.now().Add(-LockoutWindow))
	if err != nil {
		// fail open: a lockout table outage must not block every admin
		l.logger.Warn("lockout check failed", "error", err)
		return nil
	}
	if count >= MaxAttempts {
		return domain.ErrAccountLocked("too many failed login attempts, try again later")
	}
	return nil
}
