package guard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propcodes/platform/internal/domain"
	"github.com/propcodes/platform/internal/repository"
)

func TestRateLimiter_AllowsBurst(t *testing.T) {
	rl := NewRateLimiter("votes", 0.001, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		result := rl.Check(ctx, "1.2.3.4")
		assert.True(t, result.Allowed, "request %d should be allowed", i+1)
	}
}

func TestRateLimiter_BlocksOverBurst(t *testing.T) {
	rl := NewRateLimiter("login", 0.001, 2)
	ctx := context.Background()

	rl.Check(ctx, "1.2.3.4")
	rl.Check(ctx, "1.2.3.4")
	result := rl.Check(ctx, "1.2.3.4")

	assert.False(t, result.Allowed)
	assert.Equal(t, "rate_limiter", result.Guard)
	assert.Contains(t, result.Reason, "login")
}

func TestRateLimiter_SeparateKeys(t *testing.T) {
	rl := NewRateLimiter("votes", 0.001, 1)
	ctx := context.Background()

	r1 := rl.Check(ctx, "key-a")
	r2 := rl.Check(ctx, "key-b")

	assert.True(t, r1.Allowed)
	assert.True(t, r2.Allowed)
}

func TestCircuitBreaker_ClosedByDefault(t *testing.T) {
	cb := NewCircuitBreaker(3, 5*time.Second)

	result := cb.Check(context.Background(), "topic-a")
	assert.True(t, result.Allowed)
	assert.Equal(t, CircuitClosed, cb.State("topic-a"))
}

func TestCircuitBreaker_OpensOnThreshold(t *testing.T) {
	cb := NewCircuitBreaker(2, 5*time.Second)
	ctx := context.Background()

	cb.RecordFailure("topic-a")
	cb.RecordFailure("topic-a")

	result := cb.Check(ctx, "topic-a")
	assert.False(t, result.Allowed)
	assert.Equal(t, "circuit_breaker", result.Guard)
	assert.Equal(t, CircuitOpen, cb.State("topic-a"))
	assert.True(t, cb.Check(ctx, "topic-b").Allowed)
}

func TestCircuitBreaker_SuccessResets(t *testing.T) {
	cb := NewCircuitBreaker(2, 5*time.Second)

	cb.RecordFailure("topic-a")
	cb.RecordSuccess("topic-a")
	cb.RecordFailure("topic-a")

	assert.True(t, cb.Check(context.Background(), "topic-a").Allowed)
}

func TestCircuitBreaker_HalfOpenProbe(t *testing.T) {
	cb := NewCircuitBreaker(1, time.Minute)
	now := time.Now()
	cb.now = func() time.Time { return now }
	ctx := context.Background()

	cb.RecordFailure("topic-a")
	assert.False(t, cb.Check(ctx, "topic-a").Allowed)

	now = now.Add(2 * time.Minute)
	assert.True(t, cb.Check(ctx, "topic-a").Allowed, "first probe allowed")
	assert.False(t, cb.Check(ctx, "topic-a").Allowed, "second probe blocked")

	cb.RecordFailure("topic-a")
	assert.Equal(t, CircuitOpen, cb.State("topic-a"))

	now = now.Add(2 * time.Minute)
	require.True(t, cb.Check(ctx, "topic-a").Allowed)
	cb.RecordSuccess("topic-a")
	assert.Equal(t, CircuitClosed, cb.State("topic-a"))
}

type fakeAttempts struct {
	failed   int
	err      error
	inserted []bool
}

func (f *fakeAttempts) Insert(_ context.Context, _ repository.DBTX, _, _ string, success bool) error {
	f.inserted = append(f.inserted, success)
	return nil
}

func (f *fakeAttempts) CountFailedSince(_ context.Context, _ repository.DBTX, _ string, _ time.Time) (int, error) {
	return f.failed, f.err
}

func newTestLockout(store *fakeAttempts) *Lockout {
	return NewLockout(nil, store, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestLockout_UnderThreshold(t *testing.T) {
	l := newTestLockout(&fakeAttempts{failed: MaxAttempts - 1})
	assert.NoError(t, l.CheckLocked(context.Background(), "a@b.com"))
}

func TestLockout_AtThreshold(t *testing.T) {
	l := newTestLockout(&fakeAttempts{failed: MaxAttempts})
	err := l.CheckLocked(context.Background(), "a@b.com")
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.CodeLocked))
}

func TestLockout_FailsOpen(t *testing.T) {
	l := newTestLockout(&fakeAttempts{failed: 99, err: errors.New("db down")})
	assert.NoError(t, l.CheckLocked(context.Background(), "a@b.com"))
}

func TestLockout_Records(t *testing.T) {
	store := &fakeAttempts{}
	l := newTestLockout(store)
	l.RecordAttempt(context.Background(), "a@b.com", "1.2.3.4", false)
	l.RecordAttempt(context.Background(), "a@b.com", "1.2.3.4", true)
	assert.Equal(t, []bool{false, true}, store.inserted)
}
