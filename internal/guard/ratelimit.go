package guard

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"github.com/propcodes/platform/internal/domain"
)

// maxTrackedKeys bounds the limiter map; past it the map is reset.
const maxTrackedKeys = 10000

// RateLimiter is a per-key token bucket limiter.
type RateLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
	name     string
}

// NewRateLimiter creates a rate limiter allowing rps requests per second per key
// with the given burst.
func NewRateLimiter(name string, rps float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(rps),
		burst:    burst,
		name:     name,
	}
}

func (rl *RateLimiter) get(key string) *rate.Limiter {
	rl.mu.RLock()
	limiter, ok := rl.limiters[key]
	rl.mu.RUnlock()
	if ok {
		return limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, ok = rl.limiters[key]; ok {
		return limiter
	}
	if len(rl.limiters) >= maxTrackedKeys {
		rl.limiters = make(map[string]*rate.Limiter)
	}
	limiter = rate.NewLimiter(rl.limit, rl.burst)
	rl.limiters[key] = limiter
	return limiter
}

// Check returns a GuardResult indicating whether the key is within rate limits.
func (rl *RateLimiter) Check(_ context.Context, key string) domain.GuardResult {
	if rl.get(key).Allow() {
		return domain.GuardResult{Allowed: true}
	}
	return domain.GuardResult{
		Allowed: false,
		Reason:  fmt.Sprintf("rate limit exceeded for %s", rl.name),
		Guard:   "rate_limiter",
	}
}
