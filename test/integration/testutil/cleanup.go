//go:build integration

package testutil

import (
	"context"
	"time"
)

// CleanAll truncates all tables. CASCADE takes care of deal_votes.
func (env *TestEnv) CleanAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tables := []string{
		"deal_votes",
		"deal_analytics",
		"prop_deals",
		"books",
		"newsletter_subscribers",
		"event_outbox",
		"login_attempts",
		"admin_users",
	}

	for _, table := range tables {
		_, _ = env.Pool.Exec(ctx, "TRUNCATE TABLE "+table+" CASCADE")
	}
}
