//go:build integration

package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
)

// DecodeJSON reads and decodes a JSON response body into dst.
func DecodeJSON(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
}

// AssertStatus checks that the response has the expected HTTP status code.
func AssertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

// AssertError checks the error body's code and message.
func AssertError(t *testing.T, resp *http.Response, expectedCode, expectedMessage string) {
	t.Helper()
	var errResp struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	DecodeJSON(t, resp, &errResp)
	if errResp.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, errResp.Code, errResp.Message)
	}
	if expectedMessage != "" && errResp.Message != expectedMessage {
		t.Errorf("expected error message %q, got %q", expectedMessage, errResp.Message)
	}
}

// VoteCounts reads the stored counters for a deal.
func VoteCounts(t *testing.T, env *TestEnv, dealID uuid.UUID) (gotPaid, stillWaiting, failed int64) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := env.Pool.QueryRow(ctx,
		"SELECT votes_got_paid, votes_still_waiting, votes_failed FROM prop_deals WHERE id = $1",
		dealID).Scan(&gotPaid, &stillWaiting, &failed)
	if err != nil {
		t.Fatalf("VoteCounts: query: %v", err)
	}
	return gotPaid, stillWaiting, failed
}

// CountRows returns the number of rows in table matching deal_id.
func CountRows(t *testing.T, env *TestEnv, table string, dealID uuid.UUID) int {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var count int
	err := env.Pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM "+table+" WHERE deal_id = $1", dealID).Scan(&count)
	if err != nil {
		t.Fatalf("CountRows(%s): %v", table, err)
	}
	return count
}

// CountOutboxEvents returns the number of outbox events for an aggregate.
func CountOutboxEvents(t *testing.T, env *TestEnv, aggregateID string) int {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var count int
	err := env.Pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM event_outbox WHERE aggregate_id = $1", aggregateID).Scan(&count)
	if err != nil {
		t.Fatalf("CountOutboxEvents: %v", err)
	}
	return count
}

// PasswordHash returns the stored hash for an admin.
func PasswordHash(t *testing.T, env *TestEnv, email string) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var hash string
	if err := env.Pool.QueryRow(ctx,
		"SELECT password_hash FROM admin_users WHERE email = $1", email).Scan(&hash); err != nil {
		t.Fatalf("PasswordHash: %v", err)
	}
	return hash
}
