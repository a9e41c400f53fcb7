package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func floatPtr(f float64) *float64 { return &f }

// --- Validator Tests ---

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
		errMsg  string
	}{
		{"valid email", "user@example.com", false, ""},
		{"valid email with dots", "first.last@example.co.uk", false, ""},
		{"valid email with plus", "user+tag@example.com", false, ""},
		{"valid email with dash", "user-name@exam-ple.com", false, ""},
		{"empty string", "", true, "email is required"},
		{"no at sign", "userexample.com", true, "invalid email format"},
		{"no domain", "user@", true, "invalid email format"},
		{"no user", "@example.com", true, "invalid email format"},
		{"double at", "user@@example.com", true, "invalid email format"},
		{"no tld", "user@example", true, "invalid email format"},
		{"single char tld", "user@example.c", true, "invalid email format"},
		{"spaces", "user @example.com", true, "invalid email format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestNormalizeDiscount(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"10", "10%"},
		{"10%", "10%"},
		{" 15 ", "15%"},
		{"Up to 20%", "Up to 20%"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.in), func(t *testing.T) {
			got := NormalizeDiscount(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, NormalizeDiscount(got), "normalization must be idempotent")
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"FTMO", "ftmo"},
		{"The Funded Trader", "the-funded-trader"},
		{"  Apex   Trader  Funding ", "apex-trader-funding"},
		{"Topstep™ (Futures)", "topstep-futures"},
		{"Crème Brûlée Capital", "creme-brulee-capital"},
		{"a--b", "a-b"},
		{"-leading-and-trailing-", "leading-and-trailing"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestNormalizeDealInput(t *testing.T) {
	valid := func() DealInput {
		return DealInput{Firm: "FTMO", Code: "X10", Discount: "10", Link: "https://ftmo.com"}
	}

	t.Run("derives slug and normalizes", func(t *testing.T) {
		in := valid()
		require.NoError(t, NormalizeDealInput(&in))
		assert.Equal(t, "ftmo", in.Slug)
		assert.Equal(t, "10%", in.Discount)
		assert.Equal(t, StatusVerified, in.VerificationStatus)
		assert.Nil(t, in.Expiry)
	})

	t.Run("supplied slug is normalized", func(t *testing.T) {
		in := valid()
		in.Slug = "My Custom Slug"
		require.NoError(t, NormalizeDealInput(&in))
		assert.Equal(t, "my-custom-slug", in.Slug)
	})

	t.Run("empty expiry becomes nil", func(t *testing.T) {
		in := valid()
		in.Expiry = strPtr("  ")
		require.NoError(t, NormalizeDealInput(&in))
		assert.Nil(t, in.Expiry)
	})

	t.Run("blank description dropped", func(t *testing.T) {
		in := valid()
		in.Description = strPtr("   ")
		require.NoError(t, NormalizeDealInput(&in))
		assert.Nil(t, in.Description)
	})

	tests := []struct {
		name   string
		mutate func(*DealInput)
		errMsg string
	}{
		{"missing firm", func(d *DealInput) { d.Firm = "  " }, "Firm name is required"},
		{"missing code", func(d *DealInput) { d.Code = "" }, "Code is required"},
		{"missing discount", func(d *DealInput) { d.Discount = " " }, "Discount is required"},
		{"missing link", func(d *DealInput) { d.Link = "" }, "Link is required"},
		{"bad expiry", func(d *DealInput) { d.Expiry = strPtr("31/12/2030") }, "YYYY-MM-DD"},
		{"score too high", func(d *DealInput) { d.PropScore = floatPtr(10.5) }, "between 0 and 10"},
		{"score negative", func(d *DealInput) { d.PropScore = floatPtr(-1) }, "between 0 and 10"},
		{"unknown status", func(d *DealInput) { d.VerificationStatus = "gold" }, "invalid verification status"},
		{"unsluggable firm", func(d *DealInput) { d.Firm = "!!!" }, "slug could not be derived"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.mutate(&in)
			err := NormalizeDealInput(&in)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestApplyDealPatch(t *testing.T) {
	base := func() Deal {
		return Deal{
			Firm:               "FTMO",
			Code:               "X10",
			Discount:           "10%",
			Expiry:             strPtr("2030-01-01"),
			Slug:               "ftmo",
			Link:               "https://ftmo.com",
			VerificationStatus: StatusVerified,
			VotesGotPaid:       4,
		}
	}

	t.Run("only supplied fields change", func(t *testing.T) {
		d := base()
		require.NoError(t, ApplyDealPatch(&d, DealPatch{Code: strPtr("  Y20  "), Discount: strPtr("20")}))
		assert.Equal(t, "Y20", d.Code)
		assert.Equal(t, "20%", d.Discount)
		assert.Equal(t, "FTMO", d.Firm)
		assert.Equal(t, "2030-01-01", *d.Expiry)
		assert.Equal(t, int64(4), d.VotesGotPaid)
	})

	t.Run("empty expiry clears", func(t *testing.T) {
		d := base()
		require.NoError(t, ApplyDealPatch(&d, DealPatch{Expiry: strPtr("")}))
		assert.Nil(t, d.Expiry)
	})

	t.Run("status change", func(t *testing.T) {
		d := base()
		s := StatusSponsored
		require.NoError(t, ApplyDealPatch(&d, DealPatch{VerificationStatus: &s}))
		assert.Equal(t, StatusSponsored, d.VerificationStatus)
	})

	t.Run("blank firm rejected", func(t *testing.T) {
		d := base()
		err := ApplyDealPatch(&d, DealPatch{Firm: strPtr(" ")})
		require.Error(t, err)
		assert.Equal(t, "Firm name is required", err.Error())
	})

	t.Run("slug normalized", func(t *testing.T) {
		d := base()
		require.NoError(t, ApplyDealPatch(&d, DealPatch{Slug: strPtr("FTMO Pro")}))
		assert.Equal(t, "ftmo-pro", d.Slug)
	})

	t.Run("empty patch", func(t *testing.T) {
		assert.True(t, DealPatch{}.Empty())
		assert.False(t, DealPatch{Link: strPtr("x")}.Empty())
	})
}

func TestParseVoteType(t *testing.T) {
	for _, vt := range AllVoteTypes() {
		got, err := ParseVoteType(string(vt))
		require.NoError(t, err)
		assert.Equal(t, vt, got)
		col, ok := got.CounterColumn()
		assert.True(t, ok)
		assert.Contains(t, col, "votes_")
	}

	_, err := ParseVoteType("scam")
	assert.Error(t, err)
	_, err = ParseVoteType("")
	assert.Error(t, err)
}

func TestValidateEventType(t *testing.T) {
	assert.NoError(t, ValidateEventType(EventCodeCopied))
	assert.NoError(t, ValidateEventType("custom_event"))
	assert.Error(t, ValidateEventType(""))
	assert.Error(t, ValidateEventType("   "))
	long := make([]byte, MaxEventTypeLength+1)
	for i := range long {
		long[i] = 'a'
	}
	assert.Error(t, ValidateEventType(string(long)))
}

func TestValidateNewPassword(t *testing.T) {
	assert.NoError(t, ValidateNewPassword("oldpass12", "newpass12"))
	assert.Error(t, ValidateNewPassword("oldpass12", "short"))
	assert.Error(t, ValidateNewPassword("samepass12", "samepass12"))
}

func TestExtractASIN(t *testing.T) {
	tests := []struct {
		url    string
		want   string
		wantOK bool
	}{
		{"https://www.amazon.com/Trading-Book/dp/B08XYZ1234/ref=sr_1_1", "B08XYZ1234", true},
		{"https://amazon.com/gp/product/0123456789", "0123456789", true},
		{"https://amazon.com/dp/b08xyz1234", "B08XYZ1234", true},
		{"https://amazon.com/s?k=trading", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, ok := ExtractASIN(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeBook(t *testing.T) {
	t.Run("defaults and asin", func(t *testing.T) {
		b := Book{Title: " Trading in the Zone ", Author: "Mark Douglas", AmazonLink: "https://www.amazon.com/dp/0735201447"}
		require.NoError(t, NormalizeBook(&b))
		assert.Equal(t, "Trading in the Zone", b.Title)
		assert.Equal(t, DefaultBookCategory, b.Category)
		require.NotNil(t, b.ASIN)
		assert.Equal(t, "0735201447", *b.ASIN)
	})

	t.Run("explicit asin kept", func(t *testing.T) {
		b := Book{Title: "T", Author: "A", AmazonLink: "https://www.amazon.com/dp/0735201447", ASIN: strPtr("X000000001")}
		require.NoError(t, NormalizeBook(&b))
		assert.Equal(t, "X000000001", *b.ASIN)
	})

	t.Run("non amazon link", func(t *testing.T) {
		b := Book{Title: "T", Author: "A", AmazonLink: "https://example.com/book"}
		assert.Error(t, NormalizeBook(&b))
	})

	t.Run("rating range", func(t *testing.T) {
		b := Book{Title: "T", Author: "A", AmazonLink: "https://amazon.com/dp/0735201447", Rating: floatPtr(6)}
		assert.Error(t, NormalizeBook(&b))
	})

	t.Run("missing title", func(t *testing.T) {
		b := Book{Author: "A", AmazonLink: "https://amazon.com/dp/0735201447"}
		err := NormalizeBook(&b)
		require.Error(t, err)
		assert.Equal(t, "Title is required", err.Error())
	})
}

// --- Error Tests ---

func TestAppError_Error(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := ErrNotFound("deal", "abc-123")
		assert.Equal(t, "NOT_FOUND: deal abc-123 not found", err.Error())
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := ErrInternal("database error", cause)
		assert.Contains(t, err.Error(), "INTERNAL_ERROR")
		assert.Contains(t, err.Error(), "connection refused")
	})
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := ErrInternal("wrapped", cause)
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestAsAppError(t *testing.T) {
	wrapped := fmt.Errorf("create deal: %w", ErrConflict("dup"))
	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeConflict, appErr.Code)
	assert.True(t, IsCode(wrapped, CodeConflict))
	assert.False(t, IsCode(errors.New("plain"), CodeConflict))
}

func TestErrorFactories(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"ErrNotFound", ErrNotFound("deal", "123"), "NOT_FOUND", 404},
		{"ErrConflict", ErrConflict("already exists"), "CONFLICT", 409},
		{"ErrValidation", ErrValidation("bad input"), "VALIDATION_ERROR", 400},
		{"ErrUnauthorized", ErrUnauthorized("no token"), "UNAUTHORIZED", 401},
		{"ErrForbidden", ErrForbidden("not allowed"), "FORBIDDEN", 403},
		{"ErrInvalidCredentials", ErrInvalidCredentials(), "UNAUTHORIZED", 401},
		{"ErrDuplicateVote", ErrDuplicateVote(), "DUPLICATE_VOTE", 400},
		{"ErrRateLimited", ErrRateLimited("slow down"), "RATE_LIMITED", 429},
		{"ErrAccountLocked", ErrAccountLocked("too many attempts"), "ACCOUNT_LOCKED", 429},
		{"ErrInternal", ErrInternal("oops", nil), "INTERNAL_ERROR", 500},
		{"ErrServerConfig", ErrServerConfig("no secret"), "SERVER_CONFIG_ERROR", 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.Equal(t, tt.wantStatus, tt.err.Status)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
	assert.Equal(t, "Already voted", ErrDuplicateVote().Message)
}

// --- Event Tests ---

func TestNewVoteRecordedEvent(t *testing.T) {
	dealID := uuid.New()
	counters := VoteCounters{GotPaid: 3, StillWaiting: 1}

	event := NewVoteRecordedEvent(dealID, VoteGotPaid, counters)

	assert.NotEqual(t, uuid.Nil, event.EventID)
	assert.Equal(t, AggregateDeal, event.AggregateType)
	assert.Equal(t, dealID.String(), event.AggregateID)
	assert.Equal(t, EventVoteRecorded, event.EventType)
	assert.Equal(t, dealID.String(), event.PartitionKey)
	assert.False(t, event.OccurredAt.IsZero())
	assert.Equal(t, "propcodes.deal.vote_recorded", event.Topic("propcodes"))

	var payload VoteRecordedPayload
	require.NoError(t, json.Unmarshal(event.Payload, &payload))
	assert.Equal(t, VoteGotPaid, payload.VoteType)
	assert.Equal(t, counters, payload.Counters)
}

func TestNewAnalyticsRecordedEvent(t *testing.T) {
	ev := &AnalyticsEvent{
		DealID:    uuid.New(),
		EventType: EventCodeCopied,
		ClientIP:  "1.2.3.4",
		UserAgent: "Mozilla/5.0",
		Browser:   "Chrome",
	}

	event := NewAnalyticsRecordedEvent(ev)

	assert.Equal(t, EventAnalyticsEvent, event.EventType)
	assert.Equal(t, "propcodes.deal.analytics_event", event.Topic("propcodes"))
	assert.NotContains(t, string(event.Payload), "1.2.3.4")
	assert.NotContains(t, string(event.Payload), "Mozilla")
	assert.Contains(t, string(event.Payload), "Chrome")
}
