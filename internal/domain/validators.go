package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	asinRegex  = regexp.MustCompile(`(?i)/(?:dp|product)/([A-Z0-9]{10})`)
)

// MinPasswordLength is the minimum accepted admin password length.
const MinPasswordLength = 8

// ValidateEmail checks if an email address is valid.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidateNewPassword checks the policy for a replacement password.
func ValidateNewPassword(current, next string) error {
	if len(next) < MinPasswordLength {
		return fmt.Errorf("new password must be at least %d characters", MinPasswordLength)
	}
	if next == current {
		return fmt.Errorf("new password must differ from the current password")
	}
	return nil
}

// NormalizeDiscount trims s and guarantees a trailing percent sign.
func NormalizeDiscount(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasSuffix(s, "%") {
		return s
	}
	return s + "%"
}

// NormalizeExpiry turns an empty expiry into nil and checks the YYYY-MM-DD format.
func NormalizeExpiry(expiry *string) (*string, error) {
	if expiry == nil {
		return nil, nil
	}
	v := strings.TrimSpace(*expiry)
	if v == "" {
		return nil, nil
	}
	if _, err := time.Parse(time.DateOnly, v); err != nil {
		return nil, fmt.Errorf("expiry must be a date in YYYY-MM-DD format")
	}
	return &v, nil
}

// ValidatePropScore checks the 0-10 rating range.
func ValidatePropScore(score *float64) error {
	if score != nil && (*score < 0 || *score > 10) {
		return fmt.Errorf("prop score must be between 0 and 10")
	}
	return nil
}

func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// NormalizeDealInput validates and normalizes a create request in place.
func NormalizeDealInput(in *DealInput) error {
	in.Firm = strings.TrimSpace(in.Firm)
	in.Code = strings.TrimSpace(in.Code)
	in.Discount = NormalizeDiscount(in.Discount)
	in.Link = strings.TrimSpace(in.Link)
	in.Description = trimmedPtr(in.Description)

	switch {
	case in.Firm == "":
		return fmt.Errorf("Firm name is required")
	case in.Code == "":
		return fmt.Errorf("Code is required")
	case in.Discount == "":
		return fmt.Errorf("Discount is required")
	case in.Link == "":
		return fmt.Errorf("Link is required")
	}

	expiry, err := NormalizeExpiry(in.Expiry)
	if err != nil {
		return err
	}
	in.Expiry = expiry

	if err := ValidatePropScore(in.PropScore); err != nil {
		return err
	}

	if in.VerificationStatus == "" {
		in.VerificationStatus = StatusVerified
	}
	if !in.VerificationStatus.Valid() {
		return fmt.Errorf("invalid verification status: %s", in.VerificationStatus)
	}

	source := strings.TrimSpace(in.Slug)
	if source == "" {
		source = in.Firm
	}
	in.Slug = Slugify(source)
	if in.Slug == "" {
		return fmt.Errorf("slug could not be derived from %q", source)
	}
	return nil
}

// ApplyDealPatch applies the supplied fields of p onto d, normalizing as on create.
func ApplyDealPatch(d *Deal, p DealPatch) error {
	if p.Firm != nil {
		v := strings.TrimSpace(*p.Firm)
		if v == "" {
			return fmt.Errorf("Firm name is required")
		}
		d.Firm = v
	}
	if p.Code != nil {
		v := strings.TrimSpace(*p.Code)
		if v == "" {
			return fmt.Errorf("Code is required")
		}
		d.Code = v
	}
	if p.Discount != nil {
		v := NormalizeDiscount(*p.Discount)
		if v == "" {
			return fmt.Errorf("Discount is required")
		}
		d.Discount = v
	}
	if p.Link != nil {
		v := strings.TrimSpace(*p.Link)
		if v == "" {
			return fmt.Errorf("Link is required")
		}
		d.Link = v
	}
	if p.Expiry != nil {
		expiry, err := NormalizeExpiry(p.Expiry)
		if err != nil {
			return err
		}
		d.Expiry = expiry
	}
	if p.Slug != nil {
		v := Slugify(*p.Slug)
		if v == "" {
			return fmt.Errorf("slug must contain at least one letter or digit")
		}
		d.Slug = v
	}
	if p.Description != nil {
		d.Description = trimmedPtr(p.Description)
	}
	if p.PropScore != nil {
		if err := ValidatePropScore(p.PropScore); err != nil {
			return err
		}
		d.PropScore = p.PropScore
	}
	if p.VerificationStatus != nil {
		if !p.VerificationStatus.Valid() {
			return fmt.Errorf("invalid verification status: %s", *p.VerificationStatus)
		}
		d.VerificationStatus = *p.VerificationStatus
	}
	return nil
}

// ParseVoteType validates a raw vote type.
func ParseVoteType(s string) (VoteType, error) {
	v := VoteType(strings.TrimSpace(s))
	if _, ok := v.CounterColumn(); !ok {
		return "", fmt.Errorf("invalid vote type: %q", s)
	}
	return v, nil
}

// ValidateEventType checks a free-form analytics event type.
func ValidateEventType(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("eventType is required")
	}
	if len(s) > MaxEventTypeLength {
		return fmt.Errorf("eventType must be at most %d characters", MaxEventTypeLength)
	}
	return nil
}

// ExtractASIN pulls the 10-character Amazon product id out of a product URL.
func ExtractASIN(amazonURL string) (string, bool) {
	m := asinRegex.FindStringSubmatch(amazonURL)
	if m == nil {
		return "", false
	}
	return strings.ToUpper(m[1]), true
}

// NormalizeBook validates a book before it is stored and fills derived fields.
func NormalizeBook(b *Book) error {
	b.Title = strings.TrimSpace(b.Title)
	b.Author = strings.TrimSpace(b.Author)
	b.AmazonLink = strings.TrimSpace(b.AmazonLink)
	b.Category = strings.TrimSpace(b.Category)
	b.Subtitle = trimmedPtr(b.Subtitle)

	switch {
	case b.Title == "":
		return fmt.Errorf("Title is required")
	case b.Author == "":
		return fmt.Errorf("Author is required")
	case b.AmazonLink == "":
		return fmt.Errorf("Amazon link is required")
	}
	if !strings.Contains(strings.ToLower(b.AmazonLink), "amazon.") {
		return fmt.Errorf("Amazon link must point to an Amazon product page")
	}
	if b.Rating != nil && (*b.Rating < 0 || *b.Rating > 5) {
		return fmt.Errorf("rating must be between 0 and 5")
	}
	if b.Pages < 0 {
		return fmt.Errorf("pages must not be negative")
	}
	if b.Category == "" {
		b.Category = DefaultBookCategory
	}

	b.ASIN = trimmedPtr(b.ASIN)
	if b.ASIN == nil {
		if asin, ok := ExtractASIN(b.AmazonLink); ok {
			b.ASIN = &asin
		}
	}
	return nil
}
