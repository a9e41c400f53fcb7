package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/propcodes/platform/internal/domain"
	"github.com/propcodes/platform/internal/repository"
)

var errNotImplemented = errors.New("fake: not implemented")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

func fkViolation(constraint string) error {
	return &pgconn.PgError{Code: "23503", ConstraintName: constraint}
}

// fakeDB satisfies repository.Database; the fake repositories ignore it.
type fakeDB struct {
	txCount atomic.Int64
}

func (f *fakeDB) Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errNotImplemented
}

func (f *fakeDB) Query(context.Context, string, ...interface{}) (pgx.Rows, error) {
	return nil, errNotImplemented
}

func (f *fakeDB) QueryRow(context.Context, string, ...interface{}) pgx.Row { return nil }

func (f *fakeDB) WithTx(_ context.Context, fn func(tx repository.DBTX) error) error {
	f.txCount.Add(1)
	return fn(f)
}

// --- admin users ---

type fakeAdminRepo struct {
	users     map[string]*domain.AdminUser
	findErr   error
	updateErr error
}

func newFakeAdminRepo(users ...*domain.AdminUser) *fakeAdminRepo {
	r := &fakeAdminRepo{users: map[string]*domain.AdminUser{}}
	for _, u := range users {
		r.users[u.Email] = u
	}
	return r
}

func (r *fakeAdminRepo) FindByEmail(_ context.Context, _ repository.DBTX, email string) (*domain.AdminUser, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeAdminRepo) Upsert(_ context.Context, _ repository.DBTX, u *domain.AdminUser) error {
	r.users[u.Email] = u
	return nil
}

func (r *fakeAdminRepo) UpdatePasswordHash(_ context.Context, _ repository.DBTX, email, hash string) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	u, ok := r.users[email]
	if !ok {
		return domain.ErrNotFound("admin", email)
	}
	u.PasswordHash = hash
	return nil
}

// --- deals ---

type fakeDealRepo struct {
	mu    sync.Mutex
	deals map[uuid.UUID]*domain.Deal
	seq   int
	err   error
}

func newFakeDealRepo() *fakeDealRepo {
	return &fakeDealRepo{deals: map[uuid.UUID]*domain.Deal{}}
}

func (r *fakeDealRepo) add(d domain.Deal) *domain.Deal {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.seq++
	d.CreatedAt = time.Unix(int64(r.seq), 0)
	r.deals[d.ID] = &d
	return &d
}

func (r *fakeDealRepo) sorted(less func(a, b domain.Deal) bool) []domain.Deal {
	out := []domain.Deal{}
	for _, d := range r.deals {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func (r *fakeDealRepo) ListNewest(context.Context, repository.DBTX) ([]domain.Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return r.sorted(func(a, b domain.Deal) bool { return a.CreatedAt.After(b.CreatedAt) }), nil
}

func (r *fakeDealRepo) ListRanked(context.Context, repository.DBTX) ([]domain.Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(a, b domain.Deal) bool {
		switch {
		case a.PropScore == nil && b.PropScore == nil:
			return a.CreatedAt.After(b.CreatedAt)
		case a.PropScore == nil:
			return false
		case b.PropScore == nil:
			return true
		case *a.PropScore != *b.PropScore:
			return *a.PropScore > *b.PropScore
		}
		return a.CreatedAt.After(b.CreatedAt)
	}), nil
}

func (r *fakeDealRepo) FindByID(_ context.Context, _ repository.DBTX, id uuid.UUID) (*domain.Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.deals[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeDealRepo) FindBySlug(_ context.Context, _ repository.DBTX, slug string) (*domain.Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.deals {
		if d.Slug == slug {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeDealRepo) slugTaken(slug string, except uuid.UUID) bool {
	for id, d := range r.deals {
		if d.Slug == slug && id != except {
			return true
		}
	}
	return false
}

func (r *fakeDealRepo) Insert(_ context.Context, _ repository.DBTX, in domain.DealInput) (*domain.Deal, error) {
	r.mu.Lock()
	if r.err != nil {
		r.mu.Unlock()
		return nil, r.err
	}
	if r.slugTaken(in.Slug, uuid.Nil) {
		r.mu.Unlock()
		return nil, uniqueViolation(repository.ConstraintDealSlug)
	}
	r.mu.Unlock()
	return r.add(domain.Deal{
		Firm: in.Firm, Code: in.Code, Discount: in.Discount, Expiry: in.Expiry, Slug: in.Slug,
		Link: in.Link, Description: in.Description, PropScore: in.PropScore,
		VerificationStatus: in.VerificationStatus,
	}), nil
}

func (r *fakeDealRepo) Update(_ context.Context, _ repository.DBTX, d *domain.Deal) (*domain.Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.deals[d.ID]
	if !ok {
		return nil, nil
	}
	if r.slugTaken(d.Slug, d.ID) {
		return nil, uniqueViolation(repository.ConstraintDealSlug)
	}
	updated := *d
	updated.VotesGotPaid, updated.VotesStillWaiting, updated.VotesFailed =
		cur.VotesGotPaid, cur.VotesStillWaiting, cur.VotesFailed
	r.deals[d.ID] = &updated
	cp := updated
	return &cp, nil
}

func (r *fakeDealRepo) Delete(_ context.Context, _ repository.DBTX, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.deals[id]; !ok {
		return false, nil
	}
	delete(r.deals, id)
	return true, nil
}

func (r *fakeDealRepo) IncrementCounter(_ context.Context, _ repository.DBTX, id uuid.UUID, vt domain.VoteType) (domain.VoteCounters, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.deals[id]
	if !ok {
		return domain.VoteCounters{}, domain.ErrNotFound("deal", id.String())
	}
	switch vt {
	case domain.VoteGotPaid:
		d.VotesGotPaid++
	case domain.VoteStillWaiting:
		d.VotesStillWaiting++
	case domain.VoteFailed:
		d.VotesFailed++
	}
	return d.Counters(), nil
}

// --- votes ---

type fakeVoteRepo struct {
	mu    sync.Mutex
	deals *fakeDealRepo
	votes []domain.Vote
}

func (r *fakeVoteRepo) Insert(_ context.Context, _ repository.DBTX, v *domain.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, _ := r.deals.FindByID(context.Background(), nil, v.DealID); d == nil {
		return fkViolation(repository.ConstraintVoteDeal)
	}
	for _, existing := range r.votes {
		if existing.DealID == v.DealID && existing.ClientIP == v.ClientIP && existing.VoteType == v.VoteType {
			return uniqueViolation(repository.ConstraintVoteUnique)
		}
	}
	v.ID = int64(len(r.votes) + 1)
	v.CreatedAt = time.Unix(v.ID, 0)
	r.votes = append(r.votes, *v)
	return nil
}

func (r *fakeVoteRepo) ListByDeal(_ context.Context, _ repository.DBTX, dealID uuid.UUID) ([]domain.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Vote{}
	for i := len(r.votes) - 1; i >= 0; i-- {
		if r.votes[i].DealID == dealID {
			out = append(out, r.votes[i])
		}
	}
	return out, nil
}

// --- analytics ---

type fakeAnalyticsRepo struct {
	events []domain.AnalyticsEvent
	err    error
}

func (r *fakeAnalyticsRepo) Insert(_ context.Context, _ repository.DBTX, ev *domain.AnalyticsEvent) error {
	if r.err != nil {
		return r.err
	}
	ev.ID = int64(len(r.events) + 1)
	r.events = append(r.events, *ev)
	return nil
}

func (r *fakeAnalyticsRepo) Stats(_ context.Context, _ repository.DBTX, dealID *uuid.UUID) (domain.AnalyticsStats, error) {
	var s domain.AnalyticsStats
	for _, ev := range r.events {
		if dealID != nil && ev.DealID != *dealID {
			continue
		}
		switch ev.EventType {
		case domain.EventCodeCopied:
			s.CodeCopied++
		case domain.EventLinkClicked:
			s.LinkClicked++
		case domain.EventPageViewed:
			s.PageViewed++
		}
		s.Total++
	}
	return s, nil
}

// --- outbox ---

type fakeOutbox struct {
	drafts []domain.OutboxDraft
	err    error
}

func (o *fakeOutbox) Insert(_ context.Context, _ repository.DBTX, d domain.OutboxDraft) error {
	if o.err != nil {
		return o.err
	}
	d.SeqID = int64(len(o.drafts) + 1)
	o.drafts = append(o.drafts, d)
	return nil
}

func (o *fakeOutbox) FetchUnpublished(context.Context, repository.DBTX, int) ([]domain.OutboxDraft, error) {
	return o.drafts, nil
}

func (o *fakeOutbox) MarkPublished(context.Context, repository.DBTX, []int64) error { return nil }

func (o *fakeOutbox) PurgePublished(context.Context, repository.DBTX, time.Time) (int64, error) {
	return 0, nil
}

// --- books ---

type fakeBookRepo struct {
	books []domain.Book
}

func (r *fakeBookRepo) List(context.Context, repository.DBTX) ([]domain.Book, error) {
	return append([]domain.Book{}, r.books...), nil
}

func (r *fakeBookRepo) Insert(_ context.Context, _ repository.DBTX, b *domain.Book) (*domain.Book, error) {
	for _, existing := range r.books {
		if b.ASIN != nil && existing.ASIN != nil && *existing.ASIN == *b.ASIN {
			return nil, uniqueViolation(repository.ConstraintBookASIN)
		}
	}
	stored := *b
	stored.ID = uuid.New()
	r.books = append(r.books, stored)
	return &stored, nil
}

func (r *fakeBookRepo) Delete(_ context.Context, _ repository.DBTX, id uuid.UUID) (bool, error) {
	for i, b := range r.books {
		if b.ID == id {
			r.books = append(r.books[:i], r.books[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// --- newsletter ---

type fakeNewsletterRepo struct {
	subs map[string]*domain.Subscriber
}

func (r *fakeNewsletterRepo) FindByEmail(_ context.Context, _ repository.DBTX, email string) (*domain.Subscriber, error) {
	if s, ok := r.subs[email]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeNewsletterRepo) Insert(_ context.Context, _ repository.DBTX, email string) error {
	if _, ok := r.subs[email]; ok {
		return uniqueViolation("newsletter_subscribers_pkey")
	}
	r.subs[email] = &domain.Subscriber{Email: email, Status: domain.SubscriberActive, SubscribedAt: time.Now()}
	return nil
}

func (r *fakeNewsletterRepo) SetStatus(_ context.Context, _ repository.DBTX, email, status string) error {
	s, ok := r.subs[email]
	if !ok {
		return domain.ErrNotFound("subscriber", email)
	}
	s.Status = status
	if status == domain.SubscriberActive {
		s.UnsubscribedAt = nil
	} else {
		now := time.Now()
		s.UnsubscribedAt = &now
	}
	return nil
}

// --- lockout + recorder ---

type fakeLockout struct {
	locked   bool
	attempts []bool
}

func (l *fakeLockout) CheckLocked(context.Context, string) error {
	if l.locked {
		return domain.ErrAccountLocked("locked")
	}
	return nil
}

func (l *fakeLockout) RecordAttempt(_ context.Context, _, _ string, success bool) {
	l.attempts = append(l.attempts, success)
}

type fakeRecorder struct {
	votes  map[domain.VoteType]int
	events map[string]int
	logins map[string]int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{votes: map[domain.VoteType]int{}, events: map[string]int{}, logins: map[string]int{}}
}

func (r *fakeRecorder) VoteRecorded(vt domain.VoteType) { r.votes[vt]++ }
func (r *fakeRecorder) AnalyticsRecorded(et string) { r.events[et]++ }
func (r *fakeRecorder) LoginAttempt(result string) { r.logins[result]++ }
