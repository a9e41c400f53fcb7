//go:build integration

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/propcodes/platform/internal/auth"
	"github.com/propcodes/platform/internal/domain"
	"github.com/propcodes/platform/internal/repository"
)

// Request performs a request against the test server. A non-empty session is
// sent as the admin cookie; headers are applied last.
func (env *TestEnv) Request(method, path string, body interface{}, session string, headers map[string]string) *http.Response {
	env.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			env.t.Fatalf("%s %s: encode: %v", method, path, err)
		}
	}
	req, err := http.NewRequest(method, env.Server.URL+path, &buf)
	if err != nil {
		env.t.Fatalf("%s %s: new request: %v", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != "" {
		req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: session})
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		env.t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

// GET performs an unauthenticated GET request.
func (env *TestEnv) GET(path string) *http.Response {
	env.t.Helper()
	return env.Request(http.MethodGet, path, nil, "", nil)
}

// POST performs a POST request with an optional session.
func (env *TestEnv) POST(path string, body interface{}, session string) *http.Response {
	env.t.Helper()
	return env.Request(http.MethodPost, path, body, session, nil)
}

// POSTFrom performs an anonymous POST that appears to come from ip.
func (env *TestEnv) POSTFrom(path string, body interface{}, ip string) *http.Response {
	env.t.Helper()
	return env.Request(http.MethodPost, path, body, "", map[string]string{"X-Forwarded-For": ip})
}

// AuthGET performs a GET request with the admin session cookie.
func (env *TestEnv) AuthGET(path, session string) *http.Response {
	env.t.Helper()
	return env.Request(http.MethodGet, path, nil, session, nil)
}

// AuthPUT performs a PUT request with the admin session cookie.
func (env *TestEnv) AuthPUT(path string, body interface{}, session string) *http.Response {
	env.t.Helper()
	return env.Request(http.MethodPut, path, body, session, nil)
}

// AuthDELETE performs a DELETE request with the admin session cookie.
func (env *TestEnv) AuthDELETE(path, session string) *http.Response {
	env.t.Helper()
	return env.Request(http.MethodDelete, path, nil, session, nil)
}

// SessionCookie returns the admin cookie set by resp, or nil.
func SessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == auth.SessionCookieName {
			return c
		}
	}
	return nil
}

// Login authenticates through /admin/login and returns the session token.
func (env *TestEnv) Login(email, password string) string {
	env.t.Helper()
	resp := env.POST("/admin/login", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		env.t.Fatalf("Login: expected 200, got %d", resp.StatusCode)
	}
	c := SessionCookie(resp)
	if c == nil || c.Value == "" {
		env.t.Fatalf("Login: no %s cookie", auth.SessionCookieName)
	}
	return c.Value
}

// RegisterAdmin stores an admin account and returns a session token for it.
func (env *TestEnv) RegisterAdmin(email, password, role string) string {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	hash, err := auth.HashPassword(password)
	if err != nil {
		env.t.Fatalf("RegisterAdmin: hash: %v", err)
	}
	user := &domain.AdminUser{ID: uuid.New(), Email: email, PasswordHash: hash, Role: role}
	if err := repository.NewPgAdminUserRepository().Upsert(ctx, env.Pool, user); err != nil {
		env.t.Fatalf("RegisterAdmin: upsert: %v", err)
	}

	token, err := env.JWTMgr.GenerateToken(email, role)
	if err != nil {
		env.t.Fatalf("RegisterAdmin: token: %v", err)
	}
	return token
}

// SeedDeal inserts a deal for firm and returns its ID. The slug is the
// lowercased firm with spaces replaced by dashes.
func (env *TestEnv) SeedDeal(firm, code string) uuid.UUID {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	id := uuid.New()
	slug := strings.ReplaceAll(strings.ToLower(firm), " ", "-")
	_, err := env.Pool.Exec(ctx, `
		INSERT INTO prop_deals (id, firm, code, discount, slug, link)
		VALUES ($1, $2, $3, '20%', $4, 'https://example.com')`,
		id, firm, code, slug)
	if err != nil {
		env.t.Fatalf("SeedDeal: %v", err)
	}
	return id
}

// FakeUUID returns a random UUID string for test placeholders.
func FakeUUID() string {
	return uuid.New().String()
}
