package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/propcodes/platform/internal/auth"
	"github.com/propcodes/platform/internal/domain"
)

// buildAdmin validates the flags and hashes the password.
func buildAdmin(email, password, role string) (*domain.AdminUser, error) {
	email = strings.TrimSpace(email)
	if err := domain.ValidateEmail(email); err != nil {
		return nil, err
	}
	if len(password) < domain.MinPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters", domain.MinPasswordLength)
	}
	if !auth.ValidRole(role) {
		return nil, fmt.Errorf("unknown role %q", role)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return &domain.AdminUser{ID: uuid.New(), Email: email, PasswordHash: hash, Role: role}, nil
}
