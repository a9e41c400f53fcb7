package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/propcodes/platform/internal/domain"
)

// PgAdminUserRepository implements AdminUserRepository using pgx.
type PgAdminUserRepository struct{}

// NewPgAdminUserRepository creates a new PgAdminUserRepository.
func NewPgAdminUserRepository() *PgAdminUserRepository {
	return &PgAdminUserRepository{}
}

// FindByEmail returns an admin user by email, or nil if not found.
func (r *PgAdminUserRepository) FindByEmail(ctx context.Context, db DBTX, email string) (*domain.AdminUser, error) {
	row := db.QueryRow(ctx,
		`SELECT id, email, password_hash, role, created_at, updated_at
		 FROM admin_users WHERE email = $1`, email)

	u := &domain.AdminUser{}
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find admin user: %w", err)
	}
	return u, nil
}

// Upsert creates an admin user or resets the hash and role of an existing one.
func (r *PgAdminUserRepository) Upsert(ctx context.Context, db DBTX, user *domain.AdminUser) error {
	err := db.QueryRow(ctx, `
		INSERT INTO admin_users (id, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE
		  SET password_hash = EXCLUDED.password_hash, role = EXCLUDED.role, updated_at = now()
		RETURNING id, created_at, updated_at`,
		user.ID, user.Email, user.PasswordHash, user.Role,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert admin user: %w", err)
	}
	return nil
}

// UpdatePasswordHash updates the password hash for the given email.
func (r *PgAdminUserRepository) UpdatePasswordHash(ctx context.Context, db DBTX, email, hash string) error {
	tag, err := db.Exec(ctx,
		`UPDATE admin_users SET password_hash = $1, updated_at = now() WHERE email = $2`,
		hash, email)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("admin", email)
	}
	return nil
}
