package domain

import (
	"time"

	"github.com/google/uuid"
)

// AdminUser represents an admin_users row.
type AdminUser struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SessionIdentity is the identity carried by a verified session token.
type SessionIdentity struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}
