package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/propcodes/platform/internal/auth"
	"github.com/propcodes/platform/internal/domain"
	"github.com/propcodes/platform/internal/repository"
)

// LoginGuard tracks failed logins per email. guard.Lockout implements it.
type LoginGuard interface {
	CheckLocked(ctx context.Context, email string) error
	RecordAttempt(ctx context.Context, email, ip string, success bool)
}

// AuthService verifies admin credentials and issues session tokens.
type AuthService struct {
	db       repository.DBTX
	users    repository.AdminUserRepository
	jwtMgr   *auth.JWTManager
	lockout  LoginGuard
	recorder Recorder
	logger   *slog.Logger

	checkPassword func(hash, password string) bool
}

// NewAuthService creates a new AuthService. lockout and recorder may be nil.
func NewAuthService(
	db repository.DBTX,
	users repository.AdminUserRepository,
	jwtMgr *auth.JWTManager,
	lockout LoginGuard,
	recorder Recorder,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		db:       db,
		users:    users,
		jwtMgr:   jwtMgr,
		lockout:  lockout,
		recorder: recorderOrNop(recorder),
		logger:   logger,

		checkPassword: auth.CheckPassword,
	}
}

// LoginInput holds the login request fields.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is returned on successful login.
type LoginResult struct {
	Token string                 `json:"-"`
	Admin domain.SessionIdentity `json:"admin"`
}

// Login authenticates an admin. Unknown email and wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, input LoginInput, clientIP string) (*LoginResult, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" || input.Password == "" {
		return nil, domain.ErrValidation("Email and password required")
	}
	if s.jwtMgr == nil {
		return nil, domain.ErrServerConfig("session signing is not configured")
	}

	if s.lockout != nil {
		if err := s.lockout.CheckLocked(ctx, email); err != nil {
			s.recorder.LoginAttempt(LoginLocked)
			return nil, err
		}
	}

	user, err := s.users.FindByEmail(ctx, s.db, email)
	if err != nil {
		return nil, domain.ErrInternal("find admin", err)
	}
	if !s.credentialsMatch(user, input.Password) {
		s.recordAttempt(ctx, email, clientIP, false)
		s.recorder.LoginAttempt(LoginFailure)
		return nil, domain.ErrInvalidCredentials()
	}

	token, err := s.jwtMgr.GenerateToken(user.Email, user.Role)
	if err != nil {
		return nil, domain.ErrInternal("generate token", err)
	}

	s.recordAttempt(ctx, email, clientIP, true)
	s.recorder.LoginAttempt(LoginSuccess)
	s.logger.Info("admin logged in", "email", user.Email, "ip", clientIP)

	return &LoginResult{
		Token: token,
		Admin: domain.SessionIdentity{Email: user.Email, Role: user.Role},
	}, nil
}

// Verify checks a session token without touching the credential store.
func (s *AuthService) Verify(token string) (*domain.SessionIdentity, error) {
	if s.jwtMgr == nil {
		return nil, domain.ErrServerConfig("session signing is not configured")
	}
	claims, err := s.jwtMgr.ValidateToken(token)
	if err != nil {
		return nil, domain.ErrUnauthorized(auth.UnauthorizedMessage)
	}
	id := claims.Identity()
	return &id, nil
}

// SessionTTL returns the lifetime of issued tokens.
func (s *AuthService) SessionTTL() time.Duration {
	if s.jwtMgr == nil {
		return auth.DefaultSessionTTL
	}
	return s.jwtMgr.TTL()
}

// ChangePasswordInput holds the password change request fields.
type ChangePasswordInput struct {
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword re-verifies the current password before storing a new hash.
// A wrong current password never mutates the stored hash.
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput, clientIP string) error {
	email := strings.TrimSpace(input.Email)
	if email == "" || input.CurrentPassword == "" || input.NewPassword == "" {
		return domain.ErrValidation("Email, current password and new password are required")
	}
	if err := domain.ValidateNewPassword(input.CurrentPassword, input.NewPassword); err != nil {
		return domain.ErrValidation(err.Error())
	}

	if s.lockout != nil {
		if err := s.lockout.CheckLocked(ctx, email); err != nil {
			return err
		}
	}

	user, err := s.users.FindByEmail(ctx, s.db, email)
	if err != nil {
		return domain.ErrInternal("find admin", err)
	}
	if !s.credentialsMatch(user, input.CurrentPassword) {
		s.recordAttempt(ctx, email, clientIP, false)
		return domain.ErrInvalidCredentials()
	}

	hash, err := auth.HashPassword(input.NewPassword)
	if err != nil {
		return domain.ErrInternal("hash password", err)
	}
	if err := s.users.UpdatePasswordHash(ctx, s.db, user.Email, hash); err != nil {
		if domain.IsCode(err, domain.CodeNotFound) {
			return domain.ErrInvalidCredentials()
		}
		return domain.ErrInternal("update password", err)
	}

	s.logger.Info("admin password changed", "email", user.Email)
	return nil
}

// credentialsMatch runs a bcrypt comparison even for an unknown user so the
// response time does not reveal whether the email exists.
func (s *AuthService) credentialsMatch(user *domain.AdminUser, password string) bool {
	if user == nil {
		s.checkPassword(auth.DummyHash(), password)
		return false
	}
	return s.checkPassword(user.PasswordHash, password)
}

func (s *AuthService) recordAttempt(ctx context.Context, email, ip string, success bool) {
	if s.lockout != nil {
		s.lockout.RecordAttempt(ctx, email, ip, success)
	}
}
