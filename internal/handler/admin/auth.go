package admin

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/propcodes/platform/internal/auth"
	"github.com/propcodes/platform/internal/domain"
	"github.com/propcodes/platform/internal/handler"
	"github.com/propcodes/platform/internal/service"
)

// AuthService is the subset of service.AuthService used by AuthHandler.
type AuthService interface {
	Login(ctx context.Context, input service.LoginInput, clientIP string) (*service.LoginResult, error)
	Verify(token string) (*domain.SessionIdentity, error)
	ChangePassword(ctx context.Context, input service.ChangePasswordInput, clientIP string) error
	SessionTTL() time.Duration
}

// AuthHandler handles admin session endpoints.
type AuthHandler struct {
	authSvc      AuthService
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler. secureCookie marks the session
// cookie Secure and should be set in production.
func NewAuthHandler(authSvc AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, secureCookie: secureCookie}
}

type loginResponse struct {
	Success bool                   `json:"success"`
	Admin   domain.SessionIdentity `json:"admin"`
}

type checkResponse struct {
	Authenticated bool    `json:"authenticated"`
	Email         *string `json:"email"`
	Role          string  `json:"role,omitempty"`
}

// Login handles POST /admin/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	result, err := h.authSvc.Login(r.Context(), input, handler.ClientIP(r))
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	auth.SetSessionCookie(w, result.Token, h.authSvc.SessionTTL(), h.secureCookie)
	handler.RespondJSON(w, http.StatusOK, loginResponse{Success: true, Admin: result.Admin})
}

// Logout handles POST /admin/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, h.secureCookie)
	handler.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Check handles GET /admin/check. An invalid session also clears the cookie.
func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	token := auth.TokenFromRequest(r)
	if token == "" {
		handler.RespondJSON(w, http.StatusUnauthorized, checkResponse{})
		return
	}

	identity, err := h.authSvc.Verify(token)
	if err != nil {
		if domain.IsCode(err, domain.CodeServerConfig) {
			handler.RespondError(w, err)
			return
		}
		auth.ClearSessionCookie(w, h.secureCookie)
		handler.RespondJSON(w, http.StatusUnauthorized, checkResponse{})
		return
	}

	handler.RespondJSON(w, http.StatusOK, checkResponse{
		Authenticated: true,
		Email:         &identity.Email,
		Role:          identity.Role,
	})
}

// UpdatePassword handles POST /admin/update-password. An admin may only
// change their own password.
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var input service.ChangePasswordInput
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	input.Email = strings.TrimSpace(input.Email)
	if claims := auth.ClaimsFromContext(r.Context()); claims != nil && input.Email != "" && claims.Email != input.Email {
		handler.RespondError(w, domain.ErrForbidden("cannot change another admin's password"))
		return
	}

	if err := h.authSvc.ChangePassword(r.Context(), input, handler.ClientIP(r)); err != nil {
		handler.RespondError(w, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Password updated successfully",
	})
}
