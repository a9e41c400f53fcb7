package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/propcodes/platform/internal/domain"
)

type contextKey string

const claimsKey contextKey = "auth_claims"

// UnauthorizedMessage is returned for every rejected admin request.
const UnauthorizedMessage = "Unauthorized: Invalid token"

// ClaimsFromContext extracts JWT claims from request context.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsKey).(*Claims)
	return claims
}

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// AuthenticateAdmin returns middleware that validates the admin session token.
// Requests without a valid token never reach the wrapped handler.
func AuthenticateAdmin(jwtMgr *JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if jwtMgr == nil {
				writeError(w, domain.ErrServerConfig("session signing is not configured"))
				return
			}
			claims, err := jwtMgr.ValidateToken(TokenFromRequest(r))
			if err != nil {
				writeError(w, domain.ErrUnauthorized(UnauthorizedMessage))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireRole returns middleware that checks the admin role.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				writeError(w, domain.ErrUnauthorized(UnauthorizedMessage))
				return
			}
			if !roleSet[claims.Role] {
				writeError(w, domain.ErrForbidden("insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, appErr *domain.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Status)
	json.NewEncoder(w).Encode(map[string]string{
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}
