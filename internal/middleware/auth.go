package middleware

import (
	"context"
	"net/http"
	"strings"

	"go-account-service/internal/model"
)

type tokenVerifier interface {
	Verify(tokenString string) (*model.Claims, error)
}

type contextKey string

const claimsContextKey contextKey = "auth_claims"

// AuthMiddleware is the guard chain: RequireAuth authenticates the bearer
// token and attaches claims to the request context; RequireAdmin is always
// composed downstream of RequireAuth and only reads what it attached.
// Guards trust the token's embedded role and never re-query the store, so
// a role change takes effect on the next token issuance, not on
// outstanding tokens.
type AuthMiddleware struct {
	verifier tokenVerifier
}

func NewAuthMiddleware(verifier tokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			writeGuardReject(w, "unauthorized", "missing or invalid authorization header")
			return
		}

		token := strings.TrimSpace(header[7:])
		claims, err := m.verifier.Verify(token)
		if err != nil {
			writeGuardReject(w, "unauthorized", "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			// Unreachable when composed after RequireAuth; kept so a
			// miswired route fails closed.
			writeGuardReject(w, "unauthorized", "authentication required")
			return
		}

		if claims.Role != model.RoleAdmin {
			writeGuardReject(w, "permission_denied", "admin role required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func ClaimsFromContext(ctx context.Context) (*model.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*model.Claims)
	return claims, ok
}

func writeGuardReject(w http.ResponseWriter, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	if code == "permission_denied" {
		w.WriteHeader(http.StatusForbidden)
	} else {
		w.WriteHeader(http.StatusUnauthorized)
	}

	_ = jsonEncode(w, model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    code,
			Message: message,
		},
	})
}
