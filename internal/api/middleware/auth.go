// Package middleware provides the authentication and admin-gate
// middleware for the HTTP router.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taskboard/taskboard-api/internal/api/shared"
	"github.com/taskboard/taskboard-api/internal/redact"
	"github.com/taskboard/taskboard-api/internal/service"
	"github.com/taskboard/taskboard-api/internal/service/auth"
	"github.com/taskboard/taskboard-api/internal/store"
)

// AuthMiddleware validates bearer tokens and resolves the caller.
type AuthMiddleware struct {
	jwtService auth.JWTService
	userStore  store.UserStore
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(jwtService auth.JWTService, userStore store.UserStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		userStore:  userStore,
	}
}

// Authenticate validates the Authorization header and stores the caller
// in the request context. A missing or malformed header is AUTH_REQUIRED;
// a token that fails verification, or whose user no longer exists, is
// INVALID_TOKEN. The role comes from the user record, not the token, so
// role changes take effect on the next request.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondError(w, r, http.StatusUnauthorized, service.CodeAuthRequired, "Authentication required.")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			respondError(w, r, http.StatusUnauthorized, service.CodeAuthRequired, "Authentication required.")
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), parts[1])
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) || errors.Is(err, auth.ErrInvalidToken) {
				respondError(w, r, http.StatusUnauthorized, service.CodeInvalidToken, "Invalid or expired token.")
				return
			}
			slog.Error("failed to validate token", "error", redact.Error(err))
			respondError(w, r, http.StatusInternalServerError, service.CodeInternal, "An unexpected error occurred.")
			return
		}

		user, err := m.userStore.GetByID(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				respondError(w, r, http.StatusUnauthorized, service.CodeInvalidToken, "Invalid or expired token.")
				return
			}
			slog.Error("failed to resolve token user", "error", redact.Error(err), "user_id", claims.UserID)
			respondError(w, r, http.StatusInternalServerError, service.CodeInternal, "An unexpected error occurred.")
			return
		}

		caller := service.Caller{ID: user.ID, Role: user.Role}
		ctx := context.WithValue(r.Context(), shared.CallerContextKey, caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects non-admin callers with FORBIDDEN. It must run
// after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := r.Context().Value(shared.CallerContextKey).(service.Caller)
		if !ok {
			respondError(w, r, http.StatusUnauthorized, service.CodeAuthRequired, "Authentication required.")
			return
		}
		if !caller.IsAdmin() {
			respondError(w, r, http.StatusForbidden, service.CodeForbidden, "Admin access required.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func respondError(w http.ResponseWriter, r *http.Request, status int, code service.Code, message string) {
	shared.RespondWithError(w, r, status, string(code), message, nil)
}
