package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// TokenValidator verifies a bearer credential into a principal email.
// Token issuance belongs to the external identity provider; this side only
// validates.
type TokenValidator interface {
	ValidateToken(tokenString string) (email string, err error)
}

// RoleLookup resolves the stored role for a principal email.
type RoleLookup interface {
	GetRole(ctx context.Context, email string) (string, error)
}

type contextKeyEmail struct{}

// ContextKeyEmail is exported for use in handlers and tests.
var ContextKeyEmail = contextKeyEmail{}

// GetEmail retrieves the authenticated principal email from the context.
func GetEmail(ctx context.Context) string {
	email, ok := ctx.Value(ContextKeyEmail).(string)
	if !ok {
		return ""
	}
	return email
}

func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok {
				logger.WarnContext(r.Context(), "unauthorized access - missing token",
					"request_id", GetRequestID(r.Context()),
				)
				writeAuthError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			email, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(r.Context(), "unauthorized access - invalid token",
					"error", err,
					"request_id", GetRequestID(r.Context()),
				)
				writeAuthError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyEmail, email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route on the principal's stored role. Must be mounted
// after RequireAuth.
func RequireRole(roles RoleLookup, logger *slog.Logger, allowed ...string) func(http.Handler) http.Handler {
	allowedSet := make(map[string]bool, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			email := GetEmail(ctx)
			if email == "" {
				writeAuthError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
				return
			}
			role, err := roles.GetRole(ctx, email)
			if err != nil {
				logger.ErrorContext(ctx, "role lookup failed",
					"error", err,
					"request_id", GetRequestID(ctx),
				)
				writeAuthError(w, http.StatusInternalServerError, "internal", "Failed to resolve role")
				return
			}
			if !allowedSet[role] {
				logger.WarnContext(ctx, "forbidden - insufficient role",
					"role", role,
					"request_id", GetRequestID(ctx),
				)
				writeAuthError(w, http.StatusForbidden, "forbidden", "Insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, code, desc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + code + `","error_description":"` + desc + `"}`))
}
