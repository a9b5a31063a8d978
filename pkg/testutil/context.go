package testutil

import (
	"context"
	"net/http"

	"clubsphere/internal/platform/middleware"
)

// WithEmail adds an authenticated principal email to the request context.
// This simulates what the auth middleware does for authenticated requests.
func WithEmail(req *http.Request, email string) *http.Request {
	if email == "" {
		return req
	}
	ctx := context.WithValue(req.Context(), middleware.ContextKeyEmail, email)
	return req.WithContext(ctx)
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	ctx := context.WithValue(req.Context(), key, value)
	return req.WithContext(ctx)
}
