package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"lexidrill/internal/security"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const UserIDContextKey ContextKey = "userID"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	tokens  *security.TokenIssuer
	limiter *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(tokens *security.TokenIssuer, limiter *security.RateLimiter) *Middleware {
	return &Middleware{
		tokens:  tokens,
		limiter: limiter,
	}
}

// RequireAuth rejects requests without a valid bearer token and puts
// the authenticated user ID on the request context
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing bearer token")
			return
		}

		userID, err := m.tokens.Verify(token)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDContextKey, userID)
		next(w, r.WithContext(ctx))
	}
}

// RateLimit rejects clients that exceed the configured request budget
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.limiter != nil && !m.limiter.Allow(security.GetClientIP(r)) {
			respondError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests")
			return
		}
		next(w, r)
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// GetUserIDFromContext retrieves the authenticated user ID, or 0 when
// the request never passed RequireAuth
func GetUserIDFromContext(ctx context.Context) int64 {
	userID, ok := ctx.Value(UserIDContextKey).(int64)
	if !ok {
		return 0
	}
	return userID
}
