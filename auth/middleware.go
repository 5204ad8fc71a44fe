package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"github.com/stevemurr/simple-shop-server/store"
)

type contextKey struct{}

// UserFrom returns the authenticated user record stored in the request
// context, or nil when the request was not authenticated.
func UserFrom(ctx context.Context) store.Record {
	user, _ := ctx.Value(contextKey{}).(store.Record)
	return user
}

// Middleware authenticates requests against the user collection.
type Middleware struct {
	service *Service
	store   *store.DocumentStore
}

func NewMiddleware(service *Service, s *store.DocumentStore) *Middleware {
	return &Middleware{service: service, store: s}
}

// Authenticate requires a valid Bearer token naming a user that still exists
// in the store, and attaches that user to the request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if header == "" || !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "Access token required")
			return
		}

		claims, err := m.service.VerifyToken(token)
		if err != nil {
			writeError(w, http.StatusForbidden, "Invalid or expired token")
			return
		}

		user, err := m.store.FindOneWhere(store.Users, store.Record{"username": claims.Username})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Authentication lookup failed")
			return
		}
		if user == nil {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), contextKey{}, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects non-admin callers. Must run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFrom(r.Context())
		if user == nil || user["role"] != "admin" {
			writeError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CanAccess reports whether the caller may act on the target user's data:
// admins may touch anyone, everyone else only themselves.
func CanAccess(user store.Record, targetUsername string) bool {
	if user == nil {
		return false
	}
	return user["role"] == "admin" || user["username"] == targetUsername
}

// Throttle rate-limits a route group. Applied to the credential endpoints to
// slow down stuffing attempts.
func Throttle(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeError(w, http.StatusTooManyRequests, "Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
