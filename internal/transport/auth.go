package transport

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

type householdKey struct{}

// HouseholdResolver resolves a household ID from a bearer token.
type HouseholdResolver interface {
	ResolveHousehold(ctx context.Context, token string) (string, error)
}

// HouseholdFromContext returns the household ID from context, if present.
func HouseholdFromContext(ctx context.Context) (string, bool) {
	householdID, ok := ctx.Value(householdKey{}).(string)
	return householdID, ok
}

// AuthMiddleware enforces bearer token authentication.
func AuthMiddleware(resolver HouseholdResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			householdID, err := resolver.ResolveHousehold(r.Context(), token)
			if err != nil || householdID == "" {
				http.Error(w, "invalid bearer token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), householdKey{}, householdID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
