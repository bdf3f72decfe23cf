package transport

import (
	"context"
	"net/http"
)

type actorKey struct{}

// ActorFromContext returns the acting partner ID from context, if present.
func ActorFromContext(ctx context.Context) (string, bool) {
	actorID, ok := ctx.Value(actorKey{}).(string)
	return actorID, ok
}

// ActorMiddleware extracts X-Partner-Id and stores it in context. The header
// names which partner a request acts as when the payload doesn't say.
func ActorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actorID := r.Header.Get("X-Partner-Id")
		if actorID != "" {
			ctx := context.WithValue(r.Context(), actorKey{}, actorID)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}
		next.ServeHTTP(w, r)
	})
}
