package auth

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const (
	ctxActorID ctxKey = "actorID"
	ctxRole    ctxKey = "actorRole"
)

// Middleware validates the bearer token and stores the actor id and role on
// the request context. Handlers resolve the full Actor row themselves and
// pass it explicitly into the core operations.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		h := r.Header.Get("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}
		claims, err := ParseAndValidate(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), ctxActorID, claims.ActorID)
		ctx = context.WithValue(ctx, ctxRole, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ActorID returns the authenticated actor id stored by Middleware.
func ActorID(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(ctxActorID).(uint)
	return id, ok
}
