package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/avolkov/credvault/internal/server/auth"
)

type ctxKey int

const actorIDKey ctxKey = 1

func withActorID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, actorIDKey, id)
}

func actorIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(actorIDKey).(string)
	return id, ok
}

// authRequired checks the Bearer token and adds the acting user's id to the
// request context.
func (s *Server) authRequired(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		token := strings.TrimPrefix(h, "Bearer ")
		userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
		if err != nil || userID == "" {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(withActorID(r.Context(), userID)))
	})
}
