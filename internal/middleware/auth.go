package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"auth-gateway/internal/logger"
	"auth-gateway/internal/session"
)

// unexported, collision-proof context key
type sessionIDContextKeyType struct{}

var sessionIDKey = sessionIDContextKeyType{}

// SessionIDFromContext extracts the verified session ID from context.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDKey).(string)
	return id, ok && id != ""
}

type SessionMiddleware struct {
	Store session.Store
}

func NewSessionMiddleware(store session.Store) *SessionMiddleware {
	return &SessionMiddleware{Store: store}
}

// RequireSession rejects requests whose session id (query or cookie) does
// not reference a live session. The response never says which part failed.
func (m *SessionMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := session.IDFromRequest(r)
		if sessionID == "" {
			writeUnauthorized(w)
			return
		}

		exists, err := m.Store.Exists(r.Context(), sessionID)
		if err != nil {
			logger.Error("session lookup failed", map[string]any{
				"error": err.Error(),
			})
			writeUnauthorized(w)
			return
		}
		if !exists {
			writeUnauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
}
