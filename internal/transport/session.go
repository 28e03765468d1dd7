package transport

import (
	"context"
	"net/http"
	"strings"
)

// SessionHeader names the caller's workspace session. It matches the header
// the streamable MCP transport uses, so one client can speak both.
const SessionHeader = "Mcp-Session-Id"

const maxSessionIDLength = 128

type sessionKey struct{}

// SessionIDFromContext returns the session ID from context, if present.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(sessionKey{}).(string)
	return sessionID, ok
}

// SessionMiddleware stores the session header in the request context and
// echoes it on the response. Requests without one share the caller's
// sessionless workspace. IDs must be visible ASCII and at most 128 bytes.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := strings.TrimSpace(r.Header.Get(SessionHeader))
		if sessionID == "" {
			next.ServeHTTP(w, r)
			return
		}
		if !validSessionID(sessionID) {
			http.Error(w, "invalid session id", http.StatusBadRequest)
			return
		}
		w.Header().Set(SessionHeader, sessionID)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, sessionID)))
	})
}

func validSessionID(id string) bool {
	if len(id) > maxSessionIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
