package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Session is an authenticated user session. A nil *Session means nobody is signed in.
type Session struct {
	Token     string
	UID       string
	Email     string
	CreatedAt time.Time
}

type StateChange struct {
	UID      string `json:"uid"`
	SignedIn bool   `json:"signed_in"`
}

func (c StateChange) String() string {
	if c.SignedIn {
		return "signed_in"
	}
	return "signed_out"
}

type sessionCtxKey struct{}

func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, session)
}

// SessionFromContext returns nil when no session was stored.
func SessionFromContext(ctx context.Context) *Session {
	session, _ := ctx.Value(sessionCtxKey{}).(*Session)
	return session
}

const SessionCookieName = "gt_session"

// TokenFromRequest reads the session token from the Authorization bearer header,
// falling back to the session cookie.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(SessionCookieName); err == nil {
		return c.Value
	}
	return ""
}
