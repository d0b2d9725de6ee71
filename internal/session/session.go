package session

import (
	"context"

	"github.com/google/uuid"
)

// Session is the authenticated caller's identity, carried explicitly in
// the request context rather than through package-level state.
type Session struct {
	UserID   uuid.UUID
	Email    string
	Username string
}

type sessionKey struct{}

// IntoContext attaches the session to ctx.
func IntoContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext returns the session, or nil for unauthenticated requests.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}
