package session

import (
	"context"
	"time"

	"auth-gateway/internal/auth"
)

// Session is the server-side record tying a client to its login progress.
// A session with UserData is fully authenticated regardless of KeywordValid.
type Session struct {
	ID           string         `json:"id"`
	KeywordValid bool           `json:"keywordValid"`
	UserData     *auth.Identity `json:"userData,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// Authenticated reports whether the session passed at least one login path.
func (s *Session) Authenticated() bool {
	return s.UserData != nil || s.KeywordValid
}

// Store owns every session record. Sessions never expire on their own;
// they live until Delete or until the backing store goes away.
type Store interface {
	// Create assigns a fresh unique id to s, stores it and returns the id.
	// An existing entry is never overwritten.
	Create(ctx context.Context, s Session) (string, error)

	// Get returns nil, nil when the session does not exist.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set replaces the stored record for s.ID.
	Set(ctx context.Context, s Session) error

	// Delete is idempotent.
	Delete(ctx context.Context, sessionID string) error

	Exists(ctx context.Context, sessionID string) (bool, error)
}
