package resolver

import (
	"context"
	"fmt"

	"auth-gateway/internal/auth"
	"auth-gateway/internal/session"
)

const (
	TypeGitHub  = "github"
	TypeKeyword = "keyword"

	GuestName      = "Guest User"
	GuestAvatarURL = "https://via.placeholder.com/150"
	GuestMessage   = "Logged in with secret keyword"
)

// Profile is the normalized payload returned to clients.
type Profile struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Guest is the synthetic identity for keyword-only sessions.
type Guest struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	Message   string `json:"message"`
}

// Resolver turns the current session state into a profile payload.
// It reads the store on every call and keeps no copy of its own.
type Resolver struct {
	store session.Store
}

func New(store session.Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns auth.ErrUnauthorized for unknown sessions and for
// sessions that never passed a login path.
func (r *Resolver) Resolve(ctx context.Context, sessionID string) (*Profile, error) {
	if sessionID == "" {
		return nil, auth.ErrUnauthorized
	}

	sess, err := r.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("resolver: load session: %w", err)
	}
	if sess == nil {
		return nil, auth.ErrUnauthorized
	}

	return FromSession(sess)
}

// FromSession applies the resolution order: provider identity first,
// then the keyword guest.
func FromSession(sess *session.Session) (*Profile, error) {
	if !sess.Authenticated() {
		return nil, auth.ErrUnauthorized
	}

	if sess.UserData != nil {
		return &Profile{Type: TypeGitHub, Data: sess.UserData}, nil
	}

	return &Profile{Type: TypeKeyword, Data: Guest{
		Name:      GuestName,
		AvatarURL: GuestAvatarURL,
		Message:   GuestMessage,
	}}, nil
}
