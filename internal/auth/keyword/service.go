package keyword

import (
	"context"
	"errors"
	"fmt"

	"auth-gateway/internal/auth"
	"auth-gateway/internal/session"
)

// Authenticator checks the shared secret and mints keyword-valid sessions.
type Authenticator struct {
	secret matcher
	store  session.Store
}

// NewAuthenticator prefers the bcrypt hash when both forms are configured.
func NewAuthenticator(store session.Store, plain, hash string) (*Authenticator, error) {
	if store == nil {
		return nil, errors.New("keyword: session store is required")
	}

	var m matcher
	switch {
	case hash != "":
		m = bcryptMatcher(hash)
	case plain != "":
		m = plainMatcher(plain)
	default:
		return nil, errors.New("keyword: a secret keyword or hash is required")
	}

	return &Authenticator{secret: m, store: store}, nil
}

// Check returns a new session id when candidate matches the configured
// secret. On mismatch it returns auth.ErrUnauthorized and creates nothing.
func (a *Authenticator) Check(ctx context.Context, candidate string) (string, error) {
	if candidate == "" || !a.secret.match(candidate) {
		return "", auth.ErrUnauthorized
	}

	id, err := a.store.Create(ctx, session.Session{KeywordValid: true})
	if err != nil {
		return "", fmt.Errorf("keyword: create session: %w", err)
	}

	return id, nil
}
