package provider

import (
	"context"

	"auth-gateway/internal/auth"

	"golang.org/x/oauth2"
)

// OAuthProvider is the client side of an authorization-code flow.
// Implementations talk to the identity provider only; they never touch
// sessions.
type OAuthProvider interface {
	// Name returns the provider identifier used in routes (e.g. "github").
	Name() string

	// AuthCodeURL returns the authorization URL. The redirect URI embedded
	// in it carries sessionID so the callback can recover the session.
	AuthCodeURL(sessionID string) string

	// ExchangeCode trades an authorization code for an access token.
	ExchangeCode(ctx context.Context, code string, sessionID string) (*oauth2.Token, error)

	// FetchUser loads the authenticated user's profile with token.
	FetchUser(ctx context.Context, token *oauth2.Token) (*auth.Identity, error)
}
