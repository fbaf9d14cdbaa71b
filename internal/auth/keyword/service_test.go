package keyword

import (
	"context"
	"testing"

	"auth-gateway/internal/auth"
	"auth-gateway/internal/session"

	"github.com/stretchr/testify/require"
)

func TestAuthenticator_Check(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()

	a, err := NewAuthenticator(store, "letmein", "")
	require.NoError(t, err)

	first, err := a.Check(ctx, "letmein")
	require.NoError(t, err)
	second, err := a.Check(ctx, "letmein")
	require.NoError(t, err)
	require.NotEqual(t, first, second)
	require.Equal(t, 2, store.Len())

	sess, err := store.Get(ctx, first)
	require.NoError(t, err)
	require.True(t, sess.KeywordValid)
	require.Nil(t, sess.UserData)
}

func TestAuthenticator_Mismatch(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()

	a, err := NewAuthenticator(store, "letmein", "")
	require.NoError(t, err)

	for _, candidate := range []string{"", "letmeout", "LETMEIN", "letmein "} {
		id, err := a.Check(ctx, candidate)
		require.ErrorIs(t, err, auth.ErrUnauthorized, candidate)
		require.Empty(t, id)
	}
	require.Equal(t, 0, store.Len())
}

func TestAuthenticator_Hash(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()

	hash, err := HashKeyword("letmein")
	require.NoError(t, err)

	// the hash takes precedence over the plaintext value
	a, err := NewAuthenticator(store, "other", hash)
	require.NoError(t, err)

	_, err = a.Check(ctx, "letmein")
	require.NoError(t, err)

	_, err = a.Check(ctx, "other")
	require.ErrorIs(t, err, auth.ErrUnauthorized)
	require.Equal(t, 1, store.Len())
}

func TestNewAuthenticator_Invalid(t *testing.T) {
	_, err := NewAuthenticator(nil, "letmein", "")
	require.Error(t, err)

	_, err = NewAuthenticator(session.NewMemoryStore(), "", "")
	require.Error(t, err)

	_, err = HashKeyword("")
	require.Error(t, err)
}
