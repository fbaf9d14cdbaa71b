package session

import (
	"context"
	"testing"

	"auth-gateway/internal/auth"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client), mr
}

func TestRedisStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)

	id, err := store.Create(ctx, Session{KeywordValid: true})
	require.NoError(t, err)
	require.True(t, mr.Exists("session:"+id))
	// sessions carry no expiry
	require.Zero(t, mr.TTL("session:"+id))

	ok, err := store.Exists(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)

	sess, err := store.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, id, sess.ID)
	require.True(t, sess.KeywordValid)

	sess.UserData = &auth.Identity{ID: 1, Login: "octocat", AvatarURL: "https://avatars.example/1"}
	require.NoError(t, store.Set(ctx, *sess))

	sess, err = store.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "octocat", sess.UserData.Login)
	require.True(t, sess.KeywordValid)

	require.NoError(t, store.Delete(ctx, id))
	require.NoError(t, store.Delete(ctx, id))

	sess, err = store.Get(ctx, id)
	require.NoError(t, err)
	require.Nil(t, sess)

	ok, err = store.Exists(ctx, id)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisStore_CreateNeverOverwrites(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestRedisStore(t)

	ids := []string{"dup", "dup", "fresh"}
	store.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	_, err := store.Create(ctx, Session{UserData: &auth.Identity{Login: "octocat"}})
	require.NoError(t, err)

	second, err := store.Create(ctx, Session{KeywordValid: true})
	require.NoError(t, err)
	require.Equal(t, "fresh", second)

	sess, err := store.Get(ctx, "dup")
	require.NoError(t, err)
	require.Equal(t, "octocat", sess.UserData.Login)
}

func TestRedisStore_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)

	require.NoError(t, mr.Set("session:bad", "{not json"))

	_, err := store.Get(ctx, "bad")
	require.ErrorContains(t, err, "unmarshal")
}

func TestRedisStore_Unavailable(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)
	mr.Close()

	_, err := store.Create(ctx, Session{KeywordValid: true})
	require.Error(t, err)
}
