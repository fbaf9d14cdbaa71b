package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions in Redis as JSON documents without a TTL.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	newID  func() string
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "session:",
		newID:  GenerateID,
	}
}

func (r *RedisStore) key(sessionID string) string {
	return r.prefix + sessionID
}

func (r *RedisStore) Create(ctx context.Context, s Session) (string, error) {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	for i := 0; i < maxCreateAttempts; i++ {
		s.ID = r.newID()

		data, err := json.Marshal(s)
		if err != nil {
			return "", fmt.Errorf("session: failed to marshal: %w", err)
		}

		ok, err := r.client.SetNX(ctx, r.key(s.ID), data, 0).Result()
		if err != nil {
			return "", err
		}
		if ok {
			return s.ID, nil
		}
	}

	return "", ErrIDExhausted
}

func (r *RedisStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	val, err := r.client.Get(ctx, r.key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil // not found
	}
	if err != nil {
		return nil, err
	}

	var s Session
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, fmt.Errorf("session: failed to unmarshal: %w", err)
	}

	return &s, nil
}

func (r *RedisStore) Set(ctx context.Context, s Session) error {
	if s.ID == "" {
		return errors.New("session: missing id")
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: failed to marshal: %w", err)
	}

	return r.client.Set(ctx, r.key(s.ID), data, 0).Err()
}

func (r *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, r.key(sessionID)).Err()
}

func (r *RedisStore) Exists(ctx context.Context, sessionID string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(sessionID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
