package app

import (
	"context"

	"auth-gateway/internal/config"
	"auth-gateway/internal/logger"
	"auth-gateway/internal/redis"
	"auth-gateway/internal/session"
)

type Infra struct {
	Sessions session.Store
	Redis    *redis.Client
}

// Close releases external connections. The memory backend has none.
func (i *Infra) Close() error {
	if i.Redis != nil {
		return i.Redis.Close()
	}
	return nil
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	if cfg.SessionBackend != config.BackendRedis {
		logger.Info("session store ready", map[string]any{
			"backend": config.BackendMemory,
		})
		return &Infra{Sessions: session.NewMemoryStore()}, nil
	}

	redisClient, err := redis.New(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return nil, err
	}

	logger.Info("session store ready", map[string]any{
		"backend": config.BackendRedis,
		"addr":    cfg.RedisAddr,
	})

	return &Infra{
		Sessions: session.NewRedisStore(redisClient.Client),
		Redis:    redisClient,
	}, nil
}
