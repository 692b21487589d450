package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/moodtrack/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 1,
		MaxRetries:   3,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewRevocationList returns a Redis-backed list when Redis is configured and
// reachable, and an in-memory list otherwise. The returned client is nil in
// the in-memory case; callers close it on shutdown.
func NewRevocationList(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) (RevocationList, *redis.Client) {
	if cfg.Addr == "" {
		log.Info("Redis not configured, session revocations kept in memory")
		return NewInMemoryRevocationList(), nil
	}
	client, err := NewRedisClient(ctx, cfg)
	if err != nil {
		log.Warn("Redis unreachable, session revocations kept in memory",
			zap.String("addr", cfg.Addr), zap.Error(err))
		return NewInMemoryRevocationList(), nil
	}
	log.Info("Session revocations stored in Redis", zap.String("addr", cfg.Addr))
	return NewRedisRevocationList(client), client
}
