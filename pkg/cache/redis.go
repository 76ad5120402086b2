// Package cache builds the Redis client used for catalog listings.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/escuela-api/pkg/config"
)

const pingTimeout = 3 * time.Second

// NewRedis returns a connected client, or an error when the server does not answer a ping.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", client.Options().Addr, err)
	}
	return client, nil
}

// Optional connects when the catalog cache is enabled. A disabled cache or an unreachable
// server yields a nil client and the catalog is served straight from the store.
func Optional(ctx context.Context, cfg *config.Config, logger *zap.Logger) *redis.Client {
	if !cfg.Catalog.Enabled {
		return nil
	}
	client, err := NewRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Warn("catalog cache disabled", zap.Error(err))
		return nil
	}
	logger.Info("catalog cache connected", zap.String("addr", client.Options().Addr), zap.Duration("ttl", cfg.Catalog.CacheTTL))
	return client
}
