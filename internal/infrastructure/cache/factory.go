package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/fleet/backend/internal/domain/cart"
	"github.com/fleet/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewCartStore picks the cart store for the configuration. With Redis
// disabled the in-memory store is used and the returned client is nil.
func NewCartStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (cart.Store, *redis.Client, error) {
	if !cfg.Redis.Enabled {
		logger.Warn("Redis disabled, selection carts are kept in memory and lost on restart")
		return NewInMemoryCartStore(cfg.Cart.TTL), nil, nil
	}

	client, err := NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Using Redis cart store", zap.String("addr", cfg.Redis.Addr()))
	return NewRedisCartStore(client, cfg.Cart.KeyPrefix, cfg.Cart.TTL), client, nil
}
