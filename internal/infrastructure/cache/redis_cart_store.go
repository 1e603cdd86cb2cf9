package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fleet/backend/internal/domain/cart"
	"github.com/fleet/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// maxWatchRetries bounds optimistic retries when two requests edit one cart
const maxWatchRetries = 5

// RedisCartStore implements cart.Store on Redis. Each cart is one key holding
// the encoded cart; writes go through WATCH/MULTI so concurrent edits of the
// same session never lose an update. Every access refreshes the TTL.
type RedisCartStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisCartStore creates a cart store on an existing client
func NewRedisCartStore(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisCartStore {
	if keyPrefix == "" {
		keyPrefix = "fleet:cart:"
	}
	return &RedisCartStore{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

func (s *RedisCartStore) key(sessionID string) string {
	return s.keyPrefix + sessionID
}

// Add selects ids in the session's cart
func (s *RedisCartStore) Add(ctx context.Context, sessionID string, ids ...uuid.UUID) (*cart.Cart, error) {
	return s.update(ctx, sessionID, func(c *cart.Cart) error {
		_, err := c.Add(ids...)
		return err
	})
}

// Remove deselects id
func (s *RedisCartStore) Remove(ctx context.Context, sessionID string, id uuid.UUID) (*cart.Cart, error) {
	return s.update(ctx, sessionID, func(c *cart.Cart) error {
		c.Remove(id)
		return nil
	})
}

// Clear deletes the session's cart
func (s *RedisCartStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// List returns the session's cart, empty when none is stored
func (s *RedisCartStore) List(ctx context.Context, sessionID string) (*cart.Cart, error) {
	data, err := s.client.GetEx(ctx, s.key(sessionID), s.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		return cart.New(sessionID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	return cart.Decode(data)
}

func (s *RedisCartStore) update(ctx context.Context, sessionID string, mutate func(*cart.Cart) error) (*cart.Cart, error) {
	key := s.key(sessionID)
	var updated *cart.Cart

	txf := func(tx *redis.Tx) error {
		c := cart.New(sessionID)
		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return err
		default:
			if c, err = cart.Decode(data); err != nil {
				return err
			}
		}

		if err := mutate(c); err != nil {
			return err
		}
		encoded, err := cart.Encode(c)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, s.ttl)
			return nil
		})
		if err == nil {
			updated = c
		}
		return err
	}

	for attempt := 0; attempt < maxWatchRetries; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update cart: %w", err)
	}
	return nil, shared.ErrConcurrencyConflict
}

var _ cart.Store = (*RedisCartStore)(nil)
