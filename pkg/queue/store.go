package queue

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrKeyNotFound is returned by Store.Get for absent (or expired) keys.
var ErrKeyNotFound = errors.New("key not found")

// Store is the fast key-value store holding queue tokens. Keys expire
// via a store-level TTL; an expired token behaves as "not found".
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	// Set writes a key with the given expiry.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	// Update overwrites a key's value and keeps its remaining expiry.
	Update(ctx context.Context, key string, value string) error
	Exists(ctx context.Context, key string) (bool, error)
}

type redisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrKeyNotFound
		}
		return "", err
	}
	return val, nil
}

func (s *redisStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *redisStore) Update(ctx context.Context, key string, value string) error {
	return s.client.Set(ctx, key, value, redis.KeepTTL).Err()
}

func (s *redisStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
