package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisKV implements KV on Redis. Keys are namespaced so the store can
// share a Redis instance with locks and other services.
type RedisKV struct {
	client *redis.Client
	prefix string
}

// NewRedisKV creates a Redis-backed key-value store.
func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{client: client, prefix: "newsletters:"}
}

func (s *RedisKV) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("kv get %s: %w", key, err)
	}
	return val, nil
}

func (s *RedisKV) Set(ctx context.Context, key, value string) error {
	// Values persist indefinitely; the baseline must survive between runs.
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("kv set %s: %w", key, err)
	}
	return nil
}
