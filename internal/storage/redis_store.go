package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each key as a plain redis string, optionally namespaced by prefix.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// Client exposes the connection so other redis features can share it.
func (s *RedisStore) Client() *redis.Client {
	return s.client
}

func (s *RedisStore) Read(ctx context.Context, key string) (string, bool, error) {
	raw, err := s.client.Get(ctx, s.buildKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s from redis: %w", key, err)
	}
	return raw, true, nil
}

// Write stores raw without expiry; ledgers live as long as the store does.
func (s *RedisStore) Write(ctx context.Context, key, raw string) error {
	if err := s.client.Set(ctx, s.buildKey(key), raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s to redis: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.buildKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to clear %s in redis: %w", key, err)
	}
	return nil
}

func (s *RedisStore) buildKey(key string) string {
	return s.prefix + key
}
