// Package storage is the durable key-value layer the ledgers and session records live in.
// Keys share one flat namespace; writes to different keys are independent and never atomic
// with each other.
package storage

import (
	"civicconnect/backend/internal/config"
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Store reads and writes string values by key.
type Store interface {
	// Read returns the raw value and whether the key exists.
	Read(ctx context.Context, key string) (string, bool, error)
	Write(ctx context.Context, key, raw string) error
	// Clear removes the key. Clearing a missing key is not an error.
	Clear(ctx context.Context, key string) error
}

// Open builds the store selected by cfg.Store.Backend. The returned func releases
// the underlying connection.
func Open(ctx context.Context, cfg *config.Config) (Store, func() error, error) {
	switch strings.ToLower(cfg.Store.Backend) {
	case "redis", "":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("failed to connect redis: %w", err)
		}
		return NewRedisStore(rdb, cfg.Redis.KeyPrefix), rdb.Close, nil
	case "postgres":
		s, err := OpenPostgres(cfg.Postgres.DSN)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case "sqlite":
		s, err := OpenSQLite(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case "memory":
		return NewMemoryStore(), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
