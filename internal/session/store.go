package session

import (
	"context"
	"fmt"

	"qkart/storefront/internal/config"
	"qkart/storefront/internal/domain"

	"github.com/redis/go-redis/v9"
)

// Store persists the shopper's username and bearer token between runs
type Store interface {
	Load(ctx context.Context) (domain.Session, error)
	Save(ctx context.Context, session domain.Session) error
	Clear(ctx context.Context) error
}

// New builds the store selected by cfg.Session.Driver. The redis client is
// only created for the redis driver and the caller owns closing it.
func New(ctx context.Context, cfg *config.Config) (Store, *redis.Client, error) {
	switch cfg.Session.Driver {
	case "file":
		return NewFileStore(cfg.Session.File), nil, nil
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		return NewRedisStore(rdb, cfg.Redis.KeyPrefix), rdb, nil
	default:
		return nil, nil, fmt.Errorf("unknown session driver %q", cfg.Session.Driver)
	}
}
