package state

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"autoparts-storefront/internal/config"
	"autoparts-storefront/internal/db"
	"autoparts-storefront/internal/migrate"
)

// Open connects the store named by cfg.StateBackend. The returned func
// releases its connections and is safe to call when Open fails.
func Open(ctx context.Context, cfg config.Config, logger *log.Logger) (Backend, func(), error) {
	noop := func() {}
	switch cfg.StateBackend {
	case config.StateMemory:
		if logger != nil {
			logger.Printf("client state kept in memory; it is lost on restart")
		}
		return NewMemory(), noop, nil
	case config.StateFile:
		store, err := NewFile(cfg.StateDir)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	case config.StateRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, noop, fmt.Errorf("ping redis: %w", err)
		}
		return NewRedis(client, cfg.StateTTL), func() { client.Close() }, nil
	case config.StatePostgres:
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			return nil, noop, err
		}
		if err := migrate.Apply(ctx, pool); err != nil {
			pool.Close()
			return nil, noop, fmt.Errorf("apply migrations: %w", err)
		}
		return NewPostgres(pool), pool.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown STATE_BACKEND %q", cfg.StateBackend)
	}
}
