package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"autoparts-storefront/internal/domain"
	"github.com/redis/go-redis/v9"
)

type redisRepo struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis returns a Backend backed by Redis strings. A positive ttl expires
// idle client state; every write refreshes it.
func NewRedis(client *redis.Client, ttl time.Duration) Backend {
	return &redisRepo{client: client, ttl: ttl}
}

func (r *redisRepo) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return data, nil
}

func (r *redisRepo) Put(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, redisKey(key), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *redisRepo) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, redisKey(key)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r *redisRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func redisKey(key string) string {
	return "storefront:state:" + key
}
