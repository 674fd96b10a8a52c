package redisad

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"easystay/internal/adapters/observability"
	"easystay/internal/domain"
)

var _ domain.KVStore = (*Store)(nil)

// Store keeps the key-value substrate in Redis as plain string keys without TTL.
type Store struct{ c *redis.Client }

func New(addr, pass string, db int) *Store {
	return &Store{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

func NewWithClient(c *redis.Client) *Store { return &Store{c: c} }

func (r *Store) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

func (r *Store) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.c.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		observability.ObserveKV("redis", "miss")
		return "", false, nil
	}
	if err != nil {
		observability.ObserveKV("redis", "error")
		return "", false, err
	}
	observability.ObserveKV("redis", "hit")
	return v, true, nil
}

func (r *Store) Set(ctx context.Context, key, value string) error {
	if err := r.c.Set(ctx, key, value, 0).Err(); err != nil {
		observability.ObserveKV("redis", "error")
		return err
	}
	observability.ObserveKV("redis", "set")
	return nil
}

func (r *Store) Remove(ctx context.Context, key string) error {
	if err := r.c.Del(ctx, key).Err(); err != nil {
		observability.ObserveKV("redis", "error")
		return err
	}
	observability.ObserveKV("redis", "remove")
	return nil
}

func (r *Store) Close() error { return r.c.Close() }
