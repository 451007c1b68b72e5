// Package redis holds the redis-backed repositories: the JSON
// read-through cache, the idempotency store and the rate limiter.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	redisx "github.com/veytrix/busgo/internal/redis"
)

// Cache is a small JSON read-through cache. Concurrent loads for the
// same key are collapsed with singleflight so a cold seat map is
// fetched from the database once, not once per waiting request.
type Cache struct {
	rdb *redis.Client
	sf  singleflight.Group
}

func New(client *redis.Client) *Cache {
	return &Cache{rdb: client}
}

func (c *Cache) GetString(ctx context.Context, key string) (string, bool, error) {
	s, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return s, true, nil
}

func (c *Cache) SetString(ctx context.Context, key, val string, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, val, ttl).Err()
}

func (c *Cache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

func GetJSON[T any](ctx context.Context, c *Cache, key string) (T, bool, error) {
	var out T

	raw, ok, err := c.GetString(ctx, key)
	if err != nil || !ok {
		return out, ok, err
	}

	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		var zero T
		return zero, false, err
	}

	return out, true, nil
}

func SetJSON(ctx context.Context, c *Cache, key string, val any, ttl time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return c.SetString(ctx, key, string(b), ttl)
}

// GetOrSetJSON returns the cached value for key, or runs loader and
// caches its result. A failed cache write is not an error; the value
// still reaches the caller.
func GetOrSetJSON[T any](
	ctx context.Context,
	c *Cache,
	key string,
	ttl time.Duration,
	loader func(ctx context.Context) (T, error),
) (T, error) {
	var zero T

	if v, ok, err := GetJSON[T](ctx, c, key); err != nil || ok {
		return v, err
	}

	// Re-check under singleflight: a sibling request may have filled
	// the key while this one was queued.
	res, err, _ := c.sf.Do(key, func() (any, error) {
		if v, ok, err := GetJSON[T](ctx, c, key); err != nil || ok {
			return v, err
		}

		v, err := loader(ctx)
		if err != nil {
			return nil, err
		}

		_ = SetJSON(ctx, c, key, v, ttl)
		return v, nil
	})
	if err != nil {
		return zero, err
	}

	v, ok := res.(T)
	if !ok {
		return zero, errors.New("cache: unexpected value type")
	}

	return v, nil
}

// InvalidateBus drops every cached view touched by a seat-inventory
// change: the bus summary, its seat map and the dashboard counts.
func (c *Cache) InvalidateBus(ctx context.Context, busID string) error {
	return c.Del(
		ctx,
		redisx.KeyBusSummary(busID),
		redisx.KeyBusSeatMap(busID),
		redisx.KeyOverview(),
	)
}
