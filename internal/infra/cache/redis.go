package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"shop-service/internal/domain"
)

// versionGrace keeps a version counter alive past the entries it guards.
const versionGrace = time.Hour

type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

// NewRedisClient dials lazily; Ping is left to the caller.
func NewRedisClient(host, port string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         host + ":" + port,
		DB:           db,
		PoolSize:     50,
		MinIdleConns: 5,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
}

// Key is the cache key of one entity, e.g. "order:42".
func Key(kind domain.Kind, id uint64) string {
	return fmt.Sprintf("%s:%d", kind, id)
}

func versionKey(key string) string {
	return key + ":v"
}

func (c *RedisCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := Decode(b, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisCache) Version(ctx context.Context, key string) (int64, error) {
	v, err := c.rdb.Get(ctx, versionKey(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (c *RedisCache) SetIfVersion(ctx context.Context, key string, version int64, value any) error {
	data, err := Encode(value)
	if err != nil {
		return err
	}
	vkey := versionKey(key)
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, vkey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, c.ttl)
			return nil
		})
		return err
	}, vkey)
	// a Delete raced the fill; the entry stays empty
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, k := range keys {
			pipe.Incr(ctx, versionKey(k))
			pipe.Expire(ctx, versionKey(k), c.ttl+versionGrace)
		}
		pipe.Del(ctx, keys...)
		return nil
	})
	return err
}
