package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	xlogger "StockCast/pkg/logger"
)

// RedisCache is a BytesCache backed by a shared Redis instance, letting
// multiple replicas serve each other's cached exports. Failures degrade
// to cache misses.
type RedisCache struct {
	client *redis.Client
	prefix string
	logger *xlogger.Logger
}

func NewRedisCache(client *redis.Client, prefix string, logger *xlogger.Logger) *RedisCache {
	return &RedisCache{client: client, prefix: prefix, logger: logger}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("redis cache get failed", xlogger.String("key", key), xlogger.Error(err))
		}
		return nil, false
	}
	return val, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		c.logger.Warn("redis cache set failed", xlogger.String("key", key), xlogger.Error(err))
	}
}

func (c *RedisCache) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		c.logger.Warn("redis cache delete failed", xlogger.String("key", key), xlogger.Error(err))
	}
}
