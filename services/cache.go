package services

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Cache is a small byte cache used for read-heavy views such as leaderboards.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
}

type RedisCache struct {
	client *redis.Client
	prefix string
}

func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("redis get failed")
		}
		return nil, false
	}
	return data, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("redis set failed")
	}
}

func (c *RedisCache) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.prefix + k
	}
	if err := c.client.Del(ctx, full...).Err(); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("redis delete failed")
	}
}

type noopCache struct{}

func (noopCache) Get(context.Context, string) ([]byte, bool)         { return nil, false }
func (noopCache) Set(context.Context, string, []byte, time.Duration) {}
func (noopCache) Delete(context.Context, ...string)                  {}
