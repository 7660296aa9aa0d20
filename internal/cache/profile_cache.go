package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const profileKeyPrefix = "pp:"

// RedisProfileCache stores serialized public-profile results keyed by token.
type RedisProfileCache struct {
	rdb *redis.Client
}

func NewRedisProfileCache(rdb *redis.Client) *RedisProfileCache {
	return &RedisProfileCache{rdb: rdb}
}

// Get returns nil data on a miss; only transport failures are errors.
func (c *RedisProfileCache) Get(ctx context.Context, token string) ([]byte, error) {
	data, err := c.rdb.Get(ctx, profileKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (c *RedisProfileCache) Set(ctx context.Context, token string, data []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.rdb.Set(ctx, profileKeyPrefix+token, data, ttl).Err()
}

func (c *RedisProfileCache) Del(ctx context.Context, tokens ...string) error {
	if len(tokens) == 0 {
		return nil
	}
	keys := make([]string, len(tokens))
	for i, t := range tokens {
		keys[i] = profileKeyPrefix + t
	}
	return c.rdb.Del(ctx, keys...).Err()
}
