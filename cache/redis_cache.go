package cache

import (
	"context"
	"time"

	. "github.com/Luismorlan/yatube/utils/log"
	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

const (
	DefaultRedisPrefix = "yatube:"
	clearScanBatch     = 500
)

// RedisFragmentCache shares fragments between api server replicas. Every key
// is namespaced with prefix so Clear never touches foreign keys.
type RedisFragmentCache struct {
	inner  *redis.Client
	prefix string
}

func NewRedisFragmentCache(client *redis.Client, prefix string) *RedisFragmentCache {
	return &RedisFragmentCache{inner: client, prefix: prefix}
}

func (r *RedisFragmentCache) Get(ctx context.Context, key string) (string, bool) {
	v, err := r.inner.Get(ctx, r.prefix+key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		Log.WithError(err).Warn("fail to read fragment from redis, key: ", key)
		return "", false
	}
	return v, true
}

func (r *RedisFragmentCache) Set(ctx context.Context, key string, value string, ttl time.Duration) {
	if ttl < 0 {
		ttl = 0
	}
	if err := r.inner.Set(ctx, r.prefix+key, value, ttl).Err(); err != nil {
		Log.WithError(err).Warn("fail to write fragment to redis, key: ", key)
	}
}

func (r *RedisFragmentCache) Delete(ctx context.Context, key string) {
	if err := r.inner.Del(ctx, r.prefix+key).Err(); err != nil {
		Log.WithError(err).Warn("fail to delete fragment from redis, key: ", key)
	}
}

func (r *RedisFragmentCache) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := r.inner.Scan(ctx, cursor, r.prefix+"*", clearScanBatch).Result()
		if err != nil {
			return errors.Wrap(err, "fail to scan fragment keys")
		}
		if len(keys) > 0 {
			if err := r.inner.Del(ctx, keys...).Err(); err != nil {
				return errors.Wrap(err, "fail to delete fragment keys")
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
