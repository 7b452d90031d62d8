// Package cache keeps rendered template fragments. Entries are advisory: a
// failed read is a miss and a failed write is logged and dropped, callers
// always fall back to rendering.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Luismorlan/yatube/app_setting"
	"github.com/Luismorlan/yatube/utils"
	"github.com/pkg/errors"
)

const fragmentKeyPrefix = "template.cache."

type FragmentCache interface {
	Get(ctx context.Context, key string) (string, bool)
	// Set stores value under key. A non-positive ttl keeps the entry until it
	// is evicted or cleared.
	Set(ctx context.Context, key string, value string, ttl time.Duration)
	Delete(ctx context.Context, key string)
	// Clear drops every fragment this cache owns.
	Clear(ctx context.Context) error
}

// FragmentKey is the cache key of fragment name rendered for the varyOn
// values, e.g. FragmentKey("index_page", 2).
func FragmentKey(name string, varyOn ...interface{}) string {
	parts := make([]string, 0, len(varyOn))
	for _, v := range varyOn {
		parts = append(parts, fmt.Sprint(v))
	}
	// md5 of a string never fails
	hash, _ := utils.TextToMd5Hash(strings.Join(parts, ":"))
	return fragmentKeyPrefix + name + "." + hash
}

// NewFromSetting builds the backend selected by CACHE_BACKEND.
func NewFromSetting(ctx context.Context, setting app_setting.YatubeAppSetting) (FragmentCache, error) {
	switch setting.CACHE_BACKEND {
	case app_setting.CacheBackendLocal:
		return NewLRUFragmentCache(setting.LRU_CACHE_SIZE)
	case app_setting.CacheBackendRedis:
		client, err := utils.GetRedisClient(ctx)
		if err != nil {
			return nil, err
		}
		return NewRedisFragmentCache(client, DefaultRedisPrefix), nil
	}
	return nil, errors.Errorf("unknown cache backend %s", setting.CACHE_BACKEND)
}
