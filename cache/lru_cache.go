package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

type lruEntry struct {
	value     string
	expiresAt time.Time
}

// LRUFragmentCache is an in-process cache capped at a fixed number of
// entries, least recently used entries are evicted first.
type LRUFragmentCache struct {
	inner *lru.Cache
	now   func() time.Time
}

func NewLRUFragmentCache(size int) (*LRUFragmentCache, error) {
	inner, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "fail to create lru cache")
	}
	return &LRUFragmentCache{inner: inner, now: time.Now}, nil
}

func (c *LRUFragmentCache) Get(ctx context.Context, key string) (string, bool) {
	v, ok := c.inner.Get(key)
	if !ok {
		return "", false
	}
	entry := v.(lruEntry)
	if !entry.expiresAt.IsZero() && !c.now().Before(entry.expiresAt) {
		c.inner.Remove(key)
		return "", false
	}
	return entry.value, true
}

func (c *LRUFragmentCache) Set(ctx context.Context, key string, value string, ttl time.Duration) {
	entry := lruEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}
	c.inner.Add(key, entry)
}

func (c *LRUFragmentCache) Delete(ctx context.Context, key string) {
	c.inner.Remove(key)
}

func (c *LRUFragmentCache) Clear(ctx context.Context) error {
	c.inner.Purge()
	return nil
}

// Len is the number of entries currently held, expired ones included.
func (c *LRUFragmentCache) Len() int {
	return c.inner.Len()
}
