package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type MemoryCache struct {
	cache *gocache.Cache
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryCache{
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if x, found := c.cache.Get(key); found {
		return x.([]byte), true, nil
	}
	return nil, false, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, value []byte) error {
	c.cache.Set(key, value, gocache.DefaultExpiration)
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		c.cache.Delete(key)
	}
	return nil
}
