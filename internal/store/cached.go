package store

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// CachedKV is a read-through cache over another KV. Saves write through and
// refresh the cached entry, so within one process reads stay consistent.
// It does not help with the cross-process last-writer-wins race; only use it
// when this process is the sole writer.
type CachedKV struct {
	inner KV
	cache *gocache.Cache
}

func NewCachedKV(inner KV) *CachedKV {
	return &CachedKV{inner: inner, cache: gocache.New(10*time.Minute, 20*time.Minute)}
}

func (c *CachedKV) Load(ctx context.Context, key string) ([]byte, error) {
	if value, found := c.cache.Get(key); found {
		return value.([]byte), nil
	}

	value, err := c.inner.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if value != nil {
		c.cache.Set(key, value, gocache.DefaultExpiration)
	}
	return value, nil
}

func (c *CachedKV) Save(ctx context.Context, key string, value []byte) error {
	if err := c.inner.Save(ctx, key, value); err != nil {
		// Drop the stale entry rather than guess what state the substrate
		// was left in.
		c.cache.Delete(key)
		return err
	}
	c.cache.Set(key, value, gocache.DefaultExpiration)
	return nil
}
