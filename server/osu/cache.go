package osu

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultCacheSize = 256

type cacheKey struct {
	id   int
	mode Mode
}

// CachedClient memoizes successful lookups per (id, mode) in a fixed-size
// LRU. Failures are not cached.
type CachedClient struct {
	*Client
	cache *lru.Cache[cacheKey, *User]
}

func NewCached(client *Client, size int) (*CachedClient, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[cacheKey, *User](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create osu! cache: %w", err)
	}
	return &CachedClient{
		Client: client,
		cache:  cache,
	}, nil
}

func (c *CachedClient) GetUser(ctx context.Context, id int, mode Mode) (*User, error) {
	key := cacheKey{id: id, mode: mode}
	if user, ok := c.cache.Get(key); ok {
		return user, nil
	}

	user, err := c.Client.GetUser(ctx, id, mode)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, user)
	return user, nil
}
