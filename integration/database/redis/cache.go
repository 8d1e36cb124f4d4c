package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/acme/autocert"
)

var _ autocert.Cache = (*Cache)(nil)

// Cache is an autocert.Cache stored in Redis string keys.
type Cache struct {
	client    redis.UniversalClient
	prefix    string
	ttl       time.Duration
	scanBatch int64
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithKeyPrefix namespaces keys, default "certkit:".
func WithKeyPrefix(prefix string) CacheOption {
	return func(c *Cache) {
		c.prefix = prefix
	}
}

// WithTTL expires cached entries; zero keeps them forever.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithScanBatchSize sets the SCAN count hint used by List.
func WithScanBatchSize(n int) CacheOption {
	return func(c *Cache) {
		if n > 0 {
			c.scanBatch = int64(n)
		}
	}
}

// NewCache creates a Redis backed certificate cache.
func NewCache(client redis.UniversalClient, opts ...CacheOption) *Cache {
	c := &Cache{
		client:    client,
		prefix:    "certkit:",
		scanBatch: 1000,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value stored under key or autocert.ErrCacheMiss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, autocert.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis cache get %s: %w", key, err)
	}
	return data, nil
}

// Put stores data under key.
func (c *Cache) Put(ctx context.Context, key string, data []byte) error {
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis cache put %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis cache delete %s: %w", key, err)
	}
	return nil
}

// List returns the distinct first path segments of cached keys.
func (c *Cache) List(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	iter := c.client.Scan(ctx, 0, c.prefix+"*", c.scanBatch).Iterator()
	for iter.Next(ctx) {
		rest := strings.TrimPrefix(iter.Val(), c.prefix)
		if name, _, ok := strings.Cut(rest, "/"); ok && name != "" {
			seen[name] = struct{}{}
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis cache list: %w", err)
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
