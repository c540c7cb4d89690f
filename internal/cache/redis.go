package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Catalog cache keys
const (
	ProductKeyFmt    = "product:%s"
	ProductSearchFmt = "product:search:%s"
)

var client *redis.Client

// Init initializes the Redis connection. On failure the client stays
// nil and every cache call becomes a no-op.
func Init(addr, password string) error {
	client = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client, nil when the cache is down.
func GetClient() *redis.Client {
	return client
}

// GetCachedProduct returns the cached product row if available.
func GetCachedProduct(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, fmt.Sprintf(ProductKeyFmt, key)).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// CacheProduct caches a product row for 10 minutes.
func CacheProduct(ctx context.Context, key string, data []byte) {
	if client == nil {
		return
	}
	client.Set(ctx, fmt.Sprintf(ProductKeyFmt, key), data, 10*time.Minute)
}

// InvalidateProduct removes a product row and every cached search, a
// reprice can change which queries a product matches.
func InvalidateProduct(ctx context.Context, key string) {
	if client == nil {
		return
	}
	client.Del(ctx, fmt.Sprintf(ProductKeyFmt, key))
	InvalidateSearches(ctx)
}

// GetCachedSearch returns a cached search result set if available.
func GetCachedSearch(ctx context.Context, normalizedQuery string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, fmt.Sprintf(ProductSearchFmt, normalizedQuery)).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// CacheSearch caches a search result set for 2 minutes.
func CacheSearch(ctx context.Context, normalizedQuery string, data []byte) {
	if client == nil {
		return
	}
	client.Set(ctx, fmt.Sprintf(ProductSearchFmt, normalizedQuery), data, 2*time.Minute)
}

// InvalidateSearches drops all cached search result sets.
func InvalidateSearches(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, "product:search:*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}
