package cache

import (
	"context"
	"time"

	"omylab/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// Cache is a thin namespaced wrapper over a redis client.
type Cache struct {
	client redis.UniversalClient
}

func NewCache(cfg utils.RedisConfig) *Cache {
	return &Cache{client: redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})}
}

// NewCacheWithClient wraps an existing client
func NewCacheWithClient(client redis.UniversalClient) *Cache {
	return &Cache{client: client}
}

func key(namespace, k string) string {
	return namespace + ":" + k
}

func (c *Cache) Set(ctx context.Context, namespace, k string, value interface{}, ttl time.Duration) error {
	return c.client.Set(ctx, key(namespace, k), value, ttl).Err()
}

// Get returns redis.Nil when the key is absent or expired.
func (c *Cache) Get(ctx context.Context, namespace, k string) (string, error) {
	return c.client.Get(ctx, key(namespace, k)).Result()
}

func (c *Cache) Delete(ctx context.Context, namespace, k string) error {
	return c.client.Del(ctx, key(namespace, k)).Err()
}

// Eval runs script against keys in the given namespace.
func (c *Cache) Eval(ctx context.Context, script *redis.Script, namespace string, keys []string, args ...interface{}) (interface{}, error) {
	namespaced := make([]string, len(keys))
	for i, k := range keys {
		namespaced[i] = key(namespace, k)
	}
	return script.Run(ctx, c.client, namespaced, args...).Result()
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}
