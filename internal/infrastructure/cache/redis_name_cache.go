package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glowpos/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "pos:names:"

// RedisNameCache is a NameStore shared across instances
type RedisNameCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewRedisNameCache creates a cache on an existing client
func NewRedisNameCache(client *redis.Client, keyPrefix string) *RedisNameCache {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisNameCache{client: client, keyPrefix: keyPrefix}
}

// Get returns the cached name for key
func (c *RedisNameCache) Get(ctx context.Context, key string) (string, bool, error) {
	name, err := c.client.Get(ctx, c.keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read name cache: %w", err)
	}
	return name, true, nil
}

// Set stores name under key for ttl
func (c *RedisNameCache) Set(ctx context.Context, key, name string, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.keyPrefix+key, name, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write name cache: %w", err)
	}
	return nil
}

// Delete removes key
func (c *RedisNameCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete name cache entry: %w", err)
	}
	return nil
}

var _ NameStore = (*RedisNameCache)(nil)
