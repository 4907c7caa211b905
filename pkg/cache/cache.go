package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

// RedisClient wraps the redis connection. All helpers tolerate a nil
// receiver so the core can run without a cache.
type RedisClient struct {
	Client *redis.Client
}

func NewRedisClient(cfg *Config) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &RedisClient{Client: client}, nil
}

func (c *RedisClient) Get(ctx context.Context, key string) (string, bool) {
	if c == nil || c.Client == nil {
		return "", false
	}
	val, err := c.Client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *RedisClient) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if c == nil || c.Client == nil {
		return
	}
	c.Client.Set(ctx, key, value, ttl)
}

func (c *RedisClient) Del(ctx context.Context, keys ...string) {
	if c == nil || c.Client == nil {
		return
	}
	c.Client.Del(ctx, keys...)
}

// AcquireLock takes a best-effort distributed lock. Returns false when the
// lock is already held.
func (c *RedisClient) AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	if c == nil || c.Client == nil {
		return true, nil
	}
	return c.Client.SetNX(ctx, key, value, ttl).Result()
}

func (c *RedisClient) ReleaseLock(ctx context.Context, key string) {
	if c == nil || c.Client == nil {
		return
	}
	c.Client.Del(ctx, key)
}

func (c *RedisClient) Close() error {
	if c == nil || c.Client == nil {
		return nil
	}
	return c.Client.Close()
}
