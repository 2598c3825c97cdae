package core

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/taysluxe/tayai/pkg/types"
)

type Plugins interface {
	Name() string
	Install(*Core) error
	TryLock(ctx context.Context, key string) (bool, error)
	UseLimiter(c *gin.Context, key string, method string, opts ...LimitOption) Limiter
}

type LimitConfig struct {
	Limit int
	Every time.Duration
}

type LimitOption func(l *LimitConfig)

func WithLimit(limit int) LimitOption {
	return func(l *LimitConfig) {
		l.Limit = limit
	}
}

func WithRange(r time.Duration) LimitOption {
	return func(l *LimitConfig) {
		l.Every = r
	}
}

type Limiter interface {
	Allow() bool
}

type SetupFunc func() Plugins

func (c *Core) InstallPlugins(p Plugins) {
	if err := p.Install(c); err != nil {
		panic(err)
	}
	c.Plugins = p

	c.stores().SetCacheFunc(func() types.Cache {
		return &Cache{
			redis: c.Redis(),
		}
	})
}

type Cache struct {
	redis redis.UniversalClient
}

func (c *Cache) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return c.redis.Expire(ctx, key, expiration).Err()
}

func (c *Cache) SetEx(ctx context.Context, key, value string, expiresAt time.Duration) error {
	return c.redis.SetEx(ctx, key, value, expiresAt).Err()
}

func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	return c.redis.Get(ctx, key).Result()
}

func (c *Cache) Incr(ctx context.Context, key string) (int64, error) {
	return c.redis.Incr(ctx, key).Result()
}

func (c *Cache) Del(ctx context.Context, key string) error {
	return c.redis.Del(ctx, key).Err()
}
