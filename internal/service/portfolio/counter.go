package portfolio

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync/atomic"

	"github.com/redis/go-redis/v9"
)

// 访问计数仅用于展示，起始值落在 [visitBaseMin, visitBaseMin+visitBaseSpan)。
const (
	visitBaseMin  = 500
	visitBaseSpan = 1000
)

// Counter hands out the cosmetic visit count reported with the document.
type Counter interface {
	Next(ctx context.Context) (int64, error)
}

func randomBase() int64 {
	return visitBaseMin + rand.Int64N(visitBaseSpan)
}

// MemoryCounter counts in process memory; it restarts on every deploy.
type MemoryCounter struct {
	value atomic.Int64
}

func NewMemoryCounter() *MemoryCounter {
	return NewMemoryCounterFrom(randomBase())
}

func NewMemoryCounterFrom(base int64) *MemoryCounter {
	c := &MemoryCounter{}
	c.value.Store(base)
	return c
}

func (c *MemoryCounter) Next(context.Context) (int64, error) {
	return c.value.Add(1), nil
}

// RedisCounter 使用 INCR 维护跨实例共享的计数，首次使用时用 SETNX 写入随机起始值。
type RedisCounter struct {
	rdb    redis.Cmdable
	key    string
	seeded atomic.Bool
}

func NewRedisCounter(rdb redis.Cmdable, key string) *RedisCounter {
	return &RedisCounter{rdb: rdb, key: key}
}

func (c *RedisCounter) Next(ctx context.Context) (int64, error) {
	if !c.seeded.Load() {
		if err := c.rdb.SetNX(ctx, c.key, randomBase(), 0).Err(); err != nil {
			return 0, fmt.Errorf("seed %s: %w", c.key, err)
		}
		c.seeded.Store(true)
	}

	value, err := c.rdb.Incr(ctx, c.key).Result()
	if err != nil {
		return 0, fmt.Errorf("incr %s: %w", c.key, err)
	}
	return value, nil
}
