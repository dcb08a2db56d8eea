// Package fetchcache 为代价较高的外部抓取提供 TTL 缓存。
// 同一键的并发未命中通过 singleflight 合并为一次真实抓取。
package fetchcache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache 单键 TTL 缓存，T 为抓取结果类型
type Cache[T any] struct {
	ttl   time.Duration
	fetch func(ctx context.Context) (T, error)

	group singleflight.Group

	mu      sync.RWMutex
	value   T
	fetched time.Time
	valid   bool
}

// New 创建缓存。fetch 为真实抓取函数，ttl 为结果有效期。
func New[T any](ttl time.Duration, fetch func(ctx context.Context) (T, error)) *Cache[T] {
	return &Cache[T]{ttl: ttl, fetch: fetch}
}

// Get 返回缓存值；过期或未命中时触发一次抓取。
// 抓取失败时不写缓存，下次调用会重试。
func (c *Cache[T]) Get(ctx context.Context) (T, error) {
	c.mu.RLock()
	if c.valid && time.Since(c.fetched) < c.ttl {
		v := c.value
		c.mu.RUnlock()
		return v, nil
	}
	c.mu.RUnlock()

	v, err, _ := c.group.Do("fetch", func() (interface{}, error) {
		// 等锁期间可能已有同行者抓完
		c.mu.RLock()
		if c.valid && time.Since(c.fetched) < c.ttl {
			v := c.value
			c.mu.RUnlock()
			return v, nil
		}
		c.mu.RUnlock()

		fresh, err := c.fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.value = fresh
		c.fetched = time.Now()
		c.valid = true
		c.mu.Unlock()
		return fresh, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Invalidate 丢弃当前缓存值
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.mu.Unlock()
}
