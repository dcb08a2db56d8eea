package weibo

import (
	"context"
	"time"

	"github.com/7-cybergracegrace/our-yaojin-ai/internal/domain"
	"github.com/7-cybergracegrace/our-yaojin-ai/internal/domain/entity"
	"github.com/7-cybergracegrace/our-yaojin-ai/pkg/fetchcache"
)

// CachedSource 给热搜数据源套一层 TTL 缓存。
// 热搜榜十分钟内不值得重抓，并发未命中也会合并成一次请求。
type CachedSource struct {
	cache *fetchcache.Cache[[]entity.TrendItem]
}

var _ domain.TrendSource = (*CachedSource)(nil)

// NewCachedSource 创建带缓存的热搜数据源
func NewCachedSource(src domain.TrendSource, ttl time.Duration) *CachedSource {
	return &CachedSource{
		cache: fetchcache.New(ttl, src.Fetch),
	}
}

// Fetch 返回缓存的热搜榜，过期时重新抓取
func (s *CachedSource) Fetch(ctx context.Context) ([]entity.TrendItem, error) {
	return s.cache.Get(ctx)
}
