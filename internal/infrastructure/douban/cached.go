package douban

import (
	"context"
	"time"

	"github.com/7-cybergracegrace/our-yaojin-ai/internal/domain"
	"github.com/7-cybergracegrace/our-yaojin-ai/internal/domain/entity"
	"github.com/7-cybergracegrace/our-yaojin-ai/pkg/fetchcache"
)

// CachedSource 给新片榜数据源套一层 TTL 缓存，榜单一小时更新足矣。
type CachedSource struct {
	cache *fetchcache.Cache[[]entity.Movie]
}

var _ domain.MovieSource = (*CachedSource)(nil)

// NewCachedSource 创建带缓存的新片榜数据源
func NewCachedSource(src domain.MovieSource, ttl time.Duration) *CachedSource {
	return &CachedSource{
		cache: fetchcache.New(ttl, src.Fetch),
	}
}

// Fetch 返回缓存的新片榜，过期时重新抓取
func (s *CachedSource) Fetch(ctx context.Context) ([]entity.Movie, error) {
	return s.cache.Get(ctx)
}
