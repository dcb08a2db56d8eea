package handler

import (
	"context"
	"log/slog"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/7-cybergracegrace/our-yaojin-ai/internal/domain"
)

// GossipHandler 俗世趣闻数据的直通端点，便于前端单独拉榜单
type GossipHandler struct {
	trends domain.TrendSource
	movies domain.MovieSource
	logger *slog.Logger
}

// NewGossipHandler 创建趣闻处理器
func NewGossipHandler(trends domain.TrendSource, movies domain.MovieSource, logger *slog.Logger) *GossipHandler {
	return &GossipHandler{
		trends: trends,
		movies: movies,
		logger: logger,
	}
}

// News 返回当前热搜榜
func (h *GossipHandler) News(ctx context.Context, c *app.RequestContext) {
	trends, err := h.trends.Fetch(ctx)
	if err != nil {
		h.logger.Error("failed to fetch trends", "error", err)
		ErrorResponse(c, domain.NewUpstreamError("trend source", err))
		return
	}
	c.Response.Header.Set("Cache-Control", "public, s-maxage=600, stale-while-revalidate=1200")
	SuccessResponse(c, trends)
}

// Movies 返回新片榜
func (h *GossipHandler) Movies(ctx context.Context, c *app.RequestContext) {
	movies, err := h.movies.Fetch(ctx)
	if err != nil {
		h.logger.Error("failed to fetch movies", "error", err)
		ErrorResponse(c, domain.NewUpstreamError("movie source", err))
		return
	}
	c.Response.Header.Set("Cache-Control", "public, s-maxage=3600, stale-while-revalidate=7200")
	SuccessResponse(c, movies)
}
