package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"

	"github.com/7-cybergracegrace/our-yaojin-ai/internal/config"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	cfg *config.Config
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{cfg: cfg}
}

// Ping 基本健康检查
func (h *HealthHandler) Ping(ctx context.Context, c *app.RequestContext) {
	c.JSON(200, utils.H{
		"status":  "ok",
		"message": "pong",
	})
}

// Liveness 存活检查
func (h *HealthHandler) Liveness(ctx context.Context, c *app.RequestContext) {
	c.JSON(200, utils.H{
		"status": "alive",
	})
}

// Readiness 就绪检查：网关凭证没配齐就不接流量
func (h *HealthHandler) Readiness(ctx context.Context, c *app.RequestContext) {
	if h.cfg.LLM.APIKey == "" || h.cfg.LLM.BaseURL == "" {
		c.JSON(503, utils.H{
			"status": "not_ready",
			"llm":    "unconfigured",
		})
		return
	}

	gossip := "degraded"
	if h.cfg.Weibo.Cookie != "" && h.cfg.Douban.Cookie != "" {
		gossip = "configured"
	}
	c.JSON(200, utils.H{
		"status": "ready",
		"llm":    "configured",
		"gossip": gossip,
	})
}
