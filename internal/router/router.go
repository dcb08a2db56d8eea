// Package router 注册全部路由与全局中间件。
package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"github.com/7-cybergracegrace/our-yaojin-ai/internal/handler"
	"github.com/7-cybergracegrace/our-yaojin-ai/internal/middleware"
)

// Setup 挂载中间件并注册路由
func Setup(
	h *server.Hertz,
	chatHandler *handler.ChatHandler,
	gossipHandler *handler.GossipHandler,
	healthHandler *handler.HealthHandler,
) {
	h.Use(middleware.Recovery())
	h.Use(middleware.Logger())
	h.Use(middleware.CORS())

	h.GET("/ping", healthHandler.Ping)
	h.GET("/health/live", healthHandler.Liveness)
	h.GET("/health/ready", healthHandler.Readiness)

	api := h.Group("/api")
	{
		api.POST("/chat", chatHandler.Chat)
		api.GET("/news", gossipHandler.News)
		api.GET("/movies", gossipHandler.Movies)
	}
}
