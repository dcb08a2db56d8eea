package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/spf13/cobra"

	"github.com/7-cybergracegrace/our-yaojin-ai/internal/character"
	"github.com/7-cybergracegrace/our-yaojin-ai/internal/config"
	"github.com/7-cybergracegrace/our-yaojin-ai/internal/handler"
	"github.com/7-cybergracegrace/our-yaojin-ai/internal/infrastructure/douban"
	"github.com/7-cybergracegrace/our-yaojin-ai/internal/infrastructure/llm"
	"github.com/7-cybergracegrace/our-yaojin-ai/internal/infrastructure/weibo"
	"github.com/7-cybergracegrace/our-yaojin-ai/internal/router"
	"github.com/7-cybergracegrace/our-yaojin-ai/internal/usecase"
	"github.com/7-cybergracegrace/our-yaojin-ai/pkg/logger"
)

var (
	cfgFile string
	version = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:     "yaojin-server",
	Short:   "尧金聊天后端",
	Long:    "道仙尧金的对话服务：意图分流、多步占卜与游戏流程、俗世趣闻抓取，响应以 NDJSON 流式返回。",
	Version: version,
	Run:     runServer,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "configs/config.yaml", "path to config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func runServer(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := logger.Setup(cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	slog.Info("yaojin server starting", "version", version, "config", cfgFile)

	hlog.SetLogger(logger.NewHertzSlogAdapter(slog.Default()))

	sheet, err := character.Load()
	if err != nil {
		slog.Error("failed to load character sheet", "error", err)
		os.Exit(1)
	}
	slog.Info("character sheet loaded",
		"tarot_cards", len(sheet.Pools.TarotCards),
		"triage_rules", len(sheet.TriageRules),
	)

	gateway, err := llm.NewClient(cfg.LLM, slog.Default())
	if err != nil {
		slog.Error("failed to create llm gateway", "error", err)
		os.Exit(1)
	}

	trendClient, err := weibo.NewClient(cfg.Weibo, slog.Default())
	if err != nil {
		slog.Error("failed to create weibo client", "error", err)
		os.Exit(1)
	}
	movieClient, err := douban.NewClient(cfg.Douban, slog.Default())
	if err != nil {
		slog.Error("failed to create douban client", "error", err)
		os.Exit(1)
	}
	trends := weibo.NewCachedSource(trendClient, cfg.Cache.TrendsTTL)
	movies := douban.NewCachedSource(movieClient, cfg.Cache.MoviesTTL)

	triage, err := usecase.NewTriage(gateway, sheet, slog.Default())
	if err != nil {
		slog.Error("failed to create triage", "error", err)
		os.Exit(1)
	}
	chatUsecase := usecase.NewChatUsecase(gateway, trends, movies, sheet, triage, slog.Default())

	chatHandler := handler.NewChatHandler(chatUsecase, slog.Default())
	gossipHandler := handler.NewGossipHandler(trends, movies, slog.Default())
	healthHandler := handler.NewHealthHandler(cfg)

	h := server.Default(
		server.WithHostPorts(cfg.ServerAddr()),
		server.WithHandleMethodNotAllowed(true),
	)
	router.Setup(h, chatHandler, gossipHandler, healthHandler)

	go func() {
		if err := h.Run(); err != nil {
			slog.Error("server run failed", "error", err)
			os.Exit(1)
		}
	}()
	slog.Info("server started", "address", cfg.ServerAddr())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := h.Shutdown(ctx); err != nil {
		slog.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped gracefully")
}
