// Package handler 实现 HTTP 层：请求绑定、NDJSON 流式写出与错误映射。
package handler

import (
	"context"
	"log/slog"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/cloudwego/hertz/pkg/protocol/http1/resp"

	"github.com/7-cybergracegrace/our-yaojin-ai/internal/domain"
	"github.com/7-cybergracegrace/our-yaojin-ai/internal/handler/dto"
)

// ChatHandler 对话请求处理器
type ChatHandler struct {
	usecase domain.ChatUsecase
	logger  *slog.Logger
}

// NewChatHandler 创建对话处理器
func NewChatHandler(usecase domain.ChatUsecase, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		usecase: usecase,
		logger:  logger,
	}
}

// Chat 处理一轮对话，响应为按行分隔的 JSON 流。
// 流开始前的失败用标准错误响应；开始后的失败以 errorType 块在流内交付。
func (h *ChatHandler) Chat(ctx context.Context, c *app.RequestContext) {
	var req dto.ChatRequest
	if err := c.BindJSON(&req); err != nil {
		h.logger.Error("failed to bind chat request", "error", err)
		ErrorResponse(c, domain.NewInvalidInputError("invalid request body"))
		return
	}
	if req.Text == "" && req.ImageBase64 == "" && req.ClickedModule == "" {
		BadRequestResponse(c, "text, image or module click is required")
		return
	}

	chatReq := &domain.ChatRequest{
		Text:          req.Text,
		ImageBase64:   req.ImageBase64,
		ImageMimeType: req.ImageMimeType,
		History:       req.History,
		Intimacy:      req.Intimacy,
		UserName:      req.UserName,
		CurrentFlow:   req.CurrentFlow,
		CurrentStep:   req.CurrentStep,
		ClickedModule: req.ClickedModule,
		ClickedOption: req.ClickedOption,
	}

	h.logger.Info("chat request received",
		"user_name", req.UserName,
		"current_flow", req.CurrentFlow,
		"current_step", req.CurrentStep,
		"clicked_module", req.ClickedModule,
		"has_image", req.ImageBase64 != "",
	)

	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	streamCh, err := h.usecase.ChatStream(streamCtx, chatReq)
	if err != nil {
		h.logger.Error("failed to start chat stream", "error", err)
		ErrorResponse(c, err)
		return
	}

	c.SetStatusCode(consts.StatusOK)
	c.Response.Header.Set("Content-Type", "text/plain; charset=utf-8")
	c.Response.Header.Set("Cache-Control", "no-cache")
	c.Response.HijackWriter(resp.NewChunkedBodyWriter(&c.Response, c.GetWriter()))

	for chunk := range streamCh {
		line, err := sonic.Marshal(chunk)
		if err != nil {
			h.logger.Error("failed to marshal stream chunk", "error", err)
			continue
		}
		line = append(line, '\n')
		if _, err := c.Write(line); err != nil {
			// 客户端断开：取消上游并排空通道，让生产者退出
			h.logger.Warn("client disconnected midstream", "error", err)
			cancel()
			for range streamCh {
			}
			return
		}
		if err := c.Flush(); err != nil {
			h.logger.Warn("flush failed midstream", "error", err)
			cancel()
			for range streamCh {
			}
			return
		}
	}
}
