package domain

import (
	"context"

	"github.com/7-cybergracegrace/our-yaojin-ai/internal/domain/entity"
)

// ============ Usecase 层内部使用的 DTO ============

// ChatRequest 内部聊天请求（usecase 使用）。
// CurrentFlow/CurrentStep 由客户端原样回传上一轮服务端报告的值，
// 服务端信任但不校验——这是刻意的无状态设计。
type ChatRequest struct {
	Text          string
	ImageBase64   string
	ImageMimeType string
	History       []entity.Message
	Intimacy      entity.IntimacyLevel
	UserName      string
	CurrentFlow   string
	CurrentStep   int
	ClickedModule string
	ClickedOption string
}

// GatewayMessage 发给 LLM 网关的一条消息
type GatewayMessage struct {
	Role    string
	Content string
}

// LLMGateway 上游大模型网关接口（OpenAI 兼容格式）
type LLMGateway interface {
	// Complete 非流式对话补全，返回完整文本
	Complete(ctx context.Context, system string, messages []GatewayMessage) (string, error)

	// CompleteStream 流式对话补全，增量文本从通道逐块返回
	CompleteStream(ctx context.Context, system string, messages []GatewayMessage) (<-chan entity.GatewayChunk, error)

	// GenerateImage 文生图，返回图片 URL
	GenerateImage(ctx context.Context, prompt string) (string, error)

	// AnalyzeImage 识图，返回对图片内容的描述
	AnalyzeImage(ctx context.Context, imageBase64, mimeType, prompt string) (string, error)
}

// TrendSource 热搜数据源（微博）
type TrendSource interface {
	Fetch(ctx context.Context) ([]entity.TrendItem, error)
}

// MovieSource 在映电影数据源（豆瓣）
type MovieSource interface {
	Fetch(ctx context.Context) ([]entity.Movie, error)
}

// ChatUsecase 聊天用例接口
type ChatUsecase interface {
	// ChatStream 处理一轮对话，响应块从通道逐个返回。
	// 无论成功还是失败，通道关闭前最后一个 chunk 的 IsLoading 必为 false。
	ChatStream(ctx context.Context, req *ChatRequest) (<-chan entity.StreamChunk, error)
}
