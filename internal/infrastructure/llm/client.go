// Package llm 提供 OpenAI 兼容网关的客户端实现，
// 覆盖对话补全、流式补全、文生图与识图四类能力。
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/network/standard"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/7-cybergracegrace/our-yaojin-ai/internal/config"
	"github.com/7-cybergracegrace/our-yaojin-ai/internal/domain"
	"github.com/7-cybergracegrace/our-yaojin-ai/internal/domain/entity"
)

const (
	pathChatCompletions  = "/v1/chat/completions"
	pathImageGenerations = "/v1/images/generations"
)

// Client OpenAI 兼容网关客户端
type Client struct {
	client        *client.Client
	baseURL       string
	apiKey        string
	model         string
	imageModel    string
	streamTimeout time.Duration
	logger        *slog.Logger
}

var _ domain.LLMGateway = (*Client)(nil)

// NewClient 创建网关客户端。
// netpoll 对流式响应支持不佳，必须换用标准库拨号器。
func NewClient(cfg config.LLMConfig, logger *slog.Logger) (*Client, error) {
	c, err := client.NewClient(
		client.WithDialTimeout(10*time.Second),
		client.WithClientReadTimeout(cfg.Timeout),
		client.WithMaxIdleConnDuration(60*time.Second),
		client.WithResponseBodyStream(true),
		client.WithDialer(standard.NewDialer()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create llm http client: %w", err)
	}
	return &Client{
		client:        c,
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:        cfg.APIKey,
		model:         cfg.Model,
		imageModel:    cfg.ImageModel,
		streamTimeout: cfg.StreamTimeout,
		logger:        logger,
	}, nil
}

type chatCompletionRequest struct {
	Model    string               `json:"model"`
	Messages []chatMessagePayload `json:"messages"`
	Stream   bool                 `json:"stream"`
}

type chatMessagePayload struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) buildMessages(system string, messages []domain.GatewayMessage) []chatMessagePayload {
	payload := make([]chatMessagePayload, 0, len(messages)+1)
	if system != "" {
		payload = append(payload, chatMessagePayload{Role: "system", Content: system})
	}
	for _, m := range messages {
		payload = append(payload, chatMessagePayload{Role: m.Role, Content: m.Content})
	}
	return payload
}

func (c *Client) newRequest(uri string, body []byte) *protocol.Request {
	req := protocol.AcquireRequest()
	req.SetMethod(consts.MethodPost)
	req.SetRequestURI(uri)
	req.Header.SetContentTypeBytes([]byte("application/json"))
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.SetBody(body)
	return req
}

// Complete 非流式补全，返回完整文本
func (c *Client) Complete(ctx context.Context, system string, messages []domain.GatewayMessage) (string, error) {
	body, err := sonic.Marshal(chatCompletionRequest{
		Model:    c.model,
		Messages: c.buildMessages(system, messages),
		Stream:   false,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion request: %w", err)
	}

	req := c.newRequest(c.baseURL+pathChatCompletions, body)
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	if err := c.client.Do(ctx, req, resp); err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return "", upstreamError(resp.StatusCode(), resp.Body())
	}

	var out chatCompletionResponse
	if err := sonic.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("failed to unmarshal completion response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("completion response has no choices")
	}
	return out.Choices[0].Message.Content, nil
}

// CompleteStream 流式补全。
// 返回的 channel 由后台协程填充并保证关闭；相邻数据块停滞超过
// streamTimeout 时以带 Error 的块收尾，不让调用方无限等待。
func (c *Client) CompleteStream(ctx context.Context, system string, messages []domain.GatewayMessage) (<-chan entity.GatewayChunk, error) {
	body, err := sonic.Marshal(chatCompletionRequest{
		Model:    c.model,
		Messages: c.buildMessages(system, messages),
		Stream:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stream request: %w", err)
	}

	req := c.newRequest(c.baseURL+pathChatCompletions, body)
	req.Header.Set("Accept", "text/event-stream")
	resp := protocol.AcquireResponse()

	if err := c.client.Do(ctx, req, resp); err != nil {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
		return nil, fmt.Errorf("stream request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		err := upstreamError(resp.StatusCode(), resp.Body())
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
		return nil, err
	}

	out := make(chan entity.GatewayChunk, 100)
	go func() {
		defer func() {
			close(out)
			protocol.ReleaseRequest(req)
			protocol.ReleaseResponse(resp)
		}()

		stream := resp.BodyStream()
		if stream == nil {
			out <- entity.GatewayChunk{IsEnd: true, Error: "server error: empty body stream"}
			return
		}
		c.pump(ctx, resp, NewDecoder(stream, c.logger), out)
	}()
	return out, nil
}

// pump 把解码出的增量搬运到输出 channel，带停滞看门狗。
// 返回前必须等解码协程退出：它还在读 BodyStream 时就把
// resp 归还对象池会产生数据竞争。
func (c *Client) pump(ctx context.Context, resp *protocol.Response, dec *Decoder, out chan<- entity.GatewayChunk) {
	type result struct {
		delta string
		err   error
	}
	results := make(chan result)
	done := make(chan struct{})
	go func() {
		defer close(results)
		for {
			delta, err := dec.Next()
			select {
			case results <- result{delta: delta, err: err}:
			case <-done:
				return
			}
			if err != nil {
				return
			}
		}
	}()
	defer func() {
		close(done)
		// 关掉流，解除解码协程可能阻塞着的那次读
		if err := resp.CloseBodyStream(); err != nil {
			c.logger.Warn("failed to close body stream", "error", err)
		}
		for range results {
		}
	}()

	watchdog := time.NewTimer(c.streamTimeout)
	defer watchdog.Stop()

	for {
		select {
		case r, ok := <-results:
			if !ok || r.err != nil {
				// io.EOF 与连接关闭都视为流结束；EOF 前拿到的内容已经发出
				out <- entity.GatewayChunk{IsEnd: true}
				return
			}
			if r.delta != "" {
				out <- entity.GatewayChunk{Text: r.delta}
			}
			if !watchdog.Stop() {
				<-watchdog.C
			}
			watchdog.Reset(c.streamTimeout)

		case <-watchdog.C:
			c.logger.Warn("upstream stream stalled", "timeout", c.streamTimeout)
			out <- entity.GatewayChunk{IsEnd: true, Error: "server error: upstream stream stalled"}
			return

		case <-ctx.Done():
			out <- entity.GatewayChunk{IsEnd: true, Error: ctx.Err().Error()}
			return
		}
	}
}

type imageGenerationRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

type imageGenerationResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

// GenerateImage 文生图，返回图片 URL
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	body, err := sonic.Marshal(imageGenerationRequest{
		Model:  c.imageModel,
		Prompt: prompt,
		N:      1,
		Size:   "1024x1024",
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal image request: %w", err)
	}

	req := c.newRequest(c.baseURL+pathImageGenerations, body)
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	if err := c.client.Do(ctx, req, resp); err != nil {
		return "", fmt.Errorf("image request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return "", upstreamError(resp.StatusCode(), resp.Body())
	}

	var out imageGenerationResponse
	if err := sonic.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("failed to unmarshal image response: %w", err)
	}
	if len(out.Data) == 0 || out.Data[0].URL == "" {
		return "", fmt.Errorf("image response has no url")
	}
	return out.Data[0].URL, nil
}

// 多模态消息体：图片以 data URL 内联在消息内容里
type multimodalContent struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL *struct {
		URL string `json:"url"`
	} `json:"image_url,omitempty"`
}

type multimodalMessage struct {
	Role    string              `json:"role"`
	Content []multimodalContent `json:"content"`
}

type multimodalRequest struct {
	Model    string              `json:"model"`
	Messages []multimodalMessage `json:"messages"`
	Stream   bool                `json:"stream"`
}

// AnalyzeImage 识图，返回对图片的文字点评
func (c *Client) AnalyzeImage(ctx context.Context, imageBase64, mimeType, prompt string) (string, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, imageBase64)
	reqBody := multimodalRequest{
		Model: c.model,
		Messages: []multimodalMessage{{
			Role: "user",
			Content: []multimodalContent{
				{Type: "text", Text: prompt},
				{Type: "image_url", ImageURL: &struct {
					URL string `json:"url"`
				}{URL: dataURL}},
			},
		}},
	}
	body, err := sonic.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal vision request: %w", err)
	}

	req := c.newRequest(c.baseURL+pathChatCompletions, body)
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	if err := c.client.Do(ctx, req, resp); err != nil {
		return "", fmt.Errorf("vision request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return "", upstreamError(resp.StatusCode(), resp.Body())
	}

	var out chatCompletionResponse
	if err := sonic.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("failed to unmarshal vision response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("vision response has no choices")
	}
	return out.Choices[0].Message.Content, nil
}

// upstreamError 把上游非 200 响应转成携带状态码的错误，
// 错误文本保留状态码数字，供上层按关键字归类。
func upstreamError(status int, body []byte) error {
	msg := string(body)
	if len(msg) > 512 {
		msg = msg[:512]
	}
	return fmt.Errorf("upstream returned %d: %s", status, msg)
}
