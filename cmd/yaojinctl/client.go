package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/network/standard"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/7-cybergracegrace/our-yaojin-ai/internal/domain/entity"
	"github.com/7-cybergracegrace/our-yaojin-ai/internal/handler/dto"
)

// apiClient 服务端 HTTP 客户端，支持 NDJSON 流式读取
type apiClient struct {
	client *client.Client
	server string
}

func newAPIClient(server string) (*apiClient, error) {
	if !strings.Contains(server, "://") {
		server = "http://" + server
	}
	// 流式读取必须走标准库拨号器
	c, err := client.NewClient(
		client.WithDialTimeout(10*time.Second),
		client.WithResponseBodyStream(true),
		client.WithDialer(standard.NewDialer()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http client: %w", err)
	}
	return &apiClient{client: c, server: strings.TrimRight(server, "/")}, nil
}

// chatStream 发起一轮对话，逐块返回响应
func (c *apiClient) chatStream(ctx context.Context, req *dto.ChatRequest) (<-chan entity.StreamChunk, error) {
	body, err := sonic.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	hreq := protocol.AcquireRequest()
	hresp := protocol.AcquireResponse()

	hreq.SetMethod(consts.MethodPost)
	hreq.SetRequestURI(c.server + "/api/chat")
	hreq.Header.SetContentTypeBytes([]byte("application/json"))
	hreq.SetBody(body)

	if err := c.client.Do(ctx, hreq, hresp); err != nil {
		protocol.ReleaseRequest(hreq)
		protocol.ReleaseResponse(hresp)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if hresp.StatusCode() != 200 {
		status := hresp.StatusCode()
		respBody := string(hresp.Body())
		protocol.ReleaseRequest(hreq)
		protocol.ReleaseResponse(hresp)
		return nil, fmt.Errorf("chat failed with HTTP %d: %s", status, respBody)
	}

	out := make(chan entity.StreamChunk, 16)
	go func() {
		defer func() {
			close(out)
			protocol.ReleaseRequest(hreq)
			protocol.ReleaseResponse(hresp)
		}()

		stream := hresp.BodyStream()
		if stream == nil {
			return
		}
		scanner := bufio.NewScanner(stream)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			var chunk entity.StreamChunk
			if err := sonic.UnmarshalString(line, &chunk); err != nil {
				continue
			}
			out <- chunk
		}
	}()
	return out, nil
}

// fetchJSON 调用直通端点并解析统一响应里的 data 字段
func (c *apiClient) fetchJSON(ctx context.Context, path string, data interface{}) error {
	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	req.SetMethod(consts.MethodGet)
	req.SetRequestURI(c.server + path)

	if err := c.client.Do(ctx, req, resp); err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	body, err := io.ReadAll(resp.BodyStream())
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("request failed with HTTP %d: %s", resp.StatusCode(), string(body))
	}

	var envelope struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Data    any    `json:"data"`
	}
	if err := sonic.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	raw, err := sonic.Marshal(envelope.Data)
	if err != nil {
		return err
	}
	return sonic.Unmarshal(raw, data)
}
