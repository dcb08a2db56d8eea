// Package weibo 抓取微博热搜榜作为『新鲜事』的数据源。
package weibo

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/7-cybergracegrace/our-yaojin-ai/internal/config"
	"github.com/7-cybergracegrace/our-yaojin-ai/internal/domain"
	"github.com/7-cybergracegrace/our-yaojin-ai/internal/domain/entity"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Version/108.0.0.0 Safari/537.36"

// hotSearchResponse 微博榜单接口的响应结构，只取用到的字段
type hotSearchResponse struct {
	Data struct {
		Cards []struct {
			CardGroup []struct {
				Desc string `json:"desc"`
			} `json:"card_group"`
		} `json:"cards"`
	} `json:"data"`
}

// Client 微博热搜抓取客户端
type Client struct {
	client *client.Client
	apiURL string
	cookie string
	logger *slog.Logger
}

var _ domain.TrendSource = (*Client)(nil)

// NewClient 创建热搜抓取客户端
func NewClient(cfg config.WeiboConfig, logger *slog.Logger) (*Client, error) {
	c, err := client.NewClient(
		client.WithDialTimeout(10 * time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create weibo http client: %w", err)
	}
	return &Client{
		client: c,
		apiURL: cfg.APIURL,
		cookie: cfg.Cookie,
		logger: logger,
	}, nil
}

// Fetch 拉取当前热搜榜前 10 条。
// 接口要求登录态 Cookie，未配置时直接报错而不是打空请求。
func (c *Client) Fetch(ctx context.Context) ([]entity.TrendItem, error) {
	if c.cookie == "" {
		return nil, fmt.Errorf("weibo cookie is not configured")
	}

	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	req.SetMethod(consts.MethodGet)
	req.SetRequestURI(c.apiURL)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Cookie", c.cookie)

	if err := c.client.Do(ctx, req, resp); err != nil {
		return nil, fmt.Errorf("weibo request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("weibo api returned %d", resp.StatusCode())
	}

	trends, err := ParseHotSearch(resp.Body())
	if err != nil {
		return nil, err
	}
	c.logger.Debug("fetched weibo trends", "count", len(trends))
	return trends, nil
}

// ParseHotSearch 解析榜单响应，取有描述的前 10 条。
// 数据结构异常往往意味着 Cookie 失效。
func ParseHotSearch(body []byte) ([]entity.TrendItem, error) {
	var out hotSearchResponse
	if err := sonic.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal weibo response: %w", err)
	}
	if len(out.Data.Cards) == 0 {
		return nil, fmt.Errorf("unexpected weibo response shape, cookie may have expired")
	}

	trends := make([]entity.TrendItem, 0, 10)
	for _, item := range out.Data.Cards[0].CardGroup {
		if item.Desc == "" {
			continue
		}
		trends = append(trends, entity.TrendItem{
			Title: item.Desc,
			URL:   "https://m.s.weibo.com/weibo?q=" + url.QueryEscape("#"+item.Desc+"#"),
		})
		if len(trends) == 10 {
			break
		}
	}
	return trends, nil
}
