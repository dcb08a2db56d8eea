// Package douban 抓取豆瓣新片榜作为『上映新片』的数据源。
package douban

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"golang.org/x/net/html"

	"github.com/7-cybergracegrace/our-yaojin-ai/internal/config"
	"github.com/7-cybergracegrace/our-yaojin-ai/internal/domain"
	"github.com/7-cybergracegrace/our-yaojin-ai/internal/domain/entity"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36"

// Client 豆瓣新片榜抓取客户端
type Client struct {
	client   *client.Client
	chartURL string
	cookie   string
	logger   *slog.Logger
}

var _ domain.MovieSource = (*Client)(nil)

// NewClient 创建新片榜抓取客户端
func NewClient(cfg config.DoubanConfig, logger *slog.Logger) (*Client, error) {
	c, err := client.NewClient(
		client.WithDialTimeout(10 * time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create douban http client: %w", err)
	}
	return &Client{
		client:   c,
		chartURL: cfg.ChartURL,
		cookie:   cfg.Cookie,
		logger:   logger,
	}, nil
}

// Fetch 拉取新片榜前 10 部
func (c *Client) Fetch(ctx context.Context) ([]entity.Movie, error) {
	if c.cookie == "" {
		return nil, fmt.Errorf("douban cookie is not configured")
	}

	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	req.SetMethod(consts.MethodGet)
	req.SetRequestURI(c.chartURL)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Cookie", c.cookie)

	if err := c.client.Do(ctx, req, resp); err != nil {
		return nil, fmt.Errorf("douban request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("douban returned %d", resp.StatusCode())
	}

	movies, err := ParseChart(resp.Body())
	if err != nil {
		return nil, err
	}
	c.logger.Debug("fetched douban chart", "count", len(movies))
	return movies, nil
}

// ParseChart 解析新片榜页面。
// 榜单结构：div.indent 下每部电影一个 table，
// 标题在 div.pl2 > a（斜杠分隔原名与别名，取第一段），
// 评分在 .rating_nums，海报在 a.nbg > img。
func ParseChart(body []byte) ([]entity.Movie, error) {
	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse douban html: %w", err)
	}

	var movies []entity.Movie
	for _, table := range findAll(doc, isMovieTable) {
		m := parseMovieTable(table)
		if m.Title == "" || m.URL == "" {
			continue
		}
		movies = append(movies, m)
		if len(movies) == 10 {
			break
		}
	}
	if len(movies) == 0 {
		return nil, fmt.Errorf("no movies found in douban chart, page layout may have changed")
	}
	return movies, nil
}

func parseMovieTable(table *html.Node) entity.Movie {
	var m entity.Movie
	if link := find(table, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "a" && n.Parent != nil && hasClass(n.Parent, "pl2")
	}); link != nil {
		title := strings.TrimSpace(textContent(link))
		if i := strings.Index(title, "/"); i >= 0 {
			title = title[:i]
		}
		m.Title = strings.TrimSpace(title)
		m.URL = attr(link, "href")
	}
	if score := find(table, func(n *html.Node) bool {
		return n.Type == html.ElementNode && hasClass(n, "rating_nums")
	}); score != nil {
		m.Score = strings.TrimSpace(textContent(score))
	}
	if img := find(table, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "img" && n.Parent != nil && hasClass(n.Parent, "nbg")
	}); img != nil {
		m.Pic = attr(img, "src")
	}
	return m
}

func isMovieTable(n *html.Node) bool {
	if n.Type != html.ElementNode || n.Data != "table" {
		return false
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && hasClass(p, "indent") {
			return true
		}
	}
	return false
}

// ============ 轻量 DOM 遍历辅助 ============

func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if match(n) {
			out = append(out, n)
			return // 命中节点不再深入，电影 table 不会互相嵌套
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
