// yaojinctl 尧金服务端的命令行客户端：
// 流式对话（维护历史与 flow/step 回传）、热搜与新片榜速查。
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/7-cybergracegrace/our-yaojin-ai/internal/domain/entity"
	"github.com/7-cybergracegrace/our-yaojin-ai/internal/handler/dto"
)

var styles = struct {
	Bot    lipgloss.Style
	User   lipgloss.Style
	Notice lipgloss.Style
	Error  lipgloss.Style
	Faint  lipgloss.Style
}{
	Bot:    lipgloss.NewStyle().Foreground(lipgloss.Color("215")).Bold(true),
	User:   lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	Notice: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Italic(true),
	Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	Faint:  lipgloss.NewStyle().Faint(true),
}

var (
	serverAddr string
	userName   string
)

var rootCmd = &cobra.Command{
	Use:   "yaojinctl",
	Short: "尧金命令行客户端",
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "与尧金对话（流式）",
	RunE:  runChat,
}

var newsCmd = &cobra.Command{
	Use:   "news",
	Short: "看一眼热搜榜",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newAPIClient(serverAddr)
		if err != nil {
			return err
		}
		var trends []entity.TrendItem
		if err := c.fetchJSON(cmd.Context(), "/api/news", &trends); err != nil {
			return err
		}
		for i, item := range trends {
			fmt.Printf("%2d. %s\n    %s\n", i+1, item.Title, styles.Faint.Render(item.URL))
		}
		return nil
	},
}

var moviesCmd = &cobra.Command{
	Use:   "movies",
	Short: "看一眼新片榜",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newAPIClient(serverAddr)
		if err != nil {
			return err
		}
		var movies []entity.Movie
		if err := c.fetchJSON(cmd.Context(), "/api/movies", &movies); err != nil {
			return err
		}
		for i, m := range movies {
			fmt.Printf("%2d. 《%s》 评分 %s\n    %s\n", i+1, m.Title, m.Score, styles.Faint.Render(m.URL))
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&serverAddr, "server", "s", "localhost:8080", "server address")
	chatCmd.Flags().StringVarP(&userName, "name", "n", "无名道友", "your nickname")
	rootCmd.AddCommand(chatCmd, newsCmd, moviesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

// session 客户端维护的会话状态：历史、flow/step 回传与亲密度
type session struct {
	history  []entity.Message
	flow     string
	step     int
	progress int
	tracker  *entity.IntimacyTracker
}

func runChat(cmd *cobra.Command, args []string) error {
	c, err := newAPIClient(serverAddr)
	if err != nil {
		return err
	}

	s := &session{
		tracker: entity.NewIntimacyTracker(0),
	}

	fmt.Println(styles.Bot.Render("尧金") + styles.Faint.Render("（输入 /quit 退出，/module guidance|game|news|daily 点模块）"))

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(styles.User.Render(userName + " > "))
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/quit" || input == "/exit" {
			break
		}

		req := &dto.ChatRequest{
			History:     s.history,
			Intimacy:    entity.IntimacyFromProgress(s.progress),
			UserName:    userName,
			CurrentFlow: s.flow,
			CurrentStep: s.step,
		}
		if module, option, ok := parseModuleCommand(input); ok {
			req.ClickedModule = module
			req.ClickedOption = option
		} else {
			req.Text = input
		}

		if err := s.exchange(cmd.Context(), c, req); err != nil {
			fmt.Println(styles.Error.Render("请求失败: " + err.Error()))
			continue
		}

		// 每轮对话涨一点亲密度，升档时提示
		s.progress += 2
		if notice := s.tracker.Advance(s.progress); notice != "" {
			fmt.Println(styles.Notice.Render("✦ " + notice))
		}
	}
	return nil
}

// exchange 发一轮请求并渲染流式响应，更新会话状态
func (s *session) exchange(ctx context.Context, c *apiClient, req *dto.ChatRequest) error {
	stream, err := c.chatStream(ctx, req)
	if err != nil {
		return err
	}

	fmt.Print(styles.Bot.Render("尧金 > "))
	var reply strings.Builder
	for chunk := range stream {
		if chunk.ErrorType != "" {
			fmt.Println()
			fmt.Println(styles.Error.Render("（出错了：" + string(chunk.ErrorType) + "）"))
		}
		if chunk.Text != "" {
			fmt.Print(chunk.Text)
			reply.WriteString(chunk.Text)
		}
		if chunk.GeneratedImageURL != "" {
			fmt.Println()
			fmt.Println(styles.Notice.Render("🖼  " + chunk.GeneratedImageURL))
		}
		if len(chunk.QuickReplies) > 0 {
			fmt.Println()
			fmt.Println(styles.Faint.Render("可选：" + strings.Join(chunk.QuickReplies, " / ")))
		}
		// 每个块都带着服务端报告的 flow/step，最后一个为准
		s.flow = chunk.Flow
		s.step = chunk.Step
	}
	fmt.Println()

	if req.Text != "" {
		s.history = append(s.history, entity.Message{
			ID:     uuid.New().String(),
			Sender: entity.SenderUser,
			Text:   req.Text,
		})
	}
	if reply.Len() > 0 {
		s.history = append(s.history, entity.Message{
			ID:     uuid.New().String(),
			Sender: entity.SenderBot,
			Text:   reply.String(),
		})
	}
	return nil
}

// parseModuleCommand 解析 "/module game 真心话大冒险" 形式的模块点击
func parseModuleCommand(input string) (module, option string, ok bool) {
	if !strings.HasPrefix(input, "/module") {
		return "", "", false
	}
	fields := strings.Fields(input)
	if len(fields) < 2 {
		return "", "", false
	}
	module = fields[1]
	if len(fields) > 2 {
		option = strings.Join(fields[2:], " ")
	}
	return module, option, true
}
