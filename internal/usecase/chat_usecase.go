// Package usecase 实现对话编排：意图分流、多步流程推进与响应流组装。
package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/7-cybergracegrace/our-yaojin-ai/internal/character"
	"github.com/7-cybergracegrace/our-yaojin-ai/internal/domain"
	"github.com/7-cybergracegrace/our-yaojin-ai/internal/domain/entity"
)

type chatUsecase struct {
	gateway domain.LLMGateway
	trends  domain.TrendSource
	movies  domain.MovieSource
	sheet   *character.Sheet
	triage  *Triage
	logger  *slog.Logger
}

// NewChatUsecase 创建对话用例
func NewChatUsecase(
	gateway domain.LLMGateway,
	trends domain.TrendSource,
	movies domain.MovieSource,
	sheet *character.Sheet,
	triage *Triage,
	logger *slog.Logger,
) domain.ChatUsecase {
	return &chatUsecase{
		gateway: gateway,
		trends:  trends,
		movies:  movies,
		sheet:   sheet,
		triage:  triage,
		logger:  logger,
	}
}

// ChatStream 处理一轮对话。
// 校验失败直接返回错误（调用方转 400）；之后的一切失败都以
// 带 errorType 的响应块在流内交付。
func (u *chatUsecase) ChatStream(ctx context.Context, req *domain.ChatRequest) (<-chan entity.StreamChunk, error) {
	if req.Text == "" && req.ImageBase64 == "" && req.ClickedModule == "" {
		return nil, domain.NewInvalidInputError("text, image or module click is required")
	}

	out := make(chan entity.StreamChunk, 16)
	go func() {
		defer close(out)
		t := newTurn(out)
		defer t.finish()
		defer func() {
			if r := recover(); r != nil {
				u.logger.Error("chat turn panicked", "panic", r)
				t.send(entity.StreamChunk{ErrorType: entity.ErrorTypeUnknown, IsLoading: false})
			}
		}()
		u.run(ctx, req, t)
	}()
	return out, nil
}

func (u *chatUsecase) run(ctx context.Context, req *domain.ChatRequest, t *turn) {
	// 带图消息短路到识图，不进流程机
	if req.ImageBase64 != "" {
		u.runVision(ctx, req, t)
		return
	}

	plan := PlanTurn(req)
	if plan.NeedTriage {
		intent := u.triage.Classify(ctx, req.Text, req.UserName, req.Intimacy)
		plan = planFor(intent, 0)
	}
	t.setReport(plan.ReportFlow, plan.ReportStep)

	if plan.ModuleIntro != "" {
		u.runModuleIntro(t, plan.ModuleIntro)
		return
	}

	u.logger.Debug("dispatching turn",
		"intent", string(plan.Intent),
		"step", plan.Step,
		"report_flow", plan.ReportFlow,
		"report_step", plan.ReportStep,
	)

	switch plan.Intent.Flow() {
	case entity.FlowGuidance:
		u.runGuidance(ctx, req, t, plan.Intent, plan.Step)
	case entity.FlowGame:
		u.runGame(ctx, req, t, plan.Intent, plan.Step)
	case entity.FlowNews:
		u.runNews(ctx, req, t, plan.Intent)
	case entity.FlowDaily:
		u.runDaily(ctx, req, t, plan.Intent)
	default:
		u.runChat(ctx, req, t, plan.Intent)
	}
}

// runModuleIntro 模块点击且未选具体玩法时，发该模块的开场白与快捷选项
func (u *chatUsecase) runModuleIntro(t *turn, module string) {
	var intro string
	switch module {
	case "guidance":
		intro = u.sheet.GuidanceIntro
	case "game":
		intro = u.sheet.GameIntro
	case "news":
		intro = u.sheet.NewsIntro
	case "daily":
		intro = u.sheet.DailyIntro
	}
	t.send(entity.StreamChunk{
		Text:         intro,
		QuickReplies: character.ModuleOptions(module),
		IsLoading:    false,
	})
}

// runVision 识图：点评用户发来的图片
func (u *chatUsecase) runVision(ctx context.Context, req *domain.ChatRequest, t *turn) {
	t.text("让本道仙看看你发的是什么……")

	prompt := req.Text
	if prompt == "" {
		prompt = "点评一下这张图片。"
	}
	system := buildSystemInstruction(u.sheet, req.Intimacy, req.UserName, entity.IntentChitChat)

	comment, err := u.gateway.AnalyzeImage(ctx, req.ImageBase64, req.ImageMimeType, system+"\n\n"+prompt)
	if err != nil {
		u.logger.Error("image analysis failed", "error", err)
		t.fail(err)
		return
	}
	t.say(comment)
}

// runChat 开放式闲聊与直接聊天特殊意图，流式透传
func (u *chatUsecase) runChat(ctx context.Context, req *domain.ChatRequest, t *turn, intent entity.Intent) {
	system := buildSystemInstruction(u.sheet, req.Intimacy, req.UserName, intent)
	u.streamLLM(ctx, t, system, buildGatewayMessages(req.History, req.Text))
}

// streamLLM 发起流式补全并把增量透传给客户端
func (u *chatUsecase) streamLLM(ctx context.Context, t *turn, system string, messages []domain.GatewayMessage) {
	stream, err := u.gateway.CompleteStream(ctx, system, messages)
	if err != nil {
		u.logger.Error("stream start failed", "error", err)
		t.fail(err)
		return
	}
	for chunk := range stream {
		if chunk.Error != "" {
			u.logger.Error("stream failed midway", "error", chunk.Error)
			t.fail(errors.New(chunk.Error))
			return
		}
		if chunk.Text != "" {
			t.text(chunk.Text)
		}
		if chunk.IsEnd {
			break
		}
	}
	t.send(entity.StreamChunk{IsLoading: false})
}
