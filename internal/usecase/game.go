package usecase

import (
	"context"
	"strings"

	"github.com/7-cybergracegrace/our-yaojin-ai/internal/domain"
	"github.com/7-cybergracegrace/our-yaojin-ai/internal/domain/entity"
)

// runGame 推进游戏小摊三步流程：开场 → 出招 → 收尾
func (u *chatUsecase) runGame(ctx context.Context, req *domain.ChatRequest, t *turn, intent entity.Intent, step int) {
	rule := u.sheet.Games[intent]
	if rule == nil {
		u.runChat(ctx, req, t, entity.IntentChitChat)
		return
	}

	switch step {
	case 0:
		if intent == entity.IntentStoryRelay {
			// 故事接龙开场自带第一段
			t.say(rule.Invite + "\n\n" + u.sheet.Pools.RandomStoryStarter())
			return
		}
		t.say(rule.Invite)

	case 1:
		switch intent {
		case entity.IntentDrawGuess:
			u.runDrawing(ctx, req, t)
		case entity.IntentTruthOrDare:
			u.serveQuestion(req, t)
		default:
			u.continueStory(ctx, req, t, "接着用户的段落把故事推进一段，加入一个出人意料的转折，结尾留个钩子让用户接下去。只输出故事内容。")
		}

	default:
		switch intent {
		case entity.IntentDrawGuess:
			u.streamGameChat(ctx, req, t, "用户刚看过你画的画并给出了反应。回应TA的评价，嘴上不饶人但听得出得意，然后收摊结束这局游戏。")
		case entity.IntentTruthOrDare:
			u.streamGameChat(ctx, req, t, "用户刚完成了真心话或大冒险。点评TA的表现，毒舌但公道，然后宣布这局游戏结束。")
		default:
			u.continueStory(ctx, req, t, "这是故事接龙的最后一轮。接着用户的段落把故事收个利落的结尾，可以意味深长，然后宣布这局游戏结束。")
		}
	}
}

// runDrawing 你说我画：按用户描述文生图
func (u *chatUsecase) runDrawing(ctx context.Context, req *domain.ChatRequest, t *turn) {
	t.text("收到，本道仙这就为你挥毫……")

	imagePrompt := "大师级的奇幻数字艺术，充满细节，描绘一个场景：" + strings.TrimSpace(strings.ReplaceAll(req.Text, "画", ""))
	url, err := u.gateway.GenerateImage(ctx, imagePrompt)
	if err != nil {
		u.logger.Error("image generation failed", "error", err)
		t.say("哎呀，今日灵感枯竭，没画出来。换个描述再试试？")
		return
	}

	t.send(entity.StreamChunk{
		Text:                 "本道仙的大作，你看如何？",
		GeneratedImageURL:    url,
		GeneratedImagePrompt: imagePrompt,
		IsLoading:            false,
	})
}

// serveQuestion 真心话大冒险：按用户的选择出题
func (u *chatUsecase) serveQuestion(req *domain.ChatRequest, t *turn) {
	var qtype string
	switch {
	case strings.Contains(req.Text, "大冒险"):
		qtype = "dare"
	case strings.Contains(req.Text, "真心话"):
		qtype = "truth"
	}
	q := u.sheet.Pools.RandomQuestion(qtype)
	if q.Type == "dare" {
		t.say("大冒险是吧，有胆量。听好了——" + q.Content)
		return
	}
	t.say("真心话？那可得从实招来——" + q.Content)
}

func (u *chatUsecase) continueStory(ctx context.Context, req *domain.ChatRequest, t *turn, directive string) {
	system := buildSystemInstruction(u.sheet, req.Intimacy, req.UserName, entity.IntentStoryRelay) + "\n" + directive
	u.streamLLM(ctx, t, system, buildGatewayMessages(req.History, req.Text))
}

func (u *chatUsecase) streamGameChat(ctx context.Context, req *domain.ChatRequest, t *turn, directive string) {
	system := buildSystemInstruction(u.sheet, req.Intimacy, req.UserName, entity.IntentTruthOrDare) + "\n" + directive
	u.streamLLM(ctx, t, system, buildGatewayMessages(req.History, req.Text))
}
