package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/7-cybergracegrace/our-yaojin-ai/internal/character"
	"github.com/7-cybergracegrace/our-yaojin-ai/internal/domain"
	"github.com/7-cybergracegrace/our-yaojin-ai/internal/domain/entity"
)

// runGuidance 推进仙人指路三步流程：索取信息 → 过渡确认 → 交付结果
func (u *chatUsecase) runGuidance(ctx context.Context, req *domain.ChatRequest, t *turn, intent entity.Intent, step int) {
	flow := u.sheet.Guidance[intent]
	if flow == nil {
		u.runChat(ctx, req, t, entity.IntentChitChat)
		return
	}

	switch step {
	case 0:
		t.say(flow.Prompt)

	case 1:
		// 今日运势只认十二星座，报不出星座的留在原步重来
		if intent == entity.IntentDailyHoroscope && character.ExtractZodiacSign(req.Text) == "" {
			t.setReport(string(intent), 1)
			t.say("星座都报不利索？十二星座里挑一个正经的，重新报来。")
			return
		}
		t.say(strings.ReplaceAll(flow.Acknowledge, "{userInput}", req.Text))

	default:
		u.resolveGuidance(ctx, req, t, intent, flow)
	}
}

// resolveGuidance 终止步：用上一步收到的信息生成占卜结果
func (u *chatUsecase) resolveGuidance(ctx context.Context, req *domain.ChatRequest, t *turn, intent entity.Intent, flow *character.GuidanceFlow) {
	answer := lastUserAnswer(req.History, req.Text)
	if intent == entity.IntentDailyHoroscope {
		if sign := character.ExtractZodiacSign(answer); sign != "" {
			answer = sign
		}
	}

	switch flow.Resolve.Kind {
	case character.ResolveTarot:
		u.resolveTarot(ctx, req, t, intent, flow, answer)
	default:
		t.say(strings.ReplaceAll(flow.Resolve.Template, "{userInput}", answer))
	}
}

// resolveTarot 抽牌后把牌面与诉求交给大模型解读，结果流式交付
func (u *chatUsecase) resolveTarot(ctx context.Context, req *domain.ChatRequest, t *turn, intent entity.Intent, flow *character.GuidanceFlow, answer string) {
	cards := u.sheet.Pools.DrawTarot(flow.Resolve.Cards)
	lines := make([]string, len(cards))
	for i, card := range cards {
		lines[i] = fmt.Sprintf("第%d张：%s —— %s", i+1, card.Name, card.Meaning)
	}
	cardText := strings.Join(lines, "\n")

	t.text("牌面已定：\n" + cardText + "\n\n")

	prompt := strings.ReplaceAll(flow.Resolve.Prompt, "{userInput}", answer)
	prompt = strings.ReplaceAll(prompt, "{cards}", cardText)

	system := buildSystemInstruction(u.sheet, req.Intimacy, req.UserName, intent)
	u.streamLLM(ctx, t, system, []domain.GatewayMessage{{Role: "user", Content: prompt}})
}
