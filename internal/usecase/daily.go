package usecase

import (
	"context"

	"github.com/7-cybergracegrace/our-yaojin-ai/internal/character"
	"github.com/7-cybergracegrace/our-yaojin-ai/internal/domain"
	"github.com/7-cybergracegrace/our-yaojin-ai/internal/domain/entity"
)

// runDaily 道仙日常：内容池出素材，部分话题由大模型现场润色
func (u *chatUsecase) runDaily(ctx context.Context, req *domain.ChatRequest, t *turn, intent entity.Intent) {
	switch intent {
	case entity.IntentRecentWatch:
		category := character.ReviewCategory(req.Text)
		t.say(u.sheet.Pools.RandomReview(category).Content)

	case entity.IntentRecentBuy:
		prompt := "以尧金的口吻，描述以下购物清单中的一个项目。描述要生动有趣，最好能引人吐槽，并邀请用户分享自己最近买了什么。\n项目：" +
			u.sheet.Pools.RandomShoppingItem() + "\n你的描述:"
		u.completeDaily(ctx, req, t, prompt)

	case entity.IntentGrudgeBook:
		prompt := "以尧金的口吻，描述以下一个事件，并邀请用户分享自己讨厌的人或事。在描述中提及你会为讨厌的人画诅咒符。\n事件：" +
			u.sheet.Pools.RandomGrudge() + "\n你的描述:"
		u.completeDaily(ctx, req, t, prompt)

	default:
		t.say(u.sheet.Pools.RandomLifeScene())
	}
}

// completeDaily 非流式润色，一次性交付
func (u *chatUsecase) completeDaily(ctx context.Context, req *domain.ChatRequest, t *turn, prompt string) {
	system := buildSystemInstruction(u.sheet, req.Intimacy, req.UserName, entity.IntentLifeScene)
	reply, err := u.gateway.Complete(ctx, system, []domain.GatewayMessage{{Role: "user", Content: prompt}})
	if err != nil {
		u.logger.Error("daily completion failed", "error", err)
		t.fail(err)
		return
	}
	t.say(reply)
}
