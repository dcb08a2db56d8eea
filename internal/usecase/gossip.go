package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/7-cybergracegrace/our-yaojin-ai/internal/character"
	"github.com/7-cybergracegrace/our-yaojin-ai/internal/domain"
	"github.com/7-cybergracegrace/our-yaojin-ai/internal/domain/entity"
)

// runNews 俗世趣闻：拉外部数据做谈资，交给大模型整合吐槽。
// 外部数据源挂了不报错，道仙认账说今天没消息。
func (u *chatUsecase) runNews(ctx context.Context, req *domain.ChatRequest, t *turn, intent entity.Intent) {
	// 正文里点名了别的子话题时，以正文为准
	if sub, ok := character.NewsSubIntent(req.Text); ok {
		intent = sub
	}

	switch intent {
	case entity.IntentNewMovies:
		u.runMovieNews(ctx, req, t)
	case entity.IntentFantasy:
		t.say(u.sheet.Pools.RandomFantasyStory())
	default:
		u.runTrendNews(ctx, req, t)
	}
}

func (u *chatUsecase) runTrendNews(ctx context.Context, req *domain.ChatRequest, t *turn) {
	trends, err := u.trends.Fetch(ctx)
	if err != nil || len(trends) == 0 {
		u.logger.Warn("trend fetch failed", "error", err)
		t.say("凡间的消息渠道今日堵得很，热搜都拿不下来。本道仙不编瞎话，过会儿再来问。")
		return
	}

	lines := make([]string, len(trends))
	for i, item := range trends {
		lines[i] = fmt.Sprintf("[%d] %s", i+1, item.Title)
	}
	external := "以下是微博热搜榜的新鲜事：\n\n" + strings.Join(lines, "\n")

	system := buildSystemInstruction(u.sheet, req.Intimacy, req.UserName, entity.IntentFreshNews) +
		"\n\n**请你基于以下外部参考资料，与用户展开对话**:\n" + external
	u.streamLLM(ctx, t, system, buildGatewayMessages(req.History, req.Text))
}

func (u *chatUsecase) runMovieNews(ctx context.Context, req *domain.ChatRequest, t *turn) {
	movies, err := u.movies.Fetch(ctx)
	if err != nil || len(movies) == 0 {
		u.logger.Warn("movie fetch failed", "error", err)
		t.say("片单今日拿不到，八成是凡间的网又抽风了。想听新片改日再来。")
		return
	}

	lines := make([]string, len(movies))
	for i, movie := range movies {
		lines[i] = fmt.Sprintf("[%d] 《%s》- 评分: %s", i+1, movie.Title, movie.Score)
	}
	external := "本道仙刚瞅了一眼，最近上映的电影倒是有点意思，这几部你看过吗？\n\n" + strings.Join(lines, "\n")

	system := buildSystemInstruction(u.sheet, req.Intimacy, req.UserName, entity.IntentNewMovies) +
		"\n\n**请你基于以下外部参考资料，与用户展开对话**:\n" + external
	u.streamLLM(ctx, t, system, buildGatewayMessages(req.History, req.Text))
}
