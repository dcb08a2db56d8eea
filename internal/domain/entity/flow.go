package entity

// Flow 多轮交互所处的模式标签。
// 客户端在下一次请求中回传服务端报告的 flow/step，服务端不保存会话状态。
type Flow string

const (
	FlowChat     Flow = "chat"
	FlowGuidance Flow = "guidance"
	FlowGame     Flow = "game"
	FlowNews     Flow = "news"
	FlowDaily    Flow = "daily"
)

// Intent 单轮消息的分类标签，封闭枚举。
// 分流器（或模块点击映射表）每轮最多产生一个 Intent。
type Intent string

const (
	// 仙人指路（三步流程）
	IntentDailyHoroscope  Intent = "仙人指路_今日运势"
	IntentTarotReading    Intent = "仙人指路_塔罗启示"
	IntentDestinedRomance Intent = "仙人指路_正缘桃花"
	IntentCareerCompass   Intent = "仙人指路_事业罗盘"
	IntentKarmaReading    Intent = "仙人指路_窥探因果"
	IntentComprehensive   Intent = "仙人指路_综合占卜"

	// 游戏小摊（三步流程）
	IntentDrawGuess   Intent = "游戏小摊_你说我画"
	IntentTruthOrDare Intent = "游戏小摊_真心话大冒险"
	IntentStoryRelay  Intent = "游戏小摊_故事接龙"

	// 俗世趣闻（单轮）
	IntentFreshNews Intent = "俗世趣闻_新鲜事"
	IntentNewMovies Intent = "俗世趣闻_上映新片"
	IntentFantasy   Intent = "俗世趣闻_小道仙的幻想"

	// 道仙日常（单轮）
	IntentRecentWatch Intent = "道仙日常_最近看了"
	IntentRecentBuy   Intent = "道仙日常_最近买了"
	IntentGrudgeBook  Intent = "道仙日常_记仇小本本"
	IntentLifeScene   Intent = "道仙日常_随便聊聊"

	// 直接聊天（单轮固定话术）
	IntentEitherOr   Intent = "直接聊天_二选一"
	IntentLazyMind   Intent = "直接聊天_懒人思维"
	IntentMockRefuse Intent = "直接聊天_嘲讽拒绝"

	// 兜底：开放式闲聊
	IntentChitChat Intent = "闲聊"
)

var intentFlows = map[Intent]Flow{
	IntentDailyHoroscope:  FlowGuidance,
	IntentTarotReading:    FlowGuidance,
	IntentDestinedRomance: FlowGuidance,
	IntentCareerCompass:   FlowGuidance,
	IntentKarmaReading:    FlowGuidance,
	IntentComprehensive:   FlowGuidance,
	IntentDrawGuess:       FlowGame,
	IntentTruthOrDare:     FlowGame,
	IntentStoryRelay:      FlowGame,
	IntentFreshNews:       FlowNews,
	IntentNewMovies:       FlowNews,
	IntentFantasy:         FlowNews,
	IntentRecentWatch:     FlowDaily,
	IntentRecentBuy:       FlowDaily,
	IntentGrudgeBook:      FlowDaily,
	IntentLifeScene:       FlowDaily,
	IntentEitherOr:        FlowChat,
	IntentLazyMind:        FlowChat,
	IntentMockRefuse:      FlowChat,
	IntentChitChat:        FlowChat,
}

// ParseIntent 把客户端回传的标签还原为已知 Intent。
// 未知标签返回 false，调用方应按闲聊处理。
func ParseIntent(s string) (Intent, bool) {
	i := Intent(s)
	_, ok := intentFlows[i]
	return i, ok
}

// Flow 返回该意图所属的流程家族
func (i Intent) Flow() Flow {
	if f, ok := intentFlows[i]; ok {
		return f
	}
	return FlowChat
}

// Known 该标签是否在封闭枚举内
func (i Intent) Known() bool {
	_, ok := intentFlows[i]
	return ok
}

// Stepped 该意图是否驱动多步流程（仙人指路与游戏小摊为固定三步）
func (i Intent) Stepped() bool {
	f := i.Flow()
	return f == FlowGuidance || f == FlowGame
}

// FinalStep 多步流程的终止步序号（0 起始，共三步）
const FinalStep = 2
