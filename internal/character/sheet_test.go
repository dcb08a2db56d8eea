package character

import (
	"strings"
	"testing"

	"github.com/7-cybergracegrace/our-yaojin-ai/internal/domain/entity"
)

func TestLoad(t *testing.T) {
	s, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(s.Pools.TarotCards) < 10 {
		t.Errorf("tarot pool too small: %d", len(s.Pools.TarotCards))
	}
	if len(s.Pools.Questions) == 0 || len(s.Pools.StoryStarters) == 0 ||
		len(s.Pools.Reviews) == 0 || len(s.Pools.ShoppingItems) == 0 ||
		len(s.Pools.Grudges) == 0 || len(s.Pools.LifeScenes) == 0 ||
		len(s.Pools.FantasyStories) == 0 {
		t.Error("all content pools must be non-empty")
	}
	if len(s.TriageRules) == 0 {
		t.Fatal("triage rules must not be empty")
	}

	// 每条分流规则的意图都必须在封闭枚举内
	for _, rule := range s.TriageRules {
		if _, ok := entity.ParseIntent(rule.Intent); !ok {
			t.Errorf("triage rule references unknown intent %q", rule.Intent)
		}
	}
}

func TestGuidanceFlowsComplete(t *testing.T) {
	s, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	for intent, flow := range s.Guidance {
		if flow.Prompt == "" {
			t.Errorf("%s: missing prompt", intent)
		}
		if !strings.Contains(flow.Acknowledge, "{userInput}") {
			t.Errorf("%s: acknowledge must carry the {userInput} placeholder", intent)
		}
		switch flow.Resolve.Kind {
		case ResolveTemplate:
			if flow.Resolve.Template == "" {
				t.Errorf("%s: template resolution without template", intent)
			}
		case ResolveTarot:
			if flow.Resolve.Cards <= 0 {
				t.Errorf("%s: tarot resolution without card count", intent)
			}
			if !strings.Contains(flow.Resolve.Prompt, "{cards}") {
				t.Errorf("%s: tarot prompt must carry the {cards} placeholder", intent)
			}
		default:
			t.Errorf("%s: unknown resolution kind %q", intent, flow.Resolve.Kind)
		}
	}

	// 运势范文要能把星座代入
	horoscope := s.Guidance[entity.IntentDailyHoroscope]
	if !strings.Contains(horoscope.Resolve.Template, "{userInput}") {
		t.Error("horoscope template must carry the {userInput} placeholder")
	}
}

func TestIntentForModuleClick(t *testing.T) {
	tests := []struct {
		name   string
		module string
		option string
		want   entity.Intent
		wantOK bool
	}{
		{name: "游戏选项", module: "game", option: "故事接龙", want: entity.IntentStoryRelay, wantOK: true},
		{name: "占卜选项", module: "guidance", option: "窥探因果", want: entity.IntentKarmaReading, wantOK: true},
		{name: "未知选项落默认", module: "news", option: "没这个栏目", want: entity.IntentFreshNews, wantOK: true},
		{name: "未知模块", module: "shop", option: "随便", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := IntentForModuleClick(tt.module, tt.option)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("intent = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestModuleTableCoversAllSteppedIntents(t *testing.T) {
	// 四个模块的全部选项必须映射到正确的流程家族
	for module, flow := range map[string]entity.Flow{
		"guidance": entity.FlowGuidance,
		"game":     entity.FlowGame,
		"news":     entity.FlowNews,
		"daily":    entity.FlowDaily,
	} {
		for _, option := range ModuleOptions(module) {
			intent, ok := IntentForModuleClick(module, option)
			if !ok {
				t.Errorf("option %s/%s did not resolve", module, option)
				continue
			}
			if intent.Flow() != flow {
				t.Errorf("option %s/%s maps to %q of family %q, want %q", module, option, intent, intent.Flow(), flow)
			}
		}
	}
}

func TestNewsSubIntent(t *testing.T) {
	tests := []struct {
		text   string
		want   entity.Intent
		wantOK bool
	}{
		{text: "说说最近的新鲜事", want: entity.IntentFreshNews, wantOK: true},
		{text: "有什么上映新片推荐", want: entity.IntentNewMovies, wantOK: true},
		{text: "讲讲小道仙的幻想", want: entity.IntentFantasy, wantOK: true},
		{text: "随便聊聊天气", wantOK: false},
	}
	for _, tt := range tests {
		got, ok := NewsSubIntent(tt.text)
		if ok != tt.wantOK {
			t.Errorf("NewsSubIntent(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("NewsSubIntent(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestExtractZodiacSign(t *testing.T) {
	if got := ExtractZodiacSign("我是狮子座的，怎么了"); got != "狮子座" {
		t.Errorf("got %q", got)
	}
	if got := ExtractZodiacSign("我属猫"); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestDrawTarot(t *testing.T) {
	s, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cards := s.Pools.DrawTarot(3)
	if len(cards) != 3 {
		t.Fatalf("drew %d cards, want 3", len(cards))
	}
	for _, c := range cards {
		if c.Name == "" || c.Meaning == "" {
			t.Errorf("drew incomplete card: %+v", c)
		}
	}
}

func TestRandomQuestionByType(t *testing.T) {
	s, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for i := 0; i < 20; i++ {
		if q := s.Pools.RandomQuestion("dare"); q.Type != "dare" {
			t.Fatalf("asked for dare, got %q", q.Type)
		}
		if q := s.Pools.RandomQuestion("truth"); q.Type != "truth" {
			t.Fatalf("asked for truth, got %q", q.Type)
		}
	}
	// 未知类型在全池内随机，不报错
	if q := s.Pools.RandomQuestion("别的"); q.Content == "" {
		t.Error("unknown type should fall back to the whole pool")
	}
}
