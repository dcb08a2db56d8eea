package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/7-cybergracegrace/our-yaojin-ai/internal/character"
	"github.com/7-cybergracegrace/our-yaojin-ai/internal/domain"
	"github.com/7-cybergracegrace/our-yaojin-ai/internal/domain/entity"
)

// Triage 意图分流器。把用户的自由输入交给大模型，
// 对照规则清单严格匹配为封闭枚举中的一个意图。
type Triage struct {
	gateway   domain.LLMGateway
	rulesJSON string
	logger    *slog.Logger
}

// NewTriage 创建分流器，规则清单序列化一次后复用
func NewTriage(gateway domain.LLMGateway, sheet *character.Sheet, logger *slog.Logger) (*Triage, error) {
	rules, err := sonic.MarshalIndent(sheet.TriageRules, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal triage rules: %w", err)
	}
	return &Triage{
		gateway:   gateway,
		rulesJSON: string(rules),
		logger:    logger,
	}, nil
}

// Classify 对单条输入做意图分类。
// 分流失败不应拖垮对话，任何异常都回退为闲聊，从不返回错误。
func (t *Triage) Classify(ctx context.Context, text, userName string, intimacy entity.IntimacyLevel) entity.Intent {
	prompt := t.buildPrompt(text, userName, intimacy)

	raw, err := t.gateway.Complete(ctx, "", []domain.GatewayMessage{
		{Role: "user", Content: prompt},
	})
	if err != nil {
		t.logger.Warn("triage call failed, falling back to chit-chat", "error", err)
		return entity.IntentChitChat
	}

	intent, ok := parseVerdict(raw)
	if !ok {
		t.logger.Warn("triage verdict unusable, falling back to chit-chat", "raw_length", len(raw))
		return entity.IntentChitChat
	}
	return intent
}

func (t *Triage) buildPrompt(text, userName string, intimacy entity.IntimacyLevel) string {
	var sb strings.Builder
	sb.WriteString("# 指令\n")
	sb.WriteString("你是一个对话分流助手。根据用户输入，从以下分流规则中严格匹配一条，")
	sb.WriteString("仅输出 JSON 对象 {\"intent\": \"<规则中的intent值>\"}，不要输出任何其他文字。\n")
	sb.WriteString("# 当前用户信息\n")
	fmt.Fprintf(&sb, "- 昵称: %s\n- 亲密度等级: %d (%s)\n", userName, intimacy.Level, intimacy.Name)
	sb.WriteString("# 分流规则\n```json\n")
	sb.WriteString(t.rulesJSON)
	sb.WriteString("\n```\n# 用户输入\n")
	fmt.Fprintf(&sb, "%q\n", text)
	sb.WriteString("# 你的输出:\n")
	return sb.String()
}

type triageVerdict struct {
	Intent string `json:"intent"`
}

// parseVerdict 从模型输出中解析意图。
// 容忍代码围栏与前后杂音；解析不出或意图不在枚举内返回 false。
func parseVerdict(raw string) (entity.Intent, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	// 取第一个 { 到最后一个 } 之间的部分，模型偶尔会加一句废话
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}

	var v triageVerdict
	if err := sonic.UnmarshalString(s[start:end+1], &v); err != nil {
		return "", false
	}
	intent, ok := entity.ParseIntent(v.Intent)
	if !ok {
		return "", false
	}
	return intent, true
}
