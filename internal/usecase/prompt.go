package usecase

import (
	"fmt"
	"strings"

	"github.com/7-cybergracegrace/our-yaojin-ai/internal/character"
	"github.com/7-cybergracegrace/our-yaojin-ai/internal/domain"
	"github.com/7-cybergracegrace/our-yaojin-ai/internal/domain/entity"
)

// buildSystemInstruction 组装人设系统指令：人设卡 + 用户信息 + 当前模式说明。
func buildSystemInstruction(sheet *character.Sheet, intimacy entity.IntimacyLevel, userName string, intent entity.Intent) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "你是%s，%s\n", sheet.Persona.Name, sheet.Persona.Description)
	sb.WriteString("你的语言和行为必须严格遵守以下规则：\n")
	fmt.Fprintf(&sb, "- 亲密度规则: %s\n", sheet.Persona.IntimacyRules)
	sb.WriteString("- 当前用户信息:\n")
	fmt.Fprintf(&sb, "  - 用户昵称：%s\n", userName)
	fmt.Fprintf(&sb, "  - 你们的亲密度等级：%d (%s)\n", intimacy.Level, intimacy.Name)
	fmt.Fprintf(&sb, "  - 亲密度进度：%d%%\n", intimacy.Progress)
	fmt.Fprintf(&sb, "- 特殊能力: %s\n", strings.Join(sheet.Persona.SpecialAbilities, "、"))
	sb.WriteString("- 说话方式是现代的，不要使用古风或文言文。\n")

	sb.WriteString("\n---\n")
	switch intent.Flow() {
	case entity.FlowGuidance:
		sb.WriteString("**当前模式：仙人指路**\n用户正在向你寻求指引，你要以占卜者的口吻交付结果，神秘但不含糊。")
	case entity.FlowGame:
		sb.WriteString("**当前模式：游戏小摊**\n")
		sb.WriteString(sheet.GameIntro)
		sb.WriteString("\n### 游戏规则文档 ###\n")
		for _, game := range sheet.Games {
			fmt.Fprintf(&sb, "**%s:** %s\n", game.Name, game.Rule)
		}
	case entity.FlowNews:
		sb.WriteString("**当前模式：俗世趣闻**\n")
		sb.WriteString(sheet.NewsIntro)
		if sub, ok := sheet.NewsSubPrompts[intent]; ok {
			sb.WriteString("\n")
			sb.WriteString(sub)
		}
	case entity.FlowDaily:
		sb.WriteString("**当前模式：道仙日常**\n")
		sb.WriteString(sheet.DailyIntro)
	default:
		sb.WriteString("**当前模式：闲聊**\n这是你们的默认相处模式。根据用户的话题自由回应，自然地展现你的性格。")
		if directive, ok := sheet.ChatDirectives[intent]; ok {
			sb.WriteString("\n")
			sb.WriteString(directive)
		}
	}
	return sb.String()
}

// buildGatewayMessages 把客户端回传的历史与本轮输入转成网关消息序列
func buildGatewayMessages(history []entity.Message, text string) []domain.GatewayMessage {
	messages := make([]domain.GatewayMessage, 0, len(history)+1)
	for _, msg := range history {
		if msg.Text == "" || msg.Sender == entity.SenderNotification {
			continue
		}
		role := "assistant"
		if msg.Sender == entity.SenderUser {
			role = "user"
		}
		messages = append(messages, domain.GatewayMessage{Role: role, Content: msg.Text})
	}
	if text != "" {
		messages = append(messages, domain.GatewayMessage{Role: "user", Content: text})
	}
	return messages
}

// lastUserAnswer 找出历史中最近一条用户消息。
// 多步流程的终止步用它取回用户在上一步提供的信息。
func lastUserAnswer(history []entity.Message, fallback string) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Sender == entity.SenderUser && history[i].Text != "" {
			return history[i].Text
		}
	}
	return fallback
}
