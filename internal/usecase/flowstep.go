package usecase

import (
	"github.com/7-cybergracegrace/our-yaojin-ai/internal/character"
	"github.com/7-cybergracegrace/our-yaojin-ai/internal/domain"
	"github.com/7-cybergracegrace/our-yaojin-ai/internal/domain/entity"
)

// TurnPlan 一轮对话的调度结果：执行哪个意图的哪一步，
// 以及本轮所有响应块上应回报给客户端的 flow/step。
type TurnPlan struct {
	Intent entity.Intent
	Step   int
	// NeedTriage 本轮需要先过分流器才能确定意图
	NeedTriage bool
	// ModuleIntro 非空时本轮只发该模块的开场介绍
	ModuleIntro string
	ReportFlow  string
	ReportStep  int
}

// PlanTurn 根据请求决定本轮的调度。
// 优先级：模块点击 > 进行中的多步流程 > 分流器。
// 点击模块会强制重置任何进行中的流程。
func PlanTurn(req *domain.ChatRequest) TurnPlan {
	if req.ClickedModule != "" {
		if req.ClickedOption == "" {
			if flow, ok := moduleFlow(req.ClickedModule); ok {
				return TurnPlan{
					ModuleIntro: req.ClickedModule,
					ReportFlow:  string(flow),
					ReportStep:  0,
				}
			}
			return planFor(entity.IntentChitChat, 0)
		}
		if intent, ok := character.IntentForModuleClick(req.ClickedModule, req.ClickedOption); ok {
			return planFor(intent, 0)
		}
		return planFor(entity.IntentChitChat, 0)
	}

	if req.CurrentStep > 0 {
		if intent, ok := entity.ParseIntent(req.CurrentFlow); ok && intent.Stepped() {
			step := req.CurrentStep
			if step > entity.FinalStep {
				step = entity.FinalStep
			}
			return planFor(intent, step)
		}
		// 回传的 flow/step 对不上号，当作新一轮处理
	}

	return TurnPlan{NeedTriage: true}
}

// planFor 填充调度与回报字段
func planFor(intent entity.Intent, step int) TurnPlan {
	flow, reportStep := reportFor(intent, step)
	return TurnPlan{
		Intent:     intent,
		Step:       step,
		ReportFlow: flow,
		ReportStep: reportStep,
	}
}

// reportFor 计算回报给客户端的 flow/step。
// 多步流程回报具体意图标签，让子流程在往返中存活；
// 终止步之后回归闲聊。单轮意图回报家族标签、步数归零。
func reportFor(intent entity.Intent, step int) (string, int) {
	if intent.Stepped() {
		if step < entity.FinalStep {
			return string(intent), step + 1
		}
		return string(entity.IntentChitChat), 0
	}
	return string(intent.Flow()), 0
}

func moduleFlow(module string) (entity.Flow, bool) {
	switch module {
	case "guidance":
		return entity.FlowGuidance, true
	case "game":
		return entity.FlowGame, true
	case "news":
		return entity.FlowNews, true
	case "daily":
		return entity.FlowDaily, true
	}
	return "", false
}
