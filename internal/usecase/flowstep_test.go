package usecase

import (
	"testing"

	"github.com/7-cybergracegrace/our-yaojin-ai/internal/domain"
	"github.com/7-cybergracegrace/our-yaojin-ai/internal/domain/entity"
)

func TestPlanTurnModuleClick(t *testing.T) {
	tests := []struct {
		name       string
		module     string
		option     string
		wantIntent entity.Intent
		wantFlow   string
		wantStep   int
	}{
		{
			name:       "点击游戏选项进入流程第一步",
			module:     "game",
			option:     "真心话大冒险",
			wantIntent: entity.IntentTruthOrDare,
			wantFlow:   string(entity.IntentTruthOrDare),
			wantStep:   1,
		},
		{
			name:       "点击占卜选项",
			module:     "guidance",
			option:     "塔罗启示",
			wantIntent: entity.IntentTarotReading,
			wantFlow:   string(entity.IntentTarotReading),
			wantStep:   1,
		},
		{
			name:       "点击单轮选项回报家族标签",
			module:     "news",
			option:     "新鲜事",
			wantIntent: entity.IntentFreshNews,
			wantFlow:   string(entity.FlowNews),
			wantStep:   0,
		},
		{
			name:       "未知选项落到模块默认意图",
			module:     "daily",
			option:     "不存在的选项",
			wantIntent: entity.IntentLifeScene,
			wantFlow:   string(entity.FlowDaily),
			wantStep:   0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := PlanTurn(&domain.ChatRequest{
				ClickedModule: tt.module,
				ClickedOption: tt.option,
			})
			if plan.Intent != tt.wantIntent {
				t.Errorf("intent = %q, want %q", plan.Intent, tt.wantIntent)
			}
			if plan.Step != 0 {
				t.Errorf("dispatch step = %d, want 0", plan.Step)
			}
			if plan.ReportFlow != tt.wantFlow || plan.ReportStep != tt.wantStep {
				t.Errorf("report = %s/%d, want %s/%d", plan.ReportFlow, plan.ReportStep, tt.wantFlow, tt.wantStep)
			}
		})
	}
}

func TestPlanTurnModuleClickResetsFlow(t *testing.T) {
	// 流程进行到一半点了模块，强制重置到新流程第一步
	plan := PlanTurn(&domain.ChatRequest{
		CurrentFlow:   string(entity.IntentTarotReading),
		CurrentStep:   2,
		ClickedModule: "game",
		ClickedOption: "你说我画",
	})
	if plan.Intent != entity.IntentDrawGuess || plan.Step != 0 {
		t.Errorf("plan = %q step %d, want %q step 0", plan.Intent, plan.Step, entity.IntentDrawGuess)
	}
	if plan.ReportStep != 1 {
		t.Errorf("report step = %d, want 1", plan.ReportStep)
	}
}

func TestPlanTurnModuleIntro(t *testing.T) {
	plan := PlanTurn(&domain.ChatRequest{ClickedModule: "game"})
	if plan.ModuleIntro != "game" {
		t.Fatalf("ModuleIntro = %q, want game", plan.ModuleIntro)
	}
	if plan.ReportFlow != string(entity.FlowGame) || plan.ReportStep != 0 {
		t.Errorf("report = %s/%d, want game/0", plan.ReportFlow, plan.ReportStep)
	}
}

func TestPlanTurnMidFlow(t *testing.T) {
	// 第一步之后的往返：跳过分流，按回传步数调度
	plan := PlanTurn(&domain.ChatRequest{
		Text:        "狮子座",
		CurrentFlow: string(entity.IntentDailyHoroscope),
		CurrentStep: 1,
	})
	if plan.NeedTriage {
		t.Fatal("mid-flow turn should not need triage")
	}
	if plan.Intent != entity.IntentDailyHoroscope || plan.Step != 1 {
		t.Errorf("plan = %q step %d", plan.Intent, plan.Step)
	}
	if plan.ReportFlow != string(entity.IntentDailyHoroscope) || plan.ReportStep != 2 {
		t.Errorf("report = %s/%d, want %s/2", plan.ReportFlow, plan.ReportStep, entity.IntentDailyHoroscope)
	}
}

func TestPlanTurnTerminalStepReturnsToChat(t *testing.T) {
	plan := PlanTurn(&domain.ChatRequest{
		Text:        "然后呢",
		CurrentFlow: string(entity.IntentDailyHoroscope),
		CurrentStep: 2,
	})
	if plan.Step != entity.FinalStep {
		t.Fatalf("dispatch step = %d, want %d", plan.Step, entity.FinalStep)
	}
	if plan.ReportFlow != string(entity.IntentChitChat) || plan.ReportStep != 0 {
		t.Errorf("report = %s/%d, want 闲聊/0", plan.ReportFlow, plan.ReportStep)
	}
}

func TestPlanTurnStepOverrunClamped(t *testing.T) {
	plan := PlanTurn(&domain.ChatRequest{
		Text:        "还有吗",
		CurrentFlow: string(entity.IntentStoryRelay),
		CurrentStep: 7,
	})
	if plan.Step != entity.FinalStep {
		t.Errorf("overrun step should clamp to %d, got %d", entity.FinalStep, plan.Step)
	}
}

func TestPlanTurnUnknownFlowFallsBackToTriage(t *testing.T) {
	tests := []struct {
		name string
		req  *domain.ChatRequest
	}{
		{name: "空白请求", req: &domain.ChatRequest{Text: "你好"}},
		{name: "回传了未知流程标签", req: &domain.ChatRequest{Text: "嗯", CurrentFlow: "胡编的流程", CurrentStep: 1}},
		{name: "单轮意图不该带步数", req: &domain.ChatRequest{Text: "嗯", CurrentFlow: string(entity.IntentFreshNews), CurrentStep: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := PlanTurn(tt.req)
			if !plan.NeedTriage {
				t.Errorf("plan should require triage, got %+v", plan)
			}
		})
	}
}
