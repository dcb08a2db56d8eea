package usecase

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/7-cybergracegrace/our-yaojin-ai/internal/character"
	"github.com/7-cybergracegrace/our-yaojin-ai/internal/domain"
	"github.com/7-cybergracegrace/our-yaojin-ai/internal/domain/entity"
)

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   entity.Intent
		wantOK bool
	}{
		{
			name:   "裸JSON",
			raw:    `{"intent": "仙人指路_塔罗启示"}`,
			want:   entity.IntentTarotReading,
			wantOK: true,
		},
		{
			name:   "带代码围栏",
			raw:    "```json\n{\"intent\": \"游戏小摊_你说我画\"}\n```",
			want:   entity.IntentDrawGuess,
			wantOK: true,
		},
		{
			name:   "前后带废话",
			raw:    "好的，我的判断是：{\"intent\": \"闲聊\"} 希望有帮助",
			want:   entity.IntentChitChat,
			wantOK: true,
		},
		{
			name:   "意图不在枚举内",
			raw:    `{"intent": "自创意图"}`,
			wantOK: false,
		},
		{
			name:   "纯废话",
			raw:    "我不知道该怎么分类",
			wantOK: false,
		},
		{
			name:   "空输出",
			raw:    "",
			wantOK: false,
		},
		{
			name:   "坏JSON",
			raw:    `{"intent": `,
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseVerdict(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("parseVerdict(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("parseVerdict(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

// triageGateway 只实现分流用到的 Complete，其余方法不会被调用
type triageGateway struct {
	reply string
	err   error
}

func (g *triageGateway) Complete(ctx context.Context, system string, messages []domain.GatewayMessage) (string, error) {
	return g.reply, g.err
}
func (g *triageGateway) CompleteStream(ctx context.Context, system string, messages []domain.GatewayMessage) (<-chan entity.GatewayChunk, error) {
	panic("not used")
}
func (g *triageGateway) GenerateImage(ctx context.Context, prompt string) (string, error) {
	panic("not used")
}
func (g *triageGateway) AnalyzeImage(ctx context.Context, imageBase64, mimeType, prompt string) (string, error) {
	panic("not used")
}

func TestTriageClassify(t *testing.T) {
	sheet, err := character.Load()
	if err != nil {
		t.Fatalf("failed to load character sheet: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	tests := []struct {
		name  string
		reply string
		err   error
		want  entity.Intent
	}{
		{
			name:  "命中规则",
			reply: `{"intent": "俗世趣闻_新鲜事"}`,
			want:  entity.IntentFreshNews,
		},
		{
			name: "网关失败回退闲聊",
			err:  errors.New("upstream returned 500"),
			want: entity.IntentChitChat,
		},
		{
			name:  "输出不可解析回退闲聊",
			reply: "这个问题很复杂",
			want:  entity.IntentChitChat,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			triage, err := NewTriage(&triageGateway{reply: tt.reply, err: tt.err}, sheet, logger)
			if err != nil {
				t.Fatalf("NewTriage: %v", err)
			}
			got := triage.Classify(context.Background(), "随便说点什么", "测试道友", entity.IntimacyFromProgress(0))
			if got != tt.want {
				t.Errorf("Classify = %q, want %q", got, tt.want)
			}
		})
	}
}
