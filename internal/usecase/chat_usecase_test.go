package usecase

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/7-cybergracegrace/our-yaojin-ai/internal/character"
	"github.com/7-cybergracegrace/our-yaojin-ai/internal/domain"
	"github.com/7-cybergracegrace/our-yaojin-ai/internal/domain/entity"
)

// fakeGateway 可配置的网关假实现
type fakeGateway struct {
	completeReply string
	completeErr   error
	streamChunks  []entity.GatewayChunk
	streamErr     error
	imageURL      string
	imageErr      error
	visionReply   string
	completeCalls int
}

func (g *fakeGateway) Complete(ctx context.Context, system string, messages []domain.GatewayMessage) (string, error) {
	g.completeCalls++
	return g.completeReply, g.completeErr
}

func (g *fakeGateway) CompleteStream(ctx context.Context, system string, messages []domain.GatewayMessage) (<-chan entity.GatewayChunk, error) {
	if g.streamErr != nil {
		return nil, g.streamErr
	}
	out := make(chan entity.GatewayChunk, len(g.streamChunks)+1)
	for _, c := range g.streamChunks {
		out <- c
	}
	out <- entity.GatewayChunk{IsEnd: true}
	close(out)
	return out, nil
}

func (g *fakeGateway) GenerateImage(ctx context.Context, prompt string) (string, error) {
	return g.imageURL, g.imageErr
}

func (g *fakeGateway) AnalyzeImage(ctx context.Context, imageBase64, mimeType, prompt string) (string, error) {
	return g.visionReply, nil
}

type fakeTrends struct {
	items []entity.TrendItem
	err   error
}

func (f *fakeTrends) Fetch(ctx context.Context) ([]entity.TrendItem, error) { return f.items, f.err }

type fakeMovies struct {
	items []entity.Movie
	err   error
}

func (f *fakeMovies) Fetch(ctx context.Context) ([]entity.Movie, error) { return f.items, f.err }

func newTestUsecase(t *testing.T, gw *fakeGateway, trends domain.TrendSource, movies domain.MovieSource) domain.ChatUsecase {
	t.Helper()
	sheet, err := character.Load()
	if err != nil {
		t.Fatalf("failed to load character sheet: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	triage, err := NewTriage(gw, sheet, logger)
	if err != nil {
		t.Fatalf("NewTriage: %v", err)
	}
	if trends == nil {
		trends = &fakeTrends{}
	}
	if movies == nil {
		movies = &fakeMovies{}
	}
	return NewChatUsecase(gw, trends, movies, sheet, triage, logger)
}

func collect(t *testing.T, u domain.ChatUsecase, req *domain.ChatRequest) []entity.StreamChunk {
	t.Helper()
	ch, err := u.ChatStream(context.Background(), req)
	if err != nil {
		t.Fatalf("ChatStream: %v", err)
	}
	var chunks []entity.StreamChunk
	for c := range ch {
		chunks = append(chunks, c)
	}
	if len(chunks) == 0 {
		t.Fatal("stream produced no chunks")
	}
	last := chunks[len(chunks)-1]
	if last.IsLoading {
		t.Error("final chunk must have isLoading=false")
	}
	return chunks
}

func allText(chunks []entity.StreamChunk) string {
	var sb strings.Builder
	for _, c := range chunks {
		sb.WriteString(c.Text)
	}
	return sb.String()
}

func TestChatStreamRejectsEmptyInput(t *testing.T) {
	u := newTestUsecase(t, &fakeGateway{}, nil, nil)
	_, err := u.ChatStream(context.Background(), &domain.ChatRequest{})
	if err == nil {
		t.Fatal("empty request should be rejected")
	}
	if !domain.IsInvalidInput(err) {
		t.Errorf("error should be invalid input, got %v", err)
	}
}

func TestChatStreamHoroscopeThreeSteps(t *testing.T) {
	intent := entity.IntentDailyHoroscope

	// 第一轮：分流器命中今日运势，发出索取星座的话术
	gw := &fakeGateway{completeReply: `{"intent": "仙人指路_今日运势"}`}
	u := newTestUsecase(t, gw, nil, nil)
	chunks := collect(t, u, &domain.ChatRequest{Text: "看看我今天运势如何"})
	if gw.completeCalls != 1 {
		t.Errorf("first turn should call triage once, got %d calls", gw.completeCalls)
	}
	if !strings.Contains(allText(chunks), "星座") {
		t.Errorf("step 0 should ask for zodiac sign, got %q", allText(chunks))
	}
	last := chunks[len(chunks)-1]
	if last.Flow != string(intent) || last.Step != 1 {
		t.Fatalf("step 0 report = %s/%d, want %s/1", last.Flow, last.Step, intent)
	}

	// 第二轮：报上星座，过渡确认要复述用户的输入，且不再走分流
	gw = &fakeGateway{}
	u = newTestUsecase(t, gw, nil, nil)
	chunks = collect(t, u, &domain.ChatRequest{
		Text:        "狮子座",
		CurrentFlow: string(intent),
		CurrentStep: 1,
	})
	if gw.completeCalls != 0 {
		t.Errorf("mid-flow turn must not call triage, got %d calls", gw.completeCalls)
	}
	if !strings.Contains(allText(chunks), "狮子座") {
		t.Errorf("acknowledge should echo the sign, got %q", allText(chunks))
	}
	last = chunks[len(chunks)-1]
	if last.Flow != string(intent) || last.Step != 2 {
		t.Fatalf("step 1 report = %s/%d, want %s/2", last.Flow, last.Step, intent)
	}

	// 第三轮：交付结果，运势文本必须含上一步报的星座，之后回归闲聊
	chunks = collect(t, u, &domain.ChatRequest{
		Text: "快说",
		History: []entity.Message{
			{ID: "1", Sender: entity.SenderUser, Text: "看看我今天运势如何"},
			{ID: "2", Sender: entity.SenderBot, Text: "报上你的星座"},
			{ID: "3", Sender: entity.SenderUser, Text: "狮子座"},
			{ID: "4", Sender: entity.SenderBot, Text: "稍安勿躁"},
		},
		CurrentFlow: string(intent),
		CurrentStep: 2,
	})
	if !strings.Contains(allText(chunks), "狮子座") {
		t.Errorf("resolution should contain the sign, got %q", allText(chunks))
	}
	last = chunks[len(chunks)-1]
	if last.Flow != string(entity.IntentChitChat) || last.Step != 0 {
		t.Errorf("terminal report = %s/%d, want 闲聊/0", last.Flow, last.Step)
	}
}

func TestChatStreamHoroscopeRejectsBadSign(t *testing.T) {
	intent := entity.IntentDailyHoroscope
	u := newTestUsecase(t, &fakeGateway{}, nil, nil)
	chunks := collect(t, u, &domain.ChatRequest{
		Text:        "我属猫的",
		CurrentFlow: string(intent),
		CurrentStep: 1,
	})
	last := chunks[len(chunks)-1]
	if last.Flow != string(intent) || last.Step != 1 {
		t.Errorf("bad sign should keep the flow at step 1, got %s/%d", last.Flow, last.Step)
	}
}

func TestChatStreamModuleClickStartsGame(t *testing.T) {
	// 点击模块即使正处于别的流程中也强制开新局
	sheet, _ := character.Load()
	u := newTestUsecase(t, &fakeGateway{}, nil, nil)
	chunks := collect(t, u, &domain.ChatRequest{
		ClickedModule: "game",
		ClickedOption: "真心话大冒险",
		CurrentFlow:   string(entity.IntentTarotReading),
		CurrentStep:   2,
	})
	text := allText(chunks)
	if !strings.Contains(text, sheet.Games[entity.IntentTruthOrDare].Rule) {
		t.Errorf("game opening must contain the rule text, got %q", text)
	}
	last := chunks[len(chunks)-1]
	if last.Flow != string(entity.IntentTruthOrDare) || last.Step != 1 {
		t.Errorf("report = %s/%d, want %s/1", last.Flow, last.Step, entity.IntentTruthOrDare)
	}
}

func TestChatStreamModuleIntro(t *testing.T) {
	u := newTestUsecase(t, &fakeGateway{}, nil, nil)
	chunks := collect(t, u, &domain.ChatRequest{ClickedModule: "news"})
	last := chunks[len(chunks)-1]
	if len(last.QuickReplies) != 3 {
		t.Errorf("news intro should offer 3 quick replies, got %v", last.QuickReplies)
	}
}

func TestChatStreamFantasyIsVerbatim(t *testing.T) {
	sheet, _ := character.Load()
	u := newTestUsecase(t, &fakeGateway{}, nil, nil)
	chunks := collect(t, u, &domain.ChatRequest{
		ClickedModule: "news",
		ClickedOption: "小道仙的幻想",
	})
	text := allText(chunks)
	for _, story := range sheet.Pools.FantasyStories {
		if text == story {
			return
		}
	}
	t.Errorf("fantasy reply %q is not a member of the story pool", text)
}

func TestChatStreamRateLimitError(t *testing.T) {
	gw := &fakeGateway{
		completeReply: `{"intent": "闲聊"}`,
		streamErr:     errors.New("upstream returned 429: rate limit exceeded"),
	}
	u := newTestUsecase(t, gw, nil, nil)
	chunks := collect(t, u, &domain.ChatRequest{Text: "你好啊"})
	last := chunks[len(chunks)-1]
	if last.ErrorType != entity.ErrorTypeRateLimit {
		t.Errorf("errorType = %q, want %q", last.ErrorType, entity.ErrorTypeRateLimit)
	}
}

func TestChatStreamMidStreamError(t *testing.T) {
	gw := &fakeGateway{
		completeReply: `{"intent": "闲聊"}`,
		streamChunks: []entity.GatewayChunk{
			{Text: "本道仙掐指"},
			{Error: "server error: upstream stream stalled", IsEnd: true},
		},
	}
	u := newTestUsecase(t, gw, nil, nil)
	chunks := collect(t, u, &domain.ChatRequest{Text: "你好啊"})
	if !strings.Contains(allText(chunks), "本道仙掐指") {
		t.Error("text before the failure should still be delivered")
	}
	last := chunks[len(chunks)-1]
	if last.ErrorType != entity.ErrorTypeServer {
		t.Errorf("errorType = %q, want %q", last.ErrorType, entity.ErrorTypeServer)
	}
}

func TestChatStreamTrendFetchFailureIsGraceful(t *testing.T) {
	u := newTestUsecase(t, &fakeGateway{}, &fakeTrends{err: errors.New("cookie expired")}, nil)
	chunks := collect(t, u, &domain.ChatRequest{
		ClickedModule: "news",
		ClickedOption: "新鲜事",
	})
	last := chunks[len(chunks)-1]
	if last.ErrorType != "" {
		t.Errorf("collaborator failure should not surface an errorType, got %q", last.ErrorType)
	}
	if allText(chunks) == "" {
		t.Error("should apologize in persona voice instead of empty reply")
	}
}

func TestChatStreamDrawing(t *testing.T) {
	gw := &fakeGateway{imageURL: "https://img.example/draw.png"}
	u := newTestUsecase(t, gw, nil, nil)
	chunks := collect(t, u, &domain.ChatRequest{
		Text:        "画一只踩着祥云的橘猫",
		CurrentFlow: string(entity.IntentDrawGuess),
		CurrentStep: 1,
	})
	last := chunks[len(chunks)-1]
	if last.GeneratedImageURL != "https://img.example/draw.png" {
		t.Errorf("generatedImageUrl = %q", last.GeneratedImageURL)
	}
	if !strings.Contains(last.GeneratedImagePrompt, "橘猫") {
		t.Errorf("generatedImagePrompt should carry the description, got %q", last.GeneratedImagePrompt)
	}
	if last.Flow != string(entity.IntentDrawGuess) || last.Step != 2 {
		t.Errorf("report = %s/%d, want %s/2", last.Flow, last.Step, entity.IntentDrawGuess)
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want entity.ErrorType
	}{
		{name: "安全拦截", err: errors.New("blocked by SAFETY filter"), want: entity.ErrorTypeSafety},
		{name: "配额", err: errors.New("quota exhausted"), want: entity.ErrorTypeRateLimit},
		{name: "429", err: errors.New("upstream returned 429"), want: entity.ErrorTypeRateLimit},
		{name: "限速字样", err: errors.New("Rate Limit reached"), want: entity.ErrorTypeRateLimit},
		{name: "500", err: errors.New("upstream returned 500: boom"), want: entity.ErrorTypeServer},
		{name: "503", err: errors.New("503 service unavailable"), want: entity.ErrorTypeServer},
		{name: "其他", err: errors.New("connection reset"), want: entity.ErrorTypeUnknown},
		{name: "空错误", err: nil, want: entity.ErrorTypeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyError(tt.err); got != tt.want {
				t.Errorf("classifyError(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}
