package usecase

import (
	"strings"

	"github.com/7-cybergracegrace/our-yaojin-ai/internal/domain/entity"
)

// turn 单轮响应的发射器。给每个响应块盖上本轮的 flow/step 戳，
// 并保证通道关闭前最后一块 IsLoading 为 false。
type turn struct {
	out   chan<- entity.StreamChunk
	flow  string
	step  int
	final bool
}

func newTurn(out chan<- entity.StreamChunk) *turn {
	return &turn{out: out, flow: string(entity.IntentChitChat)}
}

// setReport 设定本轮回报给客户端的 flow/step
func (t *turn) setReport(flow string, step int) {
	t.flow = flow
	t.step = step
}

// send 发出一个响应块，自动盖上 flow/step 戳
func (t *turn) send(c entity.StreamChunk) {
	c.Flow = t.flow
	c.Step = t.step
	if !c.IsLoading {
		t.final = true
	}
	t.out <- c
}

// text 发出一段仍在加载中的文本增量
func (t *turn) text(s string) {
	t.send(entity.StreamChunk{Text: s, IsLoading: true})
}

// say 发出一段完整文本并结束本轮
func (t *turn) say(s string) {
	t.send(entity.StreamChunk{Text: s, IsLoading: false})
}

// fail 按错误文本归类后以错误块结束本轮
func (t *turn) fail(err error) {
	t.send(entity.StreamChunk{ErrorType: classifyError(err), IsLoading: false})
}

// finish 兜底收尾：若还没发过终止块，补一个空的
func (t *turn) finish() {
	if !t.final {
		t.send(entity.StreamChunk{IsLoading: false})
	}
}

// classifyError 按错误文本的关键字归类为对外的错误类型
func classifyError(err error) entity.ErrorType {
	if err == nil {
		return entity.ErrorTypeUnknown
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "safety"):
		return entity.ErrorTypeSafety
	case strings.Contains(msg, "quota"), strings.Contains(msg, "rate limit"), strings.Contains(msg, "429"):
		return entity.ErrorTypeRateLimit
	case strings.Contains(msg, "server error"), strings.Contains(msg, "500"), strings.Contains(msg, "503"):
		return entity.ErrorTypeServer
	default:
		return entity.ErrorTypeUnknown
	}
}
