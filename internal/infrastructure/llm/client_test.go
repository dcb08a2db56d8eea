package llm

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/protocol"

	"github.com/7-cybergracegrace/our-yaojin-ai/internal/domain/entity"
)

// startPump 在管道上启动搬运协程，返回上游写端、输出 channel
// 与搬运结束信号。归还 resp 的时机与生产路径一致：pump 返回之后。
func startPump(t *testing.T, ctx context.Context, timeout time.Duration) (*io.PipeWriter, chan entity.GatewayChunk, chan struct{}) {
	t.Helper()
	pr, pw := io.Pipe()
	resp := protocol.AcquireResponse()
	resp.SetBodyStream(pr, -1)
	c := &Client{streamTimeout: timeout, logger: testLogger()}
	out := make(chan entity.GatewayChunk, 100)
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		c.pump(ctx, resp, NewDecoder(resp.BodyStream(), c.logger), out)
		protocol.ReleaseResponse(resp)
	}()
	return pw, out, finished
}

func TestPumpStallWatchdog(t *testing.T) {
	pw, out, finished := startPump(t, context.Background(), 50*time.Millisecond)

	go pw.Write([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"先\"}}]}\n"))
	first := <-out
	if first.Text != "先" {
		t.Fatalf("first chunk = %+v", first)
	}

	// 上游停滞，看门狗必须兜底收尾
	last := <-out
	if !last.IsEnd || !strings.Contains(last.Error, "stalled") {
		t.Fatalf("watchdog chunk = %+v", last)
	}
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("pump did not return after the watchdog fired")
	}

	// 流已关闭，停滞后恢复的上游写入要立刻失败而不是永远挂起
	wrote := make(chan error, 1)
	go func() {
		_, err := pw.Write([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"迟到\"}}]}\n"))
		wrote <- err
	}()
	select {
	case err := <-wrote:
		if err == nil {
			t.Error("write into a closed stream should fail")
		}
	case <-time.After(time.Second):
		t.Fatal("upstream writer still blocked, decode goroutine leaked")
	}
}

func TestPumpContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pw, out, finished := startPump(t, ctx, time.Hour)
	defer pw.Close()

	cancel()
	last := <-out
	if !last.IsEnd || last.Error == "" {
		t.Fatalf("cancellation chunk = %+v", last)
	}
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("pump did not return after cancellation")
	}
}

func TestPumpNormalEndOfStream(t *testing.T) {
	pw, out, finished := startPump(t, context.Background(), time.Hour)

	go func() {
		pw.Write([]byte(sampleStream))
		pw.Close()
	}()

	var texts []string
	for chunk := range outUntilEnd(t, out) {
		texts = append(texts, chunk.Text)
	}
	if got := strings.Join(texts, ""); got != "本道仙掐指一算" {
		t.Errorf("concatenated = %q", got)
	}
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("pump did not return after end of stream")
	}
}

// outUntilEnd 读到 IsEnd 块为止，带 Error 的结束块视为失败
func outUntilEnd(t *testing.T, out <-chan entity.GatewayChunk) <-chan entity.GatewayChunk {
	t.Helper()
	filtered := make(chan entity.GatewayChunk, 100)
	go func() {
		defer close(filtered)
		for chunk := range out {
			if chunk.IsEnd {
				if chunk.Error != "" {
					t.Errorf("stream ended with error %q", chunk.Error)
				}
				return
			}
			filtered <- chunk
		}
	}()
	return filtered
}
