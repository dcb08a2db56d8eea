package llm

import (
	"bufio"
	"io"
	"log/slog"
	"strings"

	"github.com/bytedance/sonic"
)

// chatStreamChunk 上游流式响应的单个数据块（OpenAI 兼容格式）
type chatStreamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// Decoder 按行解码上游的流式响应。
// 兼容两种帧格式：带 "data: " 前缀的 SSE 行与裸 JSON 行；
// 网络层拆包由 bufio 缓冲吸收，半行会等到补齐后再解析。
type Decoder struct {
	reader *bufio.Reader
	logger *slog.Logger
}

// NewDecoder 创建流解码器
func NewDecoder(r io.Reader, logger *slog.Logger) *Decoder {
	return &Decoder{
		reader: bufio.NewReaderSize(r, 64*1024),
		logger: logger,
	}
}

// Next 返回下一个文本增量。
// 流正常结束（[DONE] 或 EOF）返回 io.EOF；格式损坏的行记日志后跳过。
func (d *Decoder) Next() (string, error) {
	for {
		line, err := d.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				// 末尾可能残留一个没有换行符的完整行
				if delta, ok := d.decodeLine(line); ok {
					return delta, nil
				}
				return "", io.EOF
			}
			return "", err
		}
		if delta, ok := d.decodeLine(line); ok {
			return delta, nil
		}
		if d.done(line) {
			return "", io.EOF
		}
	}
}

// done 判断该行是否为结束哨兵
func (d *Decoder) done(line string) bool {
	payload := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "data:"))
	return payload == "[DONE]"
}

// decodeLine 解析一行，返回文本增量。空行、哨兵行、坏行均返回 ok=false。
func (d *Decoder) decodeLine(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}
	payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
	if payload == "" || payload == "[DONE]" {
		return "", false
	}

	var chunk chatStreamChunk
	if err := sonic.UnmarshalString(payload, &chunk); err != nil {
		// 一行损坏不拖垮整条流
		d.logger.Warn("skipping malformed stream line", "error", err, "length", len(payload))
		return "", false
	}
	if len(chunk.Choices) == 0 {
		return "", false
	}
	return chunk.Choices[0].Delta.Content, true
}
