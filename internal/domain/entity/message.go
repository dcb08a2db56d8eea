package entity

// Sender 消息发送方
type Sender string

const (
	SenderUser         Sender = "user"
	SenderBot          Sender = "bot"
	SenderNotification Sender = "notification"
)

// ErrorType 流式响应中携带的错误分类
type ErrorType string

const (
	ErrorTypeRateLimit ErrorType = "rate_limit"
	ErrorTypeSafety    ErrorType = "safety"
	ErrorTypeServer    ErrorType = "server"
	ErrorTypeUnknown   ErrorType = "unknown"
)

// Message 对话中的一条消息。
// 历史消息由客户端在每次请求中回传，服务端不落盘。
type Message struct {
	ID            string         `json:"id"`
	Sender        Sender         `json:"sender"`
	Text          string         `json:"text"`
	Image         string         `json:"image,omitempty"`
	ImageBase64   string         `json:"imageBase64,omitempty"`
	ImageMimeType string         `json:"imageMimeType,omitempty"`
	IsLoading     bool           `json:"isLoading,omitempty"`
	QuickReplies  []string       `json:"quickReplies,omitempty"`
	Intimacy      *IntimacyLevel `json:"intimacy,omitempty"`
	Notification  string         `json:"notificationContent,omitempty"`
	ErrorType     ErrorType      `json:"errorType,omitempty"`
}

// StreamChunk 写给客户端的一行 NDJSON（部分 Message）。
// 每个请求的最后一个 chunk 必然 IsLoading == false。
type StreamChunk struct {
	Text                 string    `json:"text,omitempty"`
	IsLoading            bool      `json:"isLoading"`
	GeneratedImageURL    string    `json:"generatedImageUrl,omitempty"`
	GeneratedImagePrompt string    `json:"generatedImagePrompt,omitempty"`
	QuickReplies         []string  `json:"quickReplies,omitempty"`
	ErrorType            ErrorType `json:"errorType,omitempty"`
	Flow                 string    `json:"flow,omitempty"`
	Step                 int       `json:"step"`
}

// GatewayChunk 上游 LLM 网关返回的一块流式增量
type GatewayChunk struct {
	Text  string
	IsEnd bool
	Error string
}

// TrendItem 热搜条目（俗世趣闻的外部数据源）
type TrendItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Movie 正在上映的电影条目
type Movie struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Score string `json:"score"`
	Pic   string `json:"pic"`
}
