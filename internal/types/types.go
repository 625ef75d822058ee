package types

// Candle is a single OHLCV bar from the market data provider.
type Candle struct {
	Ts                          int64
	Open, High, Low, Close, Vol float64
}

// Quote is a last-traded-price snapshot.
type Quote struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
	Ts     int64   `json:"ts"`
}

// Message is one turn of an agent conversation.
type Message struct {
	Role    string `json:"role"` // system, user, assistant, tool
	Content string `json:"content"`
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args"`
}

// ToolResult is the outcome of a tool invocation. Content carries the
// provider response verbatim; IsError marks provider or dispatch failures.
type ToolResult struct {
	Content string `json:"content"`
	IsError bool   `json:"is_error,omitempty"`
}

// CompletionRequest is what an Assistant provider receives.
type CompletionRequest struct {
	System      string
	Messages    []Message
	MaxTokens   int
	Temperature float32
}

// CompletionResponse is the raw assistant text for one completion.
type CompletionResponse struct {
	Text string
}

type NewsArticle struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Content     string `json:"content"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at"`
	Symbol      string `json:"symbol"`
}

type NewsSentiment struct {
	Symbol           string  `json:"symbol"`
	OverallSentiment string  `json:"overall_sentiment"` // POSITIVE, NEGATIVE, NEUTRAL
	OverallScore     float64 `json:"overall_score"`
	Confidence       float64 `json:"confidence"`
	Summary          string  `json:"summary"`
	ArticleCount     int     `json:"article_count"`
	Timestamp        int64   `json:"timestamp"`
}
