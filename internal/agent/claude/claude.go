package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"symphony-copilot/internal/trace"
	"symphony-copilot/internal/types"
)

// ClaudeAssistant implements the Assistant interface using the
// Anthropic Claude API
type ClaudeAssistant struct {
	model    string
	endpoint string
}

// NewClaudeAssistant creates a new Claude-based assistant
func NewClaudeAssistant(model string) *ClaudeAssistant {
	// default messages endpoint (public Anthropic)
	endpoint := "https://api.anthropic.com/v1/messages"
	// If you use a proxy/bedrock/vertex, set endpoint via CLAUDE_API_ENDPOINT env var
	if ep := os.Getenv("CLAUDE_API_ENDPOINT"); ep != "" {
		endpoint = ep
	}
	return &ClaudeAssistant{model: model, endpoint: endpoint}
}

// Complete sends the conversation to Claude and returns the raw
// assistant text
func (a *ClaudeAssistant) Complete(ctx context.Context, creq types.CompletionRequest) (types.CompletionResponse, error) {
	ctx, span := trace.StartSpan(ctx, "claude-api-call")
	defer span.End()

	apiKey := os.Getenv("CLAUDE_API_KEY")
	if apiKey == "" {
		return types.CompletionResponse{}, errors.New("CLAUDE_API_KEY missing")
	}

	maxTokens := creq.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2048
	}

	messages := make([]map[string]string, 0, len(creq.Messages))
	for _, m := range creq.Messages {
		role := m.Role
		// Tool results travel as user turns on this API
		if role != "assistant" {
			role = "user"
		}
		messages = append(messages, map[string]string{"role": role, "content": m.Content})
	}

	reqBody := map[string]any{
		"model":       a.model,
		"system":      creq.System,
		"messages":    messages,
		"max_tokens":  maxTokens,
		"temperature": creq.Temperature,
	}

	bb, _ := json.Marshal(reqBody)
	req, _ := http.NewRequestWithContext(ctx, "POST", a.endpoint, bytes.NewReader(bb))
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return types.CompletionResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return types.CompletionResponse{}, fmt.Errorf("claude http %d: %s", resp.StatusCode, string(body))
	}

	var r struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return types.CompletionResponse{}, err
	}

	var sb strings.Builder
	for _, block := range r.Content {
		if block.Type == "" || block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return types.CompletionResponse{}, errors.New("empty claude response")
	}

	return types.CompletionResponse{Text: text}, nil
}
