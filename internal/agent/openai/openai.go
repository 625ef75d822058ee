package openai

import (
	"context"
	"errors"
	"os"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"symphony-copilot/internal/trace"
	"symphony-copilot/internal/types"
)

// OpenAIAssistant implements the Assistant interface using the OpenAI
// chat completions API
type OpenAIAssistant struct {
	client *goopenai.Client
	model  string
}

// NewOpenAIAssistant creates a new OpenAI-based assistant
func NewOpenAIAssistant(model string) *OpenAIAssistant {
	return &OpenAIAssistant{model: model}
}

// Complete sends the conversation to OpenAI and returns the raw
// assistant text
func (a *OpenAIAssistant) Complete(ctx context.Context, creq types.CompletionRequest) (types.CompletionResponse, error) {
	ctx, span := trace.StartSpan(ctx, "openai-api-call")
	defer span.End()

	if a.client == nil {
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return types.CompletionResponse{}, errors.New("OPENAI_API_KEY missing")
		}
		a.client = goopenai.NewClient(apiKey)
	}

	messages := make([]goopenai.ChatCompletionMessage, 0, len(creq.Messages)+1)
	if creq.System != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: creq.System,
		})
	}
	for _, m := range creq.Messages {
		role := m.Role
		// Tool results travel as user turns; protocol tool calls are
		// plain assistant text
		if role != "assistant" && role != "system" {
			role = goopenai.ChatMessageRoleUser
		}
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}

	resp, err := a.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       a.model,
		Messages:    messages,
		MaxTokens:   creq.MaxTokens,
		Temperature: creq.Temperature,
	})
	if err != nil {
		return types.CompletionResponse{}, err
	}

	if len(resp.Choices) == 0 {
		return types.CompletionResponse{}, errors.New("no choices")
	}

	return types.CompletionResponse{
		Text: strings.TrimSpace(resp.Choices[0].Message.Content),
	}, nil
}
