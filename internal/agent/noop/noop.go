package noop

import (
	"context"

	"symphony-copilot/internal/logger"
	"symphony-copilot/internal/types"
)

// NoopAssistant is a fallback assistant used when no LLM provider is
// configured
type NoopAssistant struct{}

// NewNoopAssistant returns an assistant that never calls tools and
// always answers with a configuration hint
func NewNoopAssistant() *NoopAssistant {
	return &NoopAssistant{}
}

// Complete implements the Assistant interface
func (a *NoopAssistant) Complete(ctx context.Context, req types.CompletionRequest) (types.CompletionResponse, error) {
	logger.Debug(ctx, "Noop assistant called", "messages", len(req.Messages))
	return types.CompletionResponse{
		Text: "No LLM provider is configured. Set llm.provider to OPENAI or CLAUDE in config.yaml to enable the copilot.",
	}, nil
}
