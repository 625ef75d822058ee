package agent

import (
	"context"

	"symphony-copilot/internal/agent/agentobs"
	"symphony-copilot/internal/agent/claude"
	"symphony-copilot/internal/agent/noop"
	"symphony-copilot/internal/agent/openai"
	"symphony-copilot/internal/interfaces"
	"symphony-copilot/internal/logger"
)

// NewAssistant builds the configured assistant provider wrapped with
// observability middleware.
func NewAssistant(ctx context.Context, provider, model string) interfaces.Assistant {
	var assistant interfaces.Assistant

	switch provider {
	case "OPENAI":
		assistant = openai.NewOpenAIAssistant(model)
	case "CLAUDE":
		assistant = claude.NewClaudeAssistant(model)
	default:
		assistant = noop.NewNoopAssistant()
		logger.Warn(ctx, "No LLM provider configured - using noop assistant")
	}

	return agentobs.Wrap(assistant)
}
