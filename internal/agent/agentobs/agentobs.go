package agentobs

import (
	"context"

	"symphony-copilot/internal/interfaces"
	"symphony-copilot/internal/logger"
	"symphony-copilot/internal/trace"
	"symphony-copilot/internal/types"
)

// observableAssistant wraps an Assistant with observability (logging & tracing)
type observableAssistant struct {
	assistant interfaces.Assistant
}

// Compile-time interface check
var _ interfaces.Assistant = (*observableAssistant)(nil)

// Wrap wraps an assistant with observability middleware
func Wrap(assistant interfaces.Assistant) interfaces.Assistant {
	return &observableAssistant{
		assistant: assistant,
	}
}

// Complete requests a completion with observability
func (oa *observableAssistant) Complete(ctx context.Context, req types.CompletionRequest) (types.CompletionResponse, error) {
	ctx, span := trace.StartSpan(ctx, "assistant.Complete")
	defer span.End()

	// Use DebugSkip(1) to report the actual caller, not this middleware wrapper
	logger.DebugSkip(ctx, 1, "Requesting completion",
		"messages", len(req.Messages),
		"max_tokens", req.MaxTokens,
	)

	resp, err := oa.assistant.Complete(ctx, req)
	if err != nil {
		// Use ErrorWithErrSkip(1) to report the actual caller
		logger.ErrorWithErrSkip(ctx, 1, "Completion failed", err,
			"messages", len(req.Messages),
		)
		return types.CompletionResponse{}, err
	}

	logger.DebugSkip(ctx, 1, "Completion received",
		"text_length", len(resp.Text),
	)

	return resp, nil
}
