// Package agent runs the copilot conversation loop: model output is
// scanned for tool calls, tools are dispatched through the registry,
// and results are fed back until the model produces a final answer.
package agent

import (
	"context"
	"errors"
	"fmt"

	"symphony-copilot/internal/interfaces"
	"symphony-copilot/internal/logger"
	"symphony-copilot/internal/prompts"
	"symphony-copilot/internal/tools"
	"symphony-copilot/internal/trace"
	"symphony-copilot/internal/types"
)

// Params configures the agent loop.
type Params struct {
	MaxTurns    int
	MaxTokens   int
	Temperature float32
}

// Agent holds one conversation with the assistant model.
type Agent struct {
	assistant interfaces.Assistant
	invoker   interfaces.Invoker
	p         Params
	history   []types.Message
}

// New creates an agent over the given assistant and tool registry.
func New(assistant interfaces.Assistant, invoker interfaces.Invoker, p Params) *Agent {
	if p.MaxTurns <= 0 {
		p.MaxTurns = 8
	}
	return &Agent{
		assistant: assistant,
		invoker:   invoker,
		p:         p,
	}
}

// History returns the conversation so far.
func (a *Agent) History() []types.Message {
	return a.history
}

// Reset clears the conversation history.
func (a *Agent) Reset() {
	a.history = nil
}

// Run handles one user turn. Tool calls requested by the model are
// executed and fed back until the model answers in prose or the turn
// budget runs out.
func (a *Agent) Run(ctx context.Context, userInput string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "agent.Run")
	defer span.End()

	a.history = append(a.history, types.Message{Role: "user", Content: userInput})

	for turn := 0; turn < a.p.MaxTurns; turn++ {
		resp, err := a.assistant.Complete(ctx, types.CompletionRequest{
			System:      systemPrompt(),
			Messages:    a.history,
			MaxTokens:   a.p.MaxTokens,
			Temperature: a.p.Temperature,
		})
		if err != nil {
			return "", fmt.Errorf("assistant completion failed: %w", err)
		}

		a.history = append(a.history, types.Message{Role: "assistant", Content: resp.Text})

		call, ok := ExtractToolCall(ctx, resp.Text)
		if !ok {
			// No tool call means the model answered the user.
			return resp.Text, nil
		}

		logger.Info(ctx, "Executing tool call", "tool", call.Tool, "turn", turn)

		result, err := a.invoker.Invoke(ctx, call.Tool, call.Args)
		if err != nil {
			if errors.Is(err, tools.ErrUnknownTool) {
				// Feed the mistake back so the model can correct itself.
				result = types.ToolResult{Content: err.Error(), IsError: true}
			} else {
				return "", fmt.Errorf("tool %s failed: %w", call.Tool, err)
			}
		}

		a.history = append(a.history, types.Message{
			Role:    "tool",
			Content: toolFeedback(call.Tool, result),
		})
	}

	logger.Warn(ctx, "Agent turn budget exhausted", "max_turns", a.p.MaxTurns)
	return fmt.Sprintf("Stopped after %d tool calls without a final answer. Ask me to continue if you want me to keep going.", a.p.MaxTurns), nil
}

func systemPrompt() string {
	return prompts.System() + "\n\n" + prompts.FormatGuide()
}

func toolFeedback(tool string, result types.ToolResult) string {
	if result.IsError {
		return fmt.Sprintf("Tool %s failed: %s", tool, result.Content)
	}
	return fmt.Sprintf("Tool %s result:\n%s", tool, result.Content)
}
