package agent

import (
	"context"
	"encoding/json"
	"strings"

	"symphony-copilot/internal/logger"
	"symphony-copilot/internal/types"
)

// ExtractToolCall tries to locate a tool-call JSON object in model
// output. The protocol asks the model for a bare {"tool": ..., "args":
// ...} message, but fenced or prefixed output is tolerated. Returns
// false when the text is a final answer rather than a tool call.
func ExtractToolCall(ctx context.Context, text string) (types.ToolCall, bool) {
	t := strings.TrimSpace(text)
	t = stripFence(t)

	// If it already looks like a JSON object, unmarshal directly
	if strings.HasPrefix(t, "{") {
		if call, ok := unmarshalToolCall(t); ok {
			logger.Debug(ctx, "Parsed tool call", "tool", call.Tool)
			return call, true
		}
	}

	// Search for first '{' and last '}' (simple)
	start := strings.Index(t, "{")
	end := strings.LastIndex(t, "}")
	if start >= 0 && end > start {
		if call, ok := unmarshalToolCall(t[start : end+1]); ok {
			logger.Debug(ctx, "Parsed tool call from extracted JSON", "tool", call.Tool)
			return call, true
		}
	}

	return types.ToolCall{}, false
}

func unmarshalToolCall(s string) (types.ToolCall, bool) {
	var call types.ToolCall
	if err := json.Unmarshal([]byte(s), &call); err != nil {
		return types.ToolCall{}, false
	}
	if strings.TrimSpace(call.Tool) == "" {
		return types.ToolCall{}, false
	}
	if call.Args == nil {
		call.Args = map[string]any{}
	}
	return call, true
}

// stripFence removes a surrounding markdown code fence if present.
func stripFence(t string) string {
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```json")
	t = strings.TrimPrefix(t, "```")
	if i := strings.LastIndex(t, "```"); i >= 0 {
		t = t[:i]
	}
	return strings.TrimSpace(t)
}
