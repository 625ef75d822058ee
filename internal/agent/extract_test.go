package agent

import (
	"context"
	"testing"
)

func TestExtractToolCallBareJSON(t *testing.T) {
	call, ok := ExtractToolCall(context.Background(), `{"tool": "get_quote", "args": {"symbols": ["SPY"]}}`)
	if !ok {
		t.Fatal("expected tool call")
	}
	if call.Tool != "get_quote" {
		t.Errorf("tool = %s", call.Tool)
	}
	if _, exists := call.Args["symbols"]; !exists {
		t.Error("expected symbols arg")
	}
}

func TestExtractToolCallFenced(t *testing.T) {
	text := "```json\n{\"tool\": \"validate_symphony\", \"args\": {}}\n```"
	call, ok := ExtractToolCall(context.Background(), text)
	if !ok {
		t.Fatal("expected tool call")
	}
	if call.Tool != "validate_symphony" {
		t.Errorf("tool = %s", call.Tool)
	}
}

func TestExtractToolCallEmbedded(t *testing.T) {
	text := `Let me check the data first.
{"tool": "get_economic_series", "args": {"series_id": "UNRATE"}}`
	call, ok := ExtractToolCall(context.Background(), text)
	if !ok {
		t.Fatal("expected tool call")
	}
	if call.Tool != "get_economic_series" {
		t.Errorf("tool = %s", call.Tool)
	}
}

func TestExtractToolCallMissingArgs(t *testing.T) {
	call, ok := ExtractToolCall(context.Background(), `{"tool": "list_symphonies"}`)
	if !ok {
		t.Fatal("expected tool call")
	}
	if call.Args == nil {
		t.Error("args should default to empty map")
	}
}

func TestExtractToolCallProse(t *testing.T) {
	texts := []string{
		"Here is your 60/40 portfolio, saved as sym-12.",
		"",
		`{"valid": true, "errors": []}`,              // JSON but no tool key
		`The weights {30, 30, 40} sum correctly.`,    // braces but not a call
		"```json\n{\"symphony\": {\"step\": 1}}```", // fenced non-call
	}
	for _, text := range texts {
		if _, ok := ExtractToolCall(context.Background(), text); ok {
			t.Errorf("unexpected tool call in %q", text)
		}
	}
}
