package toolobs

import (
	"context"
	"time"

	"symphony-copilot/internal/interfaces"
	"symphony-copilot/internal/logger"
	"symphony-copilot/internal/sessionlog"
	"symphony-copilot/internal/trace"
	"symphony-copilot/internal/types"
)

// observableInvoker wraps an Invoker with observability (logging,
// tracing and the session audit trail)
type observableInvoker struct {
	invoker interfaces.Invoker
	session string
}

// Compile-time interface check
var _ interfaces.Invoker = (*observableInvoker)(nil)

// Wrap wraps an invoker with observability middleware
func Wrap(invoker interfaces.Invoker, session string) interfaces.Invoker {
	return &observableInvoker{
		invoker: invoker,
		session: session,
	}
}

// Invoke runs a tool call with observability
func (oi *observableInvoker) Invoke(ctx context.Context, name string, args map[string]any) (types.ToolResult, error) {
	ctx, span := trace.StartSpan(ctx, "tools.Invoke")
	defer span.End()

	// Use DebugSkip(1) to report the actual caller, not this middleware wrapper
	logger.DebugSkip(ctx, 1, "Tool call dispatched",
		"tool", name,
		"args", len(args),
	)

	start := time.Now()
	result, err := oi.invoker.Invoke(ctx, name, args)
	durationMs := time.Since(start).Milliseconds()

	ok := err == nil && !result.IsError
	logger.ToolEvent(ctx, name, ok, durationMs)

	if logErr := sessionlog.Append(sessionlog.Entry{
		Session:    oi.session,
		Tool:       name,
		ArgsDigest: sessionlog.ArgsDigest(args),
		OK:         ok,
		DurationMs: durationMs,
	}); logErr != nil {
		logger.WarnSkip(ctx, 1, "Failed to append session log", "error", logErr)
	}

	if err != nil {
		// Use ErrorWithErrSkip(1) to report the actual caller
		logger.ErrorWithErrSkip(ctx, 1, "Tool dispatch failed", err, "tool", name)
		return types.ToolResult{}, err
	}

	return result, nil
}
