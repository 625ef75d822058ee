package interfaces

import (
	"context"

	"symphony-copilot/internal/types"
)

// Invoker dispatches a named tool with raw arguments and returns the
// provider response. Arguments are forwarded to the provider as given;
// the content comes back unmodified.
type Invoker interface {
	Invoke(ctx context.Context, name string, args map[string]any) (types.ToolResult, error)
}
