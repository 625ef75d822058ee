package interfaces

import (
	"context"

	"symphony-copilot/internal/types"
)

// Assistant produces one completion from an LLM provider.
type Assistant interface {
	Complete(ctx context.Context, req types.CompletionRequest) (types.CompletionResponse, error)
}
