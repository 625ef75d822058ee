package tools

import (
	"context"
	"errors"
	"fmt"

	"symphony-copilot/internal/interfaces"
	"symphony-copilot/internal/types"
)

// ErrUnknownTool is returned when a tool name is not documented.
var ErrUnknownTool = errors.New("unknown tool")

type handlerFunc func(ctx context.Context, args map[string]any) (string, error)

// Registry dispatches tool calls to their owning providers.
type Registry struct {
	deps     Deps
	handlers map[string]handlerFunc
}

var _ interfaces.Invoker = (*Registry)(nil)

// NewRegistry creates the tool registry over the given providers. News
// may be nil when news lookups are disabled.
func NewRegistry(deps Deps) *Registry {
	r := &Registry{deps: deps}
	r.handlers = map[string]handlerFunc{
		GetEconomicSeries:    r.getEconomicSeries,
		SearchEconomicSeries: r.searchEconomicSeries,
		GetQuote:             r.getQuote,
		GetCandles:           r.getCandles,
		ValidateSymphony:     r.validateSymphony,
		CreateSymphony:       r.createSymphony,
		UpdateSymphony:       r.updateSymphony,
		GetSymphony:          r.getSymphony,
		ListSymphonies:       r.listSymphonies,
		BacktestSymphony:     r.backtestSymphony,
		DeploySymphony:       r.deploySymphony,
		GetSymbolNews:        r.getSymbolNews,
	}
	return r
}

// Invoke runs one tool call. Provider and argument failures come back
// as an error-flagged result; only an undocumented tool name is a
// dispatch error.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) (types.ToolResult, error) {
	handler, ok := r.handlers[name]
	if !ok {
		return types.ToolResult{}, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	content, err := handler(ctx, args)
	if err != nil {
		return types.ToolResult{Content: err.Error(), IsError: true}, nil
	}
	return types.ToolResult{Content: content}, nil
}
