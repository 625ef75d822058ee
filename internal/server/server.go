// Package server wires the copilot's tools, prompt pack and format
// guide into an MCP server for stdio clients. No business logic lives
// here, only wiring.
package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"symphony-copilot/internal/interfaces"
	"symphony-copilot/internal/prompts"
	"symphony-copilot/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates the MCP server with every documented tool, the prompt
// pack, and the symphony format guide registered.
func New(invoker interfaces.Invoker) *server.MCPServer {
	s := server.NewMCPServer(
		"symphony-copilot",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(prompts.System()),
	)

	registerTools(s, invoker)
	registerResources(s)
	registerPrompts(s)

	return s
}

// ServeStdio runs the server over stdin/stdout until the client
// disconnects.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func registerTools(s *server.MCPServer, invoker interfaces.Invoker) {
	for _, def := range tools.Definitions() {
		s.AddTool(toMCPTool(def), toolHandler(invoker, def.Name))
	}
}

// toMCPTool converts a registry definition into an MCP tool schema.
func toMCPTool(def tools.Definition) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(def.Description)}

	for _, p := range def.Params {
		var propOpts []mcp.PropertyOption
		propOpts = append(propOpts, mcp.Description(p.Description))
		if p.Required {
			propOpts = append(propOpts, mcp.Required())
		}

		switch p.Type {
		case "number":
			opts = append(opts, mcp.WithNumber(p.Name, propOpts...))
		case "boolean":
			opts = append(opts, mcp.WithBoolean(p.Name, propOpts...))
		case "array":
			propOpts = append(propOpts, mcp.Items(map[string]any{"type": "string"}))
			opts = append(opts, mcp.WithArray(p.Name, propOpts...))
		case "object":
			// Symphony documents may arrive as objects or JSON strings;
			// schema stays permissive and the registry coerces.
			opts = append(opts, mcp.WithObject(p.Name, propOpts...))
		default:
			if len(p.Enum) > 0 {
				propOpts = append(propOpts, mcp.Enum(p.Enum...))
			}
			opts = append(opts, mcp.WithString(p.Name, propOpts...))
		}
	}

	return mcp.NewTool(def.Name, opts...)
}

func toolHandler(invoker interfaces.Invoker, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := invoker.Invoke(ctx, name, req.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if result.IsError {
			return mcp.NewToolResultError(result.Content), nil
		}
		return mcp.NewToolResultText(result.Content), nil
	}
}

func registerResources(s *server.MCPServer) {
	guide := mcp.NewResource(
		"symphony://format-guide",
		"Symphony Format Guide",
		mcp.WithResourceDescription("Complete grammar of the symphony JSON tree format"),
		mcp.WithMIMEType("text/markdown"),
	)
	s.AddResource(guide, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "symphony://format-guide",
				MIMEType: "text/markdown",
				Text:     prompts.FormatGuide(),
			},
		}, nil
	})

	for _, ex := range prompts.Examples() {
		ex := ex
		uri := "symphony://examples/" + ex.Name
		res := mcp.NewResource(
			uri,
			"Example: "+ex.Name,
			mcp.WithResourceDescription(ex.Description),
			mcp.WithMIMEType("application/json"),
		)
		s.AddResource(res, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			return []mcp.ResourceContents{
				mcp.TextResourceContents{
					URI:      uri,
					MIMEType: "application/json",
					Text:     ex.JSON,
				},
			}, nil
		})
	}
}

func registerPrompts(s *server.MCPServer) {
	draft := mcp.NewPrompt(
		"draft-symphony",
		mcp.WithPromptDescription("Draft a symphony from a plain-language strategy description"),
		mcp.WithArgument("strategy",
			mcp.ArgumentDescription("Plain-language description of the investment strategy"),
			mcp.RequiredArgument(),
		),
	)
	s.AddPrompt(draft, func(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		strategy := req.Params.Arguments["strategy"]
		if strategy == "" {
			return nil, fmt.Errorf("strategy argument is required")
		}
		text := fmt.Sprintf("Draft a symphony for this strategy, then validate it with validate_symphony before presenting it:\n\n%s", strategy)
		return mcp.NewGetPromptResult(
			"Draft a symphony",
			[]mcp.PromptMessage{
				mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
			},
		), nil
	})

	review := mcp.NewPrompt(
		"review-symphony",
		mcp.WithPromptDescription("Review a saved symphony for structural issues and concentration risk"),
		mcp.WithArgument("id",
			mcp.ArgumentDescription("Platform symphony id"),
			mcp.RequiredArgument(),
		),
	)
	s.AddPrompt(review, func(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		id := req.Params.Arguments["id"]
		if id == "" {
			return nil, fmt.Errorf("id argument is required")
		}
		text := fmt.Sprintf("Fetch symphony %s with get_symphony, run validate_symphony on it, and summarize any errors, warnings and concentration risks.", id)
		return mcp.NewGetPromptResult(
			"Review a symphony",
			[]mcp.PromptMessage{
				mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
			},
		), nil
	})
}
