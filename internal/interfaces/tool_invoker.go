package interfaces

import (
	"context"
)

// ToolInvoker executes study tools on behalf of the orchestrator.
// The production implementation talks to the tool server subprocess over
// stdio; tests substitute an in-memory fake.
type ToolInvoker interface {
	// ListTools returns the schemas of every available tool
	ListTools(ctx context.Context) ([]ToolSchema, error)

	// CallTool executes a tool by name and returns its text output.
	// Tool-level failures are returned as an error; the caller decides
	// how to surface them to the model.
	CallTool(ctx context.Context, name string, args map[string]any) (string, error)

	// Close terminates the underlying tool server connection
	Close() error
}
