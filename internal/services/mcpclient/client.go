package mcpclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/studium/internal/common"
	"github.com/ternarybob/studium/internal/interfaces"
)

// Client connects to the tool server subprocess over stdio and exposes
// its tools to the orchestrator. The connection is established once and
// held for the server's lifetime.
type Client struct {
	mcp    *client.Client
	logger arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.ToolInvoker = (*Client)(nil)

// Connect launches the tool server subprocess and completes the MCP
// initialize handshake
func Connect(ctx context.Context, command string, args []string, logger arbor.ILogger) (*Client, error) {
	mcpClient, err := client.NewStdioMCPClient(command, nil, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to start tool server %s: %w", command, err)
	}

	initRequest := mcp.InitializeRequest{}
	initRequest.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initRequest.Params.ClientInfo = mcp.Implementation{
		Name:    "studium",
		Version: common.GetVersion(),
	}

	initResult, err := mcpClient.Initialize(ctx, initRequest)
	if err != nil {
		mcpClient.Close()
		return nil, fmt.Errorf("tool server initialize failed: %w", err)
	}

	logger.Info().
		Str("server", initResult.ServerInfo.Name).
		Str("version", initResult.ServerInfo.Version).
		Msg("Connected to tool server")

	return &Client{mcp: mcpClient, logger: logger}, nil
}

// ListTools returns the schemas of every tool the server offers, with
// schema titles stripped for completion API compatibility
func (c *Client) ListTools(ctx context.Context) ([]interfaces.ToolSchema, error) {
	result, err := c.mcp.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}

	schemas := make([]interfaces.ToolSchema, 0, len(result.Tools))
	for _, tool := range result.Tools {
		schema := map[string]any{
			"type": tool.InputSchema.Type,
		}
		if len(tool.InputSchema.Properties) > 0 {
			schema["properties"] = tool.InputSchema.Properties
		}
		if len(tool.InputSchema.Required) > 0 {
			schema["required"] = tool.InputSchema.Required
		}

		schemas = append(schemas, interfaces.ToolSchema{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: CleanSchema(schema),
		})
	}

	return schemas, nil
}

// CallTool executes a tool and returns the concatenated text content of
// its result. A result flagged as an error becomes a Go error.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	request := mcp.CallToolRequest{}
	request.Params.Name = name
	request.Params.Arguments = args

	result, err := c.mcp.CallTool(ctx, request)
	if err != nil {
		return "", fmt.Errorf("tool %s call failed: %w", name, err)
	}

	var parts []string
	for _, content := range result.Content {
		if text, ok := mcp.AsTextContent(content); ok {
			parts = append(parts, text.Text)
		}
	}
	output := strings.Join(parts, "\n")

	if result.IsError {
		return "", fmt.Errorf("tool %s returned error: %s", name, output)
	}

	return output, nil
}

// Close terminates the tool server subprocess
func (c *Client) Close() error {
	return c.mcp.Close()
}
