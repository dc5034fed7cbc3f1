package interfaces

import (
	"context"
	"encoding/json"
)

// LLMMode represents the operational mode of the LLM service
type LLMMode string

const (
	// LLMModeCloud indicates the service uses cloud-based LLM APIs
	LLMModeCloud LLMMode = "cloud"

	// LLMModeOffline indicates the service uses local/offline LLM models
	LLMModeOffline LLMMode = "offline"
)

// Message represents a single message in a chat conversation.
// An assistant message may carry tool calls; a tool message carries the
// result of exactly one call, identified by ToolCallID.
type Message struct {
	// Role identifies the message sender: "user", "assistant", "system", or "tool"
	Role string `json:"role"`

	// Content contains the text content of the message
	Content string `json:"content"`

	// ToolCalls lists the calls requested by an assistant message
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// ToolCallID links a tool message back to the call it answers
	ToolCallID string `json:"tool_call_id,omitempty"`
}

// ToolCall is a single tool invocation requested by the model
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolSchema describes a tool the model may call. InputSchema is a JSON
// Schema object; providers adapt it to their native declaration format.
type ToolSchema struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// Completion is the result of one model round. When ToolCalls is non-empty
// the conversation is not finished and the caller must execute the calls
// and request another round.
type Completion struct {
	Text      string     `json:"text"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	Model     string     `json:"model"`
}

// CompletionService generates chat completions with optional tool calling.
// Implementations use cloud APIs (Anthropic, Google).
type CompletionService interface {
	// Complete generates one completion round. A nil or empty tools slice
	// means the model is given no tools and must answer in text.
	Complete(ctx context.Context, messages []Message, tools []ToolSchema) (*Completion, error)

	// HealthCheck verifies the service can reach its API
	HealthCheck(ctx context.Context) error

	// GetMode returns the current operational mode of the service
	GetMode() LLMMode

	// Close releases resources held by the service
	Close() error
}
