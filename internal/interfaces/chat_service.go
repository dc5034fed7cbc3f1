package interfaces

import (
	"context"
)

// ChatRequest represents a single user turn in a conversation
type ChatRequest struct {
	// User's message
	Message string `json:"message"`

	// Conversation identifier; empty means the shared "default" session
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse represents the response to a chat request
type ChatResponse struct {
	// Generated response
	Message string `json:"message"`

	// Model used
	Model string `json:"model"`

	// Number of tool rounds executed before the final answer
	ToolRounds int `json:"tool_rounds"`
}

// ChatService runs the tool-calling conversation loop
type ChatService interface {
	// Chat processes one user turn, executing any tool calls the model
	// requests, and returns the final assistant text
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

	// ClearSession discards the conversation history for a session
	ClearSession(sessionID string)

	// Tools returns the schemas of the tools offered to the model;
	// empty when the tool server is unavailable
	Tools() []ToolSchema

	// HealthCheck verifies the chat service is operational
	HealthCheck(ctx context.Context) error
}

// SessionStore keeps per-session conversation history
type SessionStore interface {
	// History returns a copy of the session's messages in order
	History(sessionID string) []Message

	// Append adds messages to the session, creating it if needed
	Append(sessionID string, messages ...Message)

	// Clear discards the session's history
	Clear(sessionID string)

	// Lock serializes turns within a session. The returned function
	// releases the lock.
	Lock(sessionID string) func()

	// Sweep evicts sessions idle longer than the store's TTL and
	// returns the number evicted
	Sweep() int
}
