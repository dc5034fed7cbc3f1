package interfaces

import "time"

// EventType represents different event types in the system
type EventType string

const (
	EventChatStarted   EventType = "chat_started"
	EventToolCall      EventType = "tool_call"
	EventToolResult    EventType = "tool_result"
	EventChatCompleted EventType = "chat_completed"
)

// Event represents a tool-activity event published during a chat turn
type Event struct {
	Type      EventType      `json:"type"`
	SessionID string         `json:"session_id"`
	Payload   map[string]any `json:"payload,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// EventService broadcasts tool-activity events to interested subscribers
type EventService interface {
	// Publish sends an event to all subscribers without blocking
	Publish(event Event)

	// Subscribe registers a channel to receive events. The returned
	// function unsubscribes it.
	Subscribe() (<-chan Event, func())

	// Close shuts down the event service
	Close() error
}
