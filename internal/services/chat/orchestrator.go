package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/studium/internal/interfaces"
)

const systemPrompt = "You are a helpful study assistant. Use the available study tools to " +
	"retrieve material from the user's notes when a request concerns their study topics. " +
	"When a tool returns preparation instructions, follow them to produce the final answer."

// Service runs the tool-calling conversation loop shared by every chat
// surface. One turn is: offer tools, execute any calls the model makes,
// then request the final answer with no tools on offer.
type Service struct {
	llm           interfaces.CompletionService
	invoker       interfaces.ToolInvoker
	store         interfaces.SessionStore
	events        interfaces.EventService
	logger        arbor.ILogger
	maxToolRounds int
	toolSchemas   []interfaces.ToolSchema
}

// Compile-time interface assertion
var _ interfaces.ChatService = (*Service)(nil)

// Option configures the chat service
type Option func(*Service)

// WithMaxToolRounds overrides how many tool rounds may run in one turn
func WithMaxToolRounds(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxToolRounds = n
		}
	}
}

// NewService creates the chat orchestrator. The invoker may be nil:
// the service then answers from the model alone. Tool schemas are
// listed once here and reused for the server's lifetime.
func NewService(ctx context.Context, llm interfaces.CompletionService, invoker interfaces.ToolInvoker, store interfaces.SessionStore, events interfaces.EventService, logger arbor.ILogger, opts ...Option) *Service {
	s := &Service{
		llm:           llm,
		invoker:       invoker,
		store:         store,
		events:        events,
		logger:        logger,
		maxToolRounds: 1,
	}
	for _, opt := range opts {
		opt(s)
	}

	if invoker != nil {
		schemas, err := invoker.ListTools(ctx)
		if err != nil {
			// Degraded mode: the server keeps answering without tools
			logger.Warn().Err(err).Msg("Failed to list tools, chat runs without tool support")
		} else {
			s.toolSchemas = schemas
			logger.Info().Int("tools", len(schemas)).Msg("Chat orchestrator initialized with tools")
		}
	}

	return s
}

// Tools returns the schemas the orchestrator offers to the model
func (s *Service) Tools() []interfaces.ToolSchema {
	return s.toolSchemas
}

// Chat processes one user turn. The session transcript is only committed
// when the whole turn succeeds, so a mid-turn failure never leaves a
// dangling tool call in history.
func (s *Service) Chat(ctx context.Context, req *interfaces.ChatRequest) (*interfaces.ChatResponse, error) {
	if req == nil || req.Message == "" {
		return nil, fmt.Errorf("message cannot be empty")
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = DefaultSessionID
	}

	unlock := s.store.Lock(sessionID)
	defer unlock()

	s.publish(interfaces.EventChatStarted, sessionID, map[string]any{
		"message_length": len(req.Message),
	})

	// Working transcript: committed history plus this turn's messages
	working := s.store.History(sessionID)

	var pending []interfaces.Message
	if len(working) == 0 {
		pending = append(pending, interfaces.Message{Role: "system", Content: systemPrompt})
	}
	pending = append(pending, interfaces.Message{Role: "user", Content: req.Message})
	working = append(working, pending...)

	rounds := 0
	for {
		var offered []interfaces.ToolSchema
		if rounds < s.maxToolRounds && s.invoker != nil {
			offered = s.toolSchemas
		}

		completion, err := s.llm.Complete(ctx, working, offered)
		if err != nil {
			s.logger.Error().Err(err).Str("session_id", sessionID).Msg("Completion failed, turn discarded")
			return nil, fmt.Errorf("completion failed: %w", err)
		}

		if len(completion.ToolCalls) == 0 || s.invoker == nil {
			assistant := interfaces.Message{Role: "assistant", Content: completion.Text}
			pending = append(pending, assistant)
			s.store.Append(sessionID, pending...)

			s.publish(interfaces.EventChatCompleted, sessionID, map[string]any{
				"tool_rounds":     rounds,
				"response_length": len(completion.Text),
			})

			return &interfaces.ChatResponse{
				Message:    completion.Text,
				Model:      completion.Model,
				ToolRounds: rounds,
			}, nil
		}

		rounds++

		// Providers may omit call ids; the transcript protocol needs them
		// to pair results with calls.
		for i := range completion.ToolCalls {
			if completion.ToolCalls[i].ID == "" {
				completion.ToolCalls[i].ID = uuid.NewString()
			}
		}

		assistant := interfaces.Message{
			Role:      "assistant",
			Content:   completion.Text,
			ToolCalls: completion.ToolCalls,
		}
		pending = append(pending, assistant)
		working = append(working, assistant)

		// Execute calls sequentially in request order; each call gets a
		// matching tool message even on failure
		for _, call := range completion.ToolCalls {
			result := s.executeTool(ctx, sessionID, call)
			toolMsg := interfaces.Message{
				Role:       "tool",
				Content:    result,
				ToolCallID: call.ID,
			}
			pending = append(pending, toolMsg)
			working = append(working, toolMsg)
		}
	}
}

// executeTool runs one tool call and returns its text output. Failures
// are substituted with a visible error string rather than aborting the
// turn.
func (s *Service) executeTool(ctx context.Context, sessionID string, call interfaces.ToolCall) string {
	s.publish(interfaces.EventToolCall, sessionID, map[string]any{
		"call_id": call.ID,
		"tool":    call.Name,
	})

	args := map[string]any{}
	if len(call.Arguments) > 0 {
		if err := json.Unmarshal(call.Arguments, &args); err != nil {
			s.logger.Warn().Err(err).Str("tool", call.Name).Msg("Malformed tool arguments")
			return fmt.Sprintf("Error: invalid arguments for %s: %v", call.Name, err)
		}
	}

	startTime := time.Now()
	result, err := s.invoker.CallTool(ctx, call.Name, args)
	if err != nil {
		s.logger.Warn().Err(err).Str("tool", call.Name).Msg("Tool call failed")
		result = fmt.Sprintf("Error: %v", err)
	}

	s.publish(interfaces.EventToolResult, sessionID, map[string]any{
		"call_id":       call.ID,
		"tool":          call.Name,
		"duration_ms":   time.Since(startTime).Milliseconds(),
		"result_length": len(result),
		"failed":        err != nil,
	})

	s.logger.Debug().
		Str("tool", call.Name).
		Dur("duration", time.Since(startTime)).
		Int("result_length", len(result)).
		Msg("Tool executed")

	return result
}

// ClearSession discards the conversation history for a session
func (s *Service) ClearSession(sessionID string) {
	if sessionID == "" {
		sessionID = DefaultSessionID
	}
	s.store.Clear(sessionID)
	s.logger.Debug().Str("session_id", sessionID).Msg("Session cleared")
}

// HealthCheck verifies the underlying completion service is reachable
func (s *Service) HealthCheck(ctx context.Context) error {
	return s.llm.HealthCheck(ctx)
}

func (s *Service) publish(eventType interfaces.EventType, sessionID string, payload map[string]any) {
	if s.events == nil {
		return
	}
	s.events.Publish(interfaces.Event{
		Type:      eventType,
		SessionID: sessionID,
		Payload:   payload,
		Timestamp: time.Now(),
	})
}
