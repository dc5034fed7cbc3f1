package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/studium/internal/interfaces"
)

// streamLineDelay paces SSE lines so the browser renders the answer
// progressively instead of in one burst.
const streamLineDelay = 20 * time.Millisecond

// ChatHandler handles chat-related HTTP requests. The response body is
// streamed as Server-Sent Events, one line of the answer per event,
// terminated by a [DONE] marker.
type ChatHandler struct {
	chatService interfaces.ChatService
	logger      arbor.ILogger
}

// NewChatHandler creates a new chat handler. A nil chat service means
// no LLM API key was configured; requests then stream a visible error
// instead of failing the connection.
func NewChatHandler(chatService interfaces.ChatService, logger arbor.ILogger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// ChatHandler handles POST /api/chat requests
func (h *ChatHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req interfaces.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to decode chat request")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Message == "" {
		WriteError(w, http.StatusBadRequest, "Message field is required")
		return
	}

	h.logger.Info().
		Int("message_length", len(req.Message)).
		Str("session_id", req.SessionID).
		Msg("Processing chat request")

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}
	flusher.Flush()

	if h.chatService == nil {
		h.streamText(w, flusher, "Error: no LLM provider is configured. Set an API key and restart the server.")
		h.sendDone(w, flusher)
		return
	}

	response, err := h.chatService.Chat(r.Context(), &req)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to generate chat response")
		h.streamText(w, flusher, fmt.Sprintf("Error: %v", err))
		h.sendDone(w, flusher)
		return
	}

	if response.Message == "" {
		h.streamText(w, flusher, "Error: No response from server")
		h.sendDone(w, flusher)
		return
	}

	h.streamText(w, flusher, response.Message)
	h.sendDone(w, flusher)

	h.logger.Debug().
		Str("model", response.Model).
		Int("tool_rounds", response.ToolRounds).
		Msg("Chat response streamed")
}

// streamText writes the answer line by line as SSE data events
func (h *ChatHandler) streamText(w http.ResponseWriter, flusher http.Flusher, text string) {
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintf(w, "data: %s\n\n", line)
		flusher.Flush()
		time.Sleep(streamLineDelay)
	}
}

func (h *ChatHandler) sendDone(w http.ResponseWriter, flusher http.Flusher) {
	fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}

// ClearHandler handles POST /api/chat/clear requests
func (h *ChatHandler) ClearHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		SessionID string `json:"session_id"`
	}
	if r.Body != nil {
		// Body is optional; an empty or malformed one clears the default session
		json.NewDecoder(r.Body).Decode(&req)
	}

	if h.chatService != nil {
		h.chatService.ClearSession(req.SessionID)
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "success",
	})
}

// ToolsHandler handles GET /api/tools requests, listing the study tools
// the orchestrator offers to the model
func (h *ChatHandler) ToolsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	tools := []interfaces.ToolSchema{}
	if h.chatService != nil {
		if schemas := h.chatService.Tools(); schemas != nil {
			tools = schemas
		}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"tools": tools,
		"count": len(tools),
	})
}

// HealthHandler handles GET /api/chat/health requests
func (h *ChatHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	if h.chatService == nil {
		WriteJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"healthy": false,
			"error":   "no LLM provider configured",
		})
		return
	}

	if err := h.chatService.HealthCheck(r.Context()); err != nil {
		h.logger.Warn().Err(err).Msg("Chat service health check failed")
		WriteJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"healthy": false,
			"error":   err.Error(),
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"healthy": true,
	})
}
