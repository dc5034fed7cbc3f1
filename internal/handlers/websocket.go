package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/studium/internal/common"
	"github.com/ternarybob/studium/internal/interfaces"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// WSMessage is the envelope broadcast to WebSocket clients
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// eventLevels ranks tool-activity events so clients can opt out of the
// chattier ones via the min_level setting
var eventLevels = map[interfaces.EventType]int{
	interfaces.EventToolResult:    1,
	interfaces.EventToolCall:      2,
	interfaces.EventChatStarted:   2,
	interfaces.EventChatCompleted: 2,
}

var levelRanks = map[string]int{
	"debug": 1,
	"info":  2,
	"warn":  3,
	"error": 4,
}

// WebSocketHandler streams tool-activity events to connected browsers so
// the chat page can show which tools a reply used while it is generated.
type WebSocketHandler struct {
	logger      arbor.ILogger
	clients     map[*websocket.Conn]bool
	clientMutex map[*websocket.Conn]*sync.Mutex
	mu          sync.RWMutex

	eventService interfaces.EventService
	throttler    *rate.Limiter
	minLevel     int

	stop func()
}

// NewWebSocketHandler creates a WebSocket handler and starts forwarding
// events from the event service to connected clients.
func NewWebSocketHandler(eventService interfaces.EventService, config *common.WebSocketConfig, logger arbor.ILogger) *WebSocketHandler {
	h := &WebSocketHandler{
		logger:       logger,
		clients:      make(map[*websocket.Conn]bool),
		clientMutex:  make(map[*websocket.Conn]*sync.Mutex),
		eventService: eventService,
		minLevel:     levelRanks["debug"],
	}

	if config != nil {
		if rank, ok := levelRanks[config.MinLevel]; ok {
			h.minLevel = rank
		}
		if config.ThrottleRate != "" {
			if interval, err := time.ParseDuration(config.ThrottleRate); err == nil {
				h.throttler = rate.NewLimiter(rate.Every(interval), 1)
			} else {
				logger.Warn().
					Err(err).
					Str("throttle_rate", config.ThrottleRate).
					Msg("Failed to parse throttle rate, throttling disabled")
			}
		}
	}

	if eventService != nil {
		events, cancel := eventService.Subscribe()
		h.stop = cancel
		go h.forwardEvents(events)
	}

	return h
}

// forwardEvents relays tool-activity events until the subscription closes
func (h *WebSocketHandler) forwardEvents(events <-chan interfaces.Event) {
	for event := range events {
		if eventLevels[event.Type] < h.minLevel {
			continue
		}

		// Tool results can arrive in bursts during multi-call rounds
		if event.Type == interfaces.EventToolResult && h.throttler != nil && !h.throttler.Allow() {
			continue
		}

		h.broadcast(WSMessage{
			Type: string(event.Type),
			Payload: map[string]interface{}{
				"session_id": event.SessionID,
				"payload":    event.Payload,
				"timestamp":  event.Timestamp.Format(time.RFC3339),
			},
		})
	}
}

// HandleWebSocket handles WebSocket connections
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.clientMutex[conn] = &sync.Mutex{}
	clientCount := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug().Msgf("WebSocket client connected (total: %d)", clientCount)

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		delete(h.clientMutex, conn)
		remaining := len(h.clients)
		h.mu.Unlock()

		conn.Close()
		h.logger.Debug().Msgf("WebSocket client disconnected (remaining: %d)", remaining)
	}()

	// Read messages from client (keep connection alive)
	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn().Err(err).Msg("WebSocket error")
			}
			break
		}
	}
}

// broadcast sends a message to all connected clients
func (h *WebSocketHandler) broadcast(msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to marshal WebSocket message")
		return
	}

	h.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	mutexes := make([]*sync.Mutex, 0, len(h.clients))
	for conn := range h.clients {
		clients = append(clients, conn)
		mutexes = append(mutexes, h.clientMutex[conn])
	}
	h.mu.RUnlock()

	for i, conn := range clients {
		mutex := mutexes[i]
		mutex.Lock()
		err := conn.WriteMessage(websocket.TextMessage, data)
		mutex.Unlock()

		if err != nil {
			h.logger.Warn().Err(err).Msg("Failed to send message to client")
		}
	}
}

// Close stops forwarding events
func (h *WebSocketHandler) Close() {
	if h.stop != nil {
		h.stop()
	}
}
