package app

import (
	"context"
	"fmt"
	"os"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/studium/internal/common"
	"github.com/ternarybob/studium/internal/handlers"
	"github.com/ternarybob/studium/internal/interfaces"
	"github.com/ternarybob/studium/internal/notes"
	"github.com/ternarybob/studium/internal/services/chat"
	"github.com/ternarybob/studium/internal/services/events"
	"github.com/ternarybob/studium/internal/services/llm"
	"github.com/ternarybob/studium/internal/services/mcpclient"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Study material access
	Locator *notes.Locator

	// Tool server connection (nil when the subprocess failed to start)
	ToolInvoker interfaces.ToolInvoker

	// LLM and chat services (nil when no API key is configured)
	LLMService  interfaces.CompletionService
	ChatService interfaces.ChatService

	EventService interfaces.EventService
	SessionStore *chat.SessionStore

	// HTTP handlers
	APIHandler   *handlers.APIHandler
	ChatHandler  *handlers.ChatHandler
	FilesHandler *handlers.FilesHandler
	WSHandler    *handlers.WebSocketHandler
	PageHandler  *handlers.PageHandler

	sweeper *cron.Cron
}

// New initializes the application with all dependencies. The server
// stays up in a degraded mode when the tool server or LLM provider is
// unavailable; affected endpoints report the problem instead.
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := os.MkdirAll(cfg.Notes.Dir, 0755); err != nil {
		logger.Warn().Err(err).Str("dir", cfg.Notes.Dir).Msg("Could not create notes directory")
	}

	app.Locator = notes.NewLocator(cfg.Notes.Dir, cfg.Notes.Extensions, logger)
	app.EventService = events.NewService(logger)

	if err := app.initSessions(); err != nil {
		return nil, err
	}

	app.initToolServer()
	app.initLLM()
	app.initHandlers()

	return app, nil
}

// initSessions creates the session store and starts its eviction sweep
func (a *App) initSessions() error {
	a.SessionStore = chat.NewSessionStore(a.Config.SessionTTL(), a.Logger)

	sweeper, err := a.SessionStore.StartSweeper(a.Config.Sessions.SweepSchedule)
	if err != nil {
		return fmt.Errorf("failed to start session sweeper: %w", err)
	}
	a.sweeper = sweeper

	a.Logger.Info().
		Str("ttl", a.Config.Sessions.TTL).
		Str("schedule", a.Config.Sessions.SweepSchedule).
		Msg("Session store initialized")

	return nil
}

// initToolServer launches the tool server subprocess and connects to it
func (a *App) initToolServer() {
	client, err := mcpclient.Connect(context.Background(), a.Config.MCP.Command, a.Config.MCP.Args, a.Logger)
	if err != nil {
		a.Logger.Warn().
			Err(err).
			Str("command", a.Config.MCP.Command).
			Msg("Tool server unavailable, chat runs without study tools")
		return
	}

	a.ToolInvoker = client
}

// initLLM selects the completion provider and builds the chat service
func (a *App) initLLM() {
	llmService, err := llm.NewCompletionService(a.Config, a.Logger)
	if err != nil {
		a.Logger.Warn().
			Err(err).
			Str("provider", string(a.Config.LLM.DefaultProvider)).
			Msg("LLM provider unavailable, chat is disabled")
		return
	}

	a.LLMService = llmService
	a.ChatService = chat.NewService(
		context.Background(),
		llmService,
		a.ToolInvoker,
		a.SessionStore,
		a.EventService,
		a.Logger,
	)
}

func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler(a.Logger)
	a.ChatHandler = handlers.NewChatHandler(a.ChatService, a.Logger)
	a.FilesHandler = handlers.NewFilesHandler(a.Locator, a.Logger)
	a.WSHandler = handlers.NewWebSocketHandler(a.EventService, &a.Config.WebSocket, a.Logger)
	a.PageHandler = handlers.NewPageHandler(a.Logger)
}

// Close closes all application resources
func (a *App) Close() error {
	if a.sweeper != nil {
		a.sweeper.Stop()
	}

	if a.WSHandler != nil {
		a.WSHandler.Close()
	}

	if a.LLMService != nil {
		if err := a.LLMService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM service")
		}
	}

	if a.ToolInvoker != nil {
		if err := a.ToolInvoker.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close tool server connection")
		} else {
			a.Logger.Info().Msg("Tool server connection closed")
		}
	}

	if a.EventService != nil {
		if err := a.EventService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close event service")
		}
	}

	return nil
}
