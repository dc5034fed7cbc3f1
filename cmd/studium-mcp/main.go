package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ternarybob/studium/internal/common"
	"github.com/ternarybob/studium/internal/notes"
	"github.com/ternarybob/studium/internal/services/study"
)

func main() {
	// Load configuration
	configPath := os.Getenv("STUDIUM_CONFIG")
	if configPath == "" {
		configPath = "studium.toml"
	}
	if _, err := os.Stat(configPath); err != nil {
		// The tool server runs fine on defaults plus environment overrides
		configPath = ""
	}

	config, err := common.LoadFromFile(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Minimal logging so MCP stdio framing stays clean
	logger := common.InitStdioLogger(config.Logging.Level)

	// Tool services read study materials straight from disk; no LLM
	// credential is needed on this side of the protocol.
	locator := notes.NewLocator(config.Notes.Dir, config.Notes.Extensions, logger)
	studyService := study.NewService(locator, config.Study.DefaultQuizQuestions, config.Study.DefaultFlashcards, logger)

	// Create MCP server
	mcpServer := server.NewMCPServer(
		"studium",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	// Register study tools
	mcpServer.AddTool(createSummarizeTopicTool(), handleSummarizeTopic(studyService, logger))
	mcpServer.AddTool(createSummarizeFullChapterTool(), handleSummarizeFullChapter(studyService, logger))
	mcpServer.AddTool(createCreateQuizTool(), handleCreateQuiz(studyService, logger))
	mcpServer.AddTool(createExplainTopicTool(), handleExplainTopic(studyService, logger))
	mcpServer.AddTool(createCompareTwoConceptsTool(), handleCompareTwoConcepts(studyService, logger))
	mcpServer.AddTool(createCreateFlashcardsTool(), handleCreateFlashcards(studyService, logger))

	// Start server (blocks on stdio)
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal().Err(err).Msg("MCP server failed")
	}
}
