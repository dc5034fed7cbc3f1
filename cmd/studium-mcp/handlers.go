package main

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/studium/internal/services/study"
)

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

// handleSummarizeTopic implements the summarize_topic tool
func handleSummarizeTopic(studyService *study.Service, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		topic, err := request.RequireString("topic")
		if err != nil || topic == "" {
			return textResult("Error: topic parameter is required"), nil
		}

		length := request.GetString("length", "brief")

		logger.Debug().Str("topic", topic).Str("length", length).Msg("summarize_topic called")
		return textResult(studyService.SummarizeTopic(topic, length)), nil
	}
}

// handleSummarizeFullChapter implements the summarize_full_chapter tool
func handleSummarizeFullChapter(studyService *study.Service, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		chapterName, err := request.RequireString("chapter_name")
		if err != nil || chapterName == "" {
			return textResult("Error: chapter_name parameter is required"), nil
		}

		logger.Debug().Str("chapter", chapterName).Msg("summarize_full_chapter called")
		return textResult(studyService.SummarizeChapter(chapterName)), nil
	}
}

// handleCreateQuiz implements the create_quiz tool
func handleCreateQuiz(studyService *study.Service, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		topic, err := request.RequireString("topic")
		if err != nil || topic == "" {
			return textResult("Error: topic parameter is required"), nil
		}

		numQuestions := request.GetInt("num_questions", 0)
		difficulty := request.GetString("difficulty", "intermediate")

		logger.Debug().Str("topic", topic).Int("questions", numQuestions).Msg("create_quiz called")
		return textResult(studyService.CreateQuiz(topic, numQuestions, difficulty)), nil
	}
}

// handleExplainTopic implements the explain_topic tool
func handleExplainTopic(studyService *study.Service, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		term, err := request.RequireString("term")
		if err != nil || term == "" {
			return textResult("Error: term parameter is required"), nil
		}

		level := request.GetString("level", "beginner")

		logger.Debug().Str("term", term).Str("level", level).Msg("explain_topic called")
		return textResult(studyService.ExplainTopic(term, level)), nil
	}
}

// handleCompareTwoConcepts implements the compare_two_concepts tool
func handleCompareTwoConcepts(studyService *study.Service, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		concept1, err := request.RequireString("concept1")
		if err != nil || concept1 == "" {
			return textResult("Error: concept1 parameter is required"), nil
		}
		concept2, err := request.RequireString("concept2")
		if err != nil || concept2 == "" {
			return textResult("Error: concept2 parameter is required"), nil
		}

		logger.Debug().Str("concept1", concept1).Str("concept2", concept2).Msg("compare_two_concepts called")
		return textResult(studyService.CompareConcepts(concept1, concept2)), nil
	}
}

// handleCreateFlashcards implements the create_flashcards tool
func handleCreateFlashcards(studyService *study.Service, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		topic, err := request.RequireString("topic")
		if err != nil || topic == "" {
			return textResult("Error: topic parameter is required"), nil
		}

		numCards := request.GetInt("num_cards", 0)

		logger.Debug().Str("topic", topic).Int("cards", numCards).Msg("create_flashcards called")
		return textResult(studyService.CreateFlashcards(topic, numCards)), nil
	}
}
