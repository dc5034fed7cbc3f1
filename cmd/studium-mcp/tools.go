package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createSummarizeTopicTool returns the summarize_topic tool definition
func createSummarizeTopicTool() mcp.Tool {
	return mcp.NewTool("summarize_topic",
		mcp.WithDescription("Create a summary of a specific topic from study materials"),
		mcp.WithString("topic",
			mcp.Required(),
			mcp.Description("Topic to summarize from the study materials"),
		),
		mcp.WithString("length",
			mcp.Description("Summary length (default: brief)"),
			mcp.Enum("brief", "detailed", "comprehensive"),
		),
	)
}

// createSummarizeFullChapterTool returns the summarize_full_chapter tool definition
func createSummarizeFullChapterTool() mcp.Tool {
	return mcp.NewTool("summarize_full_chapter",
		mcp.WithDescription("Create a comprehensive summary of an entire chapter"),
		mcp.WithString("chapter_name",
			mcp.Required(),
			mcp.Description("Name of the chapter to summarize"),
		),
	)
}

// createCreateQuizTool returns the create_quiz tool definition
func createCreateQuizTool() mcp.Tool {
	return mcp.NewTool("create_quiz",
		mcp.WithDescription("Generate a multiple-choice quiz on a specific topic"),
		mcp.WithString("topic",
			mcp.Required(),
			mcp.Description("Topic to quiz on"),
		),
		mcp.WithNumber("num_questions",
			mcp.Description("Number of questions (default: 5)"),
		),
		mcp.WithString("difficulty",
			mcp.Description("Question difficulty (default: intermediate)"),
			mcp.Enum("beginner", "intermediate", "advanced"),
		),
	)
}

// createExplainTopicTool returns the explain_topic tool definition
func createExplainTopicTool() mcp.Tool {
	return mcp.NewTool("explain_topic",
		mcp.WithDescription("Get an explanation of a concept at a specific difficulty level"),
		mcp.WithString("term",
			mcp.Required(),
			mcp.Description("Concept or term to explain"),
		),
		mcp.WithString("level",
			mcp.Description("Explanation level (default: beginner)"),
			mcp.Enum("beginner", "intermediate", "advanced"),
		),
	)
}

// createCompareTwoConceptsTool returns the compare_two_concepts tool definition
func createCompareTwoConceptsTool() mcp.Tool {
	return mcp.NewTool("compare_two_concepts",
		mcp.WithDescription("Compare and contrast two related concepts"),
		mcp.WithString("concept1",
			mcp.Required(),
			mcp.Description("First concept"),
		),
		mcp.WithString("concept2",
			mcp.Required(),
			mcp.Description("Second concept"),
		),
	)
}

// createCreateFlashcardsTool returns the create_flashcards tool definition
func createCreateFlashcardsTool() mcp.Tool {
	return mcp.NewTool("create_flashcards",
		mcp.WithDescription("Generate flashcards for a topic"),
		mcp.WithString("topic",
			mcp.Required(),
			mcp.Description("Topic to make flashcards for"),
		),
		mcp.WithNumber("num_cards",
			mcp.Description("Number of cards (default: 10)"),
		),
	)
}
