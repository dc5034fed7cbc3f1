package study

import (
	"fmt"
	"strings"
	"unicode"
)

// lengthInstructions maps summary length to the instruction handed to the model
var lengthInstructions = map[string]string{
	"brief":         "Create a concise 3-5 sentence summary highlighting the key points.",
	"detailed":      "Create a comprehensive summary covering all main concepts, with 2-3 paragraphs.",
	"comprehensive": "Create an extensive summary that covers all details, examples, and nuances.",
}

// difficultyInstructions maps quiz difficulty to question guidance
var difficultyInstructions = map[string]string{
	"beginner":     "Focus on basic definitions and concepts.",
	"intermediate": "Include application-based questions.",
	"advanced":     "Include complex scenarios and edge cases.",
}

// levelInstructions maps explanation level to presentation guidance
var levelInstructions = map[string]string{
	"beginner":     "Use simple analogies, avoid jargon, focus on intuition.",
	"intermediate": "Include technical terms with definitions, explain how things work.",
	"advanced":     "Include formulas, edge cases, implementation details, and tradeoffs.",
}

func summaryPrompt(topic, length, content string) string {
	return fmt.Sprintf(`# Summarization Request for: %s

**Instructions:** %s

**Content to summarize:**

%s

Please provide a well-structured summary with key concepts, formulas, and practical insights.`,
		titleCase(topic), lengthInstructions[length], content)
}

func chapterPrompt(chapterName, content string) string {
	return fmt.Sprintf(`# Chapter Summary Request: %s

**Instructions:** Create a comprehensive chapter summary with the following structure:

1. Overview (2-3 sentences)
2. Key Concepts (bullet points)
3. Important Formulas/Algorithms
4. Practical Applications
5. Common Pitfalls

**Content to summarize:**

%s`, titleCase(chapterName), content)
}

func quizPrompt(topic string, numQuestions int, difficulty, content string) string {
	return fmt.Sprintf(`Create a %d-question multiple-choice quiz on "%s".

Difficulty: %s - %s

Base your questions on the following content:

%s

Return ONLY a valid JSON object (no markdown code fences, no extra text) with this exact schema:
{
  "type": "quiz",
  "questions": [
    {
      "question": "question text",
      "options": {"A": "...", "B": "...", "C": "...", "D": "..."},
      "answer": "A",
      "explanation": "why this answer is correct"
    }
  ]
}`, numQuestions, topic, difficulty, difficultyInstructions[difficulty], content)
}

func explainPrompt(term, level, content string, hasContent bool) string {
	contentHeader := "**Note:** No specific study materials found. Use general knowledge."
	contentBody := ""
	if hasContent {
		contentHeader = "**Content from study materials:**"
		contentBody = content
	}

	return fmt.Sprintf(`# Explanation Request: %s

**Difficulty Level:** %s
- %s

**Structure to follow:**
1. Simple definition
2. Detailed explanation
3. Example or analogy
4. Common misconceptions
5. Related concepts

%s

%s

Please provide a comprehensive explanation now.`,
		titleCase(term), level, levelInstructions[level], contentHeader, contentBody)
}

func comparePrompt(concept1, concept2 string, content1, content2 string, has1, has2 bool) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`# Comparison Request: %s vs %s

**Instructions:** Compare and contrast these two concepts.

**Structure to follow:**
1. Brief overview of each concept
2. Similarities
3. Key differences
4. When to use each
5. Relationship between them

`, titleCase(concept1), titleCase(concept2)))

	if has1 {
		sb.WriteString(fmt.Sprintf("**Content for %s:**\n\n%s\n\n---\n\n", concept1, content1))
	} else {
		sb.WriteString(fmt.Sprintf("**Note:** No study materials found for %s. Use general knowledge.\n\n", concept1))
	}

	if has2 {
		sb.WriteString(fmt.Sprintf("**Content for %s:**\n\n%s\n\n---\n\n", concept2, content2))
	} else {
		sb.WriteString(fmt.Sprintf("**Note:** No study materials found for %s. Use general knowledge.\n\n", concept2))
	}

	sb.WriteString("Please provide a detailed comparison now.")

	return sb.String()
}

func flashcardPrompt(topic string, numCards int, content string) string {
	return fmt.Sprintf(`Create %d flashcards for studying "%s".

Each flashcard needs a clear question/prompt on the front and a concise answer on the back.
Cover key concepts, definitions, formulas, and important facts.

Base your flashcards on the following content:

%s

Return ONLY a valid JSON object (no markdown code fences, no extra text) with this exact schema:
{
  "type": "flashcards",
  "cards": [
    {
      "front": "question or prompt",
      "back": "answer or explanation"
    }
  ]
}`, numCards, strings.ReplaceAll(topic, "_", " "), content)
}

// titleCase replaces underscores with spaces and capitalizes each word
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		for j := 1; j < len(runes); j++ {
			runes[j] = unicode.ToLower(runes[j])
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
