package study

import (
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/studium/internal/notes"
)

// Service builds model-facing prompts for the study tools. Each operation
// retrieves topic content through the locator and wraps it in tool-specific
// instructions. Retrieval misses are returned as the locator's message so
// the model can relay the condition to the user.
type Service struct {
	locator *notes.Locator
	logger  arbor.ILogger

	defaultQuizQuestions int
	defaultFlashcards    int
}

// NewService creates a study tool service over the given locator
func NewService(locator *notes.Locator, defaultQuizQuestions, defaultFlashcards int, logger arbor.ILogger) *Service {
	if defaultQuizQuestions <= 0 {
		defaultQuizQuestions = 5
	}
	if defaultFlashcards <= 0 {
		defaultFlashcards = 7
	}
	return &Service{
		locator:              locator,
		logger:               logger,
		defaultQuizQuestions: defaultQuizQuestions,
		defaultFlashcards:    defaultFlashcards,
	}
}

// Locator exposes the underlying topic locator
func (s *Service) Locator() *notes.Locator {
	return s.locator
}

// SummarizeTopic prepares a summarization prompt for a topic
func (s *Service) SummarizeTopic(topic, length string) string {
	if _, ok := lengthInstructions[length]; !ok {
		length = "brief"
	}

	s.logger.Info().Str("topic", topic).Str("length", length).Msg("Preparing topic summary")

	result := s.locator.Locate(topic)
	if !result.Found() {
		return result.Message()
	}

	return summaryPrompt(topic, length, result.Content)
}

// SummarizeChapter prepares a structured chapter summary prompt
func (s *Service) SummarizeChapter(chapterName string) string {
	s.logger.Info().Str("chapter", chapterName).Msg("Preparing chapter summary")

	result := s.locator.Locate(chapterName)
	if !result.Found() {
		return result.Message()
	}

	return chapterPrompt(chapterName, result.Content)
}

// CreateQuiz prepares a multiple-choice quiz prompt
func (s *Service) CreateQuiz(topic string, numQuestions int, difficulty string) string {
	if numQuestions <= 0 {
		numQuestions = s.defaultQuizQuestions
	}
	if _, ok := difficultyInstructions[difficulty]; !ok {
		difficulty = "intermediate"
	}

	s.logger.Info().Str("topic", topic).Int("questions", numQuestions).Str("difficulty", difficulty).Msg("Preparing quiz")

	result := s.locator.Locate(topic)
	if !result.Found() {
		return result.Message()
	}

	return quizPrompt(topic, numQuestions, difficulty, result.Content)
}

// ExplainTopic prepares an explanation prompt. Missing study material is
// not an error here: the model is told to fall back to general knowledge.
func (s *Service) ExplainTopic(term, level string) string {
	if _, ok := levelInstructions[level]; !ok {
		level = "beginner"
	}

	s.logger.Info().Str("term", term).Str("level", level).Msg("Preparing explanation")

	result := s.locator.Locate(term)

	return explainPrompt(term, level, result.Content, result.Found())
}

// CompareConcepts prepares a comparison prompt for two concepts, each with
// its own retrieval and general-knowledge fallback
func (s *Service) CompareConcepts(concept1, concept2 string) string {
	s.logger.Info().Str("concept1", concept1).Str("concept2", concept2).Msg("Preparing comparison")

	result1 := s.locator.Locate(concept1)
	result2 := s.locator.Locate(concept2)

	return comparePrompt(concept1, concept2, result1.Content, result2.Content, result1.Found(), result2.Found())
}

// CreateFlashcards prepares a flashcard deck prompt
func (s *Service) CreateFlashcards(topic string, numCards int) string {
	if numCards <= 0 {
		numCards = s.defaultFlashcards
	}

	s.logger.Info().Str("topic", topic).Int("cards", numCards).Msg("Preparing flashcards")

	result := s.locator.Locate(topic)
	if !result.Found() {
		return result.Message()
	}

	return flashcardPrompt(topic, numCards, result.Content)
}
