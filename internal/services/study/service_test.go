package study

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/studium/internal/notes"
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	locator := notes.NewLocator(dir, nil, arbor.NewLogger())
	return NewService(locator, 5, 7, arbor.NewLogger()), dir
}

func writeNote(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

const physicsNotes = `# Physics

## Thermodynamics

Heat flows from hot to cold. Entropy increases.

## Optics

Light refracts at interfaces.
`

func TestSummarizeTopic(t *testing.T) {
	svc, dir := newTestService(t)
	writeNote(t, dir, "physics.md", physicsNotes)

	out := svc.SummarizeTopic("Thermodynamics", "brief")

	assert.Contains(t, out, "# Summarization Request for: Thermodynamics")
	assert.Contains(t, out, "Create a concise 3-5 sentence summary")
	assert.Contains(t, out, "Heat flows from hot to cold.")
	assert.Contains(t, out, "well-structured summary with key concepts")
}

func TestSummarizeTopicUnknownLengthDefaultsToBrief(t *testing.T) {
	svc, dir := newTestService(t)
	writeNote(t, dir, "physics.md", physicsNotes)

	out := svc.SummarizeTopic("Optics", "gigantic")

	assert.Contains(t, out, "concise 3-5 sentence summary")
}

func TestSummarizeTopicMissingDirectoryShortCircuits(t *testing.T) {
	locator := notes.NewLocator("/nonexistent/notes", nil, arbor.NewLogger())
	svc := NewService(locator, 5, 7, arbor.NewLogger())

	out := svc.SummarizeTopic("anything", "brief")

	assert.Contains(t, out, "Notes directory not found")
	assert.NotContains(t, out, "Summarization Request")
}

func TestSummarizeChapter(t *testing.T) {
	svc, dir := newTestService(t)
	writeNote(t, dir, "physics.md", physicsNotes)

	out := svc.SummarizeChapter("thermodynamics_basics")

	assert.Contains(t, out, "# Chapter Summary Request: Thermodynamics Basics")
	assert.Contains(t, out, "1. Overview (2-3 sentences)")
	assert.Contains(t, out, "5. Common Pitfalls")
}

func TestCreateQuiz(t *testing.T) {
	svc, dir := newTestService(t)
	writeNote(t, dir, "physics.md", physicsNotes)

	out := svc.CreateQuiz("Thermodynamics", 3, "advanced")

	assert.Contains(t, out, `Create a 3-question multiple-choice quiz on "Thermodynamics".`)
	assert.Contains(t, out, "Include complex scenarios and edge cases.")
	assert.Contains(t, out, `"type": "quiz"`)
	assert.Contains(t, out, `"options": {"A": "...", "B": "...", "C": "...", "D": "..."}`)
}

func TestCreateQuizDefaults(t *testing.T) {
	svc, dir := newTestService(t)
	writeNote(t, dir, "physics.md", physicsNotes)

	out := svc.CreateQuiz("Optics", 0, "")

	assert.Contains(t, out, "Create a 5-question multiple-choice quiz")
	assert.Contains(t, out, "Include application-based questions.")
}

func TestCreateQuizEmptyNotesShortCircuits(t *testing.T) {
	svc, dir := newTestService(t)

	out := svc.CreateQuiz("Thermodynamics", 5, "beginner")

	assert.Contains(t, out, "No PDF or Markdown files found in "+dir)
	assert.NotContains(t, out, "multiple-choice quiz")
}

func TestExplainTopicWithContent(t *testing.T) {
	svc, dir := newTestService(t)
	writeNote(t, dir, "physics.md", physicsNotes)

	out := svc.ExplainTopic("optics", "advanced")

	assert.Contains(t, out, "# Explanation Request: Optics")
	assert.Contains(t, out, "Include formulas, edge cases, implementation details")
	assert.Contains(t, out, "**Content from study materials:**")
	assert.Contains(t, out, "Light refracts at interfaces.")
}

func TestExplainTopicWithoutContentFallsBackToGeneralKnowledge(t *testing.T) {
	svc, _ := newTestService(t)

	out := svc.ExplainTopic("quantum_entanglement", "beginner")

	assert.Contains(t, out, "# Explanation Request: Quantum Entanglement")
	assert.Contains(t, out, "No specific study materials found. Use general knowledge.")
	assert.Contains(t, out, "Use simple analogies, avoid jargon")
	assert.NotContains(t, out, "**Content from study materials:**")
}

func TestCompareConceptsMixedAvailability(t *testing.T) {
	svc, dir := newTestService(t)
	writeNote(t, dir, "physics.md", physicsNotes)

	out := svc.CompareConcepts("Thermodynamics", "Thermodynamics")
	assert.Contains(t, out, "# Comparison Request: Thermodynamics vs Thermodynamics")
	assert.Contains(t, out, "**Content for Thermodynamics:**")

	// Both concepts fall back when nothing is retrievable.
	empty := NewService(notes.NewLocator(t.TempDir(), nil, arbor.NewLogger()), 5, 7, arbor.NewLogger())
	out = empty.CompareConcepts("stacks", "queues")
	assert.Contains(t, out, "No study materials found for stacks. Use general knowledge.")
	assert.Contains(t, out, "No study materials found for queues. Use general knowledge.")
	assert.Contains(t, out, "Please provide a detailed comparison now.")
	_ = dir
}

func TestCreateFlashcards(t *testing.T) {
	svc, dir := newTestService(t)
	writeNote(t, dir, "physics.md", physicsNotes)

	out := svc.CreateFlashcards("heat_transfer", 4)

	assert.Contains(t, out, `Create 4 flashcards for studying "heat transfer".`)
	assert.Contains(t, out, `"type": "flashcards"`)
	assert.Contains(t, out, `"front": "question or prompt"`)
	_ = dir
}

func TestCreateFlashcardsDefaultCount(t *testing.T) {
	svc, dir := newTestService(t)
	writeNote(t, dir, "physics.md", physicsNotes)

	out := svc.CreateFlashcards("Optics", 0)

	assert.Contains(t, out, "Create 7 flashcards")
	_ = dir
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"binary_search", "Binary Search"},
		{"heat transfer", "Heat Transfer"},
		{"TCP", "Tcp"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, titleCase(tt.in))
	}
}
