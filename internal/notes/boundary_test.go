package notes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeuristicDetectorIsBoundary(t *testing.T) {
	detector := NewHeuristicDetector()

	tests := []struct {
		name string
		line string
		want bool
	}{
		{"All-caps heading", "CHAPTER THREE: WAVES", true},
		{"Short capitalized line", "Wave Interference", true},
		{"Short all-caps word", "WAVES", true},
		{"Lowercase sentence", "the wave equation follows from", false},
		{"Long capitalized sentence", "The wave equation follows from Newton's second law applied to a string element.", false},
		{"Empty line", "", false},
		{"Whitespace only", "   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detector.IsBoundary(tt.line))
		})
	}
}

func TestExtractPlainSection(t *testing.T) {
	text := `INTRODUCTION
some introductory words that carry on
and on in lowercase fashion
THERMODYNAMICS AND HEAT
heat flows from hot bodies to cold bodies
entropy is a measure of disorder
ELECTROMAGNETISM
charges attract and repel`

	detector := NewHeuristicDetector()

	section, found := ExtractPlainSection(text, "thermodynamics", detector)
	require.True(t, found)
	assert.Contains(t, section, "THERMODYNAMICS AND HEAT")
	assert.Contains(t, section, "heat flows from hot bodies")
	assert.Contains(t, section, "entropy is a measure")
	assert.NotContains(t, section, "ELECTROMAGNETISM")
	assert.NotContains(t, section, "charges attract")
}

func TestExtractPlainSectionNoMatch(t *testing.T) {
	text := "INTRODUCTION\nsome words\nCONCLUSION\nmore words"
	detector := NewHeuristicDetector()

	_, found := ExtractPlainSection(text, "quantum", detector)
	assert.False(t, found)
}

func TestExtractPlainSectionTopicInBodyOnly(t *testing.T) {
	// Topic appearing only in body text, never on a boundary line,
	// does not start a capture.
	text := "INTRODUCTION\nquantum mechanics is mentioned here in passing\nCONCLUSION\nthe end"
	detector := NewHeuristicDetector()

	_, found := ExtractPlainSection(text, "quantum", detector)
	assert.False(t, found)
}
