package notes

import (
	"strings"
	"unicode"
)

// BoundaryDetector decides whether a line of extracted text starts a new
// section. PDF text carries no markup, so detection is heuristic; swapping
// the detector changes how section extraction segments a document.
type BoundaryDetector interface {
	// IsBoundary reports whether the trimmed line opens a new section
	IsBoundary(line string) bool
}

// HeuristicDetector flags lines that look like headings in plain text:
// short all-caps lines, or short lines starting with an uppercase letter.
type HeuristicDetector struct{}

// NewHeuristicDetector creates the default plain-text boundary detector
func NewHeuristicDetector() *HeuristicDetector {
	return &HeuristicDetector{}
}

// IsBoundary implements BoundaryDetector
func (d *HeuristicDetector) IsBoundary(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	if isUpper(line) && len(line) > 5 {
		return true
	}

	runes := []rune(line)
	return len(line) < 50 && unicode.IsUpper(runes[0])
}

// isUpper reports whether the string contains at least one letter and
// every letter is uppercase
func isUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

// ExtractPlainSection pulls the section opening at a boundary line whose
// text contains topic (case-insensitive). Capture stops at the next
// boundary line. Returns false when no boundary line matches the topic.
func ExtractPlainSection(text, topic string, detector BoundaryDetector) (string, bool) {
	topicLower := strings.ToLower(topic)
	lines := strings.Split(text, "\n")

	var section []string
	capturing := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if capturing {
			if detector.IsBoundary(trimmed) && !strings.Contains(strings.ToLower(trimmed), topicLower) {
				break
			}
			section = append(section, line)
			continue
		}

		if detector.IsBoundary(trimmed) && strings.Contains(strings.ToLower(trimmed), topicLower) {
			capturing = true
			section = append(section, line)
		}
	}

	if !capturing {
		return "", false
	}

	return strings.TrimSpace(strings.Join(section, "\n")), true
}
