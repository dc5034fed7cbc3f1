package notes

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ternarybob/arbor"
)

const (
	// maxFallbackChars caps whole-document fallback content per file
	maxFallbackChars = 10000

	truncationMarker = "\n\n[Content truncated...]"

	fragmentSeparator = "\n\n---\n\n"
)

// LocateStatus tags the outcome of a topic lookup
type LocateStatus int

const (
	// StatusFound means content was collected from at least one file
	StatusFound LocateStatus = iota
	// StatusDirMissing means the notes directory does not exist
	StatusDirMissing
	// StatusNoFiles means the directory holds no supported documents
	StatusNoFiles
	// StatusExtractFailed means every file failed to yield content
	StatusExtractFailed
)

// LocateResult is the discriminated outcome of a topic lookup. Callers
// switch on Status; Message renders the model-facing text for the
// non-found conditions.
type LocateResult struct {
	Status  LocateStatus
	Content string
	Dir     string
}

// Found reports whether content was collected
func (r LocateResult) Found() bool {
	return r.Status == StatusFound
}

// Message returns the text handed to the model: the collected content
// when found, or a condition-specific notice otherwise
func (r LocateResult) Message() string {
	switch r.Status {
	case StatusFound:
		return r.Content
	case StatusDirMissing:
		return fmt.Sprintf("Notes directory not found: %s. Please create it and add your study materials.", r.Dir)
	case StatusNoFiles:
		return fmt.Sprintf("No PDF or Markdown files found in %s. Please add your study materials.", r.Dir)
	default:
		return fmt.Sprintf("Could not extract content from files in %s. Please check the files are readable.", r.Dir)
	}
}

// Locator finds document content relevant to a free-text topic.
// It is stateless and performs no caching: every call re-reads from disk.
type Locator struct {
	dir        string
	extensions []string
	pdf        *PDFExtractor
	detector   BoundaryDetector
	logger     arbor.ILogger
}

// NewLocator creates a locator over the given notes directory
func NewLocator(dir string, extensions []string, logger arbor.ILogger) *Locator {
	if len(extensions) == 0 {
		extensions = []string{".pdf", ".md"}
	}
	return &Locator{
		dir:        dir,
		extensions: extensions,
		pdf:        NewPDFExtractor(logger),
		detector:   NewHeuristicDetector(),
		logger:     logger,
	}
}

// WithBoundaryDetector substitutes the plain-text section heuristic
func (l *Locator) WithBoundaryDetector(d BoundaryDetector) *Locator {
	l.detector = d
	return l
}

// Dir returns the notes directory the locator scans
func (l *Locator) Dir() string {
	return l.dir
}

// ListFiles returns the names of supported documents, sorted.
// A missing directory yields an empty list, not an error.
func (l *Locator) ListFiles() []string {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return []string{}
	}

	files := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if l.supported(entry.Name()) {
			files = append(files, entry.Name())
		}
	}

	sort.Strings(files)
	return files
}

func (l *Locator) supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, supported := range l.extensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// Locate scans every supported document for the topic. Per file it tries
// section extraction first and falls back to truncated full text. Files
// that fail to read are logged and skipped so one corrupt document never
// blocks retrieval from the rest.
func (l *Locator) Locate(topic string) LocateResult {
	if info, err := os.Stat(l.dir); err != nil || !info.IsDir() {
		return LocateResult{Status: StatusDirMissing, Dir: l.dir}
	}

	files := l.ListFiles()
	if len(files) == 0 {
		return LocateResult{Status: StatusNoFiles, Dir: l.dir}
	}

	var fragments []string
	for _, name := range files {
		path := filepath.Join(l.dir, name)

		fragment, ok := l.extractFile(path, name, topic)
		if !ok {
			continue
		}
		fragments = append(fragments, fragment)
	}

	if len(fragments) == 0 {
		return LocateResult{Status: StatusExtractFailed, Dir: l.dir}
	}

	l.logger.Debug().Str("topic", topic).Int("files", len(fragments)).Msg("Located topic content")

	return LocateResult{
		Status:  StatusFound,
		Content: strings.Join(fragments, fragmentSeparator),
		Dir:     l.dir,
	}
}

// extractFile produces one annotated fragment for a single document.
// PDF and Markdown follow the same shape: section match first, then
// truncated full text.
func (l *Locator) extractFile(path, name, topic string) (string, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		fullText, err := l.pdf.ExtractText(path)
		if err != nil || strings.TrimSpace(fullText) == "" {
			l.logger.Warn().Err(err).Str("file", name).Msg("Skipping unreadable PDF")
			return "", false
		}
		if section, ok := ExtractPlainSection(fullText, topic, l.detector); ok {
			return fmt.Sprintf("## From %s - Section: %s\n\n%s", name, topic, section), true
		}
		return fmt.Sprintf("## From %s\n\n%s", name, truncate(fullText)), true

	case ".md":
		data, err := os.ReadFile(path)
		if err != nil || strings.TrimSpace(string(data)) == "" {
			l.logger.Warn().Err(err).Str("file", name).Msg("Skipping unreadable Markdown file")
			return "", false
		}
		if section, ok := ExtractMarkdownSection(data, topic); ok {
			return fmt.Sprintf("## From %s - Section: %s\n\n%s", name, topic, section), true
		}
		return fmt.Sprintf("## From %s\n\n%s", name, truncate(strings.TrimSpace(string(data)))), true
	}

	return "", false
}

// truncate limits content to maxFallbackChars characters, appending a
// marker when anything was dropped. The cap counts runes, not bytes, so
// multibyte notes keep their full allowance.
func truncate(s string) string {
	if len(s) <= maxFallbackChars {
		// Byte length bounds rune length, so short content passes
		// without decoding.
		return s
	}
	if utf8.RuneCountInString(s) <= maxFallbackChars {
		return s
	}

	return string([]rune(s)[:maxFallbackChars]) + truncationMarker
}
