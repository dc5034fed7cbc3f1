package notes

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func newTestLocator(t *testing.T) (*Locator, string) {
	t.Helper()
	dir := t.TempDir()
	return NewLocator(dir, nil, arbor.NewLogger()), dir
}

func writeNote(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLocateDirMissing(t *testing.T) {
	locator := NewLocator("/nonexistent/notes", nil, arbor.NewLogger())

	result := locator.Locate("anything")

	assert.Equal(t, StatusDirMissing, result.Status)
	assert.False(t, result.Found())
	assert.Contains(t, result.Message(), "Notes directory not found: /nonexistent/notes")
	assert.Contains(t, result.Message(), "Please create it and add your study materials.")
}

func TestLocateNoFiles(t *testing.T) {
	locator, dir := newTestLocator(t)
	writeNote(t, dir, "ignored.txt", "not a supported format")

	result := locator.Locate("anything")

	assert.Equal(t, StatusNoFiles, result.Status)
	assert.Contains(t, result.Message(), "No PDF or Markdown files found in "+dir)
}

func TestLocateExtractFailed(t *testing.T) {
	locator, dir := newTestLocator(t)
	writeNote(t, dir, "empty.md", "   \n  ")

	result := locator.Locate("anything")

	assert.Equal(t, StatusExtractFailed, result.Status)
	assert.Contains(t, result.Message(), "Could not extract content from files in "+dir)
	assert.Contains(t, result.Message(), "Please check the files are readable.")
}

func TestLocateSectionMatch(t *testing.T) {
	locator, dir := newTestLocator(t)
	writeNote(t, dir, "physics.md", sampleDoc)

	result := locator.Locate("Thermodynamics")

	require.Equal(t, StatusFound, result.Status)
	assert.Contains(t, result.Content, "## From physics.md - Section: Thermodynamics")
	assert.Contains(t, result.Content, "Heat flows from hot to cold.")
	assert.NotContains(t, result.Content, "Charges attract")
}

func TestLocateFullTextFallback(t *testing.T) {
	locator, dir := newTestLocator(t)
	writeNote(t, dir, "notes.md", "# Other Topic\n\nBody without the search term in any heading.")

	result := locator.Locate("quantum")

	require.Equal(t, StatusFound, result.Status)
	assert.Contains(t, result.Content, "## From notes.md\n\n")
	assert.NotContains(t, result.Content, "Section:")
	assert.NotContains(t, result.Content, "[Content truncated...]")
}

func TestLocateFallbackTruncation(t *testing.T) {
	locator, dir := newTestLocator(t)
	body := "# Title\n\n" + strings.Repeat("a", maxFallbackChars+500)
	writeNote(t, dir, "big.md", body)

	result := locator.Locate("quantum")

	require.Equal(t, StatusFound, result.Status)
	assert.Contains(t, result.Content, "[Content truncated...]")

	// The fragment body is cut at exactly the cap before the marker.
	fragment := strings.TrimPrefix(result.Content, "## From big.md\n\n")
	assert.Equal(t, maxFallbackChars+len(truncationMarker), len(fragment))
}

func TestTruncateUnderCapUnmodified(t *testing.T) {
	content := strings.Repeat("b", maxFallbackChars)
	assert.Equal(t, content, truncate(content))
}

func TestTruncateCountsRunesNotBytes(t *testing.T) {
	// Three bytes per rune; the cap is on characters, so exactly
	// maxFallbackChars runes pass unmodified.
	content := strings.Repeat("学", maxFallbackChars)
	assert.Equal(t, content, truncate(content))

	over := content + "習"
	got := truncate(over)
	assert.True(t, strings.HasSuffix(got, truncationMarker))
	body := strings.TrimSuffix(got, truncationMarker)
	assert.Equal(t, maxFallbackChars, len([]rune(body)))
	assert.NotContains(t, body, "習")
}

func TestLocateJoinsFilesInSortedOrder(t *testing.T) {
	locator, dir := newTestLocator(t)
	writeNote(t, dir, "zebra.md", "# Zebra\n\nstripes")
	writeNote(t, dir, "alpha.md", "# Alpha\n\nfirst letter")

	result := locator.Locate("nothing-matches")

	require.Equal(t, StatusFound, result.Status)
	parts := strings.Split(result.Content, "\n\n---\n\n")
	require.Len(t, parts, 2)
	assert.True(t, strings.HasPrefix(parts[0], "## From alpha.md"))
	assert.True(t, strings.HasPrefix(parts[1], "## From zebra.md"))
}

func TestLocateSkipsUnreadableFileButKeepsOthers(t *testing.T) {
	locator, dir := newTestLocator(t)
	writeNote(t, dir, "good.md", "# Good\n\nreadable content")
	writeNote(t, dir, "bad.md", "")

	result := locator.Locate("anything")

	require.Equal(t, StatusFound, result.Status)
	assert.Contains(t, result.Content, "## From good.md")
	assert.NotContains(t, result.Content, "bad.md")
}

func TestListFiles(t *testing.T) {
	locator, dir := newTestLocator(t)
	writeNote(t, dir, "b.md", "x")
	writeNote(t, dir, "a.pdf", "not really a pdf but listed by extension")
	writeNote(t, dir, "c.txt", "unsupported")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.md"), 0755))

	files := locator.ListFiles()

	assert.Equal(t, []string{"a.pdf", "b.md"}, files)
}

func TestListFilesMissingDir(t *testing.T) {
	locator := NewLocator("/nonexistent/notes", nil, arbor.NewLogger())
	assert.Equal(t, []string{}, locator.ListFiles())
}
