package notes

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

// writePDF assembles a single-page PDF showing the given text. The
// cross-reference offsets are computed while writing, so the file is
// valid by construction. Text must not contain parentheses.
func writePDF(t *testing.T, path, text string) {
	t.Helper()

	var buf bytes.Buffer
	var offsets []int
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		buf.WriteString(body)
	}

	content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)

	buf.WriteString("%PDF-1.4\n")
	obj("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	obj("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	obj("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] " +
		"/Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>\nendobj\n")
	obj(fmt.Sprintf("4 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(content), content))
	obj("5 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n")

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)

	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func TestPDFExtractText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "biology.pdf")
	writePDF(t, path, "Photosynthesis converts light into energy")

	extractor := NewPDFExtractor(arbor.NewLogger())

	text, err := extractor.ExtractText(path)
	require.NoError(t, err)
	assert.Contains(t, text, "Photosynthesis")
}

func TestPDFExtractTextMissingFile(t *testing.T) {
	extractor := NewPDFExtractor(arbor.NewLogger())

	_, err := extractor.ExtractText(filepath.Join(t.TempDir(), "absent.pdf"))
	assert.Error(t, err)
}

func TestPDFExtractTextCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf"), 0644))

	extractor := NewPDFExtractor(arbor.NewLogger())

	_, err := extractor.ExtractText(path)
	assert.Error(t, err)
}

func TestPDFGetMetadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "single.pdf")
	writePDF(t, path, "One page")

	extractor := NewPDFExtractor(arbor.NewLogger())

	meta, err := extractor.GetMetadata(path)
	require.NoError(t, err)
	assert.Equal(t, 1, meta.PageCount)
	assert.False(t, meta.IsEncrypted)
}

func TestPDFExtractTextEncrypted(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "plain.pdf")
	writePDF(t, plain, "Owner protected material")

	locked := filepath.Join(dir, "locked.pdf")
	conf := model.NewAESConfiguration("", "owner-secret", 256)
	require.NoError(t, api.EncryptFile(plain, locked, conf))

	extractor := NewPDFExtractor(arbor.NewLogger())

	_, err := extractor.ExtractText(locked)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEncrypted))
}

func TestLocateReadsPDF(t *testing.T) {
	locator, dir := newTestLocator(t)
	writePDF(t, filepath.Join(dir, "waves.pdf"), "Waves carry energy without moving matter")

	result := locator.Locate("sound")

	require.Equal(t, StatusFound, result.Status)
	assert.Contains(t, result.Content, "## From waves.pdf")
	assert.Contains(t, result.Content, "Waves carry energy")
}

func TestLocateSkipsCorruptPDFKeepsOthers(t *testing.T) {
	locator, dir := newTestLocator(t)
	writeNote(t, dir, "broken.pdf", "garbage bytes, not a pdf")
	writeNote(t, dir, "cells.md", "# Cells\n\nMitochondria produce ATP.")

	result := locator.Locate("cells")

	require.Equal(t, StatusFound, result.Status)
	assert.Contains(t, result.Content, "## From cells.md")
	assert.NotContains(t, result.Content, "broken.pdf")
}
