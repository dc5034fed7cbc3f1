package notes

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/ternarybob/arbor"
)

// ErrEncrypted is returned for password-protected PDFs
var ErrEncrypted = errors.New("pdf is encrypted")

// PDFExtractor extracts plain text from PDF study materials.
// pdfcpu validates the document before ledongthuc/pdf reads its text,
// so malformed or encrypted files fail fast with a clear error.
type PDFExtractor struct {
	logger arbor.ILogger
}

// NewPDFExtractor creates a new PDF extractor
func NewPDFExtractor(logger arbor.ILogger) *PDFExtractor {
	return &PDFExtractor{logger: logger}
}

// Metadata holds lightweight document properties read without text extraction
type Metadata struct {
	PageCount   int  `json:"page_count"`
	IsEncrypted bool `json:"is_encrypted"`
}

// GetMetadata reads page count and encryption status via pdfcpu
func (e *PDFExtractor) GetMetadata(path string) (*Metadata, error) {
	pdfCtx, err := api.ReadContextFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF %s: %w", path, err)
	}

	return &Metadata{
		PageCount:   pdfCtx.PageCount,
		IsEncrypted: pdfCtx.Encrypt != nil,
	}, nil
}

// ExtractText extracts text from every page. Pages that fail to decode
// are skipped; surviving pages are joined with blank lines.
func (e *PDFExtractor) ExtractText(path string) (string, error) {
	meta, err := e.GetMetadata(path)
	if err != nil {
		return "", err
	}
	if meta.IsEncrypted {
		return "", fmt.Errorf("%s: %w", path, ErrEncrypted)
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer f.Close()

	pages := make([]string, 0, meta.PageCount)
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Warn().Err(err).Str("file", path).Int("page", i).Msg("Failed to extract page text, skipping")
			continue
		}

		if trimmed := strings.TrimSpace(pageText); trimmed != "" {
			pages = append(pages, trimmed)
		}
	}

	content := strings.Join(pages, "\n\n")
	e.logger.Debug().Str("file", path).Int("pages", len(pages)).Int("chars", len(content)).Msg("Extracted PDF text")

	return content, nil
}
