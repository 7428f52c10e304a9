// Package pdf extracts normalised per-page text from PDF documents.
package pdf

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/askdocs/askdocs/internal/core/domain"
	"github.com/askdocs/askdocs/internal/core/ports/driven"
	"github.com/askdocs/askdocs/internal/logger"
)

// MaxFileSize is the hard limit for a single PDF upload.
const MaxFileSize = 50 * 1024 * 1024

// Ensure Extractor implements the interface.
var _ driven.PageExtractor = (*Extractor)(nil)

var (
	horizontalWS = regexp.MustCompile(`[ \t]+`)
	newlineRuns  = regexp.MustCompile(`\n{3,}`)
)

// Extractor parses PDF bytes into ordered, normalised pages.
type Extractor struct{}

// New creates a PDF page extractor.
func New() *Extractor {
	return &Extractor{}
}

// ExtractPages returns one entry per page in document order, 1-based,
// including pages with empty text. Encrypted documents are opened with a
// best-effort empty-password decrypt. A page whose text cannot be
// extracted is recorded with an empty string rather than aborting the
// document.
func (e *Extractor) ExtractPages(data []byte) ([]domain.PageText, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty PDF content", domain.ErrInvalidInput)
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("%w: PDF exceeds %d byte limit", domain.ErrInvalidInput, MaxFileSize)
	}

	// The reader attempts the standard empty user password before
	// giving up on encrypted input.
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a readable PDF: %v", domain.ErrInvalidInput, err)
	}

	total := reader.NumPage()
	pages := make([]domain.PageText, 0, total)
	for i := 1; i <= total; i++ {
		text := extractPageText(reader, i)
		pages = append(pages, domain.PageText{
			Number: i,
			Text:   NormalizeText(text),
		})
	}

	return pages, nil
}

// extractPageText pulls the plain text of one page. Extraction failures,
// including parser panics on malformed content streams, degrade to an
// empty page instead of an error.
func extractPageText(reader *pdf.Reader, number int) (text string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("page %d extraction panicked: %v", number, r)
			text = ""
		}
	}()

	page := reader.Page(number)
	if page.V.IsNull() {
		return ""
	}

	content, err := page.GetPlainText(nil)
	if err != nil {
		logger.Warn("page %d extraction failed: %v", number, err)
		return ""
	}
	return content
}

// NormalizeText makes page text stable across re-ingestion of
// byte-identical input: line-ending variants become a single newline
// form, runs of horizontal whitespace collapse to one space, three or
// more consecutive newlines collapse to exactly two (preserving the
// paragraph boundary), and leading/trailing whitespace is trimmed.
// It is deterministic and runs before chunking so overlap and boundary
// decisions are reproducible.
func NormalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = horizontalWS.ReplaceAllString(text, " ")
	text = newlineRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
