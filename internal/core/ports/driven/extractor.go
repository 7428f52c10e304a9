package driven

import "github.com/askdocs/askdocs/internal/core/domain"

// PageExtractor turns raw PDF bytes into normalised per-page text.
//
// The returned sequence has exactly one entry per page in document order,
// 1-based, including pages whose text is empty; downstream consumers rely
// on page-count alignment for audit purposes. A page whose text cannot be
// extracted is recorded with an empty string, never as an error.
type PageExtractor interface {
	// ExtractPages parses the document and returns its normalised pages.
	// It returns an error only when the bytes are not a readable PDF at
	// all, wrapped as domain.ErrInvalidInput.
	ExtractPages(data []byte) ([]domain.PageText, error)
}
