package driving

import (
	"context"

	"github.com/askdocs/askdocs/internal/core/domain"
)

// IngestResult reports the outcome of an ingestion call.
type IngestResult struct {
	// CorpusID identifies the corpus the documents were indexed into.
	CorpusID string

	// Chunks is the total number of chunk records produced, sentinel
	// placeholders included.
	Chunks int
}

// IngestService turns uploaded PDF documents into indexed corpus content.
type IngestService interface {
	// Ingest extracts, chunks and indexes the given files. With an empty
	// corpusID a fresh corpus is created; otherwise documents are
	// appended to the existing corpus. An empty file list is rejected
	// with domain.ErrInvalidInput. Files are processed sequentially; the
	// call returns once the index is durable.
	Ingest(ctx context.Context, corpusID string, files []domain.FileUpload) (IngestResult, error)
}
