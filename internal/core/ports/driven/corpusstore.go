package driven

import (
	"context"

	"github.com/askdocs/askdocs/internal/core/domain"
)

// CorpusStore owns a named, on-disk vector index per corpus.
// No other component mutates a corpus's storage location.
//
// Concurrent calls targeting different corpus ids are independent.
// Simultaneous upserts into the same corpus are not guaranteed to be
// linearizable; serialising writers per corpus id is a caller
// responsibility.
type CorpusStore interface {
	// Create generates a fresh unique corpus id and an empty persistent
	// storage location keyed by it. Safe against simultaneous creation.
	Create(ctx context.Context) (string, error)

	// Upsert embeds each text and persists (vector, text, metadata)
	// triples into the corpus index, appending to existing content.
	// len(texts) == len(metas) is a precondition; it is checked before
	// any embedding call is made. The data is durable when Upsert
	// returns. Provider failures are reported as
	// domain.ErrEmbeddingProvider.
	Upsert(ctx context.Context, corpusID string, texts []string, metas []domain.ChunkMeta) error

	// Open binds the configured embedding provider to the corpus index.
	// Opening a corpus id with no prior Create/Upsert yields an index
	// with zero vectors: queries return no candidates, not an error.
	Open(ctx context.Context, corpusID string) (CorpusHandle, error)

	// Delete physically removes the corpus's storage location.
	// Deleting a nonexistent corpus is a no-op, not an error.
	Delete(ctx context.Context, corpusID string) error

	// WriteManifest writes the best-effort audit manifest beside the
	// corpus index. Callers treat failures as diagnostic only.
	WriteManifest(ctx context.Context, corpusID string, m domain.Manifest) error
}

// CorpusHandle is a queryable view of one corpus index.
type CorpusHandle interface {
	// SimilaritySearch embeds the query and runs a maximal-marginal-
	// relevance style search: fetchK raw nearest neighbours are
	// re-ranked for relevance and diversity, and up to poolK candidates
	// are returned in re-ranked order. An empty index returns no
	// candidates and no error.
	SimilaritySearch(ctx context.Context, query string, fetchK, poolK int) ([]domain.RetrievalCandidate, error)

	// Count returns the number of indexed chunks.
	Count(ctx context.Context) (int, error)

	// Close releases the handle.
	Close() error
}
