package driving

import (
	"context"

	"github.com/askdocs/askdocs/internal/core/domain"
)

// AnswerService answers natural-language questions grounded in a corpus.
type AnswerService interface {
	// Ask retrieves relevant passages from the corpus and produces a
	// grounded answer with the candidates it used. A missing corpus id
	// is rejected with domain.ErrInvalidInput. A corpus with no relevant
	// content yields a fixed "no relevant information" answer and an
	// empty context, not an error.
	Ask(ctx context.Context, corpusID, question string) (domain.Answer, error)
}

// CorpusAdmin exposes corpus lifecycle operations to external actors.
type CorpusAdmin interface {
	// Reset physically removes a corpus's storage. Resetting a
	// nonexistent corpus succeeds; storage failures are returned so the
	// caller can report them as a soft error while still clearing its
	// own session state.
	Reset(ctx context.Context, corpusID string) error
}
