package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input
	// (non-PDF content, empty file list, missing corpus id).
	// It is surfaced directly to the caller and is never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingProvider indicates the embedding backend is unreachable
	// or returned an error. Callers may retry independently of corpus
	// storage errors.
	ErrEmbeddingProvider = errors.New("embedding provider error")

	// ErrCompletionProvider indicates the completion backend is unreachable
	// or returned an error.
	ErrCompletionProvider = errors.New("completion provider error")

	// ErrCorpusStorage indicates a failure in the on-disk corpus index.
	// On delete it is reported as a soft error payload rather than a
	// failed request, so a caller can always reset its own session state.
	ErrCorpusStorage = errors.New("corpus storage error")
)
