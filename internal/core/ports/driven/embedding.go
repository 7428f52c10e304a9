package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// It is a black-box capability provider: embed(text) -> fixed-length vector,
// deterministic for a given model configuration.
//
// Note: this is separate from CorpusStore, which persists and searches
// vectors. EmbeddingService generates vectors; CorpusStore stores them.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (nomic-embed-text, all-minilm)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	// This is more efficient than calling Embed in a loop for large batches.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 768, 1536).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request. Used at startup before committing to a configuration.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
