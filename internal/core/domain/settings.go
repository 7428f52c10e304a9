package domain

const unknownDescription = "Unknown"

// Provider identifies an AI service provider for embeddings or completions.
type Provider string

// Available providers.
const (
	// ProviderOllama is a local Ollama instance.
	ProviderOllama Provider = "ollama"

	// ProviderOpenAI is the OpenAI cloud API.
	ProviderOpenAI Provider = "openai"

	// ProviderAnthropic is the Anthropic cloud API (completions only).
	ProviderAnthropic Provider = "anthropic"
)

// IsValid returns true if the provider is recognised.
func (p Provider) IsValid() bool {
	switch p {
	case ProviderOllama, ProviderOpenAI, ProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p Provider) RequiresAPIKey() bool {
	return p == ProviderOpenAI || p == ProviderAnthropic
}

// String returns the string representation.
func (p Provider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p Provider) Description() string {
	switch p {
	case ProviderOllama:
		return "Ollama (local)"
	case ProviderOpenAI:
		return "OpenAI (cloud)"
	case ProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings selects and configures the embedding provider.
type EmbeddingSettings struct {
	// Provider is the embedding backend (openai or ollama).
	Provider Provider `toml:"provider"`

	// BaseURL overrides the provider's default endpoint.
	BaseURL string `toml:"base_url"`

	// Model is the embedding model name.
	Model string `toml:"model"`

	// APIKey authenticates cloud providers. Usually supplied through the
	// environment rather than the config file.
	APIKey string `toml:"-"`

	// Dimensions overrides the model's default vector size.
	Dimensions int `toml:"dimensions"`
}

// CompletionSettings selects and configures the completion provider.
type CompletionSettings struct {
	// Provider is the completion backend (openai, ollama or anthropic).
	Provider Provider `toml:"provider"`

	// BaseURL overrides the provider's default endpoint.
	BaseURL string `toml:"base_url"`

	// Model is the chat model name.
	Model string `toml:"model"`

	// APIKey authenticates cloud providers.
	APIKey string `toml:"-"`

	// MaxTokens caps the answer length. Zero uses the adapter default.
	MaxTokens int `toml:"max_tokens"`
}

// IngestionSettings configures chunking during ingestion.
type IngestionSettings struct {
	// ChunkSize is the soft maximum chunk length in characters.
	ChunkSize int `toml:"chunk_size"`

	// ChunkOverlap is the approximate trailing context repeated at the
	// start of the next chunk.
	ChunkOverlap int `toml:"chunk_overlap"`
}

// RetrievalSettings configures balanced retrieval.
type RetrievalSettings struct {
	// TopK is the maximum number of candidates per query.
	TopK int `toml:"top_k"`

	// PerDoc caps candidates per document in the balanced round.
	PerDoc int `toml:"per_doc"`
}

// ServerSettings configures the HTTP surface.
type ServerSettings struct {
	// ListenAddr is the address the HTTP server binds to.
	ListenAddr string `toml:"listen_addr"`
}

// Settings is the resolved, immutable application configuration.
// It is built once at process start and passed to each component at
// construction; nothing reads configuration ad hoc from global state.
type Settings struct {
	// DataDir is the root directory holding one storage location per corpus.
	DataDir string `toml:"data_dir"`

	Server     ServerSettings     `toml:"server"`
	Ingestion  IngestionSettings  `toml:"ingestion"`
	Retrieval  RetrievalSettings  `toml:"retrieval"`
	Embedding  EmbeddingSettings  `toml:"embedding"`
	Completion CompletionSettings `toml:"completion"`
}
