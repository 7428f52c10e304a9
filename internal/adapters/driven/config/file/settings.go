// Package file provides file-based configuration and prompt loading.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/askdocs/askdocs/internal/core/domain"
)

// Default configuration values.
const (
	DefaultListenAddr   = "127.0.0.1:8080"
	DefaultChunkSize    = 800
	DefaultChunkOverlap = 120
	DefaultTopK         = 8
	DefaultPerDoc       = 1
)

// DefaultConfigPath returns ~/.askdocs/config.toml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".askdocs", "config.toml"), nil
}

// LoadSettings builds the resolved application configuration: defaults,
// overridden by the TOML file at path when it exists, overridden by
// API keys from the environment. An empty path uses the default
// location; a missing file is not an error.
func LoadSettings(path string) (domain.Settings, error) {
	settings := defaultSettings()

	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return domain.Settings{}, err
		}
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No config file yet - run on defaults
	case err != nil:
		return domain.Settings{}, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, &settings); err != nil {
			return domain.Settings{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	applyDefaults(&settings)
	applyEnvironment(&settings)

	if err := validate(settings); err != nil {
		return domain.Settings{}, err
	}

	return settings, nil
}

// defaultSettings is the configuration used when nothing is on disk:
// a local Ollama stack that works without any credentials.
func defaultSettings() domain.Settings {
	return domain.Settings{
		Server: domain.ServerSettings{
			ListenAddr: DefaultListenAddr,
		},
		Ingestion: domain.IngestionSettings{
			ChunkSize:    DefaultChunkSize,
			ChunkOverlap: DefaultChunkOverlap,
		},
		Retrieval: domain.RetrievalSettings{
			TopK:   DefaultTopK,
			PerDoc: DefaultPerDoc,
		},
		Embedding: domain.EmbeddingSettings{
			Provider: domain.ProviderOllama,
		},
		Completion: domain.CompletionSettings{
			Provider: domain.ProviderOllama,
		},
	}
}

// applyDefaults fills zero values a partial config file left unset.
func applyDefaults(s *domain.Settings) {
	if s.DataDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			s.DataDir = filepath.Join(home, ".askdocs", "corpora")
		}
	}
	if s.Server.ListenAddr == "" {
		s.Server.ListenAddr = DefaultListenAddr
	}
	if s.Ingestion.ChunkSize <= 0 {
		s.Ingestion.ChunkSize = DefaultChunkSize
	}
	if s.Ingestion.ChunkOverlap <= 0 {
		s.Ingestion.ChunkOverlap = DefaultChunkOverlap
	}
	if s.Retrieval.TopK <= 0 {
		s.Retrieval.TopK = DefaultTopK
	}
	if s.Retrieval.PerDoc <= 0 {
		s.Retrieval.PerDoc = DefaultPerDoc
	}
	if s.Embedding.Provider == "" {
		s.Embedding.Provider = domain.ProviderOllama
	}
	if s.Completion.Provider == "" {
		s.Completion.Provider = domain.ProviderOllama
	}
}

// applyEnvironment injects API keys. Keys never live in the config
// file; they come from the environment only.
func applyEnvironment(s *domain.Settings) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if s.Embedding.Provider == domain.ProviderOpenAI {
			s.Embedding.APIKey = key
		}
		if s.Completion.Provider == domain.ProviderOpenAI {
			s.Completion.APIKey = key
		}
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		if s.Completion.Provider == domain.ProviderAnthropic {
			s.Completion.APIKey = key
		}
	}
}

// validate rejects configurations that cannot work.
func validate(s domain.Settings) error {
	if !s.Embedding.Provider.IsValid() {
		return fmt.Errorf("%w: unknown embedding provider %q", domain.ErrInvalidInput, s.Embedding.Provider)
	}
	if !s.Completion.Provider.IsValid() {
		return fmt.Errorf("%w: unknown completion provider %q", domain.ErrInvalidInput, s.Completion.Provider)
	}
	if s.Embedding.Provider.RequiresAPIKey() && s.Embedding.APIKey == "" {
		return fmt.Errorf("%w: embedding provider %s needs an API key in the environment",
			domain.ErrInvalidInput, s.Embedding.Provider)
	}
	if s.Completion.Provider.RequiresAPIKey() && s.Completion.APIKey == "" {
		return fmt.Errorf("%w: completion provider %s needs an API key in the environment",
			domain.ErrInvalidInput, s.Completion.Provider)
	}
	if s.Ingestion.ChunkOverlap >= s.Ingestion.ChunkSize {
		return fmt.Errorf("%w: chunk_overlap %d must be smaller than chunk_size %d",
			domain.ErrInvalidInput, s.Ingestion.ChunkOverlap, s.Ingestion.ChunkSize)
	}
	return nil
}
