package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askdocs/askdocs/internal/core/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadSettings_MissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.toml")

	got, err := LoadSettings(path)

	require.NoError(t, err)
	assert.Equal(t, DefaultListenAddr, got.Server.ListenAddr)
	assert.Equal(t, DefaultChunkSize, got.Ingestion.ChunkSize)
	assert.Equal(t, DefaultChunkOverlap, got.Ingestion.ChunkOverlap)
	assert.Equal(t, DefaultTopK, got.Retrieval.TopK)
	assert.Equal(t, DefaultPerDoc, got.Retrieval.PerDoc)
	assert.Equal(t, domain.ProviderOllama, got.Embedding.Provider)
	assert.Equal(t, domain.ProviderOllama, got.Completion.Provider)
	assert.NotEmpty(t, got.DataDir)
}

func TestLoadSettings_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
data_dir = "/tmp/corpora"

[server]
listen_addr = "0.0.0.0:9000"

[ingestion]
chunk_size = 1000
chunk_overlap = 200

[retrieval]
top_k = 4
per_doc = 2

[embedding]
provider = "ollama"
model = "all-minilm"
dimensions = 384

[completion]
provider = "ollama"
model = "llama3.2"
`)

	got, err := LoadSettings(path)

	require.NoError(t, err)
	assert.Equal(t, "/tmp/corpora", got.DataDir)
	assert.Equal(t, "0.0.0.0:9000", got.Server.ListenAddr)
	assert.Equal(t, 1000, got.Ingestion.ChunkSize)
	assert.Equal(t, 200, got.Ingestion.ChunkOverlap)
	assert.Equal(t, 4, got.Retrieval.TopK)
	assert.Equal(t, 2, got.Retrieval.PerDoc)
	assert.Equal(t, "all-minilm", got.Embedding.Model)
	assert.Equal(t, 384, got.Embedding.Dimensions)
	assert.Equal(t, "llama3.2", got.Completion.Model)
}

func TestLoadSettings_PartialFileKeepsRemainingDefaults(t *testing.T) {
	path := writeConfig(t, `
[retrieval]
top_k = 12
`)

	got, err := LoadSettings(path)

	require.NoError(t, err)
	assert.Equal(t, 12, got.Retrieval.TopK)
	assert.Equal(t, DefaultPerDoc, got.Retrieval.PerDoc)
	assert.Equal(t, DefaultChunkSize, got.Ingestion.ChunkSize)
}

func TestLoadSettings_EnvironmentSuppliesAPIKeys(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("ANTHROPIC_API_KEY", "sk-anthropic")

	path := writeConfig(t, `
[embedding]
provider = "openai"

[completion]
provider = "anthropic"
`)

	got, err := LoadSettings(path)

	require.NoError(t, err)
	assert.Equal(t, "sk-openai", got.Embedding.APIKey)
	assert.Equal(t, "sk-anthropic", got.Completion.APIKey)
}

func TestLoadSettings_CloudProviderWithoutKeyFails(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	path := writeConfig(t, `
[embedding]
provider = "openai"
`)

	_, err := LoadSettings(path)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoadSettings_RejectsUnknownProvider(t *testing.T) {
	path := writeConfig(t, `
[completion]
provider = "mystery"
`)

	_, err := LoadSettings(path)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoadSettings_RejectsOverlapNotSmallerThanSize(t *testing.T) {
	path := writeConfig(t, `
[ingestion]
chunk_size = 100
chunk_overlap = 100
`)

	_, err := LoadSettings(path)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoadSettings_MalformedTOML(t *testing.T) {
	path := writeConfig(t, `this is not toml = = =`)

	_, err := LoadSettings(path)

	assert.Error(t, err)
}
