package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/askdocs/askdocs/internal/core/domain"
	"github.com/askdocs/askdocs/internal/core/ports/driven"
	"github.com/askdocs/askdocs/internal/logger"
)

// dbFileName is the index database inside a corpus directory.
const dbFileName = "index.db"

// manifestFileName is the audit manifest written beside the index.
const manifestFileName = "manifest.json"

// schema creates the chunk table. Per-corpus databases are created on
// demand, so the schema is applied idempotently on every open.
const schema = `
	CREATE TABLE IF NOT EXISTS chunks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		content TEXT NOT NULL,
		source TEXT NOT NULL,
		doc_hash TEXT NOT NULL,
		doc_id TEXT NOT NULL,
		page INTEGER,
		pages TEXT NOT NULL,
		chunk_id INTEGER NOT NULL,
		embedding BLOB
	);
	CREATE INDEX IF NOT EXISTS idx_chunks_doc ON chunks(doc_hash, chunk_id);
`

// Store implements driven.CorpusStore on per-corpus SQLite databases.
// Embeddings are produced through the configured EmbeddingService and
// stored as little-endian float32 blobs next to the chunk text.
type Store struct {
	baseDir  string
	embedder driven.EmbeddingService
}

var _ driven.CorpusStore = (*Store)(nil)

// NewStore creates the store rooted at baseDir. The directory is
// created if it does not exist.
func NewStore(baseDir string, embedder driven.EmbeddingService) (*Store, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		baseDir = filepath.Join(home, ".askdocs", "corpora")
	}

	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("creating corpora directory: %w", err)
	}

	return &Store{baseDir: baseDir, embedder: embedder}, nil
}

// corpusDir resolves and validates the storage directory for a corpus
// id. Ids are used as directory names, so anything path-like is
// rejected before it touches the filesystem. "." and ".." are refused
// explicitly: joined onto baseDir they would address the base directory
// itself or its parent, not a corpus.
func (s *Store) corpusDir(corpusID string) (string, error) {
	if corpusID == "" {
		return "", fmt.Errorf("%w: corpus id is required", domain.ErrInvalidInput)
	}
	if corpusID == "." || corpusID == ".." ||
		corpusID != filepath.Base(corpusID) || strings.ContainsAny(corpusID, `/\`) {
		return "", fmt.Errorf("%w: invalid corpus id %q", domain.ErrInvalidInput, corpusID)
	}
	return filepath.Join(s.baseDir, corpusID), nil
}

// openDB opens the corpus database, creating the directory and schema
// as needed.
func (s *Store) openDB(dir string) (*sql.DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating corpus directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFileName)
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return db, nil
}

// Create allocates a fresh corpus id and initialises its empty storage.
func (s *Store) Create(ctx context.Context) (string, error) {
	corpusID := uuid.New().String()

	dir, err := s.corpusDir(corpusID)
	if err != nil {
		return "", err
	}

	db, err := s.openDB(dir)
	if err != nil {
		return "", fmt.Errorf("%w: initialising corpus %s: %v", domain.ErrCorpusStorage, corpusID, err)
	}
	db.Close()

	logger.Debug("Created corpus storage at %s", dir)
	return corpusID, nil
}

// Upsert embeds the texts and appends (vector, text, metadata) rows to
// the corpus index in one transaction. Texts that are empty after
// trimming, the sentinel placeholder records, get a zero vector and are
// never sent to the embedding provider.
func (s *Store) Upsert(ctx context.Context, corpusID string, texts []string, metas []domain.ChunkMeta) error {
	if len(texts) != len(metas) {
		return fmt.Errorf("%w: %d texts for %d metadata records", domain.ErrInvalidInput, len(texts), len(metas))
	}
	if len(texts) == 0 {
		return nil
	}

	dir, err := s.corpusDir(corpusID)
	if err != nil {
		return err
	}

	var embedIdx []int
	var embedTexts []string
	for i, text := range texts {
		if strings.TrimSpace(text) != "" {
			embedIdx = append(embedIdx, i)
			embedTexts = append(embedTexts, text)
		}
	}

	vectors := make([][]float32, len(texts))
	if len(embedTexts) > 0 {
		embedded, err := s.embedder.EmbedBatch(ctx, embedTexts)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrEmbeddingProvider, err)
		}
		if len(embedded) != len(embedTexts) {
			return fmt.Errorf("%w: provider returned %d vectors for %d texts",
				domain.ErrEmbeddingProvider, len(embedded), len(embedTexts))
		}
		for j, i := range embedIdx {
			vectors[i] = embedded[j]
		}
	}
	for i := range vectors {
		if vectors[i] == nil {
			vectors[i] = make([]float32, s.embedder.Dimensions())
		}
	}

	db, err := s.openDB(dir)
	if err != nil {
		return fmt.Errorf("%w: opening corpus %s: %v", domain.ErrCorpusStorage, corpusID, err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %v", domain.ErrCorpusStorage, err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (content, source, doc_hash, doc_id, page, pages, chunk_id, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("%w: preparing statement: %v", domain.ErrCorpusStorage, err)
	}
	defer stmt.Close()

	for i, text := range texts {
		meta := metas[i]
		var page any
		if meta.Page != nil {
			page = *meta.Page
		}
		if _, err := stmt.ExecContext(ctx, text, meta.Source, meta.DocHash, meta.DocID,
			page, meta.Pages, meta.ChunkID, float32SliceToBytes(vectors[i])); err != nil {
			return fmt.Errorf("%w: saving chunk: %v", domain.ErrCorpusStorage, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing transaction: %v", domain.ErrCorpusStorage, err)
	}

	logger.Debug("Upserted %d chunks into corpus %s", len(texts), corpusID)
	return nil
}

// Open returns a queryable handle for the corpus. A corpus that was
// never created or already deleted opens as an empty index.
func (s *Store) Open(ctx context.Context, corpusID string) (driven.CorpusHandle, error) {
	dir, err := s.corpusDir(corpusID)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return &corpusHandle{embedder: s.embedder}, nil
	}

	db, err := s.openDB(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: opening corpus %s: %v", domain.ErrCorpusStorage, corpusID, err)
	}

	return &corpusHandle{db: db, embedder: s.embedder}, nil
}

// Delete removes the corpus's storage directory. Removing a corpus that
// does not exist is a no-op.
func (s *Store) Delete(ctx context.Context, corpusID string) error {
	dir, err := s.corpusDir(corpusID)
	if err != nil {
		return err
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("%w: removing corpus %s: %v", domain.ErrCorpusStorage, corpusID, err)
	}
	return nil
}

// WriteManifest writes the audit manifest beside the corpus index.
func (s *Store) WriteManifest(ctx context.Context, corpusID string, m domain.Manifest) error {
	dir, err := s.corpusDir(corpusID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("%w: creating corpus directory: %v", domain.ErrCorpusStorage, err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling manifest: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, manifestFileName), data, 0600); err != nil {
		return fmt.Errorf("%w: writing manifest: %v", domain.ErrCorpusStorage, err)
	}
	return nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
