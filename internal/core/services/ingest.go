package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/askdocs/askdocs/internal/chunker"
	"github.com/askdocs/askdocs/internal/core/domain"
	"github.com/askdocs/askdocs/internal/core/ports/driven"
	"github.com/askdocs/askdocs/internal/core/ports/driving"
	"github.com/askdocs/askdocs/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService runs the ingestion pipeline: extract pages, split them
// into chunks, attach document identity and hand the records to the
// corpus store.
type IngestService struct {
	store     driven.CorpusStore
	extractor driven.PageExtractor
	splitter  *chunker.Splitter
}

// NewIngestService creates the ingestion service.
func NewIngestService(
	store driven.CorpusStore,
	extractor driven.PageExtractor,
	splitter *chunker.Splitter,
) *IngestService {
	return &IngestService{
		store:     store,
		extractor: extractor,
		splitter:  splitter,
	}
}

// Ingest processes the files sequentially and indexes their chunks.
// With an empty corpusID a fresh corpus is created. The chunks are
// durable in the corpus index when Ingest returns; the audit manifest is
// written best-effort afterwards and its failure is only logged.
func (s *IngestService) Ingest(
	ctx context.Context, corpusID string, files []domain.FileUpload,
) (driving.IngestResult, error) {
	if len(files) == 0 {
		return driving.IngestResult{}, fmt.Errorf("%w: at least one PDF is required", domain.ErrInvalidInput)
	}

	logger.Section("Ingestion")

	if corpusID == "" {
		created, err := s.store.Create(ctx)
		if err != nil {
			return driving.IngestResult{}, fmt.Errorf("create corpus: %w", err)
		}
		corpusID = created
		logger.Info("Created corpus %s", corpusID)
	}

	var texts []string
	var metas []domain.ChunkMeta
	var manifest domain.Manifest

	for _, file := range files {
		digest := sha256.Sum256(file.Content)
		docHash := hex.EncodeToString(digest[:])

		pages, err := s.extractor.ExtractPages(file.Content)
		if err != nil {
			return driving.IngestResult{}, fmt.Errorf("extract %s: %w", file.Filename, err)
		}

		docTexts, docMetas := buildChunks(file.Filename, docHash, pages, s.splitter)
		texts = append(texts, docTexts...)
		metas = append(metas, docMetas...)

		pageCount := len(pages)
		manifest.Documents = append(manifest.Documents, domain.ManifestEntry{
			Filename: file.Filename,
			DocHash:  docHash,
			Pages:    &pageCount,
		})

		logger.Debug("File %s: %d pages, %d chunks", file.Filename, pageCount, len(docTexts))
	}

	if err := s.store.Upsert(ctx, corpusID, texts, metas); err != nil {
		return driving.IngestResult{}, fmt.Errorf("upsert corpus %s: %w", corpusID, err)
	}

	// Diagnostic only: a failed manifest write never fails the ingestion.
	if err := s.store.WriteManifest(ctx, corpusID, manifest); err != nil {
		logger.Warn("manifest write for corpus %s failed: %v", corpusID, err)
	}

	logger.Info("Indexed %d chunks into corpus %s", len(texts), corpusID)

	return driving.IngestResult{CorpusID: corpusID, Chunks: len(texts)}, nil
}

// buildChunks produces the parallel text and metadata sequences for one
// document. Pages are visited in extraction order; pages with no text
// contribute nothing. The chunk id counter increments once per chunk
// across the whole document, so ids form a dense 0..N-1 sequence in page
// order then in-page split order.
//
// A document that yields zero chunks across all pages (a scanned image
// PDF, for example) emits exactly one placeholder record with empty text
// and a nil page, keeping the document visible in corpus state even
// though it is unsearchable.
func buildChunks(
	filename, docHash string, pages []domain.PageText, splitter *chunker.Splitter,
) ([]string, []domain.ChunkMeta) {
	docID := docHash
	if len(docID) > domain.DocIDLength {
		docID = docID[:domain.DocIDLength]
	}

	var texts []string
	var metas []domain.ChunkMeta
	next := 0

	for _, page := range pages {
		if page.Text == "" {
			continue
		}
		for _, fragment := range splitter.Split(page.Text) {
			pageNum := page.Number
			texts = append(texts, fragment)
			metas = append(metas, domain.ChunkMeta{
				Source:  filename,
				DocHash: docHash,
				DocID:   docID,
				Page:    &pageNum,
				Pages:   strconv.Itoa(page.Number),
				ChunkID: next,
			})
			next++
		}
	}

	if len(texts) == 0 {
		texts = append(texts, "")
		metas = append(metas, domain.ChunkMeta{
			Source:  filename,
			DocHash: docHash,
			DocID:   docID,
			Page:    nil,
			Pages:   "",
			ChunkID: 0,
		})
	}

	return texts, metas
}
