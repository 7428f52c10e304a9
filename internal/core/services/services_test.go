package services

import (
	"context"
	"errors"

	"github.com/askdocs/askdocs/internal/core/domain"
	"github.com/askdocs/askdocs/internal/core/ports/driven"
)

// fakeStore is an in-memory CorpusStore recording calls for assertions.
type fakeStore struct {
	nextID      string
	createErr   error
	upsertErr   error
	deleteErr   error
	manifestErr error

	createdIDs   []string
	upsertCorpus string
	upsertTexts  []string
	upsertMetas  []domain.ChunkMeta
	manifest     *domain.Manifest
	deleted      []string

	handle *fakeHandle
}

func (f *fakeStore) Create(ctx context.Context) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	id := f.nextID
	if id == "" {
		id = "corpus-1"
	}
	f.createdIDs = append(f.createdIDs, id)
	return id, nil
}

func (f *fakeStore) Upsert(ctx context.Context, corpusID string, texts []string, metas []domain.ChunkMeta) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upsertCorpus = corpusID
	f.upsertTexts = append(f.upsertTexts, texts...)
	f.upsertMetas = append(f.upsertMetas, metas...)
	return nil
}

func (f *fakeStore) Open(ctx context.Context, corpusID string) (driven.CorpusHandle, error) {
	if f.handle == nil {
		f.handle = &fakeHandle{}
	}
	return f.handle, nil
}

func (f *fakeStore) Delete(ctx context.Context, corpusID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, corpusID)
	return nil
}

func (f *fakeStore) WriteManifest(ctx context.Context, corpusID string, m domain.Manifest) error {
	if f.manifestErr != nil {
		return f.manifestErr
	}
	f.manifest = &m
	return nil
}

// fakeHandle serves preset candidates and records the requested fetch
// and pool sizes.
type fakeHandle struct {
	candidates []domain.RetrievalCandidate
	searchErr  error

	gotFetchK int
	gotPoolK  int
	closed    bool
}

func (f *fakeHandle) SimilaritySearch(ctx context.Context, query string, fetchK, poolK int) ([]domain.RetrievalCandidate, error) {
	f.gotFetchK = fetchK
	f.gotPoolK = poolK
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.candidates, nil
}

func (f *fakeHandle) Count(ctx context.Context) (int, error) {
	return len(f.candidates), nil
}

func (f *fakeHandle) Close() error {
	f.closed = true
	return nil
}

// fakeExtractor maps raw content to preset pages.
type fakeExtractor struct {
	pages map[string][]domain.PageText
	err   error
}

func (f *fakeExtractor) ExtractPages(data []byte) ([]domain.PageText, error) {
	if f.err != nil {
		return nil, f.err
	}
	pages, ok := f.pages[string(data)]
	if !ok {
		return nil, errors.New("unexpected content")
	}
	return pages, nil
}

// fakePrompts returns a fixed two-argument template.
type fakePrompts struct{}

func (fakePrompts) Load(name string) (string, error) {
	return "CONTEXT:\n%s\n\nQUESTION:\n%s", nil
}

// fakeCompletion records the prompt it received.
type fakeCompletion struct {
	answer string
	err    error

	gotMessages []driven.ChatMessage
	gotOpts     driven.CompleteOptions
	calls       int
}

func (f *fakeCompletion) Complete(ctx context.Context, messages []driven.ChatMessage, opts driven.CompleteOptions) (string, error) {
	f.calls++
	f.gotMessages = messages
	f.gotOpts = opts
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeCompletion) ModelName() string              { return "fake-model" }
func (f *fakeCompletion) Ping(ctx context.Context) error { return nil }
func (f *fakeCompletion) Close() error                   { return nil }

// cand builds a retrieval candidate with the identity fields that drive
// balancing and dedup.
func cand(text, source, docHash string, chunkID int, score float64) domain.RetrievalCandidate {
	page := 1
	return domain.RetrievalCandidate{
		Text: text,
		Meta: domain.ChunkMeta{
			Source:  source,
			DocHash: docHash,
			DocID:   docHash,
			Page:    &page,
			Pages:   "1",
			ChunkID: chunkID,
		},
		Score: score,
	}
}
