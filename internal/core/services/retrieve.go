package services

import (
	"context"
	"fmt"

	"github.com/askdocs/askdocs/internal/core/domain"
	"github.com/askdocs/askdocs/internal/core/ports/driven"
	"github.com/askdocs/askdocs/internal/logger"
)

// Retrieval defaults.
const (
	// DefaultTopK is the default maximum number of candidates per query.
	DefaultTopK = 8

	// DefaultPerDoc is the default per-document cap in the balanced round.
	DefaultPerDoc = 1

	// minFetch is the floor for raw candidates requested from the index.
	minFetch = 24

	// minPool is the floor for the re-ranked candidate pool.
	minPool = 12
)

// Retriever queries a corpus index and returns a diversity-balanced,
// deduplicated candidate set: every distinct document contributes up to
// perDoc top candidates first, remaining slots are backfilled in
// relevance order, and no chunk appears twice.
type Retriever struct {
	store  driven.CorpusStore
	topK   int
	perDoc int
}

// NewRetriever creates the retriever. Non-positive topK or perDoc fall
// back to the defaults.
func NewRetriever(store driven.CorpusStore, topK, perDoc int) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if perDoc <= 0 {
		perDoc = DefaultPerDoc
	}
	return &Retriever{store: store, topK: topK, perDoc: perDoc}
}

// Query returns at most topK unique candidates for the question,
// balanced-first then backfilled. A corpus with zero indexed chunks
// yields an empty result, the expected state for a freshly created,
// not-yet-ingested corpus.
func (r *Retriever) Query(ctx context.Context, corpusID, question string) ([]domain.RetrievalCandidate, error) {
	logger.Section("Retrieval")
	logger.Debug("Corpus %s, question: %q", corpusID, question)

	handle, err := r.store.Open(ctx, corpusID)
	if err != nil {
		return nil, fmt.Errorf("open corpus %s: %w", corpusID, err)
	}
	defer handle.Close()

	count, err := handle.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count corpus %s: %w", corpusID, err)
	}
	if count == 0 {
		logger.Debug("Corpus %s is empty", corpusID)
		return []domain.RetrievalCandidate{}, nil
	}

	// Over-fetch so document-level balancing has enough raw material.
	fetchK := 3 * r.topK
	if fetchK < minFetch {
		fetchK = minFetch
	}
	poolK := r.topK
	if poolK < minPool {
		poolK = minPool
	}

	cands, err := handle.SimilaritySearch(ctx, question, fetchK, poolK)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	logger.Debug("Index returned %d candidates", len(cands))

	result := r.balance(cands)
	logger.Info("Retrieved %d candidates from %d raw", len(result), len(cands))

	return result, nil
}

// balance applies the diversity policy: group by document identity
// preserving in-group relevance order, take the top perDoc of every
// group, backfill from unused candidates in relevance order, then
// deduplicate by chunk identity and cap at topK.
func (r *Retriever) balance(cands []domain.RetrievalCandidate) []domain.RetrievalCandidate {
	groups := make(map[domain.DocumentKey][]domain.RetrievalCandidate)
	var order []domain.DocumentKey
	for _, c := range cands {
		key := c.Meta.DocKey()
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], c)
	}

	var balanced []domain.RetrievalCandidate
	for _, key := range order {
		items := groups[key]
		take := r.perDoc
		if take > len(items) {
			take = len(items)
		}
		balanced = append(balanced, items[:take]...)
	}

	taken := make(map[domain.ChunkKey]bool, len(balanced))
	for _, c := range balanced {
		taken[c.Meta.Key()] = true
	}

	final := balanced
	if len(final) > r.topK {
		final = final[:r.topK]
	}
	for _, c := range cands {
		if len(final) >= r.topK {
			break
		}
		if taken[c.Meta.Key()] {
			continue
		}
		final = append(final, c)
		taken[c.Meta.Key()] = true
	}

	// Safety dedup: a chunk must not appear twice even if the index
	// returned it twice.
	seen := make(map[domain.ChunkKey]bool, len(final))
	result := make([]domain.RetrievalCandidate, 0, len(final))
	for _, c := range final {
		key := c.Meta.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		c.Rank = len(result)
		result = append(result, c)
		if len(result) >= r.topK {
			break
		}
	}

	return result
}
