package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sort"

	"github.com/askdocs/askdocs/internal/core/domain"
	"github.com/askdocs/askdocs/internal/core/ports/driven"
)

// mmrLambda weighs relevance against diversity in the re-ranking pass.
// 0.5 gives both equal influence.
const mmrLambda = 0.5

// corpusHandle implements driven.CorpusHandle. A nil db represents a
// corpus with no storage: every query returns zero candidates.
type corpusHandle struct {
	db       *sql.DB
	embedder driven.EmbeddingService
}

var _ driven.CorpusHandle = (*corpusHandle)(nil)

// scoredChunk pairs a stored chunk with its query similarity.
type scoredChunk struct {
	cand   domain.RetrievalCandidate
	vector []float32
	score  float64
}

// SimilaritySearch embeds the query, ranks all stored chunks by cosine
// similarity, keeps the fetchK nearest and re-ranks them with maximal
// marginal relevance, returning up to poolK candidates. Zero-vector
// rows, the unsearchable sentinel records, never match.
func (h *corpusHandle) SimilaritySearch(ctx context.Context, query string, fetchK, poolK int) ([]domain.RetrievalCandidate, error) {
	if h.db == nil || fetchK <= 0 || poolK <= 0 {
		return nil, nil
	}

	queryVec, err := h.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingProvider, err)
	}

	rows, err := h.db.QueryContext(ctx, `
		SELECT content, source, doc_hash, doc_id, page, pages, chunk_id, embedding
		FROM chunks
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying chunks: %v", domain.ErrCorpusStorage, err)
	}
	defer rows.Close()

	var scored []scoredChunk
	for rows.Next() {
		var cand domain.RetrievalCandidate
		var page sql.NullInt64
		var blob []byte
		if err := rows.Scan(&cand.Text, &cand.Meta.Source, &cand.Meta.DocHash, &cand.Meta.DocID,
			&page, &cand.Meta.Pages, &cand.Meta.ChunkID, &blob); err != nil {
			return nil, fmt.Errorf("%w: scanning chunk: %v", domain.ErrCorpusStorage, err)
		}
		if page.Valid {
			p := int(page.Int64)
			cand.Meta.Page = &p
		}

		vector := bytesToFloat32Slice(blob)
		sim, ok := cosineSimilarity(queryVec, vector)
		if !ok {
			continue
		}
		cand.Score = sim
		scored = append(scored, scoredChunk{cand: cand, vector: vector, score: sim})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating chunks: %v", domain.ErrCorpusStorage, err)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if len(scored) > fetchK {
		scored = scored[:fetchK]
	}

	return maximalMarginalRelevance(scored, poolK), nil
}

// Count returns the number of indexed chunks.
func (h *corpusHandle) Count(ctx context.Context) (int, error) {
	if h.db == nil {
		return 0, nil
	}

	var count int
	err := h.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting chunks: %v", domain.ErrCorpusStorage, err)
	}
	return count, nil
}

// Close releases the underlying database.
func (h *corpusHandle) Close() error {
	if h.db == nil {
		return nil
	}
	return h.db.Close()
}

// maximalMarginalRelevance greedily selects up to limit candidates,
// each pick maximising query relevance minus similarity to what was
// already selected. Input must be sorted by relevance descending.
func maximalMarginalRelevance(scored []scoredChunk, limit int) []domain.RetrievalCandidate {
	if len(scored) == 0 {
		return nil
	}
	if limit > len(scored) {
		limit = len(scored)
	}

	selected := make([]scoredChunk, 0, limit)
	remaining := make([]scoredChunk, len(scored))
	copy(remaining, scored)

	// The most relevant candidate is always picked first.
	selected = append(selected, remaining[0])
	remaining = remaining[1:]

	for len(selected) < limit && len(remaining) > 0 {
		bestIdx := 0
		bestScore := math.Inf(-1)
		for i, c := range remaining {
			redundancy := math.Inf(-1)
			for _, s := range selected {
				if sim, ok := cosineSimilarity(c.vector, s.vector); ok && sim > redundancy {
					redundancy = sim
				}
			}
			if math.IsInf(redundancy, -1) {
				redundancy = 0
			}
			score := mmrLambda*c.score - (1-mmrLambda)*redundancy
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	result := make([]domain.RetrievalCandidate, len(selected))
	for i, s := range selected {
		result[i] = s.cand
	}
	return result
}

// cosineSimilarity returns the cosine of the angle between two vectors.
// The second return is false when either vector has zero norm or the
// lengths differ, which marks the pair as incomparable.
func cosineSimilarity(a, b []float32) (float64, bool) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, false
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, false
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), true
}
