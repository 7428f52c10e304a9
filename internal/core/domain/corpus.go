package domain

// DocIDLength is the number of leading content-hash characters used as the
// short, display-safe document identifier.
const DocIDLength = 12

// PageText is the normalised text of a single PDF page.
// Page numbers are 1-based and every page of the source document is
// represented, including pages with no extractable text.
type PageText struct {
	// Number is the 1-based page number.
	Number int

	// Text is the normalised page text. Empty when the page had no
	// extractable text or per-page extraction failed.
	Text string
}

// FileUpload is a raw document handed to ingestion.
type FileUpload struct {
	// Filename is the display name of the uploaded file.
	Filename string

	// Content is the raw PDF bytes.
	Content []byte
}

// ChunkMeta identifies a chunk within its document and corpus.
// It is stored alongside the chunk text and embedding so retrieval
// results can be cited.
type ChunkMeta struct {
	// Source is the filename of the originating document.
	Source string

	// DocHash is the SHA-256 digest of the document's raw bytes.
	DocHash string

	// DocID is the short display identifier, DocHash[:DocIDLength].
	DocID string

	// Page is the 1-based page this chunk came from.
	// Nil for the sentinel record of a document with no extractable text.
	Page *int

	// Pages is the page reference as a display string. It stays distinct
	// from Page: the numeric field feeds ordering and audits, the string
	// feeds citations. Empty for sentinel records.
	Pages string

	// ChunkID is 0-based, sequential and unique within a document,
	// assigned in page order then in-page split order. Within one
	// document the values form a dense 0..N-1 sequence; this ordering
	// is the citation ordering.
	ChunkID int
}

// Key returns the identity used to deduplicate retrieval results.
func (m ChunkMeta) Key() ChunkKey {
	return ChunkKey{Source: m.Source, DocHash: m.DocHash, ChunkID: m.ChunkID}
}

// DocKey returns the document identity used for balanced retrieval grouping.
func (m ChunkMeta) DocKey() DocumentKey {
	return DocumentKey{Source: m.Source, DocHash: m.DocHash}
}

// ChunkKey uniquely identifies a chunk across a corpus.
type ChunkKey struct {
	Source  string
	DocHash string
	ChunkID int
}

// DocumentKey identifies a document within a corpus.
type DocumentKey struct {
	Source  string
	DocHash string
}

// RetrievalCandidate is a chunk returned by a corpus query, with its
// retrieval rank. Candidates are produced per query and never persisted.
type RetrievalCandidate struct {
	// Text is the chunk content.
	Text string

	// Meta carries the chunk's document, page and sequence identity.
	Meta ChunkMeta

	// Rank is the 0-based position in the final candidate ordering.
	// This ordering is the citation-presentation order.
	Rank int

	// Score is the similarity score from the index search.
	Score float64
}

// Answer is the result of a grounded question-answering call.
type Answer struct {
	// Text is the completion provider's response, verbatim.
	Text string

	// Context lists the candidates the answer was grounded on, in
	// retrieval order, so callers can render citations independently of
	// whether the model's own citation text is well-formed.
	Context []RetrievalCandidate
}

// Manifest is the best-effort audit record written beside a corpus index.
// It is diagnostic, not authoritative: its absence or corruption never
// blocks ingestion or querying.
type Manifest struct {
	Documents []ManifestEntry `json:"documents"`
}

// ManifestEntry records one ingested document.
type ManifestEntry struct {
	Filename string `json:"filename"`

	DocHash string `json:"doc_hash"`

	// Pages is the source page count. Nil when the count could not be
	// determined.
	Pages *int `json:"pages"`
}
