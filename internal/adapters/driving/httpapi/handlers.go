package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/askdocs/askdocs/internal/core/domain"
)

// maxUploadBytes caps the total multipart memory per ingestion request.
const maxUploadBytes = 256 << 20

// ingestResponse is the POST /ingest payload.
type ingestResponse struct {
	CorpusID string `json:"corpus_id"`
	Chunks   int    `json:"chunks"`
}

// askRequest is the POST /ask body.
type askRequest struct {
	CorpusID string `json:"corpus_id"`
	Question string `json:"question"`
}

// askResponse is the POST /ask payload.
type askResponse struct {
	Answer  string        `json:"answer"`
	Context []contextInfo `json:"context"`
}

// contextInfo cites one retrieved chunk.
type contextInfo struct {
	Text    string `json:"text"`
	Source  string `json:"source"`
	Pages   string `json:"pages,omitempty"`
	Page    *int   `json:"page"`
	ChunkID int    `json:"chunk_id"`
	DocHash string `json:"doc_hash"`
}

// resetRequest is the POST /reset body.
type resetRequest struct {
	CorpusID string `json:"corpus_id"`
}

// resetResponse is the POST /reset payload. Storage failures are
// reported as a soft error with HTTP 200 so callers can still clear
// their own session state.
type resetResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, fmt.Errorf("%w: invalid multipart form: %v", domain.ErrInvalidInput, err))
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeError(w, fmt.Errorf("%w: at least one PDF is required in the 'files' field", domain.ErrInvalidInput))
		return
	}

	files := make([]domain.FileUpload, 0, len(headers))
	for _, header := range headers {
		if !isPDF(header.Filename, header.Header.Get("Content-Type")) {
			writeError(w, fmt.Errorf("%w: %s is not a PDF", domain.ErrInvalidInput, header.Filename))
			return
		}

		f, err := header.Open()
		if err != nil {
			writeError(w, fmt.Errorf("open upload %s: %w", header.Filename, err))
			return
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeError(w, fmt.Errorf("read upload %s: %w", header.Filename, err))
			return
		}

		files = append(files, domain.FileUpload{
			Filename: header.Filename,
			Content:  content,
		})
	}

	// An absent corpus_id creates a new corpus; a supplied one appends.
	corpusID := r.FormValue("corpus_id")

	result, err := s.ingest.Ingest(r.Context(), corpusID, files)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ingestResponse{
		CorpusID: result.CorpusID,
		Chunks:   result.Chunks,
	})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid JSON body: %v", domain.ErrInvalidInput, err))
		return
	}

	answer, err := s.answer.Ask(r.Context(), req.CorpusID, req.Question)
	if err != nil {
		writeError(w, err)
		return
	}

	contexts := make([]contextInfo, 0, len(answer.Context))
	for _, c := range answer.Context {
		contexts = append(contexts, contextInfo{
			Text:    c.Text,
			Source:  c.Meta.Source,
			Pages:   c.Meta.Pages,
			Page:    c.Meta.Page,
			ChunkID: c.Meta.ChunkID,
			DocHash: c.Meta.DocHash,
		})
	}

	writeJSON(w, http.StatusOK, askResponse{
		Answer:  answer.Text,
		Context: contexts,
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid JSON body: %v", domain.ErrInvalidInput, err))
		return
	}
	if strings.TrimSpace(req.CorpusID) == "" {
		writeError(w, fmt.Errorf("%w: corpus_id is required", domain.ErrInvalidInput))
		return
	}

	if err := s.admin.Reset(r.Context(), req.CorpusID); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resetResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, resetResponse{
		Status:  "ok",
		Message: fmt.Sprintf("corpus %s removed", req.CorpusID),
	})
}

// isPDF accepts uploads that declare a PDF content type or carry a
// .pdf extension. Content is still validated during extraction.
func isPDF(filename, contentType string) bool {
	switch contentType {
	case "application/pdf", "application/x-pdf":
		return true
	}
	return strings.HasSuffix(strings.ToLower(filename), ".pdf")
}
