// Package httpapi exposes ingestion, question answering and corpus
// administration over HTTP. It is a thin driving adapter: request
// decoding, validation and response shaping only, with all behaviour in
// the core services.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/askdocs/askdocs/internal/core/domain"
	"github.com/askdocs/askdocs/internal/core/ports/driving"
	"github.com/askdocs/askdocs/internal/logger"
)

// Server bundles the driving ports behind an http.Handler.
type Server struct {
	ingest driving.IngestService
	answer driving.AnswerService
	admin  driving.CorpusAdmin
}

// NewServer creates the HTTP surface over the given services.
func NewServer(ingest driving.IngestService, answer driving.AnswerService, admin driving.CorpusAdmin) *Server {
	return &Server{
		ingest: ingest,
		answer: answer,
		admin:  admin,
	}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /ingest", s.handleIngest)
	mux.HandleFunc("POST /ask", s.handleAsk)
	mux.HandleFunc("POST /reset", s.handleReset)

	return withLogging(withCORS(mux))
}

// errorBody is the JSON error payload.
type errorBody struct {
	Error string `json:"error"`
}

// writeJSON sends a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Warn("encode response: %v", err)
	}
}

// writeError maps a domain error to its HTTP status and sends it.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrEmbeddingProvider),
		errors.Is(err, domain.ErrCompletionProvider):
		status = http.StatusBadGateway
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}
