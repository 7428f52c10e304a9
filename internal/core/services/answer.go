package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/askdocs/askdocs/internal/core/domain"
	"github.com/askdocs/askdocs/internal/core/ports/driven"
	"github.com/askdocs/askdocs/internal/core/ports/driving"
	"github.com/askdocs/askdocs/internal/logger"
)

// NoContextAnswer is returned without calling the completion provider
// when retrieval yields nothing to ground an answer on.
const NoContextAnswer = "I could not find relevant information in the uploaded documents."

// DefaultAnswerMaxTokens bounds completion length when the caller does
// not configure one.
const DefaultAnswerMaxTokens = 1024

// Synthesizer turns a question plus retrieved context into a grounded
// answer via the completion provider.
type Synthesizer struct {
	completion driven.CompletionService
	prompts    driven.PromptStore
	maxTokens  int
}

// NewSynthesizer creates the synthesizer. Non-positive maxTokens falls
// back to DefaultAnswerMaxTokens.
func NewSynthesizer(completion driven.CompletionService, prompts driven.PromptStore, maxTokens int) *Synthesizer {
	if maxTokens <= 0 {
		maxTokens = DefaultAnswerMaxTokens
	}
	return &Synthesizer{completion: completion, prompts: prompts, maxTokens: maxTokens}
}

// Synthesize produces the answer text for the question given the
// retrieved candidates. An empty candidate set short-circuits to
// NoContextAnswer so the provider never sees an ungrounded question.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, cands []domain.RetrievalCandidate) (string, error) {
	if len(cands) == 0 {
		return NoContextAnswer, nil
	}

	tmpl, err := s.prompts.Load(driven.PromptGroundedAnswer)
	if err != nil {
		return "", fmt.Errorf("load prompt: %w", err)
	}

	prompt := fmt.Sprintf(tmpl, formatContext(cands), question)
	logger.Debug("Prompt length: %d chars, %d context blocks", len(prompt), len(cands))

	messages := []driven.ChatMessage{
		{Role: "user", Content: prompt},
	}
	opts := driven.CompleteOptions{
		MaxTokens:   s.maxTokens,
		Temperature: 0,
	}

	answer, err := s.completion.Complete(ctx, messages, opts)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrCompletionProvider, err)
	}

	// The provider's text is passed through verbatim. Citation
	// formatting and whitespace belong to the model's output.
	return answer, nil
}

// formatContext renders candidates as attributed blocks the prompt
// template interpolates. Each block names its source document and page
// span so the model can cite them.
func formatContext(cands []domain.RetrievalCandidate) string {
	blocks := make([]string, 0, len(cands))
	for _, c := range cands {
		header := c.Meta.Source
		if c.Meta.Pages != "" {
			header = fmt.Sprintf("%s | pages %s", c.Meta.Source, c.Meta.Pages)
		}
		blocks = append(blocks, fmt.Sprintf("[%s]\n%s", header, c.Text))
	}
	return strings.Join(blocks, "\n\n")
}

// AnswerService is the driving-port implementation for question
// answering: retrieve then synthesize.
type AnswerService struct {
	retriever   *Retriever
	synthesizer *Synthesizer
}

// NewAnswerService wires the retrieval and synthesis stages.
func NewAnswerService(retriever *Retriever, synthesizer *Synthesizer) *AnswerService {
	return &AnswerService{retriever: retriever, synthesizer: synthesizer}
}

// Ask answers a question against the named corpus.
func (a *AnswerService) Ask(ctx context.Context, corpusID, question string) (domain.Answer, error) {
	if strings.TrimSpace(corpusID) == "" {
		return domain.Answer{}, fmt.Errorf("%w: corpus id is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(question) == "" {
		return domain.Answer{}, fmt.Errorf("%w: question is required", domain.ErrInvalidInput)
	}

	cands, err := a.retriever.Query(ctx, corpusID, question)
	if err != nil {
		return domain.Answer{}, err
	}

	text, err := a.synthesizer.Synthesize(ctx, question, cands)
	if err != nil {
		return domain.Answer{}, err
	}

	return domain.Answer{Text: text, Context: cands}, nil
}

// CorpusService handles corpus lifecycle administration.
type CorpusService struct {
	store driven.CorpusStore
}

// NewCorpusService creates the admin service.
func NewCorpusService(store driven.CorpusStore) *CorpusService {
	return &CorpusService{store: store}
}

// Reset deletes all persisted state for a corpus. Deleting a corpus
// that does not exist is not an error.
func (c *CorpusService) Reset(ctx context.Context, corpusID string) error {
	if strings.TrimSpace(corpusID) == "" {
		return fmt.Errorf("%w: corpus id is required", domain.ErrInvalidInput)
	}
	if err := c.store.Delete(ctx, corpusID); err != nil {
		return fmt.Errorf("reset corpus %s: %w", corpusID, err)
	}
	logger.Info("Corpus %s reset", corpusID)
	return nil
}

var (
	_ driving.AnswerService = (*AnswerService)(nil)
	_ driving.CorpusAdmin   = (*CorpusService)(nil)
)
