package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askdocs/askdocs/internal/core/domain"
)

func TestSynthesizer_NoCandidatesSkipsProvider(t *testing.T) {
	completion := &fakeCompletion{answer: "should not be used"}
	s := NewSynthesizer(completion, fakePrompts{}, 0)

	got, err := s.Synthesize(context.Background(), "what is X?", nil)

	require.NoError(t, err)
	assert.Equal(t, NoContextAnswer, got)
	assert.Zero(t, completion.calls)
}

func TestSynthesizer_BuildsAttributedPrompt(t *testing.T) {
	completion := &fakeCompletion{answer: "X is a widget."}
	s := NewSynthesizer(completion, fakePrompts{}, 256)

	cands := []domain.RetrievalCandidate{
		cand("X is a widget used in assembly.", "manual.pdf", "hashM", 0, 0.9),
		cand("Widgets come in two sizes.", "catalog.pdf", "hashC", 3, 0.8),
	}

	got, err := s.Synthesize(context.Background(), "what is X?", cands)

	require.NoError(t, err)
	assert.Equal(t, "X is a widget.", got)

	require.Len(t, completion.gotMessages, 1)
	prompt := completion.gotMessages[0].Content
	assert.Contains(t, prompt, "[manual.pdf | pages 1]")
	assert.Contains(t, prompt, "X is a widget used in assembly.")
	assert.Contains(t, prompt, "[catalog.pdf | pages 1]")
	assert.Contains(t, prompt, "what is X?")

	assert.Equal(t, 256, completion.gotOpts.MaxTokens)
	assert.Zero(t, completion.gotOpts.Temperature)
}

func TestSynthesizer_ProviderErrorIsWrapped(t *testing.T) {
	completion := &fakeCompletion{err: errors.New("rate limited")}
	s := NewSynthesizer(completion, fakePrompts{}, 0)

	_, err := s.Synthesize(context.Background(), "q", []domain.RetrievalCandidate{
		cand("text", "a.pdf", "hashA", 0, 0.9),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCompletionProvider)
}

func TestAnswerService_RejectsBlankInputs(t *testing.T) {
	svc := NewAnswerService(
		NewRetriever(&fakeStore{}, 0, 0),
		NewSynthesizer(&fakeCompletion{}, fakePrompts{}, 0),
	)

	tests := []struct {
		name     string
		corpusID string
		question string
	}{
		{"missing corpus id", "", "what is X?"},
		{"blank corpus id", "   ", "what is X?"},
		{"missing question", "corpus-1", ""},
		{"blank question", "corpus-1", "  \t "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Ask(context.Background(), tt.corpusID, tt.question)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestAnswerService_AskReturnsAnswerWithContext(t *testing.T) {
	store := &fakeStore{handle: &fakeHandle{candidates: []domain.RetrievalCandidate{
		cand("relevant text", "a.pdf", "hashA", 0, 0.9),
	}}}
	completion := &fakeCompletion{answer: "grounded answer\n(Document: a.pdf, pages: 1-2)"}
	svc := NewAnswerService(
		NewRetriever(store, 4, 1),
		NewSynthesizer(completion, fakePrompts{}, 0),
	)

	got, err := svc.Ask(context.Background(), "corpus-1", "what is X?")

	require.NoError(t, err)
	// The provider's text comes back verbatim, citations included.
	assert.Equal(t, "grounded answer\n(Document: a.pdf, pages: 1-2)", got.Text)
	require.Len(t, got.Context, 1)
	assert.Equal(t, "relevant text", got.Context[0].Text)
}

func TestAnswerService_EmptyCorpusAnswersWithoutProvider(t *testing.T) {
	store := &fakeStore{handle: &fakeHandle{}}
	completion := &fakeCompletion{answer: "unused"}
	svc := NewAnswerService(
		NewRetriever(store, 4, 1),
		NewSynthesizer(completion, fakePrompts{}, 0),
	)

	got, err := svc.Ask(context.Background(), "corpus-1", "what is X?")

	require.NoError(t, err)
	assert.Equal(t, NoContextAnswer, got.Text)
	assert.Empty(t, got.Context)
	assert.Zero(t, completion.calls)
}

func TestCorpusService_Reset(t *testing.T) {
	store := &fakeStore{}
	svc := NewCorpusService(store)

	err := svc.Reset(context.Background(), "corpus-1")

	require.NoError(t, err)
	assert.Equal(t, []string{"corpus-1"}, store.deleted)
}

func TestCorpusService_ResetRequiresCorpusID(t *testing.T) {
	svc := NewCorpusService(&fakeStore{})

	err := svc.Reset(context.Background(), "  ")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCorpusService_ResetPropagatesStorageError(t *testing.T) {
	store := &fakeStore{deleteErr: errors.New("disk gone")}
	svc := NewCorpusService(store)

	err := svc.Reset(context.Background(), "corpus-1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
}
