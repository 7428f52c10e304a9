package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/askdocs/askdocs/internal/adapters/driven/ai"
	"github.com/askdocs/askdocs/internal/adapters/driven/config/file"
	"github.com/askdocs/askdocs/internal/adapters/driven/storage/sqlite"
	"github.com/askdocs/askdocs/internal/adapters/driving/httpapi"
	"github.com/askdocs/askdocs/internal/chunker"
	"github.com/askdocs/askdocs/internal/core/services"
	"github.com/askdocs/askdocs/internal/extract/pdf"
	"github.com/askdocs/askdocs/internal/logger"
)

// Server hardening values.
const (
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 120 * time.Second
	shutdownTimeout   = 15 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the askdocs HTTP API.

Endpoints:
  GET  /health  - liveness probe
  POST /ingest  - multipart PDF upload, creates or extends a corpus
  POST /ask     - grounded question answering against a corpus
  POST /reset   - delete a corpus's storage`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	// Provider API keys may live in a local .env during development.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("loading .env: %v", err)
	}

	settings, err := file.LoadSettings(flagConfig)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	logger.Section("Startup")
	logger.Info("Embedding: %s (%s)", settings.Embedding.Provider.Description(), settings.Embedding.Model)
	logger.Info("Completion: %s (%s)", settings.Completion.Provider.Description(), settings.Completion.Model)

	embedder, err := ai.CreateAndValidateEmbeddingService(settings.Embedding)
	if err != nil {
		return err
	}
	defer embedder.Close()

	completion, err := ai.CreateAndValidateCompletionService(settings.Completion)
	if err != nil {
		return err
	}
	defer completion.Close()

	prompts, err := file.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("prompt store: %w", err)
	}

	store, err := sqlite.NewStore(settings.DataDir, embedder)
	if err != nil {
		return fmt.Errorf("corpus store: %w", err)
	}

	splitter := chunker.New(
		chunker.WithChunkSize(settings.Ingestion.ChunkSize),
		chunker.WithOverlap(settings.Ingestion.ChunkOverlap),
	)

	ingestSvc := services.NewIngestService(store, pdf.New(), splitter)
	retriever := services.NewRetriever(store, settings.Retrieval.TopK, settings.Retrieval.PerDoc)
	synthesizer := services.NewSynthesizer(completion, prompts, settings.Completion.MaxTokens)
	answerSvc := services.NewAnswerService(retriever, synthesizer)
	adminSvc := services.NewCorpusService(store)

	api := httpapi.NewServer(ingestSvc, answerSvc, adminSvc)

	srv := &http.Server{
		Addr:              settings.Server.ListenAddr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening on %s", settings.Server.ListenAddr)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
	case sig := <-sigCh:
		logger.Info("Received %s, shutting down", sig)
		ctx, cancel := context.WithTimeout(cmd.Context(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}

	return nil
}
