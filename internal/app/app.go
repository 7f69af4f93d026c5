package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/refero/internal/common"
	"github.com/ternarybob/refero/internal/handlers"
	"github.com/ternarybob/refero/internal/interfaces"
	"github.com/ternarybob/refero/internal/services/documents"
	"github.com/ternarybob/refero/internal/services/extraction"
	"github.com/ternarybob/refero/internal/services/llm"
	"github.com/ternarybob/refero/internal/services/retrieval"
	"github.com/ternarybob/refero/internal/services/status"
	"github.com/ternarybob/refero/internal/services/template"
	"github.com/ternarybob/refero/internal/services/validation"
	badgerstorage "github.com/ternarybob/refero/internal/storage/badger"
)

// App wires configuration, services, and handlers together.
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	Storage    interfaces.StorageManager
	Status     *status.Service
	Loader     *documents.LoaderService
	Retrieval  interfaces.RetrievalService
	Extraction interfaces.ExtractionService
	Template   *template.Service
	Validation *validation.Service
	Scheduler  *retrieval.Scheduler

	embedder interfaces.LLMService
	chatLLM  interfaces.LLMService

	APIHandler    *handlers.APIHandler
	ReportHandler *handlers.ReportHandler
	SearchHandler *handlers.SearchHandler
	StatusHandler *handlers.StatusHandler
}

// New creates the application: opens storage, initializes the LLM services,
// builds the retrieval index from the document directory, and wires the
// handlers. An empty document directory leaves the service ready with
// retrieval reporting unavailable per request.
func New(ctx context.Context, config *common.Config) (*App, error) {
	logger := common.GetLogger()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	a := &App{
		Config: config,
		Logger: logger,
		Status: status.NewService(logger),
	}
	a.Status.SetState(status.StateInitializing, "starting services", nil)

	// Embedding cache lives in Badger; caching can be disabled entirely.
	var cache interfaces.EmbeddingStorage
	if config.Retrieval.CacheEmbeddings {
		storageManager, err := badgerstorage.NewManager(logger, &config.Storage.Badger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		a.Storage = storageManager
		cache = storageManager.EmbeddingStorage()
	}

	embedder, err := llm.NewEmbeddingService(ctx, config, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize embedding service: %w", err)
	}
	a.embedder = embedder

	// The chat provider is only needed for the generative strategy.
	if config.Extraction.Strategy == string(interfaces.StrategyGenerative) {
		chatLLM, err := llm.NewChatService(ctx, config, logger)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize chat service: %w", err)
		}
		a.chatLLM = chatLLM
	}

	a.Loader = documents.NewLoaderService(config.Docs.Dir, logger)
	a.Retrieval = retrieval.NewService(embedder, cache, logger)

	extractionService, err := extraction.NewService(&config.Extraction, a.chatLLM, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Extraction = extractionService

	a.Template = template.NewService(logger)
	a.Validation = validation.NewService(a.Template, logger)

	a.APIHandler = handlers.NewAPIHandler()
	a.ReportHandler = handlers.NewReportHandler(config, a.Status, a.Retrieval, a.Extraction, a.Template, a.Validation, logger)
	a.SearchHandler = handlers.NewSearchHandler(config, a.Retrieval, a.Loader, logger)
	a.StatusHandler = handlers.NewStatusHandler(a.Status, a.Retrieval, logger)

	if err := a.buildIndex(ctx); err != nil {
		a.Status.SetState(status.StateFailed, err.Error(), nil)
		return a, nil
	}

	if config.Retrieval.ReindexEnabled {
		a.Scheduler = retrieval.NewScheduler(a.Loader, a.Retrieval, config.Retrieval.ReindexSchedule, logger)
		if err := a.Scheduler.Start(); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to start reindex scheduler: %w", err)
		}
	}

	a.Status.SetState(status.StateReady, "", map[string]any{
		"documents": a.Retrieval.Size(),
		"strategy":  config.Extraction.Strategy,
	})

	return a, nil
}

// buildIndex loads the document directory and builds the retrieval index.
// An empty or missing corpus is not fatal; retrieval stays unavailable until
// documents appear and a reindex runs.
func (a *App) buildIndex(ctx context.Context) error {
	docs, err := a.Loader.Load()
	if err != nil {
		a.Logger.Warn().Err(err).Str("dir", a.Config.Docs.Dir).Msg("Could not load document directory")
		return nil
	}

	if err := a.Retrieval.Reindex(ctx, docs); err != nil {
		if errors.Is(err, interfaces.ErrEmptyCorpus) {
			a.Logger.Warn().Str("dir", a.Config.Docs.Dir).Msg("No documents found, retrieval unavailable until reindex")
			return nil
		}
		return fmt.Errorf("failed to build retrieval index: %w", err)
	}

	return nil
}

// Close shuts down background work and releases resources
func (a *App) Close() {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	if a.chatLLM != nil {
		if err := a.chatLLM.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close chat LLM service")
		}
	}
	if a.embedder != nil {
		if err := a.embedder.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close embedding service")
		}
	}
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage")
		}
	}
}
