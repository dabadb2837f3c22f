package app

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"climatelens/internal/common"
	"climatelens/internal/handlers"
	"climatelens/internal/interfaces"
	"climatelens/internal/services/ask"
	"climatelens/internal/services/embeddings"
	"climatelens/internal/services/geocode"
	"climatelens/internal/services/llm"
	"climatelens/internal/storage/sqlite"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	StorageManager interfaces.StorageManager

	// Model services
	LLMService       interfaces.LLMService
	EmbeddingService interfaces.EmbeddingService

	// Embedding backfill job
	Coordinator *embeddings.CoordinatorService

	// Place-name resolution
	GeocodeService interfaces.GeocodeService

	// Ask orchestration
	AskService interfaces.AskService

	// HTTP handlers
	APIHandler *handlers.APIHandler
	AskHandler *handlers.AskHandler
}

// New creates the application, wiring services in dependency order:
// storage, language model, embeddings, geocoding, then the ask pipeline.
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	a := &App{
		Config: config,
		Logger: logger,
	}

	storageManager, err := sqlite.NewManager(logger, &config.Storage.SQLite)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	a.StorageManager = storageManager

	llmService, err := llm.NewLLMService(config, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize LLM service: %w", err)
	}
	a.LLMService = llmService

	embeddingService, err := embeddings.NewService(llmService, config.LLM.EmbedModelName, config.LLM.EmbedDimension, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize embedding service: %w", err)
	}
	a.EmbeddingService = embeddingService

	a.Coordinator = embeddings.NewCoordinatorService(embeddingService, storageManager.Reports(), &config.Processing, logger)
	if err := a.Coordinator.Start(); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to start embedding coordinator: %w", err)
	}

	geocodeService, err := geocode.NewService(&config.Geocode, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize geocode service: %w", err)
	}
	a.GeocodeService = geocodeService

	a.AskService = ask.NewService(llmService, storageManager, embeddingService, geocodeService, logger)

	a.APIHandler = handlers.NewAPIHandler(a.AskService, logger)
	a.AskHandler = handlers.NewAskHandler(a.AskService, logger)

	logger.Info().
		Str("llm_provider", config.LLM.Provider).
		Str("chat_model", config.LLM.ChatModelName).
		Str("sqlite_path", config.Storage.SQLite.Path).
		Msg("Application initialized")

	return a, nil
}

// Close releases application resources in reverse initialization order
func (a *App) Close() error {
	var firstErr error

	if a.Coordinator != nil {
		a.Coordinator.Stop()
	}

	if a.LLMService != nil {
		if err := a.LLMService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM service")
			firstErr = err
		}
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage")
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
