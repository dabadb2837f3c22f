package embeddings

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"climatelens/internal/common"
	"climatelens/internal/interfaces"
)

// CoordinatorService backfills embeddings for report chunks that were loaded
// without one. It runs on a cron schedule and processes a bounded batch per
// run so a large corpus cannot monopolize the embedding quota.
type CoordinatorService struct {
	embeddingService interfaces.EmbeddingService
	reportStorage    interfaces.ReportStorage
	config           *common.ProcessingConfig
	logger           arbor.ILogger
	cron             *cron.Cron
	isProcessing     bool
	mu               sync.Mutex
}

// NewCoordinatorService creates a new embedding backfill coordinator
func NewCoordinatorService(
	embeddingService interfaces.EmbeddingService,
	reportStorage interfaces.ReportStorage,
	config *common.ProcessingConfig,
	logger arbor.ILogger,
) *CoordinatorService {
	return &CoordinatorService{
		embeddingService: embeddingService,
		reportStorage:    reportStorage,
		config:           config,
		logger:           logger,
	}
}

// Start schedules the backfill job. It is a no-op when processing is
// disabled in configuration.
func (s *CoordinatorService) Start() error {
	if !s.config.Enabled {
		s.logger.Info().Msg("Embedding backfill disabled in configuration")
		return nil
	}

	s.cron = cron.New(cron.WithSeconds())
	_, err := s.cron.AddFunc(s.config.Schedule, func() {
		if err := s.RunOnce(context.Background()); err != nil {
			s.logger.Error().Err(err).Msg("Embedding backfill run failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid backfill schedule '%s': %w", s.config.Schedule, err)
	}

	s.cron.Start()
	s.logger.Info().
		Str("schedule", s.config.Schedule).
		Int("limit", s.config.Limit).
		Msg("Embedding backfill scheduled")

	return nil
}

// Stop halts the schedule and waits for a running job to finish
func (s *CoordinatorService) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
}

// RunOnce embeds one batch of chunks missing embeddings. Concurrent runs are
// skipped rather than queued.
func (s *CoordinatorService) RunOnce(ctx context.Context) error {
	s.mu.Lock()
	if s.isProcessing {
		s.mu.Unlock()
		s.logger.Warn().Msg("Embedding backfill already in progress, skipping run")
		return nil
	}
	s.isProcessing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isProcessing = false
		s.mu.Unlock()
	}()

	limit := s.config.Limit
	if limit <= 0 {
		limit = 100
	}

	chunks, err := s.reportStorage.ListMissingEmbeddings(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list chunks missing embeddings: %w", err)
	}
	if len(chunks) == 0 {
		s.logger.Debug().Msg("No chunks missing embeddings")
		return nil
	}

	s.logger.Info().Int("count", len(chunks)).Msg("Backfilling chunk embeddings")

	var embedded, failed int
	for _, chunk := range chunks {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		embedding, err := s.embeddingService.GenerateEmbedding(ctx, chunk.Text)
		if err != nil {
			failed++
			s.logger.Warn().
				Err(err).
				Str("chunk_id", chunk.ID).
				Msg("Failed to embed chunk")
			continue
		}

		if err := s.reportStorage.UpdateEmbedding(ctx, chunk.ID, embedding); err != nil {
			failed++
			s.logger.Error().
				Err(err).
				Str("chunk_id", chunk.ID).
				Msg("Failed to store chunk embedding")
			continue
		}
		embedded++
	}

	s.logger.Info().
		Int("embedded", embedded).
		Int("failed", failed).
		Msg("Embedding backfill run completed")

	return nil
}
