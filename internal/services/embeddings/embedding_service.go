package embeddings

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"climatelens/internal/interfaces"
	"climatelens/internal/services/llm"
)

// Service implements the EmbeddingService interface on top of an
// embedding-capable LLM provider
type Service struct {
	embedder  llm.Embedder
	mode      interfaces.LLMMode
	modelName string
	dimension int
	logger    arbor.ILogger
}

// NewService creates a new embedding service. The LLM service must implement
// the provider-side Embedder surface (the Claude provider does not).
func NewService(llmService interfaces.LLMService, modelName string, dimension int, logger arbor.ILogger) (interfaces.EmbeddingService, error) {
	embedder, ok := llmService.(llm.Embedder)
	if !ok {
		return nil, fmt.Errorf("LLM provider does not support embeddings")
	}

	return &Service{
		embedder:  embedder,
		mode:      llmService.GetMode(),
		modelName: modelName,
		dimension: dimension,
		logger:    logger,
	}, nil
}

// GenerateEmbedding creates a vector embedding for text
func (s *Service) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	start := time.Now()
	embedding, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}
	if len(embedding) == 0 {
		return nil, interfaces.ErrNoEmbedding
	}

	s.logger.Debug().
		Str("mode", string(s.mode)).
		Int("embedding_dim", len(embedding)).
		Dur("duration", time.Since(start)).
		Msg("Generated embedding")

	return embedding, nil
}

// GenerateQueryEmbedding generates an embedding for a search query. Queries
// use the same representation as stored chunks.
func (s *Service) GenerateQueryEmbedding(ctx context.Context, query string) ([]float32, error) {
	return s.GenerateEmbedding(ctx, query)
}

// Dimension returns the embedding dimension
func (s *Service) Dimension() int {
	return s.dimension
}

// ModelName returns the embedding model name
func (s *Service) ModelName() string {
	return s.modelName
}

// IsAvailable checks whether the provider answers an embedding probe
func (s *Service) IsAvailable(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := s.embedder.Embed(probeCtx, "availability probe")
	if err != nil {
		s.logger.Warn().Err(err).Msg("Embedding availability probe failed")
		return false
	}
	return true
}
