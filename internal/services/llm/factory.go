package llm

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"climatelens/internal/common"
	"climatelens/internal/interfaces"
)

// Embedder is the provider-side embedding surface. Only some providers
// implement it; the embeddings service checks at construction time.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// NewLLMService creates the LLM service implementation selected by
// llm.provider in configuration
func NewLLMService(cfg *common.Config, logger arbor.ILogger) (interfaces.LLMService, error) {
	provider := cfg.LLM.Provider
	if provider == "" {
		provider = "gemini"
	}

	logger.Info().Str("provider", provider).Msg("Initializing LLM service")

	switch provider {
	case "gemini":
		return NewGeminiService(cfg, logger)

	case "claude":
		return NewClaudeService(cfg, logger)

	default:
		return nil, fmt.Errorf("unsupported LLM provider '%s': must be 'gemini' or 'claude'", provider)
	}
}
