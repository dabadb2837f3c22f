package interfaces

import (
	"context"
	"errors"
)

// ErrNoEmbedding is returned when the provider responded successfully but
// produced no embedding vector. It is distinguishable from malformed-response
// errors (wrong dimension, decode failures) which carry their own context.
var ErrNoEmbedding = errors.New("no embedding returned from provider")

// EmbeddingService generates vector embeddings for text
type EmbeddingService interface {
	// GenerateEmbedding creates a vector embedding for the given text
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)

	// GenerateQueryEmbedding generates an embedding for a search query
	GenerateQueryEmbedding(ctx context.Context, query string) ([]float32, error)

	// Dimension returns the embedding dimension
	Dimension() int

	// ModelName returns the embedding model name
	ModelName() string

	// IsAvailable checks if the embedding service can be reached
	IsAvailable(ctx context.Context) bool
}
