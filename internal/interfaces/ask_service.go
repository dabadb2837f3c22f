package interfaces

import (
	"context"

	"climatelens/internal/models"
)

// AskService is the engine's boundary: one question in, one composed
// Markdown answer with ordered citations out. Consumers rendering Sources
// by index see the same order the engine produced.
type AskService interface {
	Ask(ctx context.Context, question string) (*models.AskResult, error)

	// HealthCheck verifies the downstream collaborators are reachable
	HealthCheck(ctx context.Context) error
}
