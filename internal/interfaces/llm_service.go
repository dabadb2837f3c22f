package interfaces

import (
	"context"
)

// LLMMode represents the operational mode of the LLM service
type LLMMode string

const (
	// LLMModeCloud indicates the service uses cloud-based LLM APIs
	LLMModeCloud LLMMode = "cloud"

	// LLMModeMock indicates a test double is in use
	LLMModeMock LLMMode = "mock"
)

// ToolParam describes a single parameter of a tool in JSON-schema terms
type ToolParam struct {
	// Type is the primitive JSON type: "string", "integer", "number"
	Type string

	// Description biases the model's argument extraction
	Description string
}

// Tool is one selectable action exposed to the model's function-calling surface
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]ToolParam
	Required    []string
}

// ToolCall is one action the model selected, with its raw arguments
type ToolCall struct {
	Name string
	Args map[string]any
}

// ToolSelection is the result of a classify-and-call request. Call is nil when
// the model returned no function call; RawText carries any accompanying text.
type ToolSelection struct {
	Call    *ToolCall
	RawText string
}

// LLMService defines the two language-model operations the engine consumes:
// tool-forced classification and plain text generation.
type LLMService interface {
	// GenerateWithTools sends the question with a system instruction and the
	// tool catalog in mandatory-selection mode. The model may still return
	// zero calls; that is reported as a nil ToolSelection.Call, not an error.
	// Transport and quota failures are returned as errors and are the
	// caller's responsibility to surface.
	GenerateWithTools(ctx context.Context, question, system string, tools []Tool) (*ToolSelection, error)

	// GenerateText performs a plain completion with no tool use. The system
	// instruction constrains output shape; the returned text is not trimmed.
	GenerateText(ctx context.Context, prompt, system string) (string, error)

	// HealthCheck verifies the service is operational and can handle requests
	HealthCheck(ctx context.Context) error

	// GetMode returns the current operational mode of the LLM service
	GetMode() LLMMode

	// Close releases resources and performs cleanup operations
	Close() error
}
