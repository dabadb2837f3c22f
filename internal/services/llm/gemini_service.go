package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"google.golang.org/genai"

	"climatelens/internal/common"
	"climatelens/internal/interfaces"
)

// GeminiService implements the LLMService interface using the Google genai
// SDK. It provides tool-forced classification, plain text generation, and
// embeddings with Gemini models.
type GeminiService struct {
	config  *common.LLMConfig
	logger  arbor.ILogger
	client  *genai.Client
	timeout time.Duration
}

// NewGeminiService creates a new Gemini LLM service instance.
//
// Initialization resolves the Google API key from configuration, validates
// that the embedding dimension matches the storage schema, and initializes
// the genai client against the Gemini API backend.
func NewGeminiService(config *common.Config, logger arbor.ILogger) (*GeminiService, error) {
	apiKey := config.LLM.GoogleAPIKey
	if apiKey == "" {
		return nil, fmt.Errorf("Google API key is required for LLM service (set GEMINI_API_KEY, CLIMATELENS_LLM_GOOGLE_API_KEY, or llm.google_api_key in config)")
	}

	if config.LLM.EmbedDimension != config.Storage.SQLite.EmbeddingDimension {
		return nil, fmt.Errorf("LLM.EmbedDimension (%d) must match SQLite.EmbeddingDimension (%d)", config.LLM.EmbedDimension, config.Storage.SQLite.EmbeddingDimension)
	}

	if config.LLM.ChatModelName == "" {
		config.LLM.ChatModelName = "gemini-2.0-flash"
	}
	if config.LLM.EmbedModelName == "" {
		config.LLM.EmbedModelName = "gemini-embedding-001"
	}

	timeout, err := time.ParseDuration(config.LLM.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", config.LLM.Timeout, err)
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	service := &GeminiService{
		config:  &config.LLM,
		logger:  logger,
		client:  client,
		timeout: timeout,
	}

	logger.Info().
		Str("chat_model", config.LLM.ChatModelName).
		Str("embed_model", config.LLM.EmbedModelName).
		Int("embed_dimension", config.LLM.EmbedDimension).
		Dur("timeout", timeout).
		Msg("Gemini LLM service initialized successfully")

	return service, nil
}

// GenerateWithTools sends the question with the tool catalog in mandatory
// function-calling mode. The model must pick a tool or return none; a
// selection with no call is reported through a nil ToolSelection.Call.
func (s *GeminiService) GenerateWithTools(ctx context.Context, question, system string, tools []interfaces.Tool) (*interfaces.ToolSelection, error) {
	if question == "" {
		return nil, fmt.Errorf("question cannot be empty")
	}
	if len(tools) == 0 {
		return nil, fmt.Errorf("tool catalog cannot be empty")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	startTime := time.Now()

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(s.config.Temperature),
		Tools:       []*genai.Tool{{FunctionDeclarations: convertToolDeclarations(tools)}},
		ToolConfig: &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{
				Mode: genai.FunctionCallingConfigModeAny,
			},
		},
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	contents := []*genai.Content{genai.NewContentFromText(question, genai.RoleUser)}
	resp, err := s.client.Models.GenerateContent(timeoutCtx, s.config.ChatModelName, contents, config)
	if err != nil {
		s.logger.Error().Err(err).Msg("Tool selection request failed")
		return nil, fmt.Errorf("tool selection failed: %w", err)
	}

	selection := &interfaces.ToolSelection{}
	if calls := resp.FunctionCalls(); len(calls) > 0 {
		selection.Call = &interfaces.ToolCall{
			Name: calls[0].Name,
			Args: calls[0].Args,
		}
	}
	selection.RawText = resp.Text()

	duration := time.Since(startTime)
	event := s.logger.Debug().Dur("duration", duration)
	if selection.Call != nil {
		event = event.Str("tool", selection.Call.Name)
	}
	event.Msg("Tool selection completed")

	return selection, nil
}

// GenerateText performs a plain completion with no tool use
func (s *GeminiService) GenerateText(ctx context.Context, prompt, system string) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	startTime := time.Now()

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(s.config.Temperature),
	}
	if s.config.MaxTokens > 0 {
		config.MaxOutputTokens = int32(s.config.MaxTokens)
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	resp, err := s.client.Models.GenerateContent(timeoutCtx, s.config.ChatModelName, contents, config)
	if err != nil {
		s.logger.Error().Err(err).Msg("Text generation failed")
		return "", fmt.Errorf("text generation failed: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no response generated from chat model")
	}

	s.logger.Debug().
		Int("response_length", len(text)).
		Dur("duration", time.Since(startTime)).
		Msg("Text generation completed")

	return text, nil
}

// Embed generates an embedding vector for the given text using the
// configured embedding model and output dimensionality.
func (s *GeminiService) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty for embedding generation")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	outputDim := int32(s.config.EmbedDimension)
	embeddingConfig := &genai.EmbedContentConfig{
		OutputDimensionality: &outputDim,
	}

	result, err := s.client.Models.EmbedContent(timeoutCtx, s.config.EmbedModelName,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, embeddingConfig)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	var embedding []float32
	if result != nil && len(result.Embeddings) > 0 {
		embedding = result.Embeddings[0].Values
	}
	if embedding == nil {
		return nil, interfaces.ErrNoEmbedding
	}
	if len(embedding) != s.config.EmbedDimension {
		return nil, fmt.Errorf("embedding dimension mismatch: expected %d, got %d", s.config.EmbedDimension, len(embedding))
	}

	return embedding, nil
}

// HealthCheck verifies the client is initialized and the chat model answers a
// minimal probe
func (s *GeminiService) HealthCheck(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("genai client is not initialized")
	}

	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	response, err := s.GenerateText(probeCtx, "ping", "")
	if err != nil {
		return fmt.Errorf("chat probe failed: %w", err)
	}
	if strings.TrimSpace(response) == "" {
		return fmt.Errorf("chat probe returned empty response")
	}

	return nil
}

// GetMode returns the operational mode of the LLM service
func (s *GeminiService) GetMode() interfaces.LLMMode {
	return interfaces.LLMModeCloud
}

// Close releases the client reference; genai.Client needs no explicit cleanup
func (s *GeminiService) Close() error {
	s.logger.Debug().Msg("Closing Gemini LLM service")
	s.client = nil
	return nil
}

// convertToolDeclarations maps the provider-neutral tool catalog to genai
// function declarations
func convertToolDeclarations(tools []interfaces.Tool) []*genai.FunctionDeclaration {
	declarations := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, tool := range tools {
		properties := make(map[string]*genai.Schema, len(tool.Parameters))
		for name, param := range tool.Parameters {
			properties[name] = &genai.Schema{
				Type:        genaiSchemaType(param.Type),
				Description: param.Description,
			}
		}
		declarations = append(declarations, &genai.FunctionDeclaration{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: properties,
				Required:   tool.Required,
			},
		})
	}
	return declarations
}

func genaiSchemaType(jsonType string) genai.Type {
	switch jsonType {
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}
