package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"

	"climatelens/internal/common"
	"climatelens/internal/interfaces"
)

// ClaudeService implements the LLMService interface using the Anthropic API.
// It provides tool-forced classification and plain text generation with
// Claude models. Embeddings are not supported by this provider.
type ClaudeService struct {
	config    *common.LLMConfig
	logger    arbor.ILogger
	client    *anthropic.Client
	timeout   time.Duration
	maxTokens int
}

// NewClaudeService creates a new Claude LLM service instance
func NewClaudeService(config *common.Config, logger arbor.ILogger) (*ClaudeService, error) {
	apiKey := config.LLM.AnthropicAPIKey
	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required for Claude service (set ANTHROPIC_API_KEY, CLIMATELENS_LLM_ANTHROPIC_API_KEY, or llm.anthropic_api_key in config)")
	}

	if config.LLM.ChatModelName == "" {
		config.LLM.ChatModelName = "claude-sonnet-4-20250514"
	}

	timeout, err := time.ParseDuration(config.LLM.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", config.LLM.Timeout, err)
	}

	maxTokens := config.LLM.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)

	service := &ClaudeService{
		config:    &config.LLM,
		logger:    logger,
		client:    &client,
		timeout:   timeout,
		maxTokens: maxTokens,
	}

	logger.Info().
		Str("chat_model", config.LLM.ChatModelName).
		Dur("timeout", timeout).
		Int("max_tokens", maxTokens).
		Msg("Claude LLM service initialized successfully")

	return service, nil
}

// GenerateWithTools sends the question with the tool catalog and a forced
// "any" tool choice. A response without a tool_use block is reported through
// a nil ToolSelection.Call.
func (s *ClaudeService) GenerateWithTools(ctx context.Context, question, system string, tools []interfaces.Tool) (*interfaces.ToolSelection, error) {
	if question == "" {
		return nil, fmt.Errorf("question cannot be empty")
	}
	if len(tools) == 0 {
		return nil, fmt.Errorf("tool catalog cannot be empty")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(s.config.ChatModelName),
		MaxTokens: int64(s.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(question)),
		},
		Tools: convertToolsToClaude(tools),
		ToolChoice: anthropic.ToolChoiceUnionParam{
			OfAny: &anthropic.ToolChoiceAnyParam{},
		},
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	resp, err := s.client.Messages.New(timeoutCtx, params)
	if err != nil {
		s.logger.Error().Err(err).Msg("Tool selection request failed")
		return nil, fmt.Errorf("tool selection failed: %w", err)
	}

	selection := &interfaces.ToolSelection{}
	var text strings.Builder
	for _, block := range resp.Content {
		switch block.Type {
		case "tool_use":
			if selection.Call != nil {
				continue
			}
			args := map[string]any{}
			if len(block.Input) > 0 {
				if err := json.Unmarshal(block.Input, &args); err != nil {
					return nil, fmt.Errorf("failed to decode tool arguments: %w", err)
				}
			}
			selection.Call = &interfaces.ToolCall{
				Name: block.Name,
				Args: args,
			}
		case "text":
			text.WriteString(block.Text)
		}
	}
	selection.RawText = text.String()

	return selection, nil
}

// GenerateText performs a plain completion with no tool use
func (s *ClaudeService) GenerateText(ctx context.Context, prompt, system string) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(s.config.ChatModelName),
		MaxTokens: int64(s.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if s.config.Temperature > 0 {
		params.Temperature = anthropic.Float(float64(s.config.Temperature))
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	resp, err := s.client.Messages.New(timeoutCtx, params)
	if err != nil {
		s.logger.Error().Err(err).Msg("Text generation failed")
		return "", fmt.Errorf("text generation failed: %w", err)
	}

	var response strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			response.WriteString(block.Text)
		}
	}
	if response.Len() == 0 {
		return "", fmt.Errorf("no response generated from Claude API")
	}

	return response.String(), nil
}

// Embed is not supported by the Anthropic API
func (s *ClaudeService) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, fmt.Errorf("claude provider does not support embeddings")
}

// HealthCheck verifies the client is initialized and answers a minimal probe
func (s *ClaudeService) HealthCheck(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("Claude client is not initialized")
	}

	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	response, err := s.GenerateText(probeCtx, "ping", "")
	if err != nil {
		return fmt.Errorf("Claude probe failed: %w", err)
	}
	if strings.TrimSpace(response) == "" {
		return fmt.Errorf("Claude probe returned empty response")
	}

	return nil
}

// GetMode returns the operational mode of the LLM service
func (s *ClaudeService) GetMode() interfaces.LLMMode {
	return interfaces.LLMModeCloud
}

// Close releases the client reference
func (s *ClaudeService) Close() error {
	s.logger.Debug().Msg("Closing Claude LLM service")
	s.client = nil
	return nil
}

// convertToolsToClaude maps the provider-neutral tool catalog to Anthropic
// tool params
func convertToolsToClaude(tools []interfaces.Tool) []anthropic.ToolUnionParam {
	params := make([]anthropic.ToolUnionParam, 0, len(tools))
	for _, tool := range tools {
		properties := make(map[string]any, len(tool.Parameters))
		for name, param := range tool.Parameters {
			properties[name] = map[string]any{
				"type":        param.Type,
				"description": param.Description,
			}
		}
		params = append(params, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        tool.Name,
				Description: anthropic.String(tool.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: properties,
					Required:   tool.Required,
				},
			},
		})
	}
	return params
}
