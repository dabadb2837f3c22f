package ask

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"climatelens/internal/interfaces"
	"climatelens/internal/models"
)

// Service is the ask orchestrator. One invocation classifies the question,
// dispatches to a retrieval strategy or the RAG fallback, and composes the
// final cited answer. Nothing is retained across requests; concurrent
// invocations share only the pooled storage connection.
//
// Paths:
//   - weather: the strategy result is the final answer, no second pass
//   - numeric: strategy result, then report excerpts (k=3) for grounding,
//     then a formatting generation pass; sources are data citations followed
//     by excerpt citations, in that order
//   - report action, no action, unknown action: RAG fallback (k=5)
type Service struct {
	router     *Router
	strategies *Strategies
	llmService interfaces.LLMService
	logger     arbor.ILogger
}

// NewService creates the ask orchestrator
func NewService(
	llmService interfaces.LLMService,
	storage interfaces.StorageManager,
	embedding interfaces.EmbeddingService,
	geocode interfaces.GeocodeService,
	logger arbor.ILogger,
) interfaces.AskService {
	return &Service{
		router:     NewRouter(llmService, Catalog(), logger),
		strategies: NewStrategies(storage, embedding, geocode, logger),
		llmService: llmService,
		logger:     logger,
	}
}

// Ask answers one question. Upstream failures (model, storage, providers)
// return errors; every other path terminates in a natural-language answer.
func (s *Service) Ask(ctx context.Context, question string) (*models.AskResult, error) {
	s.logger.Info().Str("question", question).Msg("Ask started")

	decision, err := s.router.Classify(ctx, question)
	if err != nil {
		return nil, err
	}

	switch decision.Kind {
	case RouteWeather:
		return s.weatherTerminal(ctx, question, decision)

	case RouteNumeric:
		return s.numericComposed(ctx, question, decision)

	case RouteReport, RouteNone, RouteUnsupported:
		return s.ragOnly(ctx, question)

	default:
		// unreachable unless a RouteKind is added without a case
		return nil, fmt.Errorf("unhandled routing decision %d", decision.Kind)
	}
}

// HealthCheck verifies the language model dependency is reachable
func (s *Service) HealthCheck(ctx context.Context) error {
	return s.llmService.HealthCheck(ctx)
}

// weatherTerminal runs the weather strategy; its result is the composed
// answer verbatim, weather summaries are already fully formatted
func (s *Service) weatherTerminal(ctx context.Context, question string, decision *RoutingDecision) (*models.AskResult, error) {
	var args WeatherArgs
	if err := decodeArgs(decision.Args, &args); err != nil {
		s.logger.Warn().Err(err).Msg("Malformed weather arguments, using RAG fallback")
		return s.ragOnly(ctx, question)
	}

	result, err := s.strategies.Weather(ctx, args)
	if err != nil {
		return nil, err
	}

	return &models.AskResult{
		Answer:  result.Summary,
		Sources: nonNilCitations(result.Citations),
	}, nil
}

// nonNilCitations keeps empty source lists serializing as [] rather than null
func nonNilCitations(citations []models.Citation) []models.Citation {
	if citations == nil {
		return []models.Citation{}
	}
	return citations
}

// numericComposed runs the selected numeric strategy, grounds it with report
// excerpts, and composes the final answer through a formatting pass
func (s *Service) numericComposed(ctx context.Context, question string, decision *RoutingDecision) (*models.AskResult, error) {
	dataResult, err := s.runNumericStrategy(ctx, decision)
	if err != nil {
		return nil, err
	}
	if dataResult == nil {
		// malformed arguments for a known action route like no-action
		return s.ragOnly(ctx, question)
	}

	reportResult, err := s.strategies.Report(ctx, ReportArgs{Topic: question, K: defaultReportK})
	if err != nil {
		return nil, err
	}

	prompt := buildComposePrompt(dataResult.Summary, reportResult.Citations, question)
	answer, err := s.llmService.GenerateText(ctx, prompt, dataExcerptsInstructions)
	if err != nil {
		return nil, fmt.Errorf("answer composition failed: %w", err)
	}

	// Concatenation order fixes the footnote numbering; never re-sort
	sources := make([]models.Citation, 0, len(dataResult.Citations)+len(reportResult.Citations))
	sources = append(sources, dataResult.Citations...)
	sources = append(sources, reportResult.Citations...)

	return &models.AskResult{
		Answer:  strings.TrimSpace(answer),
		Sources: sources,
	}, nil
}

// runNumericStrategy decodes arguments for the selected numeric action and
// invokes its strategy. A nil result with nil error means the arguments were
// malformed and the caller should fall back to RAG.
func (s *Service) runNumericStrategy(ctx context.Context, decision *RoutingDecision) (*models.RetrievalResult, error) {
	fallback := func(err error) (*models.RetrievalResult, error) {
		s.logger.Warn().
			Err(err).
			Str("action", decision.Action).
			Msg("Malformed arguments, using RAG fallback")
		return nil, nil
	}

	switch decision.Action {
	case actionGetEmissions:
		var args EmissionsArgs
		if err := decodeArgs(decision.Args, &args); err != nil {
			return fallback(err)
		}
		return s.strategies.Emissions(ctx, args)

	case actionGetMaxEmissions:
		var args YearArgs
		if err := decodeArgs(decision.Args, &args); err != nil {
			return fallback(err)
		}
		return s.strategies.MaxEmissions(ctx, args)

	case actionGetMinEmissions:
		var args YearArgs
		if err := decodeArgs(decision.Args, &args); err != nil {
			return fallback(err)
		}
		return s.strategies.MinEmissions(ctx, args)

	case actionGetAvgEmissions:
		var args AvgEmissionsArgs
		if err := decodeArgs(decision.Args, &args); err != nil {
			return fallback(err)
		}
		return s.strategies.AvgEmissions(ctx, args)

	case actionGetTopEmitters:
		var args TopEmittersArgs
		if err := decodeArgs(decision.Args, &args); err != nil {
			return fallback(err)
		}
		return s.strategies.TopEmitters(ctx, args)

	case actionGetCumulativeEmissions:
		var args CumulativeArgs
		if err := decodeArgs(decision.Args, &args); err != nil {
			return fallback(err)
		}
		return s.strategies.CumulativeEmissions(ctx, args)

	default:
		// a numeric-kind catalog entry without a dispatch case
		return nil, nil
	}
}

// ragOnly answers purely from report excerpts
func (s *Service) ragOnly(ctx context.Context, question string) (*models.AskResult, error) {
	reportResult, err := s.strategies.Report(ctx, ReportArgs{Topic: question, K: ragFallbackK})
	if err != nil {
		return nil, err
	}

	prompt := buildRagPrompt(reportResult.Citations, question)
	answer, err := s.llmService.GenerateText(ctx, prompt, excerptsOnlyInstructions)
	if err != nil {
		return nil, fmt.Errorf("answer generation failed: %w", err)
	}

	return &models.AskResult{
		Answer:  strings.TrimSpace(answer),
		Sources: nonNilCitations(reportResult.Citations),
	}, nil
}
