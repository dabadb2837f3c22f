package ask

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"climatelens/internal/interfaces"
)

// RouteKind is the exhaustive set of routing outcomes. Every new action kind
// must be given an explicit case in the orchestrator; there is no silent
// default path.
type RouteKind int

const (
	// RouteWeather selects the terminal weather strategy
	RouteWeather RouteKind = iota

	// RouteNumeric selects one of the numeric/ranking strategies
	RouteNumeric

	// RouteReport means the classifier asked for report excerpts directly
	RouteReport

	// RouteNone means the classifier returned no action
	RouteNone

	// RouteUnsupported means the classifier named an action outside the
	// catalog; it is handled like RouteNone
	RouteUnsupported
)

// RoutingDecision is the classified intent for one question
type RoutingDecision struct {
	Kind RouteKind

	// Action is the selected catalog action name; empty for RouteNone.
	// For RouteUnsupported it carries the hallucinated name for logging.
	Action string

	// Args are the classifier's raw arguments, undecoded
	Args map[string]any
}

// Router classifies questions into routing decisions via the language
// model's mandatory tool selection
type Router struct {
	llmService interfaces.LLMService
	actions    []Action
	logger     arbor.ILogger
}

// NewRouter creates a new intent router over the given action catalog
func NewRouter(llmService interfaces.LLMService, actions []Action, logger arbor.ILogger) *Router {
	return &Router{
		llmService: llmService,
		actions:    actions,
		logger:     logger,
	}
}

// Classify sends the question with the catalog to the language model and
// maps the selection onto a RoutingDecision. Model transport failures
// propagate to the caller; a model that picks nothing, or picks a name
// outside the catalog, is a decision, not an error.
func (r *Router) Classify(ctx context.Context, question string) (*RoutingDecision, error) {
	selection, err := r.llmService.GenerateWithTools(ctx, question, classificationSystemPrompt, catalogTools(r.actions))
	if err != nil {
		return nil, fmt.Errorf("intent classification failed: %w", err)
	}

	if selection.Call == nil {
		r.logger.Warn().Msg("Classifier returned no action")
		return &RoutingDecision{Kind: RouteNone}, nil
	}

	action, ok := findAction(r.actions, selection.Call.Name)
	if !ok {
		r.logger.Warn().
			Str("action", selection.Call.Name).
			Msg("Classifier returned action outside the catalog")
		return &RoutingDecision{Kind: RouteUnsupported, Action: selection.Call.Name}, nil
	}

	decision := &RoutingDecision{
		Action: action.Tool.Name,
		Args:   selection.Call.Args,
	}
	switch action.Kind {
	case ActionWeather:
		decision.Kind = RouteWeather
	case ActionReport:
		decision.Kind = RouteReport
	default:
		decision.Kind = RouteNumeric
	}

	r.logger.Debug().
		Str("action", decision.Action).
		Msg("Question classified")

	return decision, nil
}
