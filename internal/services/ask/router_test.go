package ask

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/arbor"

	"climatelens/internal/interfaces"
)

func newTestRouter(llm *MockLLMService) *Router {
	return NewRouter(llm, Catalog(), arbor.NewLogger())
}

func TestClassify_ActionKinds(t *testing.T) {
	tests := []struct {
		action string
		kind   RouteKind
	}{
		{actionGetEmissions, RouteNumeric},
		{actionGetMaxEmissions, RouteNumeric},
		{actionGetMinEmissions, RouteNumeric},
		{actionGetAvgEmissions, RouteNumeric},
		{actionGetTopEmitters, RouteNumeric},
		{actionGetCumulativeEmissions, RouteNumeric},
		{actionGetWeather, RouteWeather},
		{actionGetReport, RouteReport},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			llm := &MockLLMService{}
			llm.On("GenerateWithTools", mock.Anything, "question", classificationSystemPrompt, mock.Anything).
				Return(&interfaces.ToolSelection{
					Call: &interfaces.ToolCall{Name: tt.action, Args: map[string]any{}},
				}, nil)

			decision, err := newTestRouter(llm).Classify(context.Background(), "question")
			require.NoError(t, err)

			assert.Equal(t, tt.kind, decision.Kind)
			assert.Equal(t, tt.action, decision.Action)
		})
	}
}

func TestClassify_CarriesArguments(t *testing.T) {
	llm := &MockLLMService{}
	llm.On("GenerateWithTools", mock.Anything, "How much CO2 did Germany emit in 2019?", classificationSystemPrompt, mock.Anything).
		Return(&interfaces.ToolSelection{
			Call: &interfaces.ToolCall{
				Name: actionGetEmissions,
				Args: map[string]any{"country": "Germany", "startYear": float64(2019)},
			},
		}, nil)

	decision, err := newTestRouter(llm).Classify(context.Background(), "How much CO2 did Germany emit in 2019?")
	require.NoError(t, err)

	assert.Equal(t, "Germany", decision.Args["country"])
	assert.Equal(t, float64(2019), decision.Args["startYear"])
}

func TestClassify_NoCall(t *testing.T) {
	llm := &MockLLMService{}
	llm.On("GenerateWithTools", mock.Anything, "hello there", classificationSystemPrompt, mock.Anything).
		Return(&interfaces.ToolSelection{RawText: "Hello! How can I help?"}, nil)

	decision, err := newTestRouter(llm).Classify(context.Background(), "hello there")
	require.NoError(t, err)

	assert.Equal(t, RouteNone, decision.Kind)
	assert.Empty(t, decision.Action)
}

func TestClassify_UnknownAction(t *testing.T) {
	llm := &MockLLMService{}
	llm.On("GenerateWithTools", mock.Anything, "question", classificationSystemPrompt, mock.Anything).
		Return(&interfaces.ToolSelection{
			Call: &interfaces.ToolCall{Name: "get_stock_price", Args: map[string]any{}},
		}, nil)

	decision, err := newTestRouter(llm).Classify(context.Background(), "question")
	require.NoError(t, err)

	assert.Equal(t, RouteUnsupported, decision.Kind)
	assert.Equal(t, "get_stock_price", decision.Action)
}

func TestClassify_ModelError(t *testing.T) {
	llm := &MockLLMService{}
	llm.On("GenerateWithTools", mock.Anything, "question", classificationSystemPrompt, mock.Anything).
		Return(nil, errors.New("quota exceeded"))

	_, err := newTestRouter(llm).Classify(context.Background(), "question")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "intent classification failed")
}

func TestCatalogTools_ExposesAllActions(t *testing.T) {
	tools := catalogTools(Catalog())

	require.Len(t, tools, 8)

	names := make([]string, len(tools))
	for i, tool := range tools {
		names[i] = tool.Name
	}
	assert.Equal(t, []string{
		actionGetEmissions,
		actionGetMaxEmissions,
		actionGetMinEmissions,
		actionGetAvgEmissions,
		actionGetTopEmitters,
		actionGetCumulativeEmissions,
		actionGetWeather,
		actionGetReport,
	}, names)
}

func TestFindAction(t *testing.T) {
	actions := Catalog()

	action, ok := findAction(actions, actionGetWeather)
	require.True(t, ok)
	assert.Equal(t, ActionWeather, action.Kind)

	_, ok = findAction(actions, "get_stock_price")
	assert.False(t, ok)
}
