package ask

import (
	"climatelens/internal/interfaces"
)

// ActionKind determines which orchestration path an action takes
type ActionKind int

const (
	// ActionWeather answers are terminal; the strategy output is returned
	// verbatim with no second generation pass
	ActionWeather ActionKind = iota

	// ActionNumeric answers are grounded with report excerpts and composed
	// by a second generation pass
	ActionNumeric

	// ActionReport routes straight to the RAG fallback
	ActionReport
)

// Action pairs a tool schema with its orchestration path. Adding an action
// means adding one entry here and one dispatch case in the orchestrator;
// the dispatch switch fails closed (unknown names fall back to RAG).
type Action struct {
	Kind ActionKind
	Tool interfaces.Tool
}

// Action names exposed to the classifier
const (
	actionGetEmissions           = "get_emissions"
	actionGetMaxEmissions        = "get_max_emissions"
	actionGetMinEmissions        = "get_min_emissions"
	actionGetAvgEmissions        = "get_avg_emissions"
	actionGetTopEmitters         = "get_top_emitters"
	actionGetCumulativeEmissions = "get_cumulative_emissions"
	actionGetWeather             = "get_weather"
	actionGetReport              = "get_report"
)

// Catalog returns the static action registry. Order is stable; it is the
// order tools are presented to the classifier.
func Catalog() []Action {
	return []Action{
		{
			Kind: ActionNumeric,
			Tool: interfaces.Tool{
				Name:        actionGetEmissions,
				Description: "Fetch CO₂ emissions for a country and year or year range.",
				Parameters: map[string]interfaces.ToolParam{
					"country":   {Type: "string", Description: "ISO3 code or full country name."},
					"startYear": {Type: "integer", Description: "4-digit start year."},
					"endYear":   {Type: "integer", Description: "4-digit end year (optional)."},
				},
				Required: []string{"country", "startYear"},
			},
		},
		{
			Kind: ActionNumeric,
			Tool: interfaces.Tool{
				Name:        actionGetMaxEmissions,
				Description: "Find the country with highest CO₂ emissions in a given year.",
				Parameters: map[string]interfaces.ToolParam{
					"year": {Type: "integer", Description: "4-digit year to query."},
				},
				Required: []string{"year"},
			},
		},
		{
			Kind: ActionNumeric,
			Tool: interfaces.Tool{
				Name:        actionGetMinEmissions,
				Description: "Find the country with lowest CO₂ emissions in a given year.",
				Parameters: map[string]interfaces.ToolParam{
					"year": {Type: "integer", Description: "4-digit year to query."},
				},
				Required: []string{"year"},
			},
		},
		{
			Kind: ActionNumeric,
			Tool: interfaces.Tool{
				Name:        actionGetAvgEmissions,
				Description: "Compute average CO₂ emissions for a country over a year range.",
				Parameters: map[string]interfaces.ToolParam{
					"country":   {Type: "string", Description: "ISO3 code or full country name."},
					"startYear": {Type: "integer", Description: "4-digit start year."},
					"endYear":   {Type: "integer", Description: "4-digit end year."},
				},
				Required: []string{"country", "startYear", "endYear"},
			},
		},
		{
			Kind: ActionNumeric,
			Tool: interfaces.Tool{
				Name:        actionGetTopEmitters,
				Description: "List the top k CO₂ emitting countries in a given year.",
				Parameters: map[string]interfaces.ToolParam{
					"year": {Type: "integer", Description: "4-digit year to query."},
					"k":    {Type: "integer", Description: "Number of top countries to return (default 5)."},
				},
				Required: []string{"year"},
			},
		},
		{
			Kind: ActionNumeric,
			Tool: interfaces.Tool{
				Name:        actionGetCumulativeEmissions,
				Description: "Sum CO₂ emissions for a country/region from 1850 up to a given end year.",
				Parameters: map[string]interfaces.ToolParam{
					"country": {Type: "string", Description: "Full country or region name, or ISO3 code."},
					"endYear": {Type: "integer", Description: "4-digit end year (must be >= 1850)."},
				},
				Required: []string{"country", "endYear"},
			},
		},
		{
			Kind: ActionWeather,
			Tool: interfaces.Tool{
				Name:        actionGetWeather,
				Description: "Fetch daily weather (YYYY-MM-DD) or annual summary (YYYY) for a place.",
				Parameters: map[string]interfaces.ToolParam{
					"place": {Type: "string", Description: "City or station name (e.g. \"Paris\")."},
					"date":  {Type: "string", Description: "Exact date YYYY-MM-DD for daily lookup."},
					"year":  {Type: "integer", Description: "4-digit year for annual summary."},
				},
				Required: []string{"place"},
			},
		},
		{
			Kind: ActionReport,
			Tool: interfaces.Tool{
				Name:        actionGetReport,
				Description: "Retrieve IPCC report paragraphs by keyword; returns transparent citations.",
				Parameters: map[string]interfaces.ToolParam{
					"topic": {Type: "string", Description: "Keyword or phrase to search in IPCC report text chunks."},
					"k":     {Type: "integer", Description: "Number of paragraphs to return (default 3)."},
				},
				Required: []string{"topic"},
			},
		},
	}
}

// catalogTools projects the catalog onto the LLM tool surface
func catalogTools(actions []Action) []interfaces.Tool {
	tools := make([]interfaces.Tool, len(actions))
	for i, a := range actions {
		tools[i] = a.Tool
	}
	return tools
}

// findAction looks up an action by name
func findAction(actions []Action, name string) (Action, bool) {
	for _, a := range actions {
		if a.Tool.Name == name {
			return a, true
		}
	}
	return Action{}, false
}
