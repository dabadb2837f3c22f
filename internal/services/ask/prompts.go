package ask

import (
	"strings"

	"climatelens/internal/models"
)

// classificationSystemPrompt biases the classifier toward the right tool.
// Weather questions must carry either a date or a year argument.
const classificationSystemPrompt = `You are a climate assistant. Available tools:

• get_weather(place: string, date?: string, year?: number)
  – Pass "date" (YYYY-MM-DD) for daily stats
  – Pass "year" (YYYY) for an annual summary

• get_emissions(...)
• get_report(...)
• get_top_emitters(...)

When the user asks about weather, invoke get_weather with either its date or year.`

// dataExcerptsInstructions constrains the second generation pass when a
// numeric data line is combined with report excerpts
const dataExcerptsInstructions = `You are a climate assistant. You will be given:

Data: <Data line>
<excerpt 1>
<excerpt 2>
<excerpt 3>

Use **only** this information—no outside facts—and output a **Markdown-formatted** answer:

1. **First sentence** with the number in **bold**.
   - If the number came from an excerpt, append its bracketed citation (e.g. "[1]").

2. **Context/Explanation**:
   - If any excerpt offers non-redundant insight, include a 1-3 item bullet list. Each bullet:
     - Summarizes *why* the excerpt matters
     - Ends with its bracketed citation
   - Otherwise, provide one concise closing sentence clarifying the result.

3. **References:**
   - List all excerpts exactly as given, each prefixed by its bracketed citation.

Do **not** add any information beyond the Data line and the excerpts.`

// excerptsOnlyInstructions constrains the RAG fallback generation pass
const excerptsOnlyInstructions = `You are a climate assistant. Summarize these excerpts in Markdown and cite each by [number].`

// buildComposePrompt assembles the data-plus-excerpts prompt: the data line,
// each excerpt text in citation order, then the question
func buildComposePrompt(dataSummary string, excerpts []models.Citation, question string) string {
	lines := make([]string, 0, len(excerpts)+4)
	lines = append(lines, "Data: "+dataSummary)
	for _, c := range excerpts {
		lines = append(lines, c.Text)
	}
	lines = append(lines, "", "Question: "+question, "Answer:")
	return strings.Join(lines, "\n\n")
}

// buildRagPrompt assembles the excerpts-only prompt
func buildRagPrompt(excerpts []models.Citation, question string) string {
	lines := make([]string, 0, len(excerpts)+3)
	for _, c := range excerpts {
		lines = append(lines, c.Text)
	}
	lines = append(lines, "", "Question: "+question, "Answer:")
	return strings.Join(lines, "\n\n")
}
