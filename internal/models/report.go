package models

// ReportChunk is one paragraph of the report corpus with its optional
// embedding vector. Score is populated only on search results.
type ReportChunk struct {
	ID        string    `json:"id"`
	Section   string    `json:"section"`
	Paragraph int       `json:"paragraph"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding,omitempty"`
	Score     float64   `json:"score,omitempty"`
}
