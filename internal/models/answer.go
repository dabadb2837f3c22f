package models

// Citation is an attributable evidence snippet. Insertion order carries the
// footnote numbering used by the formatting pass; citation slices must never
// be re-sorted after creation.
type Citation struct {
	ID   string `json:"id"`   // Opaque, unique within one response
	Text string `json:"text"` // Self-contained snippet suitable for a References list
}

// RetrievalResult is returned by every retrieval strategy and by the RAG
// fallback. Summary is always non-empty and human-readable even when nothing
// matched; Citations is empty only when no matching record or paragraph exists.
type RetrievalResult struct {
	Summary   string     `json:"summary"`
	Citations []Citation `json:"citations"`
}

// AskResult is the engine's only externally visible output: a Markdown answer
// plus its ordered citation list (data citations followed by excerpt citations).
type AskResult struct {
	Answer  string     `json:"answer"`
	Sources []Citation `json:"sources"`
}
