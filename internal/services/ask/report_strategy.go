package ask

import (
	"context"
	"fmt"

	"climatelens/internal/models"
)

// Report retrieves up to k report excerpts for a topic. The vector path is
// tried first: embed the topic and rank a fixed candidate pool by cosine
// similarity. On any failure of that path the keyword full-text search runs
// with the same k. Results are numbered 1..k in returned order; that
// numbering is the citation contract consumed downstream.
func (s *Strategies) Report(ctx context.Context, args ReportArgs) (*models.RetrievalResult, error) {
	k := args.K
	if k <= 0 {
		k = defaultReportK
	}

	chunks, err := s.vectorSearch(ctx, args.Topic, k)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("topic", args.Topic).
			Msg("Vector search failed, falling back to keyword search")

		chunks, err = s.reports.KeywordSearch(ctx, args.Topic, k)
		if err != nil {
			return nil, fmt.Errorf("keyword search failed: %w", err)
		}
	}

	if len(chunks) == 0 {
		return &models.RetrievalResult{
			Summary: fmt.Sprintf("No IPCC report paragraphs found for \"%s\".", args.Topic),
		}, nil
	}

	citations := make([]models.Citation, len(chunks))
	for i, c := range chunks {
		citations[i] = models.Citation{
			ID:   c.ID,
			Text: fmt.Sprintf("[%d] Section %s, Para %d: %s", i+1, c.Section, c.Paragraph, c.Text),
		}
	}

	plural := ""
	if len(chunks) > 1 {
		plural = "s"
	}
	return &models.RetrievalResult{
		Summary:   fmt.Sprintf("Found %d relevant report paragraph%s for \"%s\".", len(chunks), plural, args.Topic),
		Citations: citations,
	}, nil
}

func (s *Strategies) vectorSearch(ctx context.Context, topic string, k int) ([]*models.ReportChunk, error) {
	embedding, err := s.embedding.GenerateQueryEmbedding(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("topic embedding failed: %w", err)
	}
	return s.reports.VectorSearch(ctx, embedding, vectorCandidatePool, k)
}
