package ask

import (
	"context"
	"fmt"
	"strings"

	"climatelens/internal/models"
)

// Emissions answers a country/year-range emissions question. Lookup is
// two-phase: case-insensitive exact match on country name or ISO3 first,
// then a fuzzy fallback (edit distance <= 2) capped at fuzzyRowCap rows.
func (s *Strategies) Emissions(ctx context.Context, args EmissionsArgs) (*models.RetrievalResult, error) {
	endYear := args.EndYear
	if endYear == 0 {
		endYear = args.StartYear
	}

	records, err := s.emissions.GetByCountryRange(ctx, args.Country, args.StartYear, endYear)
	if err != nil {
		return nil, fmt.Errorf("emissions lookup failed: %w", err)
	}

	if len(records) == 0 {
		records, err = s.emissions.FuzzySearchByCountry(ctx, args.Country, args.StartYear, endYear, fuzzyRowCap)
		if err != nil {
			return nil, fmt.Errorf("fuzzy emissions lookup failed: %w", err)
		}
	}

	if len(records) == 0 {
		rangeSuffix := ""
		if endYear != args.StartYear {
			rangeSuffix = fmt.Sprintf("–%d", endYear)
		}
		return &models.RetrievalResult{
			Summary: fmt.Sprintf("No emissions data found for “%s” in %d%s.", args.Country, args.StartYear, rangeSuffix),
		}, nil
	}

	// Single year, multiple rows: sum and cite every row
	if args.StartYear == endYear && len(records) > 1 {
		var total float64
		names := make([]string, len(records))
		citations := make([]models.Citation, len(records))
		for i, r := range records {
			total += r.CO2Mt
			names[i] = r.Country
			citations[i] = models.Citation{
				ID:   r.ID,
				Text: fmt.Sprintf("Year %d: %.2f Mt CO₂ (%s)", r.Year, r.CO2Mt, r.Country),
			}
		}
		return &models.RetrievalResult{
			Summary: fmt.Sprintf("In %d, %s emitted %.2f Mt CO₂ (sum of %s).",
				args.StartYear, args.Country, total, strings.Join(names, " + ")),
			Citations: citations,
		}, nil
	}

	// Range (or single row): report first/last values and the average
	// yearly change. The span floor of 1 guards the single-row case.
	first := records[0]
	last := records[len(records)-1]
	span := last.Year - first.Year
	if span == 0 {
		span = 1
	}
	slope := (last.CO2Mt - first.CO2Mt) / float64(span)

	citations := make([]models.Citation, 0, 3)
	for _, r := range records[:min(3, len(records))] {
		citations = append(citations, models.Citation{
			ID:   r.ID,
			Text: fmt.Sprintf("Year %d: %.2f Mt CO₂", r.Year, r.CO2Mt),
		})
	}

	return &models.RetrievalResult{
		Summary: fmt.Sprintf("Between %d and %d, %s’s CO₂ changed from %.2f to %.2f Mt (avg. %.2f Mt/yr).",
			args.StartYear, last.Year, first.Country, first.CO2Mt, last.CO2Mt, slope),
		Citations: citations,
	}, nil
}
