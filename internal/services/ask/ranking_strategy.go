package ask

import (
	"context"
	"fmt"
	"strings"

	"climatelens/internal/models"
)

// MaxEmissions finds the country with the highest emissions in a year
func (s *Strategies) MaxEmissions(ctx context.Context, args YearArgs) (*models.RetrievalResult, error) {
	top, err := s.emissions.MaxByYear(ctx, args.Year)
	if err != nil {
		return nil, fmt.Errorf("max emissions lookup failed: %w", err)
	}
	if top == nil {
		return &models.RetrievalResult{
			Summary: fmt.Sprintf("No emissions data for year %d.", args.Year),
		}, nil
	}

	return &models.RetrievalResult{
		Summary: fmt.Sprintf("In %d, the highest CO₂ emissions were in %s (%s) at %.2f Mt.",
			args.Year, top.Country, top.ISO3, top.Value),
		Citations: []models.Citation{{
			ID:   fmt.Sprintf("%d-%s-max", args.Year, top.ISO3),
			Text: fmt.Sprintf("Country %s (%s): %.2f Mt", top.Country, top.ISO3, top.Value),
		}},
	}, nil
}

// MinEmissions finds the country with the lowest emissions in a year
func (s *Strategies) MinEmissions(ctx context.Context, args YearArgs) (*models.RetrievalResult, error) {
	bottom, err := s.emissions.MinByYear(ctx, args.Year)
	if err != nil {
		return nil, fmt.Errorf("min emissions lookup failed: %w", err)
	}
	if bottom == nil {
		return &models.RetrievalResult{
			Summary: fmt.Sprintf("No emissions data for year %d.", args.Year),
		}, nil
	}

	return &models.RetrievalResult{
		Summary: fmt.Sprintf("In %d, the lowest CO₂ emissions were in %s (%s) at %.2f Mt.",
			args.Year, bottom.Country, bottom.ISO3, bottom.Value),
		Citations: []models.Citation{{
			ID:   fmt.Sprintf("%d-%s-min", args.Year, bottom.ISO3),
			Text: fmt.Sprintf("Country %s (%s): %.2f Mt", bottom.Country, bottom.ISO3, bottom.Value),
		}},
	}, nil
}

// AvgEmissions averages a country's emissions over a year range
func (s *Strategies) AvgEmissions(ctx context.Context, args AvgEmissionsArgs) (*models.RetrievalResult, error) {
	avg, found, err := s.emissions.AvgByCountryRange(ctx, args.Country, args.StartYear, args.EndYear)
	if err != nil {
		return nil, fmt.Errorf("average emissions lookup failed: %w", err)
	}
	if !found {
		return &models.RetrievalResult{
			Summary: fmt.Sprintf("No emissions data for %s between %d–%d.", args.Country, args.StartYear, args.EndYear),
		}, nil
	}

	return &models.RetrievalResult{
		Summary: fmt.Sprintf("Between %d and %d, average CO₂ emissions for %s were %.2f Mt.",
			args.StartYear, args.EndYear, args.Country, avg),
		Citations: []models.Citation{{
			ID:   fmt.Sprintf("%s-%d-%d-avg", args.Country, args.StartYear, args.EndYear),
			Text: fmt.Sprintf("Average CO₂: %.2f Mt", avg),
		}},
	}, nil
}

// TopEmitters lists the k highest-emitting countries in a year, descending
// by value with ties broken by storage order
func (s *Strategies) TopEmitters(ctx context.Context, args TopEmittersArgs) (*models.RetrievalResult, error) {
	k := args.K
	if k <= 0 {
		k = defaultTopEmittersK
	}

	emitters, err := s.emissions.TopByYear(ctx, args.Year, k)
	if err != nil {
		return nil, fmt.Errorf("top emitters lookup failed: %w", err)
	}
	if len(emitters) == 0 {
		return &models.RetrievalResult{
			Summary: fmt.Sprintf("No emissions data for year %d.", args.Year),
		}, nil
	}

	entries := make([]string, len(emitters))
	citations := make([]models.Citation, len(emitters))
	for i, e := range emitters {
		entries[i] = fmt.Sprintf("%d. %s (%s): %.2f Mt", i+1, e.Country, e.ISO3, e.Value)
		citations[i] = models.Citation{
			ID:   fmt.Sprintf("%d-%s", args.Year, e.ISO3),
			Text: fmt.Sprintf("%s (%s): %.2f Mt", e.Country, e.ISO3, e.Value),
		}
	}

	return &models.RetrievalResult{
		Summary:   fmt.Sprintf("Top %d CO₂ emitters in %d: %s.", k, args.Year, strings.Join(entries, "; ")),
		Citations: citations,
	}, nil
}

// CumulativeEmissions sums a country's emissions from 1850 through the end
// year, reported in gigatonnes
func (s *Strategies) CumulativeEmissions(ctx context.Context, args CumulativeArgs) (*models.RetrievalResult, error) {
	totalMt, found, err := s.emissions.SumByCountryRange(ctx, args.Country, cumulativeStartYear, args.EndYear)
	if err != nil {
		return nil, fmt.Errorf("cumulative emissions lookup failed: %w", err)
	}
	if !found {
		return &models.RetrievalResult{
			Summary: fmt.Sprintf("No cumulative data for %s to %d.", args.Country, args.EndYear),
		}, nil
	}

	totalGt := totalMt / 1000
	return &models.RetrievalResult{
		Summary: fmt.Sprintf("Cumulative CO₂ from %d–%d for %s: %.2f Gt.",
			cumulativeStartYear, args.EndYear, args.Country, totalGt),
		Citations: []models.Citation{{
			ID:   fmt.Sprintf("%s-%d-cum", args.Country, args.EndYear),
			Text: fmt.Sprintf("Cumulative CO₂: %.2f Gt (%d–%d)", totalGt, cumulativeStartYear, args.EndYear),
		}},
	}, nil
}
