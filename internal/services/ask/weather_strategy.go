package ask

import (
	"context"
	"fmt"
	"time"

	"climatelens/internal/models"
)

// Weather answers a place/date or place/year weather question. The pipeline
// is geocode, nearest station within stationRadiusKm, then either the daily
// record or the annual aggregate. Every miss along the way is an ordinary
// not-found summary; only provider and storage failures error.
func (s *Strategies) Weather(ctx context.Context, args WeatherArgs) (*models.RetrievalResult, error) {
	coords, err := s.geocode.Lookup(ctx, args.Place)
	if err != nil {
		return nil, fmt.Errorf("geocode lookup failed: %w", err)
	}
	if coords == nil {
		return &models.RetrievalResult{
			Summary: fmt.Sprintf("I couldn’t find coordinates for “%s.”", args.Place),
		}, nil
	}

	station, err := s.weather.NearestStation(ctx, coords.Lat, coords.Lon, stationRadiusKm)
	if err != nil {
		return nil, fmt.Errorf("station lookup failed: %w", err)
	}
	if station == nil {
		return &models.RetrievalResult{
			Summary: fmt.Sprintf("No weather station found within 50 km of %s.", args.Place),
		}, nil
	}

	if args.Year != 0 {
		return s.annualWeather(ctx, args.Place, station.StationID, station.Name, args.Year)
	}
	if args.Date != "" {
		return s.dailyWeather(ctx, args.Place, station.StationID, station.Name, args.Date)
	}

	return &models.RetrievalResult{
		Summary: "Please provide either a full date (YYYY-MM-DD) or a year (YYYY).",
	}, nil
}

func (s *Strategies) annualWeather(ctx context.Context, place, stationID, stationName string, year int) (*models.RetrievalResult, error) {
	summary, err := s.weather.AnnualSummary(ctx, stationID, year)
	if err != nil {
		return nil, fmt.Errorf("annual weather aggregate failed: %w", err)
	}
	if summary == nil {
		return &models.RetrievalResult{
			Summary: fmt.Sprintf("No data for %s in %d.", place, year),
		}, nil
	}

	return &models.RetrievalResult{
		Summary: fmt.Sprintf("In **%d**, at weather station **%s**, the average temperature was **%.1f°C**, and the total precipitation was **%.1f mm**.",
			year, stationName, summary.AvgTemp, summary.TotalPrcp),
		Citations: []models.Citation{{
			ID: fmt.Sprintf("%s-%d-summary", stationID, year),
			Text: fmt.Sprintf("Station %s (%s), %d: avgTemp=%.1f°C, totalPrcp=%.1f mm",
				stationName, stationID, year, summary.AvgTemp, summary.TotalPrcp),
		}},
	}, nil
}

func (s *Strategies) dailyWeather(ctx context.Context, place, stationID, stationName, date string) (*models.RetrievalResult, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return &models.RetrievalResult{
			Summary: "Please provide either a full date (YYYY-MM-DD) or a year (YYYY).",
		}, nil
	}

	obs, err := s.weather.DailyObservation(ctx, stationID, day)
	if err != nil {
		return nil, fmt.Errorf("daily weather lookup failed: %w", err)
	}
	if obs == nil {
		return &models.RetrievalResult{
			Summary: fmt.Sprintf("No data for %s on %s.", place, date),
		}, nil
	}

	return &models.RetrievalResult{
		Summary: fmt.Sprintf("On **%s**, at weather station **%s**, the temperature was **%.1f°C**, with a maximum of **%.1f°C** and a minimum of **%.1f°C**. Total precipitation for the day was **%.1f mm**.",
			date, stationName, obs.Temp, obs.MaxTemp, obs.MinTemp, obs.Prcp),
		Citations: []models.Citation{{
			ID: obs.ID,
			Text: fmt.Sprintf("Station %s (%s), %s: temp=%.1f°C, max=%.1f°C, min=%.1f°C, prcp=%.1f mm",
				stationName, stationID, date, obs.Temp, obs.MaxTemp, obs.MinTemp, obs.Prcp),
		}},
	}, nil
}
