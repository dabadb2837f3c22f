package interfaces

import (
	"context"
	"time"

	"climatelens/internal/models"
)

// EmissionStorage exposes the emissions table: range/exact/fuzzy lookups by
// country and year plus grouped aggregations. "No rows" is reported through
// empty slices or nil aggregates, never through errors.
type EmissionStorage interface {
	// SaveRecords upserts emission rows (used by seeding and tests)
	SaveRecords(ctx context.Context, records []*models.EmissionRecord) error

	// GetByCountryRange returns rows matching country name or ISO3 code
	// (case-insensitive exact match) within [startYear, endYear], year ascending
	GetByCountryRange(ctx context.Context, country string, startYear, endYear int) ([]*models.EmissionRecord, error)

	// FuzzySearchByCountry full-text searches country/ISO3 with edit distance
	// <= 2, restricted to the year range, capped at limit rows, year ascending
	FuzzySearchByCountry(ctx context.Context, country string, startYear, endYear, limit int) ([]*models.EmissionRecord, error)

	// MaxByYear returns the country with the highest emissions in a year,
	// or nil when the year has no data
	MaxByYear(ctx context.Context, year int) (*models.EmissionAggregate, error)

	// MinByYear returns the country with the lowest emissions in a year,
	// or nil when the year has no data
	MinByYear(ctx context.Context, year int) (*models.EmissionAggregate, error)

	// AvgByCountryRange averages a country's emissions over a year range;
	// found is false when no rows matched
	AvgByCountryRange(ctx context.Context, country string, startYear, endYear int) (avg float64, found bool, err error)

	// TopByYear lists the top k emitters in a year, descending by value,
	// ties broken by storage order
	TopByYear(ctx context.Context, year, k int) ([]*models.EmissionAggregate, error)

	// SumByCountryRange sums a country's emissions over [startYear, endYear];
	// found is false when no rows matched
	SumByCountryRange(ctx context.Context, country string, startYear, endYear int) (total float64, found bool, err error)
}

// WeatherStorage exposes the weather station/observation tables: nearest-
// neighbor geo lookup and date-ranged aggregation.
type WeatherStorage interface {
	// SaveStations upserts station rows
	SaveStations(ctx context.Context, stations []*models.WeatherStation) error

	// SaveObservations upserts daily observation rows
	SaveObservations(ctx context.Context, observations []*models.WeatherObservation) error

	// NearestStation returns the closest station within maxDistanceKm of the
	// given point, or nil when none is in range
	NearestStation(ctx context.Context, lat, lon, maxDistanceKm float64) (*models.WeatherStation, error)

	// DailyObservation returns the station's record for the given UTC day,
	// or nil when absent
	DailyObservation(ctx context.Context, stationID string, date time.Time) (*models.WeatherObservation, error)

	// AnnualSummary aggregates mean temperature and summed precipitation over
	// the calendar year in UTC, or nil when the year has no observations
	AnnualSummary(ctx context.Context, stationID string, year int) (*models.WeatherAnnualSummary, error)
}

// ReportStorage exposes the report-paragraph corpus: vector similarity search
// over a fixed candidate pool and keyword full-text search.
type ReportStorage interface {
	// SaveChunks upserts report chunks
	SaveChunks(ctx context.Context, chunks []*models.ReportChunk) error

	// VectorSearch ranks up to candidatePool embedded chunks by cosine
	// similarity against the query vector and returns the top k
	VectorSearch(ctx context.Context, embedding []float32, candidatePool, k int) ([]*models.ReportChunk, error)

	// KeywordSearch performs full-text search over chunk text, returning up
	// to k results in relevance order
	KeywordSearch(ctx context.Context, topic string, k int) ([]*models.ReportChunk, error)

	// ListMissingEmbeddings returns up to limit chunks without an embedding
	ListMissingEmbeddings(ctx context.Context, limit int) ([]*models.ReportChunk, error)

	// UpdateEmbedding stores the embedding vector for a chunk
	UpdateEmbedding(ctx context.Context, id string, embedding []float32) error
}

// StorageManager provides access to all storage interfaces backed by one
// pooled database connection
type StorageManager interface {
	Emissions() EmissionStorage
	Weather() WeatherStorage
	Reports() ReportStorage
	Close() error
}
