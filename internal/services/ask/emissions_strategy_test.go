package ask

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"climatelens/internal/models"
)

func TestEmissionsStrategy_SingleRow(t *testing.T) {
	storage := newMockStorageManager()
	storage.emissions.On("GetByCountryRange", mock.Anything, "Germany", 2019, 2019).
		Return([]*models.EmissionRecord{
			{ID: "deu-2019", Country: "Germany", ISO3: "DEU", Year: 2019, CO2Mt: 700.0},
		}, nil)

	strategies := newTestStrategies(storage, &MockEmbeddingService{}, &MockGeocodeService{})

	result, err := strategies.Emissions(context.Background(), EmissionsArgs{Country: "Germany", StartYear: 2019})
	require.NoError(t, err)

	// A single year with a single row goes through the range path; the
	// one-year span must not divide by zero
	assert.Contains(t, result.Summary, "700.00")
	assert.NotContains(t, result.Summary, "NaN")
	assert.NotContains(t, result.Summary, "Inf")
	require.Len(t, result.Citations, 1)
	assert.Equal(t, "deu-2019", result.Citations[0].ID)
	assert.Contains(t, result.Citations[0].Text, "Year 2019")
}

func TestEmissionsStrategy_RangeSlope(t *testing.T) {
	storage := newMockStorageManager()
	storage.emissions.On("GetByCountryRange", mock.Anything, "Germany", 2019, 2021).
		Return([]*models.EmissionRecord{
			{ID: "deu-2019", Country: "Germany", ISO3: "DEU", Year: 2019, CO2Mt: 700.0},
			{ID: "deu-2020", Country: "Germany", ISO3: "DEU", Year: 2020, CO2Mt: 650.0},
			{ID: "deu-2021", Country: "Germany", ISO3: "DEU", Year: 2021, CO2Mt: 675.0},
		}, nil)

	strategies := newTestStrategies(storage, &MockEmbeddingService{}, &MockGeocodeService{})

	result, err := strategies.Emissions(context.Background(), EmissionsArgs{Country: "Germany", StartYear: 2019, EndYear: 2021})
	require.NoError(t, err)

	// (675 - 700) / 2 = -12.50 Mt/yr
	assert.Contains(t, result.Summary, "from 700.00 to 675.00 Mt")
	assert.Contains(t, result.Summary, "-12.50 Mt/yr")
	assert.Len(t, result.Citations, 3)
}

func TestEmissionsStrategy_CitationCap(t *testing.T) {
	rows := []*models.EmissionRecord{
		{ID: "deu-2017", Country: "Germany", ISO3: "DEU", Year: 2017, CO2Mt: 720.0},
		{ID: "deu-2018", Country: "Germany", ISO3: "DEU", Year: 2018, CO2Mt: 710.0},
		{ID: "deu-2019", Country: "Germany", ISO3: "DEU", Year: 2019, CO2Mt: 700.0},
		{ID: "deu-2020", Country: "Germany", ISO3: "DEU", Year: 2020, CO2Mt: 650.0},
		{ID: "deu-2021", Country: "Germany", ISO3: "DEU", Year: 2021, CO2Mt: 675.0},
	}

	storage := newMockStorageManager()
	storage.emissions.On("GetByCountryRange", mock.Anything, "Germany", 2017, 2021).Return(rows, nil)

	strategies := newTestStrategies(storage, &MockEmbeddingService{}, &MockGeocodeService{})

	result, err := strategies.Emissions(context.Background(), EmissionsArgs{Country: "Germany", StartYear: 2017, EndYear: 2021})
	require.NoError(t, err)

	// At most the first three rows are cited even when more matched
	require.Len(t, result.Citations, 3)
	assert.Equal(t, "deu-2017", result.Citations[0].ID)
	assert.Equal(t, "deu-2019", result.Citations[2].ID)
}

func TestEmissionsStrategy_SingleYearMultipleRows(t *testing.T) {
	storage := newMockStorageManager()
	storage.emissions.On("GetByCountryRange", mock.Anything, "Germny", 2020, 2020).
		Return([]*models.EmissionRecord{}, nil)
	storage.emissions.On("FuzzySearchByCountry", mock.Anything, "Germny", 2020, 2020, fuzzyRowCap).
		Return([]*models.EmissionRecord{
			{ID: "deu-2020", Country: "Germany", ISO3: "DEU", Year: 2020, CO2Mt: 650.0},
			{ID: "grm-2020", Country: "Germani", ISO3: "GRM", Year: 2020, CO2Mt: 10.0},
		}, nil)

	strategies := newTestStrategies(storage, &MockEmbeddingService{}, &MockGeocodeService{})

	result, err := strategies.Emissions(context.Background(), EmissionsArgs{Country: "Germny", StartYear: 2020})
	require.NoError(t, err)

	// Multiple fuzzy matches in the same year are summed and every row cited
	assert.Contains(t, result.Summary, "660.00 Mt")
	assert.Contains(t, result.Summary, "Germany + Germani")
	require.Len(t, result.Citations, 2)
	assert.Equal(t, "deu-2020", result.Citations[0].ID)
	assert.Equal(t, "grm-2020", result.Citations[1].ID)
}

func TestEmissionsStrategy_FuzzyOnlyAfterExactMiss(t *testing.T) {
	storage := newMockStorageManager()
	storage.emissions.On("GetByCountryRange", mock.Anything, "DEU", 2020, 2020).
		Return([]*models.EmissionRecord{
			{ID: "deu-2020", Country: "Germany", ISO3: "DEU", Year: 2020, CO2Mt: 650.0},
		}, nil)

	strategies := newTestStrategies(storage, &MockEmbeddingService{}, &MockGeocodeService{})

	_, err := strategies.Emissions(context.Background(), EmissionsArgs{Country: "DEU", StartYear: 2020})
	require.NoError(t, err)

	storage.emissions.AssertNotCalled(t, "FuzzySearchByCountry", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEmissionsStrategy_NotFound(t *testing.T) {
	storage := newMockStorageManager()
	storage.emissions.On("GetByCountryRange", mock.Anything, "Atlantis", 2020, 2021).
		Return([]*models.EmissionRecord{}, nil)
	storage.emissions.On("FuzzySearchByCountry", mock.Anything, "Atlantis", 2020, 2021, fuzzyRowCap).
		Return([]*models.EmissionRecord{}, nil)

	strategies := newTestStrategies(storage, &MockEmbeddingService{}, &MockGeocodeService{})

	result, err := strategies.Emissions(context.Background(), EmissionsArgs{Country: "Atlantis", StartYear: 2020, EndYear: 2021})
	require.NoError(t, err)

	// Not-found is an ordinary answer, never an error
	assert.Equal(t, "No emissions data found for “Atlantis” in 2020–2021.", result.Summary)
	assert.Empty(t, result.Citations)
}

func TestEmissionsStrategy_StorageError(t *testing.T) {
	storage := newMockStorageManager()
	storage.emissions.On("GetByCountryRange", mock.Anything, "Germany", 2020, 2020).
		Return(nil, errors.New("database is locked"))

	strategies := newTestStrategies(storage, &MockEmbeddingService{}, &MockGeocodeService{})

	_, err := strategies.Emissions(context.Background(), EmissionsArgs{Country: "Germany", StartYear: 2020})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "emissions lookup failed")
}
