package ask

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/ternarybob/arbor"

	"climatelens/internal/interfaces"
	"climatelens/internal/models"
)

// MockLLMService is a mock implementation of LLMService
type MockLLMService struct {
	mock.Mock
}

func (m *MockLLMService) GenerateWithTools(ctx context.Context, question, system string, tools []interfaces.Tool) (*interfaces.ToolSelection, error) {
	args := m.Called(ctx, question, system, tools)
	if sel, ok := args.Get(0).(*interfaces.ToolSelection); ok {
		return sel, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLLMService) GenerateText(ctx context.Context, prompt, system string) (string, error) {
	args := m.Called(ctx, prompt, system)
	return args.String(0), args.Error(1)
}

func (m *MockLLMService) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockLLMService) GetMode() interfaces.LLMMode {
	return interfaces.LLMModeMock
}

func (m *MockLLMService) Close() error {
	return nil
}

// MockEmbeddingService is a mock implementation of EmbeddingService
type MockEmbeddingService struct {
	mock.Mock
}

func (m *MockEmbeddingService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if vec, ok := args.Get(0).([]float32); ok {
		return vec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEmbeddingService) GenerateQueryEmbedding(ctx context.Context, query string) ([]float32, error) {
	args := m.Called(ctx, query)
	if vec, ok := args.Get(0).([]float32); ok {
		return vec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEmbeddingService) Dimension() int { return 8 }

func (m *MockEmbeddingService) ModelName() string { return "mock-embed" }

func (m *MockEmbeddingService) IsAvailable(ctx context.Context) bool { return true }

// MockGeocodeService is a mock implementation of GeocodeService
type MockGeocodeService struct {
	mock.Mock
}

func (m *MockGeocodeService) Lookup(ctx context.Context, place string) (*interfaces.LatLon, error) {
	args := m.Called(ctx, place)
	if coords, ok := args.Get(0).(*interfaces.LatLon); ok {
		return coords, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockEmissionStorage is a mock implementation of EmissionStorage
type MockEmissionStorage struct {
	mock.Mock
}

func (m *MockEmissionStorage) SaveRecords(ctx context.Context, records []*models.EmissionRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockEmissionStorage) GetByCountryRange(ctx context.Context, country string, startYear, endYear int) ([]*models.EmissionRecord, error) {
	args := m.Called(ctx, country, startYear, endYear)
	if rows, ok := args.Get(0).([]*models.EmissionRecord); ok {
		return rows, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEmissionStorage) FuzzySearchByCountry(ctx context.Context, country string, startYear, endYear, limit int) ([]*models.EmissionRecord, error) {
	args := m.Called(ctx, country, startYear, endYear, limit)
	if rows, ok := args.Get(0).([]*models.EmissionRecord); ok {
		return rows, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEmissionStorage) MaxByYear(ctx context.Context, year int) (*models.EmissionAggregate, error) {
	args := m.Called(ctx, year)
	if agg, ok := args.Get(0).(*models.EmissionAggregate); ok {
		return agg, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEmissionStorage) MinByYear(ctx context.Context, year int) (*models.EmissionAggregate, error) {
	args := m.Called(ctx, year)
	if agg, ok := args.Get(0).(*models.EmissionAggregate); ok {
		return agg, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEmissionStorage) AvgByCountryRange(ctx context.Context, country string, startYear, endYear int) (float64, bool, error) {
	args := m.Called(ctx, country, startYear, endYear)
	return args.Get(0).(float64), args.Bool(1), args.Error(2)
}

func (m *MockEmissionStorage) TopByYear(ctx context.Context, year, k int) ([]*models.EmissionAggregate, error) {
	args := m.Called(ctx, year, k)
	if aggs, ok := args.Get(0).([]*models.EmissionAggregate); ok {
		return aggs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEmissionStorage) SumByCountryRange(ctx context.Context, country string, startYear, endYear int) (float64, bool, error) {
	args := m.Called(ctx, country, startYear, endYear)
	return args.Get(0).(float64), args.Bool(1), args.Error(2)
}

// MockWeatherStorage is a mock implementation of WeatherStorage
type MockWeatherStorage struct {
	mock.Mock
}

func (m *MockWeatherStorage) SaveStations(ctx context.Context, stations []*models.WeatherStation) error {
	args := m.Called(ctx, stations)
	return args.Error(0)
}

func (m *MockWeatherStorage) SaveObservations(ctx context.Context, observations []*models.WeatherObservation) error {
	args := m.Called(ctx, observations)
	return args.Error(0)
}

func (m *MockWeatherStorage) NearestStation(ctx context.Context, lat, lon, maxDistanceKm float64) (*models.WeatherStation, error) {
	args := m.Called(ctx, lat, lon, maxDistanceKm)
	if st, ok := args.Get(0).(*models.WeatherStation); ok {
		return st, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockWeatherStorage) DailyObservation(ctx context.Context, stationID string, date time.Time) (*models.WeatherObservation, error) {
	args := m.Called(ctx, stationID, date)
	if obs, ok := args.Get(0).(*models.WeatherObservation); ok {
		return obs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockWeatherStorage) AnnualSummary(ctx context.Context, stationID string, year int) (*models.WeatherAnnualSummary, error) {
	args := m.Called(ctx, stationID, year)
	if summary, ok := args.Get(0).(*models.WeatherAnnualSummary); ok {
		return summary, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockReportStorage is a mock implementation of ReportStorage
type MockReportStorage struct {
	mock.Mock
}

func (m *MockReportStorage) SaveChunks(ctx context.Context, chunks []*models.ReportChunk) error {
	args := m.Called(ctx, chunks)
	return args.Error(0)
}

func (m *MockReportStorage) VectorSearch(ctx context.Context, embedding []float32, candidatePool, k int) ([]*models.ReportChunk, error) {
	args := m.Called(ctx, embedding, candidatePool, k)
	if chunks, ok := args.Get(0).([]*models.ReportChunk); ok {
		return chunks, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReportStorage) KeywordSearch(ctx context.Context, topic string, k int) ([]*models.ReportChunk, error) {
	args := m.Called(ctx, topic, k)
	if chunks, ok := args.Get(0).([]*models.ReportChunk); ok {
		return chunks, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReportStorage) ListMissingEmbeddings(ctx context.Context, limit int) ([]*models.ReportChunk, error) {
	args := m.Called(ctx, limit)
	if chunks, ok := args.Get(0).([]*models.ReportChunk); ok {
		return chunks, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReportStorage) UpdateEmbedding(ctx context.Context, id string, embedding []float32) error {
	args := m.Called(ctx, id, embedding)
	return args.Error(0)
}

// mockStorageManager bundles the storage mocks behind the manager interface
type mockStorageManager struct {
	emissions *MockEmissionStorage
	weather   *MockWeatherStorage
	reports   *MockReportStorage
}

func newMockStorageManager() *mockStorageManager {
	return &mockStorageManager{
		emissions: &MockEmissionStorage{},
		weather:   &MockWeatherStorage{},
		reports:   &MockReportStorage{},
	}
}

func (m *mockStorageManager) Emissions() interfaces.EmissionStorage { return m.emissions }
func (m *mockStorageManager) Weather() interfaces.WeatherStorage    { return m.weather }
func (m *mockStorageManager) Reports() interfaces.ReportStorage     { return m.reports }
func (m *mockStorageManager) Close() error                          { return nil }

func newTestStrategies(storage *mockStorageManager, embedding *MockEmbeddingService, geocode *MockGeocodeService) *Strategies {
	return NewStrategies(storage, embedding, geocode, arbor.NewLogger())
}
