package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"climatelens/internal/common"
	"climatelens/internal/interfaces"
	"climatelens/internal/models"
)

// setupTestDB creates a file-backed SQLite database in a temp directory
func setupTestDB(t *testing.T) *SQLiteDB {
	t.Helper()

	config := &common.SQLiteConfig{
		Path:               t.TempDir() + "/test.db",
		CacheSizeMB:        50,
		BusyTimeoutMS:      5000,
		WALMode:            false, // simpler cleanup for tests
		MaxOpenConns:       1,
		EmbeddingDimension: 8,
	}

	db, err := NewSQLiteDB(arbor.NewLogger(), config)
	require.NoError(t, err, "failed to create test database")

	t.Cleanup(func() { db.Close() })
	return db
}

func seedEmissions(t *testing.T, storage interfaces.EmissionStorage) {
	t.Helper()

	records := []*models.EmissionRecord{
		{ID: "e1", Country: "Germany", ISO3: "DEU", Year: 2019, CO2Mt: 700.0},
		{ID: "e2", Country: "Germany", ISO3: "DEU", Year: 2020, CO2Mt: 650.0},
		{ID: "e3", Country: "Germany", ISO3: "DEU", Year: 2021, CO2Mt: 675.0},
		{ID: "e4", Country: "France", ISO3: "FRA", Year: 2020, CO2Mt: 300.0},
		{ID: "e5", Country: "Poland", ISO3: "POL", Year: 2020, CO2Mt: 320.0},
		{ID: "e6", Country: "Monaco", ISO3: "MCO", Year: 2020, CO2Mt: 0.1},
	}
	require.NoError(t, storage.SaveRecords(context.Background(), records))
}

func TestGetByCountryRange(t *testing.T) {
	db := setupTestDB(t)
	storage := NewEmissionStorage(db, arbor.NewLogger())
	seedEmissions(t, storage)
	ctx := context.Background()

	t.Run("exact name is case-insensitive", func(t *testing.T) {
		rows, err := storage.GetByCountryRange(ctx, "germany", 2019, 2021)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, 2019, rows[0].Year, "rows should be year ascending")
		assert.Equal(t, 2021, rows[2].Year)
	})

	t.Run("matches ISO3 code", func(t *testing.T) {
		rows, err := storage.GetByCountryRange(ctx, "FRA", 2020, 2020)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "France", rows[0].Country)
	})

	t.Run("range bounds are inclusive", func(t *testing.T) {
		rows, err := storage.GetByCountryRange(ctx, "Germany", 2020, 2020)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, 650.0, rows[0].CO2Mt)
	})

	t.Run("unknown country returns empty", func(t *testing.T) {
		rows, err := storage.GetByCountryRange(ctx, "Atlantis", 2000, 2030)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestFuzzySearchByCountry(t *testing.T) {
	db := setupTestDB(t)
	storage := NewEmissionStorage(db, arbor.NewLogger())
	seedEmissions(t, storage)
	ctx := context.Background()

	t.Run("tolerates two edits", func(t *testing.T) {
		rows, err := storage.FuzzySearchByCountry(ctx, "Germny", 2019, 2021, 100)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "Germany", rows[0].Country)
	})

	t.Run("rejects three edits", func(t *testing.T) {
		rows, err := storage.FuzzySearchByCountry(ctx, "Grmn", 2019, 2021, 100)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("matches misspelled ISO3", func(t *testing.T) {
		rows, err := storage.FuzzySearchByCountry(ctx, "FR", 2020, 2020, 100)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "France", rows[0].Country)
	})

	t.Run("respects the row cap", func(t *testing.T) {
		rows, err := storage.FuzzySearchByCountry(ctx, "Germany", 2019, 2021, 2)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})
}

func TestExtremesByYear(t *testing.T) {
	db := setupTestDB(t)
	storage := NewEmissionStorage(db, arbor.NewLogger())
	seedEmissions(t, storage)
	ctx := context.Background()

	t.Run("max picks highest emitter", func(t *testing.T) {
		agg, err := storage.MaxByYear(ctx, 2020)
		require.NoError(t, err)
		require.NotNil(t, agg)
		assert.Equal(t, "Germany", agg.Country)
		assert.Equal(t, 650.0, agg.Value)
	})

	t.Run("min picks lowest emitter", func(t *testing.T) {
		agg, err := storage.MinByYear(ctx, 2020)
		require.NoError(t, err)
		require.NotNil(t, agg)
		assert.Equal(t, "Monaco", agg.Country)
	})

	t.Run("empty year yields nil", func(t *testing.T) {
		agg, err := storage.MaxByYear(ctx, 1805)
		require.NoError(t, err)
		assert.Nil(t, agg)
	})
}

func TestTopByYear(t *testing.T) {
	db := setupTestDB(t)
	storage := NewEmissionStorage(db, arbor.NewLogger())
	seedEmissions(t, storage)

	top, err := storage.TopByYear(context.Background(), 2020, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Germany", top[0].Country)
	assert.Equal(t, "Poland", top[1].Country)
}

func TestAvgAndSumByCountryRange(t *testing.T) {
	db := setupTestDB(t)
	storage := NewEmissionStorage(db, arbor.NewLogger())
	seedEmissions(t, storage)
	ctx := context.Background()

	t.Run("avg over range", func(t *testing.T) {
		avg, found, err := storage.AvgByCountryRange(ctx, "Germany", 2019, 2021)
		require.NoError(t, err)
		assert.True(t, found)
		assert.InDelta(t, 675.0, avg, 0.001)
	})

	t.Run("sum over range", func(t *testing.T) {
		total, found, err := storage.SumByCountryRange(ctx, "Germany", 2019, 2021)
		require.NoError(t, err)
		assert.True(t, found)
		assert.InDelta(t, 2025.0, total, 0.001)
	})

	t.Run("no rows reports not found", func(t *testing.T) {
		_, found, err := storage.AvgByCountryRange(ctx, "Atlantis", 2019, 2021)
		require.NoError(t, err)
		assert.False(t, found)

		_, found, err = storage.SumByCountryRange(ctx, "Germany", 1700, 1750)
		require.NoError(t, err)
		assert.False(t, found)
	})
}
