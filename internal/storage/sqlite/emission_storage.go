package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"climatelens/internal/interfaces"
	"climatelens/internal/models"
)

// EmissionStorage implements the EmissionStorage interface for SQLite
type EmissionStorage struct {
	db     *SQLiteDB
	logger arbor.ILogger
}

// NewEmissionStorage creates a new EmissionStorage instance
func NewEmissionStorage(db *SQLiteDB, logger arbor.ILogger) interfaces.EmissionStorage {
	return &EmissionStorage{
		db:     db,
		logger: logger,
	}
}

// SaveRecords upserts emission rows
func (e *EmissionStorage) SaveRecords(ctx context.Context, records []*models.EmissionRecord) error {
	tx, err := e.db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO emissions (id, country, iso3, year, co2_mt)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			country = excluded.country,
			iso3 = excluded.iso3,
			year = excluded.year,
			co2_mt = excluded.co2_mt`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if r.ID == "" {
			return fmt.Errorf("emission record ID is required")
		}
		if _, err := stmt.ExecContext(ctx, r.ID, r.Country, r.ISO3, r.Year, r.CO2Mt); err != nil {
			return fmt.Errorf("failed to save emission record %s: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

// GetByCountryRange returns rows matching country name or ISO3 code
// (case-insensitive exact match) within the year range, year ascending
func (e *EmissionStorage) GetByCountryRange(ctx context.Context, country string, startYear, endYear int) ([]*models.EmissionRecord, error) {
	rows, err := e.db.db.QueryContext(ctx, `
		SELECT id, country, iso3, year, co2_mt
		FROM emissions
		WHERE year BETWEEN ? AND ?
		  AND (country = ? COLLATE NOCASE OR iso3 = ? COLLATE NOCASE)
		ORDER BY year ASC, rowid ASC`,
		startYear, endYear, country, country)
	if err != nil {
		return nil, fmt.Errorf("emissions range query failed: %w", err)
	}
	defer rows.Close()

	return scanEmissionRecords(rows)
}

// FuzzySearchByCountry finds rows whose country name or ISO3 code is within
// edit distance 2 of the query, restricted to the year range, capped at limit
// rows. Candidate names come from a distinct scan of the country vocabulary;
// the edit-distance filter runs in Go because SQLite has no fuzzy operator.
func (e *EmissionStorage) FuzzySearchByCountry(ctx context.Context, country string, startYear, endYear, limit int) ([]*models.EmissionRecord, error) {
	names, err := e.matchCountryNames(ctx, country)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return []*models.EmissionRecord{}, nil
	}

	placeholders := make([]string, len(names))
	args := make([]any, 0, len(names)+3)
	args = append(args, startYear, endYear)
	for i, n := range names {
		placeholders[i] = "?"
		args = append(args, n)
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT id, country, iso3, year, co2_mt
		FROM emissions
		WHERE year BETWEEN ? AND ?
		  AND country IN (%s)
		ORDER BY year ASC, rowid ASC
		LIMIT ?`, strings.Join(placeholders, ", "))

	rows, err := e.db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("emissions fuzzy query failed: %w", err)
	}
	defer rows.Close()

	return scanEmissionRecords(rows)
}

// matchCountryNames returns the distinct country names whose name or ISO3 is
// within edit distance 2 of the query
func (e *EmissionStorage) matchCountryNames(ctx context.Context, country string) ([]string, error) {
	rows, err := e.db.db.QueryContext(ctx,
		"SELECT DISTINCT country, iso3 FROM emissions")
	if err != nil {
		return nil, fmt.Errorf("country vocabulary query failed: %w", err)
	}
	defer rows.Close()

	queryLower := strings.ToLower(strings.TrimSpace(country))
	var names []string
	for rows.Next() {
		var name, iso3 string
		if err := rows.Scan(&name, &iso3); err != nil {
			return nil, err
		}
		if levenshtein(queryLower, strings.ToLower(name)) <= 2 ||
			(iso3 != "" && levenshtein(queryLower, strings.ToLower(iso3)) <= 2) {
			names = append(names, name)
		}
	}
	return names, rows.Err()
}

// MaxByYear returns the country with the highest emissions in a year
func (e *EmissionStorage) MaxByYear(ctx context.Context, year int) (*models.EmissionAggregate, error) {
	return e.extremeByYear(ctx, year, "MAX", "DESC")
}

// MinByYear returns the country with the lowest emissions in a year
func (e *EmissionStorage) MinByYear(ctx context.Context, year int) (*models.EmissionAggregate, error) {
	return e.extremeByYear(ctx, year, "MIN", "ASC")
}

func (e *EmissionStorage) extremeByYear(ctx context.Context, year int, fn, dir string) (*models.EmissionAggregate, error) {
	query := fmt.Sprintf(`
		SELECT country, iso3, %s(co2_mt) AS value
		FROM emissions
		WHERE year = ?
		GROUP BY country, iso3
		ORDER BY value %s
		LIMIT 1`, fn, dir)

	agg := &models.EmissionAggregate{}
	err := e.db.db.QueryRowContext(ctx, query, year).Scan(&agg.Country, &agg.ISO3, &agg.Value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("emissions %s query failed: %w", strings.ToLower(fn), err)
	}
	return agg, nil
}

// AvgByCountryRange averages a country's emissions over a year range
func (e *EmissionStorage) AvgByCountryRange(ctx context.Context, country string, startYear, endYear int) (float64, bool, error) {
	var avg sql.NullFloat64
	err := e.db.db.QueryRowContext(ctx, `
		SELECT AVG(co2_mt)
		FROM emissions
		WHERE year BETWEEN ? AND ?
		  AND (country = ? COLLATE NOCASE OR iso3 = ? COLLATE NOCASE)`,
		startYear, endYear, country, country).Scan(&avg)
	if err != nil {
		return 0, false, fmt.Errorf("emissions avg query failed: %w", err)
	}
	if !avg.Valid {
		return 0, false, nil
	}
	return avg.Float64, true, nil
}

// TopByYear lists the top k emitters in a year, descending by value.
// Ties break by rowid, the natural storage order.
func (e *EmissionStorage) TopByYear(ctx context.Context, year, k int) ([]*models.EmissionAggregate, error) {
	rows, err := e.db.db.QueryContext(ctx, `
		SELECT country, iso3, co2_mt
		FROM emissions
		WHERE year = ?
		ORDER BY co2_mt DESC, rowid ASC
		LIMIT ?`,
		year, k)
	if err != nil {
		return nil, fmt.Errorf("emissions top query failed: %w", err)
	}
	defer rows.Close()

	var aggs []*models.EmissionAggregate
	for rows.Next() {
		agg := &models.EmissionAggregate{}
		if err := rows.Scan(&agg.Country, &agg.ISO3, &agg.Value); err != nil {
			return nil, err
		}
		aggs = append(aggs, agg)
	}
	return aggs, rows.Err()
}

// SumByCountryRange sums a country's emissions over the year range
func (e *EmissionStorage) SumByCountryRange(ctx context.Context, country string, startYear, endYear int) (float64, bool, error) {
	var total sql.NullFloat64
	err := e.db.db.QueryRowContext(ctx, `
		SELECT SUM(co2_mt)
		FROM emissions
		WHERE year BETWEEN ? AND ?
		  AND (country = ? COLLATE NOCASE OR iso3 = ? COLLATE NOCASE)`,
		startYear, endYear, country, country).Scan(&total)
	if err != nil {
		return 0, false, fmt.Errorf("emissions sum query failed: %w", err)
	}
	if !total.Valid {
		return 0, false, nil
	}
	return total.Float64, true, nil
}

func scanEmissionRecords(rows *sql.Rows) ([]*models.EmissionRecord, error) {
	var records []*models.EmissionRecord
	for rows.Next() {
		r := &models.EmissionRecord{}
		if err := rows.Scan(&r.ID, &r.Country, &r.ISO3, &r.Year, &r.CO2Mt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// levenshtein computes the edit distance between two strings
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
