package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// migrate runs database migrations
func (s *SQLiteDB) migrate() error {
	ctx := context.Background()

	if err := s.createMigrationsTable(ctx); err != nil {
		return err
	}

	migrations := []migration{
		{version: 1, name: "initial_schema", up: migrateV1},
		{version: 2, name: "fts5_indexes", up: migrateV2},
	}

	for _, m := range migrations {
		if err := s.runMigration(ctx, m); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.version, m.name, err)
		}
	}

	return nil
}

type migration struct {
	version int
	name    string
	up      func(context.Context, *sql.Tx) error
}

func (s *SQLiteDB) createMigrationsTable(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at INTEGER NOT NULL
	)`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

func (s *SQLiteDB) runMigration(ctx context.Context, m migration) error {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM schema_migrations WHERE version = ?", m.version).Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := m.up(ctx, tx); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)",
		m.version, m.name, time.Now().Unix()); err != nil {
		return err
	}

	return tx.Commit()
}

// migrateV1 creates the emissions, weather and report tables
func migrateV1(ctx context.Context, tx *sql.Tx) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS emissions (
			id TEXT PRIMARY KEY,
			country TEXT NOT NULL,
			iso3 TEXT NOT NULL DEFAULT '',
			year INTEGER NOT NULL,
			co2_mt REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_emissions_year ON emissions(year)`,
		`CREATE INDEX IF NOT EXISTS idx_emissions_country_year
			ON emissions(country COLLATE NOCASE, year)`,

		`CREATE TABLE IF NOT EXISTS weather_stations (
			station_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			lat REAL NOT NULL,
			lon REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stations_lat_lon ON weather_stations(lat, lon)`,

		`CREATE TABLE IF NOT EXISTS weather_observations (
			id TEXT PRIMARY KEY,
			station_id TEXT NOT NULL REFERENCES weather_stations(station_id),
			record_date INTEGER NOT NULL,
			temp REAL NOT NULL,
			max_temp REAL NOT NULL,
			min_temp REAL NOT NULL,
			prcp REAL NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_obs_station_date
			ON weather_observations(station_id, record_date)`,

		`CREATE TABLE IF NOT EXISTS report_chunks (
			id TEXT PRIMARY KEY,
			section TEXT NOT NULL DEFAULT '',
			paragraph INTEGER NOT NULL DEFAULT 0,
			text TEXT NOT NULL,
			embedding BLOB
		)`,
	}

	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// migrateV2 creates the FTS5 virtual table with sync triggers for report
// keyword search
func migrateV2(ctx context.Context, tx *sql.Tx) error {
	statements := []string{
		`CREATE VIRTUAL TABLE IF NOT EXISTS report_chunks_fts USING fts5(
			text,
			content='report_chunks',
			content_rowid='rowid'
		)`,
		`CREATE TRIGGER IF NOT EXISTS report_chunks_fts_ai AFTER INSERT ON report_chunks BEGIN
			INSERT INTO report_chunks_fts(rowid, text) VALUES (new.rowid, new.text);
		END`,
		`CREATE TRIGGER IF NOT EXISTS report_chunks_fts_ad AFTER DELETE ON report_chunks BEGIN
			INSERT INTO report_chunks_fts(report_chunks_fts, rowid, text)
			VALUES ('delete', old.rowid, old.text);
		END`,
		`CREATE TRIGGER IF NOT EXISTS report_chunks_fts_au AFTER UPDATE ON report_chunks BEGIN
			INSERT INTO report_chunks_fts(report_chunks_fts, rowid, text)
			VALUES ('delete', old.rowid, old.text);
			INSERT INTO report_chunks_fts(rowid, text) VALUES (new.rowid, new.text);
		END`,
	}

	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
