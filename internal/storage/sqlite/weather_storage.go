package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/ternarybob/arbor"

	"climatelens/internal/interfaces"
	"climatelens/internal/models"
)

const kmPerDegreeLat = 111.0

// WeatherStorage implements the WeatherStorage interface for SQLite
type WeatherStorage struct {
	db     *SQLiteDB
	logger arbor.ILogger
}

// NewWeatherStorage creates a new WeatherStorage instance
func NewWeatherStorage(db *SQLiteDB, logger arbor.ILogger) interfaces.WeatherStorage {
	return &WeatherStorage{
		db:     db,
		logger: logger,
	}
}

// SaveStations upserts station rows
func (w *WeatherStorage) SaveStations(ctx context.Context, stations []*models.WeatherStation) error {
	tx, err := w.db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO weather_stations (station_id, name, lat, lon)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(station_id) DO UPDATE SET
			name = excluded.name,
			lat = excluded.lat,
			lon = excluded.lon`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, st := range stations {
		if st.StationID == "" {
			return fmt.Errorf("station ID is required")
		}
		if _, err := stmt.ExecContext(ctx, st.StationID, st.Name, st.Lat, st.Lon); err != nil {
			return fmt.Errorf("failed to save station %s: %w", st.StationID, err)
		}
	}

	return tx.Commit()
}

// SaveObservations upserts daily observation rows
func (w *WeatherStorage) SaveObservations(ctx context.Context, observations []*models.WeatherObservation) error {
	tx, err := w.db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO weather_observations (id, station_id, record_date, temp, max_temp, min_temp, prcp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			station_id = excluded.station_id,
			record_date = excluded.record_date,
			temp = excluded.temp,
			max_temp = excluded.max_temp,
			min_temp = excluded.min_temp,
			prcp = excluded.prcp`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, obs := range observations {
		if obs.ID == "" {
			return fmt.Errorf("observation ID is required")
		}
		day := obs.RecordDate.UTC().Truncate(24 * time.Hour)
		if _, err := stmt.ExecContext(ctx, obs.ID, obs.StationID, day.Unix(),
			obs.Temp, obs.MaxTemp, obs.MinTemp, obs.Prcp); err != nil {
			return fmt.Errorf("failed to save observation %s: %w", obs.ID, err)
		}
	}

	return tx.Commit()
}

// NearestStation returns the closest station within maxDistanceKm of the
// given point, or nil when none is in range. A bounding-box prefilter keeps
// the haversine ordering off the full table.
func (w *WeatherStorage) NearestStation(ctx context.Context, lat, lon, maxDistanceKm float64) (*models.WeatherStation, error) {
	deltaLat := maxDistanceKm / kmPerDegreeLat
	kmPerDegreeLon := kmPerDegreeLat * math.Cos(lat*math.Pi/180)
	deltaLon := maxDistanceKm
	if kmPerDegreeLon > 0.001 {
		deltaLon = maxDistanceKm / kmPerDegreeLon
	}

	rows, err := w.db.db.QueryContext(ctx, `
		SELECT station_id, name, lat, lon
		FROM weather_stations
		WHERE lat BETWEEN ? AND ?
		  AND lon BETWEEN ? AND ?`,
		lat-deltaLat, lat+deltaLat, lon-deltaLon, lon+deltaLon)
	if err != nil {
		return nil, fmt.Errorf("station box query failed: %w", err)
	}
	defer rows.Close()

	var nearest *models.WeatherStation
	nearestKm := maxDistanceKm
	for rows.Next() {
		st := &models.WeatherStation{}
		if err := rows.Scan(&st.StationID, &st.Name, &st.Lat, &st.Lon); err != nil {
			return nil, err
		}
		if d := haversineKm(lat, lon, st.Lat, st.Lon); d <= nearestKm {
			nearest = st
			nearestKm = d
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return nearest, nil
}

// DailyObservation returns the station's record for the given UTC day
func (w *WeatherStorage) DailyObservation(ctx context.Context, stationID string, date time.Time) (*models.WeatherObservation, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	obs := &models.WeatherObservation{}
	var recordDate int64
	err := w.db.db.QueryRowContext(ctx, `
		SELECT id, station_id, record_date, temp, max_temp, min_temp, prcp
		FROM weather_observations
		WHERE station_id = ? AND record_date = ?`,
		stationID, day.Unix()).Scan(&obs.ID, &obs.StationID, &recordDate,
		&obs.Temp, &obs.MaxTemp, &obs.MinTemp, &obs.Prcp)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("daily observation query failed: %w", err)
	}
	obs.RecordDate = time.Unix(recordDate, 0).UTC()
	return obs, nil
}

// AnnualSummary aggregates mean temperature and summed precipitation over the
// calendar year in UTC
func (w *WeatherStorage) AnnualSummary(ctx context.Context, stationID string, year int) (*models.WeatherAnnualSummary, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)

	var avgTemp, totalPrcp sql.NullFloat64
	var days int
	err := w.db.db.QueryRowContext(ctx, `
		SELECT AVG(temp), SUM(prcp), COUNT(*)
		FROM weather_observations
		WHERE station_id = ? AND record_date BETWEEN ? AND ?`,
		stationID, start.Unix(), end.Unix()).Scan(&avgTemp, &totalPrcp, &days)
	if err != nil {
		return nil, fmt.Errorf("annual summary query failed: %w", err)
	}
	if days == 0 || !avgTemp.Valid {
		return nil, nil
	}

	return &models.WeatherAnnualSummary{
		AvgTemp:   avgTemp.Float64,
		TotalPrcp: totalPrcp.Float64,
		Days:      days,
	}, nil
}

// haversineKm computes the great-circle distance between two points
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371.0

	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
