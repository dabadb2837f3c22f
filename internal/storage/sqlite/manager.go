package sqlite

import (
	"github.com/ternarybob/arbor"

	"climatelens/internal/common"
	"climatelens/internal/interfaces"
)

// Manager implements the StorageManager interface
type Manager struct {
	db        *SQLiteDB
	emissions interfaces.EmissionStorage
	weather   interfaces.WeatherStorage
	reports   interfaces.ReportStorage
	logger    arbor.ILogger
}

// NewManager creates a new SQLite storage manager
func NewManager(logger arbor.ILogger, config *common.SQLiteConfig) (interfaces.StorageManager, error) {
	db, err := NewSQLiteDB(logger, config)
	if err != nil {
		return nil, err
	}

	return &Manager{
		db:        db,
		emissions: NewEmissionStorage(db, logger),
		weather:   NewWeatherStorage(db, logger),
		reports:   NewReportStorage(db, logger),
		logger:    logger,
	}, nil
}

// Emissions returns the emission storage interface
func (m *Manager) Emissions() interfaces.EmissionStorage {
	return m.emissions
}

// Weather returns the weather storage interface
func (m *Manager) Weather() interfaces.WeatherStorage {
	return m.weather
}

// Reports returns the report storage interface
func (m *Manager) Reports() interfaces.ReportStorage {
	return m.reports
}

// Close closes the underlying database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
