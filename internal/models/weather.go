package models

import "time"

// WeatherStation is one physical observation station
type WeatherStation struct {
	StationID string  `json:"station_id"`
	Name      string  `json:"name"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
}

// WeatherObservation is one daily record for a station
type WeatherObservation struct {
	ID         string    `json:"id"`
	StationID  string    `json:"station_id"`
	RecordDate time.Time `json:"record_date"` // UTC midnight of the observation day
	Temp       float64   `json:"temp"`        // Daily mean temperature, °C
	MaxTemp    float64   `json:"max_temp"`
	MinTemp    float64   `json:"min_temp"`
	Prcp       float64   `json:"prcp"` // Daily precipitation, mm
}

// WeatherAnnualSummary aggregates one station's observations over a calendar year
type WeatherAnnualSummary struct {
	AvgTemp   float64 `json:"avg_temp"`   // Mean of daily mean temperatures, °C
	TotalPrcp float64 `json:"total_prcp"` // Summed daily precipitation, mm
	Days      int     `json:"days"`       // Number of contributing observations
}
