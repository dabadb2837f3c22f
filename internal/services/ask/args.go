package ask

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Argument structs decoded from the classifier's raw output. Numbers arrive
// as float64; the JSON round trip normalizes them into the typed fields.

// EmissionsArgs selects a country and an inclusive year range. EndYear
// defaults to StartYear when absent.
type EmissionsArgs struct {
	Country   string `json:"country" validate:"required"`
	StartYear int    `json:"startYear" validate:"required"`
	EndYear   int    `json:"endYear"`
}

// YearArgs selects a single year (max/min lookups)
type YearArgs struct {
	Year int `json:"year" validate:"required"`
}

// AvgEmissionsArgs selects a country over an explicit year range
type AvgEmissionsArgs struct {
	Country   string `json:"country" validate:"required"`
	StartYear int    `json:"startYear" validate:"required"`
	EndYear   int    `json:"endYear" validate:"required"`
}

// TopEmittersArgs selects a year and an optional result count
type TopEmittersArgs struct {
	Year int `json:"year" validate:"required"`
	K    int `json:"k"`
}

// CumulativeArgs selects a country and the end of the summation window
type CumulativeArgs struct {
	Country string `json:"country" validate:"required"`
	EndYear int    `json:"endYear" validate:"required"`
}

// WeatherArgs selects a place and exactly one of date or year; the strategy
// answers with a clarification when both are absent
type WeatherArgs struct {
	Place string `json:"place" validate:"required"`
	Date  string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Year  int    `json:"year"`
}

// ReportArgs selects a search topic and an optional result count
type ReportArgs struct {
	Topic string `json:"topic" validate:"required"`
	K     int    `json:"k"`
}

var argValidator = validator.New()

// decodeArgs normalizes the classifier's raw argument map into a typed
// struct and validates required fields
func decodeArgs(args map[string]any, dest any) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("failed to encode arguments: %w", err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("failed to decode arguments: %w", err)
	}
	if err := argValidator.Struct(dest); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}
