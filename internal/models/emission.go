package models

// EmissionRecord is one country-year row of the emissions table
type EmissionRecord struct {
	ID      string  `json:"id"`
	Country string  `json:"country"`
	ISO3    string  `json:"iso3"`
	Year    int     `json:"year"`
	CO2Mt   float64 `json:"co2_mt"` // Megatonnes of CO2
}

// EmissionAggregate is the result of a grouped aggregation over emissions
type EmissionAggregate struct {
	Country string  `json:"country"`
	ISO3    string  `json:"iso3"`
	Value   float64 `json:"value"` // Mt CO2 (max/min/avg/sum depending on query)
}
