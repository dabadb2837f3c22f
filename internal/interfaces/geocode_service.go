package interfaces

import "context"

// LatLon is a resolved coordinate pair
type LatLon struct {
	Lat float64
	Lon float64
}

// GeocodeService resolves place names to coordinates. An unresolvable place
// is reported as (nil, nil); not-found is not an error, only transport
// failures return a non-nil error.
type GeocodeService interface {
	Lookup(ctx context.Context, place string) (*LatLon, error)
}
