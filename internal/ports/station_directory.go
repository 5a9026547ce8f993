package ports

import (
	"context"
	"exypnos-finder/internal/domain"
)

const (
	DefaultSearchRadiusKm = 5
	DefaultMaxResults     = 20
)

// Parameters for a single directory search around a coordinate.
type StationQuery struct {
	Origin     domain.Coordinates
	RadiusKm   float64
	MaxResults int
}

// WithDefaults fills zero radius and result cap with the defaults.
func (q StationQuery) WithDefaults() StationQuery {
	if q.RadiusKm <= 0 {
		q.RadiusKm = DefaultSearchRadiusKm
	}
	if q.MaxResults <= 0 {
		q.MaxResults = DefaultMaxResults
	}
	return q
}

// Contract for the external charging-station directory.
type StationDirectory interface {
	// Return stations around the query origin. A failed request yields an error
	// wrapping ErrFetchFailed and an empty result yields ErrNoStations.
	SearchStations(ctx context.Context, q StationQuery) ([]domain.Station, error)
}
