package geolocation

import (
	"context"
	"exypnos-finder/internal/domain"
	"exypnos-finder/internal/ports"
	"fmt"
)

// StaticLocator reports a position that was already acquired elsewhere,
// e.g. by the browser and posted with the request, or given on the command line.
type StaticLocator struct {
	Position domain.Coordinates
}

func (l StaticLocator) Locate(ctx context.Context) (domain.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return domain.Coordinates{}, fmt.Errorf("locate: %w: %w", ports.ErrLocationUnavailable, err)
	}
	if !l.Position.Valid() {
		return domain.Coordinates{}, fmt.Errorf(
			"locate: %w: position out of range (%v, %v)",
			ports.ErrLocationUnavailable, l.Position.Lat, l.Position.Lon,
		)
	}
	return l.Position, nil
}

// UnavailableLocator always fails. It stands in for a client that denied
// permission or has no geolocation support.
type UnavailableLocator struct {
	Reason string
}

func (l UnavailableLocator) Locate(ctx context.Context) (domain.Coordinates, error) {
	reason := l.Reason
	if reason == "" {
		reason = "position not provided"
	}
	return domain.Coordinates{}, fmt.Errorf("locate: %w: %s", ports.ErrLocationUnavailable, reason)
}

// FromOptional returns a StaticLocator when pos is set, otherwise an
// UnavailableLocator.
func FromOptional(pos *domain.Coordinates) ports.Locator {
	if pos == nil {
		return UnavailableLocator{}
	}
	return StaticLocator{Position: *pos}
}
