package ports

import (
	"context"
	"exypnos-finder/internal/domain"
)

// Contract for acquiring the user's current position.
type Locator interface {
	// Return the current position or an error wrapping ErrLocationUnavailable.
	Locate(ctx context.Context) (domain.Coordinates, error)
}
