package ports

import "exypnos-finder/internal/domain"

// Visual variant of a map marker.
type MarkerIcon string

const (
	IconUser    MarkerIcon = "user"
	IconStation MarkerIcon = "station"
	IconNearest MarkerIcon = "nearest"
)

// A marker to be placed on the map.
type Marker struct {
	Position domain.Coordinates
	Title    string
	Icon     MarkerIcon
	ZIndex   int
	// Info window content shown when the marker is activated.
	Label string
}

// Contract for the mapping SDK the lookup flow renders into.
type MapSurface interface {
	SetCenter(c domain.Coordinates)
	SetZoom(zoom int)
	// Place a marker and return a handle used to remove it or open its info window.
	PlaceMarker(m Marker) string
	RemoveMarker(id string)
	OpenInfoWindow(id string)
}
