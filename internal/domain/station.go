package domain

import "strings"

// Represents a charging station as returned by the external directory.
// Stations are read-only and live for a single lookup cycle.
type Station struct {
	ID          int
	Title       string
	AddressLine string
	Location    Coordinates
	// Status is empty when the directory did not report one.
	Status string
	// Connector type labels, one per connection record, duplicates included.
	Connections []string
}

// StatusLabel returns the display status, "Unknown" when none was reported.
func (s Station) StatusLabel() string {
	if strings.TrimSpace(s.Status) == "" {
		return "Unknown"
	}
	return s.Status
}

// ConnectorTypes returns the distinct connector labels in first-seen order.
func (s Station) ConnectorTypes() []string {
	seen := make(map[string]struct{}, len(s.Connections))
	out := make([]string, 0, len(s.Connections))
	for _, c := range s.Connections {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// ConnectorLabel joins the distinct connector labels with ", ".
func (s Station) ConnectorLabel() string {
	types := s.ConnectorTypes()
	if len(types) == 0 {
		return "Not specified"
	}
	return strings.Join(types, ", ")
}

// A station paired with its great-circle distance from the user.
type RankedStation struct {
	Station    Station
	DistanceKm float64
}
