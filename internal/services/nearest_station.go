package services

import (
	"exypnos-finder/internal/domain"
	"math"
)

// Select the station closest to the user.
//
// A single linear scan with a strict less-than comparison, so the first
// station encountered wins ties. ok is false when stations is empty.
func NearestStation(user domain.Coordinates, stations []domain.Station) (_ domain.RankedStation, ok bool) {
	var best domain.RankedStation
	minDistance := math.Inf(1)

	for _, s := range stations {
		d := Haversine(user, s.Location)
		if !ok || d < minDistance {
			minDistance = d
			best = domain.RankedStation{Station: s, DistanceKm: d}
			ok = true
		}
	}

	return best, ok
}

// RankStations pairs every station with its distance from the user,
// keeping the directory's order.
func RankStations(user domain.Coordinates, stations []domain.Station) []domain.RankedStation {
	out := make([]domain.RankedStation, 0, len(stations))
	for _, s := range stations {
		out = append(out, domain.RankedStation{Station: s, DistanceKm: Haversine(user, s.Location)})
	}
	return out
}
