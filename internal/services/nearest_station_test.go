package services

import (
	"exypnos-finder/internal/domain"
	"math"
	"testing"
)

var testUser = domain.Coordinates{Lat: 51.5074, Lon: -0.1278}

// stationAt places a station due north of testUser at roughly km kilometres.
func stationAt(id int, km float64) domain.Station {
	dLat := km / (earthRadiusKm * math.Pi / 180)
	return domain.Station{
		ID:       id,
		Title:    "Station",
		Location: domain.Coordinates{Lat: testUser.Lat + dLat, Lon: testUser.Lon},
	}
}

func TestNearestStationPicksMinimum(t *testing.T) {
	stations := []domain.Station{stationAt(1, 5.0), stationAt(2, 2.1), stationAt(3, 9.3)}

	got, ok := NearestStation(testUser, stations)
	if !ok {
		t.Fatal("expected a result")
	}
	if got.Station.ID != 2 {
		t.Fatalf("nearest = station %d, want 2", got.Station.ID)
	}
	if math.Abs(got.DistanceKm-2.1) > 1e-6 {
		t.Fatalf("distance = %v, want 2.1", got.DistanceKm)
	}
}

func TestNearestStationFirstWinsTies(t *testing.T) {
	stations := []domain.Station{stationAt(7, 3), stationAt(8, 3), stationAt(9, 4)}

	got, ok := NearestStation(testUser, stations)
	if !ok || got.Station.ID != 7 {
		t.Fatalf("nearest = %+v ok=%v, want station 7", got, ok)
	}
}

func TestNearestStationEmpty(t *testing.T) {
	got, ok := NearestStation(testUser, nil)
	if ok {
		t.Fatalf("expected no result, got %+v", got)
	}
	if got.Station.ID != 0 || got.Station.Title != "" {
		t.Fatalf("expected zero value, got %+v", got)
	}
}

func TestRankStationsKeepsOrder(t *testing.T) {
	stations := []domain.Station{stationAt(1, 5.0), stationAt(2, 2.1)}

	ranked := RankStations(testUser, stations)
	if len(ranked) != 2 {
		t.Fatalf("len = %d, want 2", len(ranked))
	}
	if ranked[0].Station.ID != 1 || ranked[1].Station.ID != 2 {
		t.Fatalf("order changed: %+v", ranked)
	}
	if math.Abs(ranked[0].DistanceKm-5.0) > 1e-6 {
		t.Fatalf("distance = %v, want 5.0", ranked[0].DistanceKm)
	}
}
