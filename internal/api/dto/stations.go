package dto

import "exypnos-finder/internal/adapters/mapview"

// Position reported by the browser. A missing lat or lng means geolocation
// was denied or unsupported on the client.
type NearestRequest struct {
	Lat      *float64 `json:"lat"`
	Lng      *float64 `json:"lng"`
	RadiusKm float64  `json:"radius_km"`
}

type StationResponse struct {
	ID             int      `json:"id"`
	Title          string   `json:"title"`
	Address        string   `json:"address"`
	Lat            float64  `json:"lat"`
	Lng            float64  `json:"lng"`
	Status         string   `json:"status"`
	ConnectorTypes []string `json:"connector_types"`
	DistanceKm     float64  `json:"distance_km"`
	Distance       string   `json:"distance"`
}

type NearestResponse struct {
	Nearest  StationResponse   `json:"nearest"`
	Stations []StationResponse `json:"stations"`
	Map      mapview.View      `json:"map"`
}

type SessionResponse struct {
	ID  string       `json:"id"`
	Map mapview.View `json:"map"`
}
