package ocm

import (
	"encoding/json"
	"exypnos-finder/internal/domain"
	"fmt"
	"io"
	"strings"
)

type poi struct {
	ID          int `json:"ID"`
	AddressInfo *struct {
		Title        string  `json:"Title"`
		AddressLine1 string  `json:"AddressLine1"`
		Latitude     float64 `json:"Latitude"`
		Longitude    float64 `json:"Longitude"`
	} `json:"AddressInfo"`
	StatusType *struct {
		Title string `json:"Title"`
	} `json:"StatusType"`
	Connections []struct {
		ConnectionType *struct {
			Title string `json:"Title"`
		} `json:"ConnectionType"`
	} `json:"Connections"`
}

func decodePOIs(r io.Reader) ([]poi, error) {
	var pois []poi
	if err := json.NewDecoder(r).Decode(&pois); err != nil {
		return nil, fmt.Errorf("decode poi response: %w", err)
	}
	return pois, nil
}

// toStation reports false for POIs without AddressInfo; they have no position
// to rank or place.
func (p poi) toStation() (domain.Station, bool) {
	if p.AddressInfo == nil {
		return domain.Station{}, false
	}

	s := domain.Station{
		ID:          p.ID,
		Title:       strings.TrimSpace(p.AddressInfo.Title),
		AddressLine: strings.TrimSpace(p.AddressInfo.AddressLine1),
		Location: domain.Coordinates{
			Lat: p.AddressInfo.Latitude,
			Lon: p.AddressInfo.Longitude,
		},
	}

	if p.StatusType != nil {
		s.Status = strings.TrimSpace(p.StatusType.Title)
	}

	// Connections without a type carry no label to show.
	for _, c := range p.Connections {
		if c.ConnectionType == nil || strings.TrimSpace(c.ConnectionType.Title) == "" {
			continue
		}
		s.Connections = append(s.Connections, strings.TrimSpace(c.ConnectionType.Title))
	}

	return s, true
}
