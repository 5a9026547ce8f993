package ocm

import (
	"context"
	"exypnos-finder/internal/domain"
	"exypnos-finder/internal/ports"
	"sync"
)

// MockDirectory is an in-memory StationDirectory returning canned stations.
type MockDirectory struct {
	mu       sync.Mutex
	stations []domain.Station
	err      error
	queries  []ports.StationQuery
}

func NewMockDirectory(stations []domain.Station, err error) *MockDirectory {
	return &MockDirectory{stations: stations, err: err}
}

func (m *MockDirectory) SearchStations(ctx context.Context, q ports.StationQuery) ([]domain.Station, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.queries = append(m.queries, q)
	if m.err != nil {
		return nil, m.err
	}
	if len(m.stations) == 0 {
		return nil, ports.ErrNoStations
	}

	out := make([]domain.Station, len(m.stations))
	copy(out, m.stations)
	return out, nil
}

// Queries returns every query received so far.
func (m *MockDirectory) Queries() []ports.StationQuery {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]ports.StationQuery, len(m.queries))
	copy(out, m.queries)
	return out
}
