package ocm

import (
	"context"
	"errors"
	"exypnos-finder/internal/domain"
	"exypnos-finder/internal/ports"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePOIs = `[
  {
    "ID": 101,
    "AddressInfo": {"Title": "Tesco Extra", "AddressLine1": "1 High St", "Latitude": 51.51, "Longitude": -0.12},
    "StatusType": {"Title": "Operational"},
    "Connections": [
      {"ConnectionType": {"Title": "CCS"}},
      {"ConnectionType": {"Title": "CCS"}},
      {"ConnectionType": {"Title": "Type 2"}}
    ]
  },
  {
    "ID": 102,
    "AddressInfo": {"Title": "Car Park B", "AddressLine1": "2 Low Rd", "Latitude": 51.52, "Longitude": -0.13},
    "StatusType": null,
    "Connections": [{"ConnectionType": null}]
  }
]`

func TestClientSearchStations(t *testing.T) {
	var gotQuery map[string]string
	var gotHeader string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/poi/", r.URL.Path)
		gotHeader = r.Header.Get("X-API-Key")
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(samplePOIs))
	}))
	defer srv.Close()

	c, err := NewClient("secret", WithBaseURL(srv.URL))
	require.NoError(t, err)

	stations, err := c.SearchStations(context.Background(), ports.StationQuery{
		Origin: domain.Coordinates{Lat: 51.5074, Lon: -0.1278},
	})
	require.NoError(t, err)

	assert.Equal(t, "secret", gotHeader)
	assert.Equal(t, map[string]string{
		"output":       "json",
		"latitude":     "51.5074",
		"longitude":    "-0.1278",
		"distance":     "5",
		"distanceunit": "KM",
		"maxresults":   "20",
		"key":          "secret",
	}, gotQuery)

	require.Len(t, stations, 2)
	assert.Equal(t, domain.Station{
		ID:          101,
		Title:       "Tesco Extra",
		AddressLine: "1 High St",
		Location:    domain.Coordinates{Lat: 51.51, Lon: -0.12},
		Status:      "Operational",
		Connections: []string{"CCS", "CCS", "Type 2"},
	}, stations[0])
	assert.Equal(t, "CCS, Type 2", stations[0].ConnectorLabel())

	assert.Equal(t, "", stations[1].Status)
	assert.Equal(t, "Unknown", stations[1].StatusLabel())
	assert.Empty(t, stations[1].Connections)
}

func TestClientSearchStationsExplicitRadiusAndCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2.5", r.URL.Query().Get("distance"))
		assert.Equal(t, "7", r.URL.Query().Get("maxresults"))
		_, _ = w.Write([]byte(samplePOIs))
	}))
	defer srv.Close()

	c, err := NewClient("k", WithBaseURL(srv.URL+"/"), WithMaxResults(7))
	require.NoError(t, err)

	_, err = c.SearchStations(context.Background(), ports.StationQuery{RadiusKm: 2.5})
	require.NoError(t, err)
}

func TestClientSearchStationsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, err := NewClient("k", WithBaseURL(srv.URL))
	require.NoError(t, err)

	stations, err := c.SearchStations(context.Background(), ports.StationQuery{})
	require.Error(t, err)
	assert.Nil(t, stations)
	assert.True(t, errors.Is(err, ports.ErrFetchFailed))
	assert.False(t, errors.Is(err, ports.ErrNoStations))

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusTooManyRequests, se.Code)
	assert.Equal(t, "rate limited", se.Body)
}

func TestClientSearchStationsIsSingleShot(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, err := NewClient("k", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = c.SearchStations(context.Background(), ports.StationQuery{})
	require.ErrorIs(t, err, ports.ErrFetchFailed)
	assert.Equal(t, 1, calls)
}

func TestClientSearchStationsEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c, err := NewClient("k", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = c.SearchStations(context.Background(), ports.StationQuery{})
	assert.ErrorIs(t, err, ports.ErrNoStations)
	assert.NotErrorIs(t, err, ports.ErrFetchFailed)
}

func TestClientSearchStationsSkipsPOIsWithoutAddress(t *testing.T) {
	body := `[
  {"ID": 1, "AddressInfo": null, "Connections": []},
  {"ID": 2, "Connections": []},
  {"ID": 3, "AddressInfo": {"Title": "Real Charger", "Latitude": 51.5, "Longitude": -0.1}}
]`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	c, err := NewClient("k", WithBaseURL(srv.URL))
	require.NoError(t, err)

	stations, err := c.SearchStations(context.Background(), ports.StationQuery{})
	require.NoError(t, err)
	require.Len(t, stations, 1)
	assert.Equal(t, 3, stations[0].ID)
	assert.Equal(t, domain.Coordinates{Lat: 51.5, Lon: -0.1}, stations[0].Location)
}

func TestClientSearchStationsOnlyAddresslessPOIs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"ID": 1, "AddressInfo": null}]`))
	}))
	defer srv.Close()

	c, err := NewClient("k", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = c.SearchStations(context.Background(), ports.StationQuery{})
	assert.ErrorIs(t, err, ports.ErrNoStations)
}

func TestClientSearchStationsBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"}`))
	}))
	defer srv.Close()

	c, err := NewClient("k", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = c.SearchStations(context.Background(), ports.StationQuery{})
	assert.ErrorIs(t, err, ports.ErrFetchFailed)
}

func TestClientSearchStationsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := NewClient("k", WithBaseURL(url))
	require.NoError(t, err)

	_, err = c.SearchStations(context.Background(), ports.StationQuery{})
	assert.ErrorIs(t, err, ports.ErrFetchFailed)
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient("  ")
	assert.Error(t, err)
}
