package ocm

import (
	"context"
	"errors"
	"exypnos-finder/internal/domain"
	"exypnos-finder/internal/platform/obs"
	"exypnos-finder/internal/ports"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.openchargemap.io"

// Client implements StationDirectory using the OpenChargeMap POI API.
//
// Each search is a single best-effort request: no retry, no caching,
// no pagination. The client is safe for concurrent use.
type Client struct {
	session    *http.Client
	apiKey     string
	baseURL    string
	maxResults int
}

type Option func(*Client)

// WithBaseURL points the client at another host (tests, mirrors).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the default 10s-timeout http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.session = hc }
}

// WithMaxResults sets the result cap used when a query does not carry one.
func WithMaxResults(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxResults = n
		}
	}
}

func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("OCM api key is empty")
	}

	c := &Client{
		session:    &http.Client{Timeout: 10 * time.Second},
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		maxResults: ports.DefaultMaxResults,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// SearchStations fetches stations within q.RadiusKm of q.Origin.
func (c *Client) SearchStations(
	ctx context.Context,
	q ports.StationQuery,
) (_ []domain.Station, err error) {
	defer obs.Time(ctx, "ocm.SearchStations")(&err)

	if q.MaxResults <= 0 {
		q.MaxResults = c.maxResults
	}
	q = q.WithDefaults()

	endpoint := c.baseURL + "/v3/poi/"

	req, err := c.newRequest(ctx, http.MethodGet, endpoint)
	if err != nil {
		return nil, fmt.Errorf("search stations: %w: %w", ports.ErrFetchFailed, err)
	}

	v := req.URL.Query()
	v.Set("output", "json")
	v.Set("latitude", strconv.FormatFloat(q.Origin.Lat, 'f', -1, 64))
	v.Set("longitude", strconv.FormatFloat(q.Origin.Lon, 'f', -1, 64))
	v.Set("distance", strconv.FormatFloat(q.RadiusKm, 'f', -1, 64))
	v.Set("distanceunit", "KM")
	v.Set("maxresults", strconv.Itoa(q.MaxResults))
	v.Set("key", c.apiKey)
	req.URL.RawQuery = v.Encode()

	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("search stations: %w: %w", ports.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	pois, err := decodePOIs(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("search stations: %w: %w", ports.ErrFetchFailed, err)
	}

	stations := make([]domain.Station, 0, len(pois))
	for _, p := range pois {
		if s, ok := p.toStation(); ok {
			stations = append(stations, s)
		}
	}

	if len(stations) == 0 {
		return nil, ports.ErrNoStations
	}

	return stations, nil
}
