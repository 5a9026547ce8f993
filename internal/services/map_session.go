package services

import (
	"bytes"
	"context"
	"errors"
	"exypnos-finder/internal/domain"
	"exypnos-finder/internal/platform/obs"
	"exypnos-finder/internal/ports"
	"fmt"
	"html/template"
	"sync"
)

const nearestZIndex = 1000

type SessionOptions struct {
	// Zoom applied once the user has been located.
	LookupZoom int
	// Search radius used when FindNearest is called with radiusKm <= 0.
	RadiusKm   float64
	MaxResults int
}

func DefaultSessionOptions() SessionOptions {
	return SessionOptions{
		LookupZoom: 14,
		RadiusKm:   ports.DefaultSearchRadiusKm,
		MaxResults: ports.DefaultMaxResults,
	}
}

// Outcome of one successful lookup cycle.
type LookupResult struct {
	User     domain.Coordinates
	Stations []domain.RankedStation
	Nearest  domain.RankedStation
}

// MapSession owns one map surface and the markers placed on it.
//
// Each lookup cycle removes the markers of the previous cycle before placing
// its own. Concurrent FindNearest calls are not serialised end to end: the
// last render wins and intermediate viewport changes may interleave.
type MapSession struct {
	surface   ports.MapSurface
	directory ports.StationDirectory
	opts      SessionOptions

	mu      sync.Mutex
	markers []string
}

func NewMapSession(surface ports.MapSurface, directory ports.StationDirectory, opts SessionOptions) *MapSession {
	def := DefaultSessionOptions()
	if opts.LookupZoom <= 0 {
		opts.LookupZoom = def.LookupZoom
	}
	if opts.RadiusKm <= 0 {
		opts.RadiusKm = def.RadiusKm
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = def.MaxResults
	}

	return &MapSession{
		surface:   surface,
		directory: directory,
		opts:      opts,
	}
}

// FindNearest locates the user, fetches nearby stations and renders them
// with the nearest one highlighted.
//
// Errors wrap ErrLocationUnavailable, ErrFetchFailed or ErrNoStations. On any
// error the markers of the previous cycle are left in place.
func (s *MapSession) FindNearest(
	ctx context.Context,
	locator ports.Locator,
	radiusKm float64,
) (_ LookupResult, err error) {
	defer obs.Time(ctx, "session.FindNearest")(&err)

	user, err := locator.Locate(ctx)
	if err != nil {
		if !errors.Is(err, ports.ErrLocationUnavailable) {
			err = fmt.Errorf("%w: %w", ports.ErrLocationUnavailable, err)
		}
		return LookupResult{}, fmt.Errorf("find nearest: %w", err)
	}

	s.surface.SetCenter(user)
	s.surface.SetZoom(s.opts.LookupZoom)

	if radiusKm <= 0 {
		radiusKm = s.opts.RadiusKm
	}

	stations, err := s.directory.SearchStations(ctx, ports.StationQuery{
		Origin:     user,
		RadiusKm:   radiusKm,
		MaxResults: s.opts.MaxResults,
	})
	if err != nil {
		if !errors.Is(err, ports.ErrNoStations) && !errors.Is(err, ports.ErrFetchFailed) {
			err = fmt.Errorf("%w: %w", ports.ErrFetchFailed, err)
		}
		return LookupResult{}, fmt.Errorf("find nearest: %w", err)
	}

	nearest, ok := NearestStation(user, stations)
	if !ok {
		return LookupResult{}, fmt.Errorf("find nearest: %w", ports.ErrNoStations)
	}

	ranked := RankStations(user, stations)
	if err := s.Render(user, ranked, nearest); err != nil {
		return LookupResult{}, fmt.Errorf("find nearest: %w", err)
	}

	return LookupResult{User: user, Stations: ranked, Nearest: nearest}, nil
}

// Render replaces the session's markers with a user marker, one marker per
// station and a highlighted marker for the nearest station.
func (s *MapSession) Render(
	user domain.Coordinates,
	stations []domain.RankedStation,
	nearest domain.RankedStation,
) error {
	labels := make([]string, 0, len(stations))
	for _, rs := range stations {
		l, err := StationLabel(rs, false)
		if err != nil {
			return fmt.Errorf("render: station %d label: %w", rs.Station.ID, err)
		}
		labels = append(labels, l)
	}

	nearestLabel, err := StationLabel(nearest, true)
	if err != nil {
		return fmt.Errorf("render: nearest station label: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearLocked()

	s.place(ports.Marker{Position: user, Title: "Your Location", Icon: ports.IconUser})

	for i, rs := range stations {
		s.place(ports.Marker{
			Position: rs.Station.Location,
			Title:    rs.Station.Title,
			Icon:     ports.IconStation,
			Label:    labels[i],
		})
	}

	id := s.place(ports.Marker{
		Position: nearest.Station.Location,
		Title:    "Nearest Station: " + nearest.Station.Title,
		Icon:     ports.IconNearest,
		ZIndex:   nearestZIndex,
		Label:    nearestLabel,
	})
	s.surface.OpenInfoWindow(id)

	return nil
}

// Clear removes every marker the session placed.
func (s *MapSession) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

// MarkerCount returns how many markers the session currently owns.
func (s *MapSession) MarkerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.markers)
}

func (s *MapSession) clearLocked() {
	for _, id := range s.markers {
		s.surface.RemoveMarker(id)
	}
	s.markers = nil
}

func (s *MapSession) place(m ports.Marker) string {
	id := s.surface.PlaceMarker(m)
	s.markers = append(s.markers, id)
	return id
}

var labelTmpl = template.Must(template.New("label").Parse(
	`{{if .Nearest}}<h3>Nearest Station</h3><h4>{{.Title}}</h4>{{else}}<h3>{{.Title}}</h3>{{end}}` +
		`<p>{{.Address}}</p>` +
		`<p>Distance: {{.Distance}} km</p>` +
		`<p>Status: {{.Status}}</p>` +
		`<p>Connector Types: {{.Connectors}}</p>`,
))

// StationLabel renders the info-window HTML for a station.
func StationLabel(rs domain.RankedStation, nearest bool) (string, error) {
	data := struct {
		Nearest    bool
		Title      string
		Address    string
		Distance   string
		Status     string
		Connectors string
	}{
		Nearest:    nearest,
		Title:      rs.Station.Title,
		Address:    rs.Station.AddressLine,
		Distance:   FormatDistance(rs.DistanceKm),
		Status:     rs.Station.StatusLabel(),
		Connectors: rs.Station.ConnectorLabel(),
	}

	var buf bytes.Buffer
	if err := labelTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FormatDistance renders kilometres with one decimal place.
func FormatDistance(km float64) string {
	return fmt.Sprintf("%.1f", km)
}
