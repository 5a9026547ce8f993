package services

import (
	"context"
	"errors"
	"exypnos-finder/internal/adapters/geolocation"
	"exypnos-finder/internal/adapters/mapview"
	"exypnos-finder/internal/adapters/ocm"
	"exypnos-finder/internal/domain"
	"exypnos-finder/internal/ports"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDirectory struct {
	mock.Mock
}

func (m *mockDirectory) SearchStations(ctx context.Context, q ports.StationQuery) ([]domain.Station, error) {
	args := m.Called(ctx, q)
	stations, _ := args.Get(0).([]domain.Station)
	return stations, args.Error(1)
}

func sampleStations() []domain.Station {
	a := stationAt(1, 5.0)
	a.Title = "Alpha"
	b := stationAt(2, 2.1)
	b.Title = "Bravo"
	b.AddressLine = "2 High St"
	b.Status = "Operational"
	b.Connections = []string{"CCS", "CCS", "Type 2"}
	c := stationAt(3, 9.3)
	c.Title = "Charlie"
	return []domain.Station{a, b, c}
}

func newTestSession(dir ports.StationDirectory) (*MapSession, *mapview.Canvas) {
	canvas := mapview.NewCanvas(domain.Coordinates{Lat: 51.5074, Lon: -0.1278}, 13)
	return NewMapSession(canvas, dir, SessionOptions{}), canvas
}

func TestMapSessionFindNearest(t *testing.T) {
	dir := ocm.NewMockDirectory(sampleStations(), nil)
	sess, canvas := newTestSession(dir)

	res, err := sess.FindNearest(context.Background(), geolocation.StaticLocator{Position: testUser}, 0)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Nearest.Station.ID)
	assert.InDelta(t, 2.1, res.Nearest.DistanceKm, 1e-6)
	require.Len(t, res.Stations, 3)

	q := dir.Queries()
	require.Len(t, q, 1)
	assert.Equal(t, ports.StationQuery{Origin: testUser, RadiusKm: 5, MaxResults: 20}, q[0])

	view := canvas.Snapshot()
	assert.Equal(t, testUser, view.Center)
	assert.Equal(t, 14, view.Zoom)
	require.Len(t, view.Markers, 5)
	assert.Equal(t, 5, sess.MarkerCount())

	assert.Equal(t, ports.IconUser, view.Markers[0].Icon)
	assert.Equal(t, "Your Location", view.Markers[0].Title)
	for _, m := range view.Markers[1:4] {
		assert.Equal(t, ports.IconStation, m.Icon)
	}

	highlight := view.Markers[4]
	assert.Equal(t, ports.IconNearest, highlight.Icon)
	assert.Equal(t, "Nearest Station: Bravo", highlight.Title)
	assert.Equal(t, 1000, highlight.ZIndex)
	assert.Equal(t, highlight.ID, view.OpenInfoWindow)
	assert.Contains(t, highlight.Label, "Connector Types: CCS, Type 2")
	assert.Contains(t, highlight.Label, "Distance: 2.1 km")
	assert.Contains(t, highlight.Label, "Status: Operational")
	assert.Contains(t, view.Markers[1].Label, "Status: Unknown")
	assert.Contains(t, view.Markers[1].Label, "Connector Types: Not specified")
}

func TestMapSessionRepeatedLookupsDoNotAccumulate(t *testing.T) {
	sess, canvas := newTestSession(ocm.NewMockDirectory(sampleStations(), nil))
	loc := geolocation.StaticLocator{Position: testUser}

	_, err := sess.FindNearest(context.Background(), loc, 0)
	require.NoError(t, err)
	first := canvas.Snapshot()

	_, err = sess.FindNearest(context.Background(), loc, 0)
	require.NoError(t, err)
	second := canvas.Snapshot()

	require.Len(t, second.Markers, 5)
	for _, old := range first.Markers {
		for _, cur := range second.Markers {
			assert.NotEqual(t, old.ID, cur.ID, "marker %s survived a new lookup", old.ID)
		}
	}
}

func TestMapSessionFetchFailureLeavesMarkers(t *testing.T) {
	dir := new(mockDirectory)
	dir.On("SearchStations", mock.Anything, mock.Anything).Return(sampleStations(), nil).Once()
	dir.On("SearchStations", mock.Anything, mock.Anything).
		Return(nil, &ocm.StatusError{Code: 500, Body: "boom"}).Once()

	sess, canvas := newTestSession(dir)
	loc := geolocation.StaticLocator{Position: testUser}

	_, err := sess.FindNearest(context.Background(), loc, 0)
	require.NoError(t, err)
	before := canvas.Snapshot()

	_, err = sess.FindNearest(context.Background(), loc, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrFetchFailed)

	var se *ocm.StatusError
	assert.True(t, errors.As(err, &se))

	assert.Equal(t, before.Markers, canvas.Snapshot().Markers)
	assert.Equal(t, NoticeInline, NoticeFor(err).Kind)
	dir.AssertExpectations(t)
}

func TestMapSessionFetchFailureRendersNothing(t *testing.T) {
	sess, canvas := newTestSession(ocm.NewMockDirectory(nil, ports.ErrFetchFailed))

	_, err := sess.FindNearest(context.Background(), geolocation.StaticLocator{Position: testUser}, 0)
	assert.ErrorIs(t, err, ports.ErrFetchFailed)
	assert.Empty(t, canvas.Snapshot().Markers)
	assert.Zero(t, sess.MarkerCount())
}

func TestMapSessionLocationUnavailable(t *testing.T) {
	dir := new(mockDirectory)
	sess, canvas := newTestSession(dir)

	_, err := sess.FindNearest(context.Background(), geolocation.UnavailableLocator{Reason: "denied"}, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrLocationUnavailable)
	assert.Equal(t, Notice{Kind: NoticeBlocking, Message: msgNoLocation}, NoticeFor(err))

	dir.AssertNotCalled(t, "SearchStations", mock.Anything, mock.Anything)
	assert.Equal(t, 13, canvas.Snapshot().Zoom)
}

func TestMapSessionNoStations(t *testing.T) {
	sess, canvas := newTestSession(ocm.NewMockDirectory(nil, nil))

	_, err := sess.FindNearest(context.Background(), geolocation.StaticLocator{Position: testUser}, 0)
	assert.ErrorIs(t, err, ports.ErrNoStations)
	assert.NotErrorIs(t, err, ports.ErrFetchFailed)
	assert.Equal(t, Notice{Kind: NoticeBlocking, Message: msgNoStations}, NoticeFor(err))
	assert.Empty(t, canvas.Snapshot().Markers)
}

func TestMapSessionUnclassifiedDirectoryErrorIsFetchFailure(t *testing.T) {
	sess, _ := newTestSession(ocm.NewMockDirectory(nil, errors.New("socket closed")))

	_, err := sess.FindNearest(context.Background(), geolocation.StaticLocator{Position: testUser}, 0)
	assert.ErrorIs(t, err, ports.ErrFetchFailed)
}

func TestMapSessionExplicitRadius(t *testing.T) {
	dir := ocm.NewMockDirectory(sampleStations(), nil)
	sess, _ := newTestSession(dir)

	_, err := sess.FindNearest(context.Background(), geolocation.StaticLocator{Position: testUser}, 2)
	require.NoError(t, err)
	assert.Equal(t, 2.0, dir.Queries()[0].RadiusKm)
}

func TestMapSessionClear(t *testing.T) {
	sess, canvas := newTestSession(ocm.NewMockDirectory(sampleStations(), nil))

	_, err := sess.FindNearest(context.Background(), geolocation.StaticLocator{Position: testUser}, 0)
	require.NoError(t, err)

	sess.Clear()
	assert.Empty(t, canvas.Snapshot().Markers)
	assert.Zero(t, sess.MarkerCount())
}

func TestStationLabelEscapesHTML(t *testing.T) {
	label, err := StationLabel(domain.RankedStation{
		Station:    domain.Station{Title: "<b>Bad</b>", AddressLine: "A & B"},
		DistanceKm: 1.26,
	}, false)
	require.NoError(t, err)

	assert.NotContains(t, label, "<b>Bad</b>")
	assert.Contains(t, label, "&lt;b&gt;Bad&lt;/b&gt;")
	assert.Contains(t, label, "A &amp; B")
	assert.Contains(t, label, "Distance: 1.3 km")
}
