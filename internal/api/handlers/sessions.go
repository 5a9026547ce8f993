package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"exypnos-finder/internal/adapters/geolocation"
	"exypnos-finder/internal/adapters/mapview"
	"exypnos-finder/internal/api/dto"
	"exypnos-finder/internal/domain"
	"exypnos-finder/internal/ports"
	"exypnos-finder/internal/services"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

var errUnknownSession = errors.New("unknown session")

// Initial viewport of a freshly created map.
type MapDefaults struct {
	Center domain.Coordinates
	Zoom   int
}

const (
	DefaultSessionTTL  = 30 * time.Minute
	DefaultMaxSessions = 10000
)

type mapEntry struct {
	session  *services.MapSession
	canvas   *mapview.Canvas
	lastSeen time.Time
}

// SessionStore keeps one map session per page view. Sessions idle for longer
// than the TTL are dropped by Sweep; when the store is full, Create evicts the
// least recently used session.
type SessionStore struct {
	directory ports.StationDirectory
	defaults  MapDefaults
	opts      services.SessionOptions

	ttl         time.Duration
	maxSessions int
	now         func() time.Time

	mu      sync.Mutex
	entries map[string]*mapEntry
}

type StoreOption func(*SessionStore)

func WithTTL(d time.Duration) StoreOption {
	return func(s *SessionStore) {
		if d > 0 {
			s.ttl = d
		}
	}
}

func WithMaxSessions(n int) StoreOption {
	return func(s *SessionStore) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithClock replaces time.Now (tests).
func WithClock(now func() time.Time) StoreOption {
	return func(s *SessionStore) { s.now = now }
}

func NewSessionStore(
	directory ports.StationDirectory,
	defaults MapDefaults,
	opts services.SessionOptions,
	storeOpts ...StoreOption,
) *SessionStore {
	s := &SessionStore{
		directory:   directory,
		defaults:    defaults,
		opts:        opts,
		ttl:         DefaultSessionTTL,
		maxSessions: DefaultMaxSessions,
		now:         time.Now,
		entries:     make(map[string]*mapEntry),
	}
	for _, opt := range storeOpts {
		opt(s)
	}
	return s
}

// Create opens a new map centred on the configured default position.
func (s *SessionStore) Create() (string, *mapview.Canvas) {
	canvas := mapview.NewCanvas(s.defaults.Center, s.defaults.Zoom)
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if len(s.entries) >= s.maxSessions {
		s.sweepLocked(now)
	}
	for len(s.entries) >= s.maxSessions {
		s.evictOldestLocked()
	}

	s.entries[id] = &mapEntry{
		session:  services.NewMapSession(canvas, s.directory, s.opts),
		canvas:   canvas,
		lastSeen: now,
	}

	return id, canvas
}

// get returns the session and marks it as used.
func (s *SessionStore) get(id string) (*mapEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, errUnknownSession
	}
	e.lastSeen = s.now()
	return e, nil
}

// Delete reports whether a session with the given id existed.
func (s *SessionStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return false
	}
	delete(s.entries, id)
	return true
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were removed.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(s.now())
}

// Run sweeps every interval until ctx is cancelled.
func (s *SessionStore) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = s.ttl / 2
	}

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.Sweep(); n > 0 {
				zap.L().Debug("sessions evicted", zap.Int("count", n))
			}
		}
	}
}

func (s *SessionStore) sweepLocked(now time.Time) int {
	n := 0
	for id, e := range s.entries {
		if now.Sub(e.lastSeen) > s.ttl {
			delete(s.entries, id)
			n++
		}
	}
	return n
}

func (s *SessionStore) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, e := range s.entries {
		if oldestID == "" || e.lastSeen.Before(oldest) {
			oldestID, oldest = id, e.lastSeen
		}
	}
	delete(s.entries, oldestID)
}

type SessionHandler struct {
	Store    *SessionStore
	RadiusKm float64
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, canvas := h.Store.Create()
	writeJSON(w, r, http.StatusCreated, dto.SessionResponse{ID: id, Map: canvas.Snapshot()})
}

func (h *SessionHandler) Map(w http.ResponseWriter, r *http.Request) {
	e, err := h.Store.get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, e.canvas.Snapshot())
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.Store.Delete(mux.Vars(r)["id"]) {
		writeError(w, r, http.StatusNotFound, errUnknownSession.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Nearest runs one lookup cycle for the posted position and returns the
// ranked stations together with the updated map.
func (h *SessionHandler) Nearest(w http.ResponseWriter, r *http.Request) {
	e, err := h.Store.get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, http.StatusNotFound, err.Error())
		return
	}

	defer r.Body.Close()

	var req dto.NearestRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil && err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	var pos *domain.Coordinates
	if req.Lat != nil && req.Lng != nil {
		pos = &domain.Coordinates{Lat: *req.Lat, Lon: *req.Lng}
	}

	radius := req.RadiusKm
	if radius <= 0 {
		radius = h.RadiusKm
	}

	res, err := e.session.FindNearest(r.Context(), geolocation.FromOptional(pos), radius)
	if err != nil {
		status := lookupStatus(err)
		if status >= http.StatusInternalServerError {
			zap.L().Warn("station lookup failed", zap.Error(err))
		}
		writeNotice(w, r, status, err)
		return
	}

	stations := make([]dto.StationResponse, 0, len(res.Stations))
	for _, rs := range res.Stations {
		stations = append(stations, toStationResponse(rs))
	}

	writeJSON(w, r, http.StatusOK, dto.NearestResponse{
		Nearest:  toStationResponse(res.Nearest),
		Stations: stations,
		Map:      e.canvas.Snapshot(),
	})
}

func lookupStatus(err error) int {
	switch {
	case errors.Is(err, ports.ErrLocationUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ports.ErrNoStations):
		return http.StatusNotFound
	case errors.Is(err, ports.ErrFetchFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func toStationResponse(rs domain.RankedStation) dto.StationResponse {
	st := rs.Station
	return dto.StationResponse{
		ID:             st.ID,
		Title:          st.Title,
		Address:        st.AddressLine,
		Lat:            st.Location.Lat,
		Lng:            st.Location.Lon,
		Status:         st.StatusLabel(),
		ConnectorTypes: st.ConnectorTypes(),
		DistanceKm:     rs.DistanceKm,
		Distance:       services.FormatDistance(rs.DistanceKm),
	}
}
