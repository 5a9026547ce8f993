package mapview

import (
	"exypnos-finder/internal/domain"
	"exypnos-finder/internal/ports"
	"strconv"
	"sync"
)

// PlacedMarker is a marker currently shown on the canvas.
type PlacedMarker struct {
	ID       string             `json:"id"`
	Position domain.Coordinates `json:"position"`
	Title    string             `json:"title"`
	Icon     ports.MarkerIcon   `json:"icon"`
	ZIndex   int                `json:"z_index,omitempty"`
	Label    string             `json:"label"`
}

// View is a point-in-time copy of the canvas, shaped for the front-end map SDK.
type View struct {
	Center         domain.Coordinates `json:"center"`
	Zoom           int                `json:"zoom"`
	Markers        []PlacedMarker     `json:"markers"`
	OpenInfoWindow string             `json:"open_info_window,omitempty"`
}

// Canvas is an in-memory MapSurface. The front-end replays its View onto the
// real map; the server side only tracks which markers exist.
type Canvas struct {
	mu       sync.Mutex
	center   domain.Coordinates
	zoom     int
	nextID   int
	order    []string
	markers  map[string]PlacedMarker
	openInfo string
}

func NewCanvas(center domain.Coordinates, zoom int) *Canvas {
	return &Canvas{
		center:  center,
		zoom:    zoom,
		markers: make(map[string]PlacedMarker),
	}
}

func (c *Canvas) SetCenter(center domain.Coordinates) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.center = center
}

func (c *Canvas) SetZoom(zoom int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.zoom = zoom
}

func (c *Canvas) PlaceMarker(m ports.Marker) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := "m" + strconv.Itoa(c.nextID)
	c.markers[id] = PlacedMarker{
		ID:       id,
		Position: m.Position,
		Title:    m.Title,
		Icon:     m.Icon,
		ZIndex:   m.ZIndex,
		Label:    m.Label,
	}
	c.order = append(c.order, id)
	return id
}

// RemoveMarker is a no-op for unknown IDs.
func (c *Canvas) RemoveMarker(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.markers[id]; !ok {
		return
	}
	delete(c.markers, id)
	for i, o := range c.order {
		if o == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	if c.openInfo == id {
		c.openInfo = ""
	}
}

func (c *Canvas) OpenInfoWindow(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.markers[id]; ok {
		c.openInfo = id
	}
}

// Snapshot returns the current view with markers in placement order.
func (c *Canvas) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Center:         c.center,
		Zoom:           c.zoom,
		Markers:        make([]PlacedMarker, 0, len(c.order)),
		OpenInfoWindow: c.openInfo,
	}
	for _, id := range c.order {
		v.Markers = append(v.Markers, c.markers[id])
	}
	return v
}
