package mapview

import (
	"sync"

	"github.com/google/uuid"
)

type Options struct {
	Center      LatLng
	Zoom        int
	Scrollwheel bool
	MapTypeID   MapTypeID
	Styles      []StyleRule
}

// MapView is the interactive map surface bound to a page container.
// Writes come from the initializer; readers take snapshots.
type MapView struct {
	ID          uuid.UUID
	ContainerID string

	mu          sync.RWMutex
	center      LatLng
	zoom        int
	scrollwheel bool
	mapTypeID   MapTypeID
	styles      []StyleRule
	markers     []*Marker
}

func New(containerID string, opts Options) *MapView {
	return &MapView{
		ID:          uuid.New(),
		ContainerID: containerID,
		center:      opts.Center,
		zoom:        opts.Zoom,
		scrollwheel: opts.Scrollwheel,
		mapTypeID:   opts.MapTypeID,
		styles:      CopyStyles(opts.Styles),
	}
}

func (m *MapView) SetCenter(center LatLng) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.center = center
}

func (m *MapView) SetZoom(zoom int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.zoom = zoom
}

func (m *MapView) Center() LatLng {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.center
}

func (m *MapView) Zoom() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.zoom
}

func (m *MapView) Scrollwheel() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.scrollwheel
}

func (m *MapView) MapTypeID() MapTypeID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mapTypeID
}

func (m *MapView) Styles() []StyleRule {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return CopyStyles(m.styles)
}

// Markers returns the attached markers in attachment order.
func (m *MapView) Markers() []Marker {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Marker, len(m.markers))
	for i, marker := range m.markers {
		out[i] = *marker
	}
	return out
}

func (m *MapView) MarkerCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.markers)
}

func (m *MapView) attach(marker *Marker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markers = append(m.markers, marker)
}

type Snapshot struct {
	ID          uuid.UUID   `json:"id"`
	ContainerID string      `json:"containerId"`
	Center      LatLng      `json:"center"`
	Zoom        int         `json:"zoom"`
	Scrollwheel bool        `json:"scrollwheel"`
	MapTypeID   MapTypeID   `json:"mapTypeId"`
	Styles      []StyleRule `json:"styles"`
	Markers     []Marker    `json:"markers"`
}

// Snapshot captures a consistent copy of the view state.
func (m *MapView) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	markers := make([]Marker, len(m.markers))
	for i, marker := range m.markers {
		markers[i] = *marker
	}

	return Snapshot{
		ID:          m.ID,
		ContainerID: m.ContainerID,
		Center:      m.center,
		Zoom:        m.zoom,
		Scrollwheel: m.scrollwheel,
		MapTypeID:   m.mapTypeID,
		Styles:      CopyStyles(m.styles),
		Markers:     markers,
	}
}
