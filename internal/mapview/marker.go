package mapview

import "github.com/google/uuid"

type Marker struct {
	ID       uuid.UUID `json:"id"`
	MapID    uuid.UUID `json:"mapId"`
	Position LatLng    `json:"position"`
	Title    string    `json:"title"`
	Icon     string    `json:"icon,omitempty"`
}

type MarkerOptions struct {
	Position LatLng
	Map      *MapView
	Title    string
	Icon     string
}

// NewMarker creates a marker and attaches it to opts.Map when one is given.
func NewMarker(opts MarkerOptions) *Marker {
	marker := &Marker{
		ID:       uuid.New(),
		Position: opts.Position,
		Title:    opts.Title,
		Icon:     opts.Icon,
	}

	if opts.Map != nil {
		marker.MapID = opts.Map.ID
		opts.Map.attach(marker)
	}

	return marker
}
