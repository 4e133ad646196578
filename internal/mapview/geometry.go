package mapview

import "fmt"

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (l LatLng) String() string {
	return fmt.Sprintf("(%f, %f)", l.Lat, l.Lng)
}

// MapTypeID is the base layer the view renders.
type MapTypeID string

const (
	MapTypeRoadmap   MapTypeID = "roadmap"
	MapTypeSatellite MapTypeID = "satellite"
	MapTypeHybrid    MapTypeID = "hybrid"
	MapTypeTerrain   MapTypeID = "terrain"
)
