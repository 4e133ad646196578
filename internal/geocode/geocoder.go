package geocode

import (
	"context"

	"github.com/ssherwood/clinicmap/internal/mapview"
)

// Status values reported by the geocoding backend.
const (
	StatusOK             = "OK"
	StatusZeroResults    = "ZERO_RESULTS"
	StatusOverQueryLimit = "OVER_QUERY_LIMIT"
	StatusRequestDenied  = "REQUEST_DENIED"
	StatusInvalidRequest = "INVALID_REQUEST"
	StatusUnknownError   = "UNKNOWN_ERROR"
)

type Result struct {
	FormattedAddress string         `json:"formattedAddress"`
	PlaceID          string         `json:"placeId,omitempty"`
	Location         mapview.LatLng `json:"location"`
}

type Response struct {
	Status  string   `json:"status"`
	Results []Result `json:"results"`
}

// OK reports whether the response resolved to at least one location.
func (r *Response) OK() bool {
	return r != nil && r.Status == StatusOK && len(r.Results) > 0
}

// Geocoder resolves an address. A non-nil error means no response was obtained at all;
// backend refusals are carried in Response.Status.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*Response, error)
}

type GeocoderFunc func(ctx context.Context, address string) (*Response, error)

func (f GeocoderFunc) Geocode(ctx context.Context, address string) (*Response, error) {
	return f(ctx, address)
}
