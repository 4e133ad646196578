package geocode

import (
	"context"
	"errors"
	"net/http"
	"regexp"

	"github.com/ssherwood/clinicmap/internal/config"
	"github.com/ssherwood/clinicmap/internal/mapview"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"googlemaps.github.io/maps"
)

var ErrMissingAPIKey = errors.New("geocode: GOOGLE_MAPS_API_KEY is not set")

// the maps client folds non-OK statuses into errors shaped "maps: STATUS - message"
var statusErrorPattern = regexp.MustCompile(`^maps: ([A-Z_]+) - `)

type GoogleGeocoder struct {
	client *maps.Client
}

func googleClientOptions() []maps.ClientOption {
	options := []maps.ClientOption{
		maps.WithAPIKey(config.GoogleMapsAPIKey),
		maps.WithHTTPClient(&http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}),
	}

	if config.GoogleMapsRateLimit > 0 {
		options = append(options, maps.WithRateLimit(config.GoogleMapsRateLimit))
	}

	if config.GoogleMapsBaseURL != "" {
		options = append(options, maps.WithBaseURL(config.GoogleMapsBaseURL))
	}

	return options
}

// NewGoogleGeocoderFromEnv builds a geocoder from the GOOGLE_MAPS_* settings.
func NewGoogleGeocoderFromEnv() (*GoogleGeocoder, error) {
	if config.GoogleMapsAPIKey == "" {
		return nil, ErrMissingAPIKey
	}
	return NewGoogleGeocoder(googleClientOptions()...)
}

func NewGoogleGeocoder(options ...maps.ClientOption) (*GoogleGeocoder, error) {
	client, err := maps.NewClient(options...)
	if err != nil {
		return nil, err
	}
	return &GoogleGeocoder{client: client}, nil
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (*Response, error) {
	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		if status, ok := statusFromError(err); ok {
			return &Response{Status: status}, nil
		}
		return nil, err
	}

	if len(results) == 0 {
		return &Response{Status: StatusZeroResults}, nil
	}

	response := &Response{Status: StatusOK, Results: make([]Result, 0, len(results))}
	for _, result := range results {
		response.Results = append(response.Results, Result{
			FormattedAddress: result.FormattedAddress,
			PlaceID:          result.PlaceID,
			Location: mapview.LatLng{
				Lat: result.Geometry.Location.Lat,
				Lng: result.Geometry.Location.Lng,
			},
		})
	}

	return response, nil
}

func statusFromError(err error) (string, bool) {
	match := statusErrorPattern.FindStringSubmatch(err.Error())
	if match == nil {
		return "", false
	}
	return match[1], true
}
