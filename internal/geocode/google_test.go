package geocode

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ssherwood/clinicmap/internal/mapview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

func newTestGeocoder(t *testing.T, handler http.HandlerFunc) *GoogleGeocoder {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	geocoder, err := NewGoogleGeocoder(maps.WithAPIKey("test-key"), maps.WithBaseURL(server.URL))
	require.NoError(t, err)
	return geocoder
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = fmt.Fprint(w, body)
}

func TestGoogleGeocoder_OK(t *testing.T) {
	var gotAddress, gotKey string
	geocoder := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		gotAddress = r.URL.Query().Get("address")
		gotKey = r.URL.Query().Get("key")
		writeJSON(w, `{
			"status": "OK",
			"results": [
				{
					"formatted_address": "Manila, Metro Manila, Philippines",
					"place_id": "ChIJi8MeVwPKlzMRH8FpEHXV0Wk",
					"geometry": {"location": {"lat": 14.5995124, "lng": 120.9842195}}
				},
				{
					"formatted_address": "Manila, Arkansas, USA",
					"geometry": {"location": {"lat": 35.88, "lng": -90.167}}
				}
			]
		}`)
	})

	response, err := geocoder.Geocode(context.Background(), "Manila, Philippines")
	require.NoError(t, err)

	assert.Equal(t, "Manila, Philippines", gotAddress)
	assert.Equal(t, "test-key", gotKey)
	assert.True(t, response.OK())
	assert.Equal(t, StatusOK, response.Status)
	require.Len(t, response.Results, 2)
	assert.Equal(t, "Manila, Metro Manila, Philippines", response.Results[0].FormattedAddress)
	assert.Equal(t, "ChIJi8MeVwPKlzMRH8FpEHXV0Wk", response.Results[0].PlaceID)
	assert.Equal(t, mapview.LatLng{Lat: 14.5995124, Lng: 120.9842195}, response.Results[0].Location)
}

func TestGoogleGeocoder_StatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status string
	}{
		{"zero results", `{"status": "ZERO_RESULTS", "results": []}`, StatusZeroResults},
		{"request denied", `{"status": "REQUEST_DENIED", "error_message": "The provided API key is invalid.", "results": []}`, StatusRequestDenied},
		{"invalid request", `{"status": "INVALID_REQUEST", "results": []}`, StatusInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			geocoder := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.body)
			})

			response, err := geocoder.Geocode(context.Background(), "nowhere at all")
			require.NoError(t, err)
			assert.Equal(t, tt.status, response.Status)
			assert.Empty(t, response.Results)
			assert.False(t, response.OK())
		})
	}
}

func TestGoogleGeocoder_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	geocoder, err := NewGoogleGeocoder(maps.WithAPIKey("test-key"), maps.WithBaseURL(server.URL))
	require.NoError(t, err)

	response, err := geocoder.Geocode(context.Background(), "Manila, Philippines")
	assert.Error(t, err)
	assert.Nil(t, response)
}

func TestNewGoogleGeocoder_RequiresCredentials(t *testing.T) {
	_, err := NewGoogleGeocoder()
	assert.Error(t, err)
}

func TestStatusFromError(t *testing.T) {
	status, ok := statusFromError(errors.New("maps: OVER_QUERY_LIMIT - You have exceeded your daily request quota"))
	assert.True(t, ok)
	assert.Equal(t, StatusOverQueryLimit, status)

	_, ok = statusFromError(errors.New("dial tcp 127.0.0.1:1: connect: connection refused"))
	assert.False(t, ok)
}

func TestResponseOK(t *testing.T) {
	var nilResponse *Response
	assert.False(t, nilResponse.OK())
	assert.False(t, (&Response{Status: StatusOK}).OK())
	assert.True(t, (&Response{Status: StatusOK, Results: []Result{{}}}).OK())
}
