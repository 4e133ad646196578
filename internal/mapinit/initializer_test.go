package mapinit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ssherwood/clinicmap/internal/geocode"
	"github.com/ssherwood/clinicmap/internal/mapview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type staticDocument map[string]string

func (d staticDocument) ElementByID(id string) (Element, bool) {
	tag, ok := d[id]
	if !ok {
		return Element{}, false
	}
	return Element{ID: id, Tag: tag}, true
}

var pageWithMap = staticDocument{"map": "div"}

type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Geocode(ctx context.Context, address string) (*geocode.Response, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*geocode.Response), args.Error(1)
}

func okResponse(location mapview.LatLng) *geocode.Response {
	return &geocode.Response{Status: geocode.StatusOK, Results: []geocode.Result{{Location: location}}}
}

func waitSession(t *testing.T, session *Session) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, session.Wait(ctx))
}

func TestInit_ContainerPresent(t *testing.T) {
	reporter := &RecordingReporter{}
	geocoder := &MockGeocoder{}

	session := New(pageWithMap, geocoder, reporter).Init(context.Background())
	require.NotNil(t, session)
	waitSession(t, session)

	view := session.View
	markers := view.Markers()
	require.Len(t, markers, 1)
	assert.Equal(t, ClinicLocation, markers[0].Position)
	assert.Equal(t, ClinicTitle, markers[0].Title)
	assert.Equal(t, view.ID, markers[0].MapID)
	assert.Equal(t, ClinicLocation, view.Center())
	assert.Equal(t, DefaultZoom, view.Zoom())
	assert.False(t, view.Scrollwheel())
	assert.Equal(t, mapview.MapTypeHybrid, view.MapTypeID())
	assert.Equal(t, Element{ID: "map", Tag: "div"}, session.Container)
	assert.Empty(t, reporter.Reports())
}

func TestInit_MissingContainer(t *testing.T) {
	reporter := &RecordingReporter{}
	geocoder := &MockGeocoder{}

	initializer := New(staticDocument{"content": "div"}, geocoder, reporter)
	initializer.Addresses = []string{"Manila, Philippines"}

	var session *Session
	assert.NotPanics(t, func() {
		session = initializer.Init(context.Background())
	})
	assert.Nil(t, session)

	reports := reporter.Reports()
	require.Len(t, reports, 1)
	var containerErr *MissingContainerError
	require.ErrorAs(t, reports[0], &containerErr)
	assert.Equal(t, "map", containerErr.ContainerID)
	assert.ErrorIs(t, reports[0], ErrMissingContainer)
	geocoder.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
}

func TestInit_NilDocument(t *testing.T) {
	reporter := &RecordingReporter{}

	session := New(nil, nil, reporter).Init(context.Background())

	assert.Nil(t, session)
	require.Len(t, reporter.Reports(), 1)
	assert.ErrorIs(t, reporter.Reports()[0], ErrMissingContainer)
}

func TestInit_EmptyAddressListIssuesNoGeocodes(t *testing.T) {
	geocoder := &MockGeocoder{}
	initializer := New(pageWithMap, geocoder, &RecordingReporter{})
	initializer.Addresses = nil

	session := initializer.Init(context.Background())
	require.NotNil(t, session)

	assert.False(t, session.Pending())
	assert.Equal(t, ClinicLocation, session.View.Center())
	assert.Equal(t, 1, session.View.MarkerCount())
	geocoder.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
}

func TestInit_AllAddressesResolve(t *testing.T) {
	manila := mapview.LatLng{Lat: 14.5995, Lng: 120.9842}
	makati := mapview.LatLng{Lat: 14.5547, Lng: 121.0244}
	pasig := mapview.LatLng{Lat: 14.5764, Lng: 121.0851}

	geocoder := &MockGeocoder{}
	geocoder.On("Geocode", mock.Anything, "Manila").Return(okResponse(manila), nil).Once()
	geocoder.On("Geocode", mock.Anything, "Makati").Return(okResponse(makati), nil).Once()
	geocoder.On("Geocode", mock.Anything, "Pasig").Return(okResponse(pasig), nil).Once()

	reporter := &RecordingReporter{}
	initializer := New(pageWithMap, geocoder, reporter)
	initializer.Addresses = []string{"Manila", "Makati", "Pasig"}

	session := initializer.Init(context.Background())
	require.NotNil(t, session)
	waitSession(t, session)

	geocoder.AssertExpectations(t)
	assert.Empty(t, reporter.Reports())
	assert.Equal(t, 4, session.View.MarkerCount())

	resolved := session.Resolved()
	require.Len(t, resolved, 3)
	assert.Equal(t, resolved[len(resolved)-1].Location, session.View.Center())
	assert.Equal(t, DefaultZoom, session.View.Zoom())

	titles := map[string]mapview.LatLng{}
	for _, marker := range session.View.Markers()[1:] {
		titles[marker.Title] = marker.Position
	}
	assert.Equal(t, map[string]mapview.LatLng{"Manila": manila, "Makati": makati, "Pasig": pasig}, titles)
}

// gatedGeocoder holds every request until the test releases its address.
type gatedGeocoder struct {
	mu        sync.Mutex
	gates     map[string]chan struct{}
	locations map[string]mapview.LatLng
}

func newGatedGeocoder(locations map[string]mapview.LatLng) *gatedGeocoder {
	g := &gatedGeocoder{gates: map[string]chan struct{}{}, locations: locations}
	for address := range locations {
		g.gates[address] = make(chan struct{})
	}
	return g
}

func (g *gatedGeocoder) Geocode(ctx context.Context, address string) (*geocode.Response, error) {
	g.mu.Lock()
	gate := g.gates[address]
	g.mu.Unlock()

	select {
	case <-gate:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return okResponse(g.locations[address]), nil
}

func (g *gatedGeocoder) release(address string) {
	close(g.gates[address])
}

func TestInit_LastCompletionWinsCenter(t *testing.T) {
	locations := map[string]mapview.LatLng{
		"first":  {Lat: 1, Lng: 1},
		"second": {Lat: 2, Lng: 2},
		"third":  {Lat: 3, Lng: 3},
	}
	geocoder := newGatedGeocoder(locations)

	initializer := New(pageWithMap, geocoder, &RecordingReporter{})
	initializer.Addresses = []string{"first", "second", "third"}

	session := initializer.Init(context.Background())
	require.NotNil(t, session)

	// synchronous phase is complete before any completion arrives
	assert.Equal(t, ClinicLocation, session.View.Center())
	assert.Equal(t, 1, session.View.MarkerCount())
	assert.True(t, session.Pending())

	for n, address := range []string{"third", "first", "second"} {
		geocoder.release(address)
		require.Eventually(t, func() bool {
			return len(session.Resolved()) == n+1
		}, 5*time.Second, 5*time.Millisecond)
		assert.Equal(t, locations[address], session.View.Center())
	}

	waitSession(t, session)
	assert.Equal(t, locations["second"], session.View.Center())
	assert.Equal(t, 4, session.View.MarkerCount())

	var order []string
	for _, r := range session.Resolved() {
		order = append(order, r.Address)
	}
	assert.Equal(t, []string{"third", "first", "second"}, order)
}

func TestInit_FailingAddressIsIsolated(t *testing.T) {
	manila := mapview.LatLng{Lat: 14.5995, Lng: 120.9842}
	pasig := mapview.LatLng{Lat: 14.5764, Lng: 121.0851}

	geocoder := &MockGeocoder{}
	geocoder.On("Geocode", mock.Anything, "Manila").Return(okResponse(manila), nil)
	geocoder.On("Geocode", mock.Anything, "Atlantis").Return(&geocode.Response{Status: geocode.StatusZeroResults}, nil)
	geocoder.On("Geocode", mock.Anything, "Pasig").Return(okResponse(pasig), nil)

	reporter := &RecordingReporter{}
	initializer := New(pageWithMap, geocoder, reporter)
	initializer.Addresses = []string{"Manila", "Atlantis", "Pasig"}

	session := initializer.Init(context.Background())
	require.NotNil(t, session)
	waitSession(t, session)

	assert.Equal(t, 3, session.View.MarkerCount())
	assert.Equal(t, ClinicTitle, session.View.Markers()[0].Title)
	require.Len(t, session.Resolved(), 2)
	for _, marker := range session.View.Markers() {
		assert.NotEqual(t, "Atlantis", marker.Title)
	}

	reports := reporter.Reports()
	require.Len(t, reports, 1)
	var geocodeErr *GeocodeResolutionError
	require.ErrorAs(t, reports[0], &geocodeErr)
	assert.Equal(t, "Atlantis", geocodeErr.Address)
	assert.Equal(t, geocode.StatusZeroResults, geocodeErr.Status)
	assert.ErrorIs(t, reports[0], ErrGeocodeResolution)
}

func TestInit_OKWithoutResultsIsAFailure(t *testing.T) {
	geocoder := &MockGeocoder{}
	geocoder.On("Geocode", mock.Anything, "Empty").Return(&geocode.Response{Status: geocode.StatusOK}, nil)

	reporter := &RecordingReporter{}
	initializer := New(pageWithMap, geocoder, reporter)
	initializer.Addresses = []string{"Empty"}

	session := initializer.Init(context.Background())
	waitSession(t, session)

	assert.Equal(t, 1, session.View.MarkerCount())
	assert.Equal(t, ClinicLocation, session.View.Center())
	require.Len(t, reporter.Reports(), 1)
}

func TestInit_TransportErrorIsReported(t *testing.T) {
	refused := errors.New("connection refused")
	geocoder := &MockGeocoder{}
	geocoder.On("Geocode", mock.Anything, "Manila").Return(nil, refused)

	reporter := &RecordingReporter{}
	initializer := New(pageWithMap, geocoder, reporter)
	initializer.Addresses = []string{"Manila"}

	session := initializer.Init(context.Background())
	waitSession(t, session)

	reports := reporter.Reports()
	require.Len(t, reports, 1)
	assert.ErrorIs(t, reports[0], refused)
	var geocodeErr *GeocodeResolutionError
	require.ErrorAs(t, reports[0], &geocodeErr)
	assert.Equal(t, geocode.StatusUnknownError, geocodeErr.Status)
	assert.Equal(t, 1, session.View.MarkerCount())
}

func TestInit_NoGeocoderReportsEachAddress(t *testing.T) {
	reporter := &RecordingReporter{}
	initializer := New(pageWithMap, nil, reporter)
	initializer.Addresses = []string{"Manila", "Pasig"}

	session := initializer.Init(context.Background())
	waitSession(t, session)

	reports := reporter.Reports()
	require.Len(t, reports, 2)
	for _, err := range reports {
		assert.ErrorIs(t, err, ErrNoGeocoder)
	}
	assert.Equal(t, 1, session.View.MarkerCount())
}

func TestInit_StylesAreTheClinicTheme(t *testing.T) {
	session := New(pageWithMap, nil, &RecordingReporter{}).Init(context.Background())
	require.NotNil(t, session)

	assert.Equal(t, mapview.ClinicTheme(), session.View.Styles())
}

func TestSessionWaitHonoursContext(t *testing.T) {
	geocoder := newGatedGeocoder(map[string]mapview.LatLng{"slow": {Lat: 1, Lng: 1}})
	initializer := New(pageWithMap, geocoder, &RecordingReporter{})
	initializer.Addresses = []string{"slow"}

	session := initializer.Init(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, session.Wait(ctx), context.DeadlineExceeded)

	geocoder.release("slow")
	waitSession(t, session)
	assert.Equal(t, mapview.LatLng{Lat: 1, Lng: 1}, session.View.Center())
}
