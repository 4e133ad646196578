package mapinit

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ssherwood/clinicmap/internal/geocode"
	"github.com/ssherwood/clinicmap/internal/mapview"
)

const (
	ContainerID = "map"
	DefaultZoom = 15
	ClinicTitle = "Clinic"
	// ClinicIcon is an optional custom pin, e.g. "/static/images/loc.png".
	ClinicIcon = ""
)

// ClinicLocation is the fixed center and the position of the clinic marker.
var ClinicLocation = mapview.LatLng{Lat: 14.568269359450321, Lng: 121.00717145898005}

// Addresses are geocoded into additional markers, e.g. "Manila, Philippines".
var Addresses = []string{}

var ErrNoGeocoder = errors.New("no geocoder configured")

type Element struct {
	ID  string
	Tag string
}

// Document is the host page the map is mounted into.
type Document interface {
	ElementByID(id string) (Element, bool)
}

type Initializer struct {
	Document Document
	Geocoder geocode.Geocoder
	Reporter Reporter

	ContainerID string
	Center      mapview.LatLng
	Zoom        int
	Title       string
	Icon        string
	Styles      []mapview.StyleRule
	Addresses   []string
}

// New returns an initializer carrying the clinic page constants.
func New(document Document, geocoder geocode.Geocoder, reporter Reporter) *Initializer {
	return &Initializer{
		Document:    document,
		Geocoder:    geocoder,
		Reporter:    reporter,
		ContainerID: ContainerID,
		Center:      ClinicLocation,
		Zoom:        DefaultZoom,
		Title:       ClinicTitle,
		Icon:        ClinicIcon,
		Styles:      mapview.ClinicTheme(),
		Addresses:   append([]string(nil), Addresses...),
	}
}

type resolution struct {
	address  string
	response *geocode.Response
	err      error
}

// Init mounts the map into the document container and drops the fixed marker before returning.
// Configured addresses are then geocoded concurrently and applied one at a time as they complete.
// When the container is missing the failure is reported and Init returns nil.
func (i *Initializer) Init(ctx context.Context) *Session {
	element, ok := i.lookupContainer()
	if !ok {
		i.report(ctx, &MissingContainerError{ContainerID: i.ContainerID})
		return nil
	}

	view := mapview.New(i.ContainerID, mapview.Options{
		Center:      i.Center,
		Zoom:        i.Zoom,
		Scrollwheel: false,
		MapTypeID:   mapview.MapTypeHybrid,
		Styles:      i.Styles,
	})

	mapview.NewMarker(mapview.MarkerOptions{
		Position: i.Center,
		Map:      view,
		Title:    i.Title,
		Icon:     i.Icon,
	})

	session := newSession(view, element)
	slog.DebugContext(ctx, "Map initialized", slog.String("container", i.ContainerID), slog.String("map", view.ID.String()))

	addresses := append([]string(nil), i.Addresses...)
	if len(addresses) == 0 {
		close(session.done)
		return session
	}

	results := make(chan resolution)
	for _, address := range addresses {
		go func() {
			results <- i.geocode(ctx, address)
		}()
	}

	go func() {
		defer close(session.done)
		for range addresses {
			i.apply(ctx, session, <-results)
		}
	}()

	return session
}

func (i *Initializer) lookupContainer() (Element, bool) {
	if i.Document == nil {
		return Element{}, false
	}
	return i.Document.ElementByID(i.ContainerID)
}

func (i *Initializer) geocode(ctx context.Context, address string) resolution {
	if i.Geocoder == nil {
		return resolution{address: address, err: ErrNoGeocoder}
	}
	response, err := i.Geocoder.Geocode(ctx, address)
	return resolution{address: address, response: response, err: err}
}

// apply runs on the single applier goroutine, so view mutations never interleave.
func (i *Initializer) apply(ctx context.Context, session *Session, res resolution) {
	if res.err != nil {
		i.report(ctx, &GeocodeResolutionError{Address: res.address, Status: geocode.StatusUnknownError, Err: res.err})
		return
	}

	if !res.response.OK() {
		status := geocode.StatusUnknownError
		if res.response != nil {
			status = res.response.Status
		}
		i.report(ctx, &GeocodeResolutionError{Address: res.address, Status: status})
		return
	}

	location := res.response.Results[0].Location
	marker := mapview.NewMarker(mapview.MarkerOptions{
		Position: location,
		Map:      session.View,
		Title:    res.address,
	})
	session.View.SetCenter(location)
	session.View.SetZoom(i.Zoom)
	session.record(Resolution{Address: res.address, Location: location, MarkerID: marker.ID})

	slog.InfoContext(ctx, "Geocoded address", slog.String("address", res.address), slog.String("location", location.String()))
}

func (i *Initializer) report(ctx context.Context, err error) {
	if i.Reporter == nil {
		LogReporter{}.Report(ctx, err)
		return
	}
	i.Reporter.Report(ctx, err)
}
