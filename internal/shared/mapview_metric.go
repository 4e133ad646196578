package shared

import (
	"context"
	"log/slog"

	"github.com/ssherwood/clinicmap/internal/config"
	"github.com/ssherwood/clinicmap/internal/mapview"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.25.0"
)

// InitMapViewMeter
// given a MapView, register gauges observing its marker count, zoom and center.
func InitMapViewMeter(view *mapview.MapView) (metric.Registration, error) {
	return InitMapViewMeterWithProvider(otel.GetMeterProvider(), view)
}

func InitMapViewMeterWithProvider(provider metric.MeterProvider, view *mapview.MapView) (metric.Registration, error) {
	mapViewMeter := provider.Meter("github.com/ssherwood/clinicmap/mapview",
		metric.WithInstrumentationAttributes(
			semconv.ServiceName(config.ServiceName),
		),
	)

	markers, _ := mapViewMeter.Int64ObservableGauge("mapview.markers", metric.WithUnit("{marker}"))
	zoom, _ := mapViewMeter.Int64ObservableGauge("mapview.zoom")
	centerLat, _ := mapViewMeter.Float64ObservableGauge("mapview.center.lat", metric.WithUnit("deg"))
	centerLng, _ := mapViewMeter.Float64ObservableGauge("mapview.center.lng", metric.WithUnit("deg"))

	mapAttr := metric.WithAttributes(attribute.String("mapview.id", view.ID.String()))

	registration, err := mapViewMeter.RegisterCallback(
		func(_ context.Context, o metric.Observer) error {
			snapshot := view.Snapshot()
			o.ObserveInt64(markers, int64(len(snapshot.Markers)), mapAttr)
			o.ObserveInt64(zoom, int64(snapshot.Zoom), mapAttr)
			o.ObserveFloat64(centerLat, snapshot.Center.Lat, mapAttr)
			o.ObserveFloat64(centerLng, snapshot.Center.Lng, mapAttr)
			return nil
		},
		markers, zoom, centerLat, centerLng,
	)
	if err != nil {
		slog.Error("failed to register mapview stats", config.ErrAttr(err))
		return nil, err
	}

	return registration, nil
}
