package geocode

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/ssherwood/clinicmap/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName = "github.com/ssherwood/clinicmap/geocode"
	modulePath          = "github.com/ssherwood/clinicmap"
)

const (
	// AddressKey is the address being resolved.
	AddressKey = attribute.Key("geocode.address")
	// StatusKey is the status returned by the geocoding backend.
	StatusKey = attribute.Key("geocode.status")
	// ResultCountKey is the number of results returned.
	ResultCountKey = attribute.Key("geocode.result_count")
)

// TracingGeocoder wraps a Geocoder with a client span, a request counter and a latency histogram.
type TracingGeocoder struct {
	next           Geocoder
	tracer         trace.Tracer
	attrs          []attribute.KeyValue
	spanNamePrefix string
	includeAddress bool
	requests       metric.Int64Counter
	latency        metric.Float64Histogram
}

type TracingOption func(*tracingSettings)

type tracingSettings struct {
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	spanNamePrefix string
	includeAddress bool
}

func WithTracerProvider(tp trace.TracerProvider) TracingOption {
	return func(s *tracingSettings) { s.tracerProvider = tp }
}

func WithMeterProvider(mp metric.MeterProvider) TracingOption {
	return func(s *tracingSettings) { s.meterProvider = mp }
}

func WithSpanNamePrefix(prefix string) TracingOption {
	return func(s *tracingSettings) { s.spanNamePrefix = prefix }
}

func WithAddressAttribute(include bool) TracingOption {
	return func(s *tracingSettings) { s.includeAddress = include }
}

func NewTracingGeocoder(next Geocoder, globalAttrs []attribute.KeyValue, options ...TracingOption) (*TracingGeocoder, error) {
	settings := tracingSettings{
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
		spanNamePrefix: config.OTELTracerSpanNamePrefix,
		includeAddress: config.OTELTracerIncludeAddress,
	}
	for _, option := range options {
		option(&settings)
	}

	version := findOwnImportedVersion()
	meter := settings.meterProvider.Meter(instrumentationName, metric.WithInstrumentationVersion(version))

	requests, err := meter.Int64Counter("geocode.requests",
		metric.WithDescription("The number of geocode requests by resulting status"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}

	latency, err := meter.Float64Histogram("geocode.duration",
		metric.WithDescription("The time taken to resolve an address"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}

	return &TracingGeocoder{
		next:           next,
		tracer:         settings.tracerProvider.Tracer(instrumentationName, trace.WithInstrumentationVersion(version)),
		attrs:          globalAttrs,
		spanNamePrefix: settings.spanNamePrefix,
		includeAddress: settings.includeAddress,
		requests:       requests,
		latency:        latency,
	}, nil
}

func (t *TracingGeocoder) Geocode(ctx context.Context, address string) (*Response, error) {
	opts := []trace.SpanStartOption{
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(t.attrs...),
	}
	if t.includeAddress {
		opts = append(opts, trace.WithAttributes(AddressKey.String(address)))
	}

	ctx, span := t.tracer.Start(ctx, t.spanName(), opts...)
	defer span.End()

	start := time.Now()
	response, err := t.next.Geocode(ctx, address)
	elapsed := float64(time.Since(start).Microseconds()) / 1000

	status := StatusUnknownError
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else if response != nil {
		status = response.Status
		span.SetAttributes(ResultCountKey.Int(len(response.Results)))
		if !response.OK() {
			span.SetStatus(codes.Error, status)
		}
	}
	span.SetAttributes(StatusKey.String(status))

	t.requests.Add(ctx, 1, metric.WithAttributes(StatusKey.String(status)))
	t.latency.Record(ctx, elapsed, metric.WithAttributes(StatusKey.String(status)))

	return response, err
}

func (t *TracingGeocoder) spanName() string {
	if t.spanNamePrefix == "" {
		return "Geocode"
	}
	return t.spanNamePrefix + " Geocode"
}

func findOwnImportedVersion() string {
	buildInfo, ok := debug.ReadBuildInfo()
	if ok {
		if buildInfo.Main.Path == modulePath && buildInfo.Main.Version != "" {
			return buildInfo.Main.Version
		}
		for _, dep := range buildInfo.Deps {
			if dep.Path == modulePath {
				return dep.Version
			}
		}
	}

	return "unknown"
}
