package shared

import (
	"context"
	"log/slog"

	"github.com/ssherwood/clinicmap/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc/credentials"
)

func grpcTracerOptions() []otlptracegrpc.Option {
	options := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(config.OTELCollectorURL),
		otlptracegrpc.WithCompressor(config.OTELCompressor),
	}

	if config.OTELExporterInsecure {
		options = append(options, otlptracegrpc.WithInsecure())
	} else {
		options = append(options,
			otlptracegrpc.WithTLSCredentials(credentials.NewClientTLSFromCert(nil, "")),
		)
	}

	return options
}

func newSpanExporter(ctx context.Context, kind string) (trace.SpanExporter, error) {
	if kind == ExporterStdout {
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	}
	return otlptracegrpc.New(ctx, grpcTracerOptions()...)
}

// InitTracerProvider
// https://opentelemetry.io/docs/languages/go/instrumentation/#traces
// Returns a nil provider when OTEL_EXPORTER is "none".
func InitTracerProvider(ctx context.Context) (*trace.TracerProvider, error) {
	kind, err := exporterKind()
	if err != nil || kind == ExporterNone {
		return nil, err
	}

	traceExporter, err := newSpanExporter(ctx, kind)
	if err != nil {
		slog.Warn("Unable to initialize OTEL trace exporter", config.ErrAttr(err))
		return nil, err
	}

	tracerProvider := trace.NewTracerProvider(
		trace.WithBatcher(traceExporter),
		trace.WithSampler(trace.ParentBased(trace.AlwaysSample())),
		trace.WithResource(serviceResource()),
	)

	// set the global tracer provider
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}),
	)

	return tracerProvider, nil
}
