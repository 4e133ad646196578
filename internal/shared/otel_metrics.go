package shared

import (
	"context"
	"log/slog"

	"github.com/ssherwood/clinicmap/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"
	"google.golang.org/grpc/credentials"
)

func grpcMetricOptions() []otlpmetricgrpc.Option {
	options := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(config.OTELCollectorURL),
		otlpmetricgrpc.WithCompressor(config.OTELCompressor),
	}

	if config.OTELExporterInsecure {
		options = append(options, otlpmetricgrpc.WithInsecure())
	} else {
		options = append(options, otlpmetricgrpc.WithTLSCredentials(
			credentials.NewClientTLSFromCert(nil, ""),
		))
	}

	return options
}

func newMetricExporter(ctx context.Context, kind string) (metric.Exporter, error) {
	if kind == ExporterStdout {
		return stdoutmetric.New()
	}
	return otlpmetricgrpc.New(ctx, grpcMetricOptions()...)
}

// InitializeMetricProvider
// https://opentelemetry.io/docs/languages/go/instrumentation/#metrics
func InitializeMetricProvider(ctx context.Context) (*metric.MeterProvider, error) {
	kind, err := exporterKind()
	if err != nil || kind == ExporterNone {
		return nil, err
	}

	metricExporter, err := newMetricExporter(ctx, kind)
	if err != nil {
		slog.Warn("Unable to initialize OTEL metric exporter", config.ErrAttr(err))
		return nil, err
	}

	meterProvider := metric.NewMeterProvider(
		metric.WithReader(
			metric.NewPeriodicReader(metricExporter, metric.WithInterval(config.OTELMeterInterval)),
		),
		metric.WithResource(serviceResource()),
	)

	// set the global meter provider
	otel.SetMeterProvider(meterProvider)

	return meterProvider, nil
}
