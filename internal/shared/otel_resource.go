package shared

import (
	"errors"
	"os"
	"strings"

	"github.com/ssherwood/clinicmap/internal/config"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.25.0"
)

const (
	ExporterOTLP   = "otlp"
	ExporterStdout = "stdout"
	ExporterNone   = "none"
)

var ErrUnknownExporter = errors.New("unknown OTEL_EXPORTER value")

func exporterKind() (string, error) {
	switch kind := strings.ToLower(strings.TrimSpace(config.OTELExporter)); kind {
	case ExporterOTLP, ExporterStdout, ExporterNone:
		return kind, nil
	case "":
		return ExporterNone, nil
	default:
		return "", ErrUnknownExporter
	}
}

func serviceResource() *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.TelemetrySDKLanguageGo,
		semconv.ServiceName(config.ServiceName),
		semconv.ServiceVersion(config.ServiceVersion),
		semconv.HostNameKey.String(config.Hostname),
		semconv.ProcessPIDKey.Int64(int64(os.Getpid())),
	)
}
