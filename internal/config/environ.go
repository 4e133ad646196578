package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	Hostname, _    = os.Hostname()
	ServiceName    = "ClinicMap"
	ServiceVersion = "1.0"
	LogLevel       = GetEnv("LOG_LEVEL", "info")

	ServerAddress         = GetEnv("SERVER_ADDRESS", ":8080")
	ServerReadTimeout     = GetEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second)
	ServerWriteTimeout    = GetEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerShutdownTimeout = GetEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second)

	// OTELExporter selects the telemetry sink: "otlp", "stdout" or "none".
	OTELExporter             = GetEnv("OTEL_EXPORTER", "otlp")
	OTELCollectorURL         = GetEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	OTELCompressor           = GetEnv("OTEL_EXPORTER_COMPRESSOR", "gzip")
	OTELExporterInsecure     = GetEnvAsBool("OTEL_EXPORTER_INSECURE", true)
	OTELMeterInterval        = GetEnvAsDuration("OTEL_METER_INTERVAL", 10*time.Second)
	OTELTracerEnabled        = GetEnvAsBool("OTEL_TRACER_ENABLED", true)
	OTELTracerIncludeAddress = GetEnvAsBool("OTEL_TRACER_INCLUDE_ADDRESS", true)
	OTELTracerSpanNamePrefix = GetEnv("OTEL_TRACER_SPAN_NAME_PREFIX", "geocode")

	GoogleMapsAPIKey        = GetEnv("GOOGLE_MAPS_API_KEY", "")
	GoogleMapsBaseURL       = GetEnv("GOOGLE_MAPS_BASE_URL", "")
	GoogleMapsRateLimit     = GetEnvAsInt("GOOGLE_MAPS_RATE_LIMIT", 10)
	GoogleMapsBrowserAPIKey = GetEnv("GOOGLE_MAPS_BROWSER_API_KEY", "")
	MapPageTemplate         = GetEnv("MAP_PAGE_TEMPLATE", "")
)

func GetEnv(key string, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func GetEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

func GetEnvAsBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolValue, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return boolValue
		}
	}
	return fallback
}

// GetEnvAsDuration accepts Go duration strings ("15s", "500ms"); a bare integer is read as seconds.
func GetEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
