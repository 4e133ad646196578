package shared

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/ssherwood/clinicmap/internal/config"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"google.golang.org/grpc/credentials"
)

const loggerName = "github.com/ssherwood/clinicmap"

func grpcLogOptions() []otlploggrpc.Option {
	options := []otlploggrpc.Option{
		otlploggrpc.WithEndpoint(config.OTELCollectorURL),
		otlploggrpc.WithCompressor(config.OTELCompressor),
	}

	if config.OTELExporterInsecure {
		options = append(options, otlploggrpc.WithInsecure())
	} else {
		options = append(options, otlploggrpc.WithTLSCredentials(
			credentials.NewClientTLSFromCert(nil, ""),
		))
	}

	return options
}

func InitializeLoggingProvider(ctx context.Context) (*sdklog.LoggerProvider, error) {
	kind, err := exporterKind()
	if err != nil || kind == ExporterNone {
		return nil, err
	}

	var processor sdklog.Processor
	if kind == ExporterStdout {
		stdoutExporter, err := stdoutlog.New()
		if err != nil {
			slog.Error("Unable to initialize OTEL log stdoutExporter", config.ErrAttr(err))
			return nil, err
		}
		processor = sdklog.NewSimpleProcessor(stdoutExporter)
	} else {
		grpcExporter, err := otlploggrpc.New(ctx, grpcLogOptions()...)
		if err != nil {
			slog.Error("Unable to initialize OTEL log grpcExporter", config.ErrAttr(err))
			return nil, err
		}
		processor = sdklog.NewBatchProcessor(grpcExporter)
	}

	provider := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(processor),
		sdklog.WithResource(serviceResource()),
	)

	global.SetLoggerProvider(provider)

	return provider, nil
}

// NewLogger builds the process logger: a console handler, plus the OTEL bridge when a provider exists.
func NewLogger(console io.Writer, provider *sdklog.LoggerProvider) *slog.Logger {
	consoleHandler := slog.NewTextHandler(console, &slog.HandlerOptions{Level: config.SlogLevel(config.LogLevel)})
	if provider == nil {
		return slog.New(consoleHandler)
	}
	return slog.New(NewFanoutHandler(consoleHandler, otelslog.NewHandler(loggerName, otelslog.WithLoggerProvider(provider))))
}

// FanoutHandler hands every record to each of its handlers.
type FanoutHandler struct {
	handlers []slog.Handler
}

func NewFanoutHandler(handlers ...slog.Handler) *FanoutHandler {
	return &FanoutHandler{handlers: handlers}
}

func (h *FanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *FanoutHandler) Handle(ctx context.Context, rec slog.Record) error {
	var errs []error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, rec.Level) {
			continue
		}
		if err := handler.Handle(ctx, rec.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *FanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}
	return &FanoutHandler{handlers: handlers}
}

func (h *FanoutHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}
	return &FanoutHandler{handlers: handlers}
}
