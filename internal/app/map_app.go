package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/ssherwood/clinicmap/internal/clinicmap"
	"github.com/ssherwood/clinicmap/internal/config"
	"github.com/ssherwood/clinicmap/internal/geocode"
	"github.com/ssherwood/clinicmap/internal/mapinit"
	"github.com/ssherwood/clinicmap/internal/page"
	"github.com/ssherwood/clinicmap/internal/shared"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/log"
	metricsdk "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/trace"
)

type Application interface {
	Initialize(ctx context.Context) error
	Run()
	Shutdown(ctx context.Context) error
}

type MapApplication struct {
	Server          *http.Server
	Router          *mux.Router
	TracerProvider  *trace.TracerProvider
	MetricsProvider *metricsdk.MeterProvider
	LoggerProvider  *log.LoggerProvider
	Geocoder        geocode.Geocoder
	Page            *page.Page
	MapService      *clinicmap.Service
	MapMeter        metric.Registration
}

func (app *MapApplication) Initialize(ctx context.Context) error {
	if lp, err := shared.InitializeLoggingProvider(ctx); err != nil {
		return err
	} else {
		app.LoggerProvider = lp
		slog.SetDefault(shared.NewLogger(os.Stdout, lp))
	}

	if tp, err := shared.InitTracerProvider(ctx); err != nil {
		return err
	} else {
		app.TracerProvider = tp
	}

	if mp, err := shared.InitializeMetricProvider(ctx); err != nil {
		return err
	} else {
		app.MetricsProvider = mp
	}

	if app.Geocoder == nil {
		if err := app.initGeocoder(); err != nil {
			return err
		}
	}

	if p, err := page.Load(config.MapPageTemplate); err != nil {
		slog.Error("Unable to load map page template", config.ErrAttr(err))
		return err
	} else {
		app.Page = p
	}

	document, err := app.Page.Document()
	if err != nil {
		return err
	}

	// stands in for the page's script-load callback
	app.MapService = clinicmap.NewService(mapinit.New(document, app.Geocoder, mapinit.LogReporter{}))
	if session, err := app.MapService.Init(ctx); err != nil {
		slog.Warn("Map was not mounted, serving without it", config.SlogServiceName, config.ErrAttr(err))
	} else if reg, err := shared.InitMapViewMeter(session.View); err == nil {
		app.MapMeter = reg
	}

	app.Router = mux.NewRouter()
	app.Router.Use(otelmux.Middleware(config.ServiceName))
	_ = clinicmap.NewHandler(app.Router, app.MapService, app.Page)

	app.Server = &http.Server{
		Handler:      app.Router,
		Addr:         config.ServerAddress,
		WriteTimeout: config.ServerWriteTimeout,
		ReadTimeout:  config.ServerReadTimeout,
	}

	return nil
}

// initGeocoder wires the Google geocoder when an API key is configured. Without one,
// the map still mounts and any configured addresses are reported as unresolved.
func (app *MapApplication) initGeocoder() error {
	google, err := geocode.NewGoogleGeocoderFromEnv()
	if errors.Is(err, geocode.ErrMissingAPIKey) {
		slog.Warn("Geocoding disabled", config.SlogServiceName, config.ErrAttr(err))
		return nil
	}
	if err != nil {
		slog.Error("Unable to create Google Maps client", config.ErrAttr(err))
		return err
	}

	if !config.OTELTracerEnabled {
		app.Geocoder = google
		return nil
	}

	traced, err := geocode.NewTracingGeocoder(google, []attribute.KeyValue{
		attribute.String("geocode.backend", "google"),
	})
	if err != nil {
		return err
	}
	app.Geocoder = traced
	return nil
}

func (app *MapApplication) Run() {

	go func() {
		slog.Info("Starting application", config.SlogServiceName, config.SlogServiceAddress)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Warn("Failed to start application", config.SlogServiceName, config.ErrAttr(err))
		}
	}()

	// Setup signal handling for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// create a context with timeout for the shutdown process
	cancelContext, cancelFn := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer cancelFn()

	if err := app.Shutdown(cancelContext); err != nil {
		slog.Info("Failed to gracefully shutdown", config.SlogServiceName, config.ErrAttr(err))
	}

	slog.Info("Application stopped.", config.SlogServiceName)
}

// Shutdown - invokes the global shutdown on the app to remove/close open resources
func (app *MapApplication) Shutdown(ctx context.Context) error {
	slog.Info("Application shutting down...", config.SlogServiceName)

	var errs []error

	if app.Server != nil {
		if err := app.Server.Shutdown(ctx); err != nil {
			slog.Warn("Unable to shutdown HTTP server", config.SlogServiceName, config.ErrAttr(err))
			errs = append(errs, err)
		}
	}

	if app.MapMeter != nil {
		if err := app.MapMeter.Unregister(); err != nil {
			slog.Warn("Unable to unregister mapview meter", config.ErrAttr(err))
		}
	}

	if app.MetricsProvider != nil {
		if err := app.MetricsProvider.Shutdown(ctx); err != nil {
			slog.Warn("Unable to shutdown OTEL metrics provider", config.SlogServiceName, config.ErrAttr(err))
			errs = append(errs, err)
		}
	}

	if app.TracerProvider != nil {
		if err := app.TracerProvider.Shutdown(ctx); err != nil {
			slog.Warn("Unable to shutdown OTEL tracer provider", config.ErrAttr(err))
			errs = append(errs, err)
		}
	}

	if app.LoggerProvider != nil {
		if err := app.LoggerProvider.Shutdown(ctx); err != nil {
			slog.Warn("Unable to shutdown OTEL logger provider", config.ErrAttr(err))
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
