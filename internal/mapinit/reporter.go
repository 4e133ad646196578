package mapinit

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/ssherwood/clinicmap/internal/config"
)

// Reporter receives diagnostic failures. Reports never reach the end user.
type Reporter interface {
	Report(ctx context.Context, err error)
}

type LogReporter struct {
	Logger *slog.Logger
}

func (r LogReporter) Report(ctx context.Context, err error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	attrs := []any{config.SlogServiceName, config.ErrAttr(err)}

	var containerErr *MissingContainerError
	var geocodeErr *GeocodeResolutionError
	switch {
	case errors.As(err, &containerErr):
		attrs = append(attrs, slog.String("container", containerErr.ContainerID))
		logger.ErrorContext(ctx, "Map initialization aborted", attrs...)
	case errors.As(err, &geocodeErr):
		attrs = append(attrs, slog.String("address", geocodeErr.Address), slog.String("status", geocodeErr.Status))
		logger.ErrorContext(ctx, "Geocode failed", attrs...)
	default:
		logger.ErrorContext(ctx, "Map initialization error", attrs...)
	}
}

// RecordingReporter keeps every report; safe for concurrent use.
type RecordingReporter struct {
	mu      sync.Mutex
	reports []error
}

func (r *RecordingReporter) Report(_ context.Context, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, err)
}

func (r *RecordingReporter) Reports() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.reports...)
}

type multiReporter []Reporter

func (m multiReporter) Report(ctx context.Context, err error) {
	for _, r := range m {
		r.Report(ctx, err)
	}
}

// MultiReporter fans a report out to every reporter in order.
func MultiReporter(reporters ...Reporter) Reporter {
	return multiReporter(reporters)
}
