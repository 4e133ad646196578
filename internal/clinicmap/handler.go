package clinicmap

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/ssherwood/clinicmap/internal/config"
	"github.com/ssherwood/clinicmap/internal/page"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type Handler struct {
	service *Service
	page    *page.Page
}

func NewHandler(r *mux.Router, service *Service, p *page.Page) *Handler {
	handler := &Handler{service: service, page: p}
	r.HandleFunc("/", handler.GetPage).Methods("GET")
	r.HandleFunc("/healthz", handler.Health).Methods("GET")
	r.HandleFunc("/api/map", handler.GetMap).Methods("GET")
	r.HandleFunc("/api/map/markers", handler.GetMarkers).Methods("GET")
	r.HandleFunc("/api/map/markers/{id}", handler.GetMarker).Methods("GET")
	r.HandleFunc("/api/map/styles", handler.GetStyles).Methods("GET")
	r.HandleFunc("/api/map/geocodes", handler.GetGeocodeStatus).Methods("GET")
	return handler
}

func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	currentSpan := trace.SpanFromContext(ctx)
	currentSpan.AddEvent("GetPage")

	snapshot, err := h.service.Snapshot(ctx)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	data := page.ViewData{Title: config.ServiceName, BrowserAPIKey: config.GoogleMapsBrowserAPIKey, State: snapshot}
	if err := h.page.Render(&buf, data); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if _, err := h.service.Session(); err != nil {
		status = "degraded"
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}

func (h *Handler) GetMap(w http.ResponseWriter, r *http.Request) {
	trace.SpanFromContext(r.Context()).AddEvent("GetMap")

	snapshot, err := h.service.Snapshot(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (h *Handler) GetMarkers(w http.ResponseWriter, r *http.Request) {
	markers, err := h.service.Markers(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, markers)
}

func (h *Handler) GetMarker(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	currentSpan := trace.SpanFromContext(ctx)
	currentSpan.AddEvent("GetMarker")

	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		http.Error(w, "Invalid marker ID", http.StatusBadRequest)
		currentSpan.RecordError(err)
		currentSpan.SetStatus(codes.Error, err.Error())
		return
	}

	marker, err := h.service.MarkerByID(ctx, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, marker)
}

func (h *Handler) GetStyles(w http.ResponseWriter, r *http.Request) {
	styles, err := h.service.Styles(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, styles)
}

func (h *Handler) GetGeocodeStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.GeocodeStatus(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotInitialized):
		http.Error(w, "Map not available", http.StatusServiceUnavailable)
	case errors.Is(err, ErrMarkerNotFound):
		http.Error(w, "Marker not found", http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}

	currentSpan := trace.SpanFromContext(r.Context())
	currentSpan.RecordError(err)
	currentSpan.SetStatus(codes.Error, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
