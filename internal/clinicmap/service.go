package clinicmap

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/ssherwood/clinicmap/internal/mapinit"
	"github.com/ssherwood/clinicmap/internal/mapview"
)

var (
	ErrNotInitialized = errors.New("map is not initialized")
	ErrMarkerNotFound = errors.New("marker not found")
)

type Service struct {
	initializer *mapinit.Initializer

	mu      sync.RWMutex
	session *mapinit.Session
}

func NewService(initializer *mapinit.Initializer) *Service {
	return &Service{initializer: initializer}
}

// Init mounts the map. It returns ErrNotInitialized when the initializer aborted;
// the cause has already gone to the initializer's Reporter.
func (s *Service) Init(ctx context.Context) (*mapinit.Session, error) {
	session := s.initializer.Init(ctx)
	if session == nil {
		return nil, ErrNotInitialized
	}

	s.mu.Lock()
	s.session = session
	s.mu.Unlock()

	return session, nil
}

func (s *Service) Session() (*mapinit.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil, ErrNotInitialized
	}
	return s.session, nil
}

func (s *Service) Snapshot(_ context.Context) (*mapview.Snapshot, error) {
	session, err := s.Session()
	if err != nil {
		return nil, err
	}
	snapshot := session.View.Snapshot()
	return &snapshot, nil
}

func (s *Service) Markers(_ context.Context) ([]mapview.Marker, error) {
	session, err := s.Session()
	if err != nil {
		return nil, err
	}
	return session.View.Markers(), nil
}

func (s *Service) MarkerByID(ctx context.Context, id uuid.UUID) (*mapview.Marker, error) {
	markers, err := s.Markers(ctx)
	if err != nil {
		return nil, err
	}
	for _, marker := range markers {
		if marker.ID == id {
			return &marker, nil
		}
	}
	return nil, ErrMarkerNotFound
}

func (s *Service) Styles(_ context.Context) ([]mapview.StyleRule, error) {
	session, err := s.Session()
	if err != nil {
		return nil, err
	}
	return session.View.Styles(), nil
}

type GeocodeStatus struct {
	Pending  bool                 `json:"pending"`
	Resolved []mapinit.Resolution `json:"resolved"`
}

func (s *Service) GeocodeStatus(_ context.Context) (*GeocodeStatus, error) {
	session, err := s.Session()
	if err != nil {
		return nil, err
	}
	resolved := session.Resolved()
	if resolved == nil {
		resolved = []mapinit.Resolution{}
	}
	return &GeocodeStatus{Pending: session.Pending(), Resolved: resolved}, nil
}
