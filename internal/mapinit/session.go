package mapinit

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/ssherwood/clinicmap/internal/mapview"
)

type Resolution struct {
	Address  string         `json:"address"`
	Location mapview.LatLng `json:"location"`
	MarkerID uuid.UUID      `json:"markerId"`
}

// Session is a mounted map and the state of its pending geocode requests.
type Session struct {
	View      *mapview.MapView
	Container Element

	done     chan struct{}
	mu       sync.Mutex
	resolved []Resolution
}

func newSession(view *mapview.MapView, container Element) *Session {
	return &Session{View: view, Container: container, done: make(chan struct{})}
}

// Done is closed once every configured address has been applied or reported.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) Pending() bool {
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// Resolved lists successful resolutions in the order they were applied to the view.
func (s *Session) Resolved() []Resolution {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Resolution(nil), s.resolved...)
}

func (s *Session) record(r Resolution) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolved = append(s.resolved, r)
}
