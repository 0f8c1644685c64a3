package alert

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"rdc30/pkg/platform/sentinel"
)

// InMemoryStore holds derived alerts.
type InMemoryStore struct {
	mu     sync.RWMutex
	alerts []Alert
	nowFn  func() time.Time
}

type Option func(*InMemoryStore)

// WithClock injects a clock, mainly for tests.
func WithClock(nowFn func() time.Time) Option {
	return func(s *InMemoryStore) { s.nowFn = nowFn }
}

func NewInMemoryStore(opts ...Option) *InMemoryStore {
	s := &InMemoryStore{nowFn: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create records a new alert in the OPEN state. A pre-set CreatedAt is kept
// so seeding can backfill history.
func (s *InMemoryStore) Create(_ context.Context, a Alert) (Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.State = StateOpen
	a.AcknowledgedBy = ""
	a.AcknowledgedAt = nil
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.nowFn()
	}
	s.alerts = append(s.alerts, a)
	return a, nil
}

// List returns alerts matching the filter, newest first.
func (s *InMemoryStore) List(_ context.Context, filter Filter) ([]Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]Alert, 0, len(s.alerts))
	for _, a := range s.alerts {
		if filter.Type != "" && a.Type != filter.Type {
			continue
		}
		if filter.State != "" && a.State != filter.State {
			continue
		}
		if filter.ResourceType != "" && a.ResourceType != filter.ResourceType {
			continue
		}
		if filter.ResourceID != "" && a.ResourceID != filter.ResourceID {
			continue
		}
		results = append(results, a)
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	return results, nil
}

func (s *InMemoryStore) GetByID(_ context.Context, id string) (Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexByID(id); i >= 0 {
		return s.alerts[i], nil
	}
	return Alert{}, sentinel.ErrNotFound
}

// GetOpenCount counts unacknowledged alerts.
func (s *InMemoryStore) GetOpenCount(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, a := range s.alerts {
		if a.State == StateOpen {
			count++
		}
	}
	return count, nil
}

// Acknowledge moves an alert OPEN → ACK, stamping who and when. ACK is
// terminal: acknowledging again returns ErrInvalidState so the original ack
// attribution is never overwritten.
func (s *InMemoryStore) Acknowledge(_ context.Context, id, userID string) (Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexByID(id)
	if i < 0 {
		return Alert{}, sentinel.ErrNotFound
	}
	if s.alerts[i].State == StateAck {
		return Alert{}, fmt.Errorf("alert %s already acknowledged: %w", id, sentinel.ErrInvalidState)
	}
	now := s.nowFn()
	s.alerts[i].State = StateAck
	s.alerts[i].AcknowledgedBy = userID
	s.alerts[i].AcknowledgedAt = &now
	return s.alerts[i], nil
}

// Reset discards all records.
func (s *InMemoryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = nil
}

func (s *InMemoryStore) indexByID(id string) int {
	for i := range s.alerts {
		if s.alerts[i].ID == id {
			return i
		}
	}
	return -1
}
