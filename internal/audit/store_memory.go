package audit

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"rdc30/pkg/platform/sentinel"
)

// InMemoryStore is the append-only audit trail. There is deliberately no
// update or delete operation on this store.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []Event
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

// Append records an event with a server-assigned id and timestamp. A
// pre-set At is kept so seeding can backfill history; live callers leave it
// zero.
func (s *InMemoryStore) Append(_ context.Context, e Event) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.At.IsZero() {
		e.At = s.nowFn()
	}
	s.events = append(s.events, e)
	return e, nil
}

// List returns events matching the filter, most recent first.
func (s *InMemoryStore) List(_ context.Context, filter Filter) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]Event, 0, len(s.events))
	for _, e := range s.events {
		if filter.ActorUserID != "" && e.ActorUserID != filter.ActorUserID {
			continue
		}
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		if filter.ResourceType != "" && e.ResourceType != filter.ResourceType {
			continue
		}
		if filter.ResourceID != "" && e.ResourceID != filter.ResourceID {
			continue
		}
		if !filter.From.IsZero() && e.At.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && e.At.After(filter.To) {
			continue
		}
		results = append(results, e)
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].At.After(results[j].At) })
	return results, nil
}

func (s *InMemoryStore) GetByID(_ context.Context, id string) (Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.events {
		if e.ID == id {
			return e, nil
		}
	}
	return Event{}, sentinel.ErrNotFound
}

// GetByResource is a convenience exact filter over one resource's history.
func (s *InMemoryStore) GetByResource(ctx context.Context, resourceType ResourceType, resourceID string) ([]Event, error) {
	return s.List(ctx, Filter{ResourceType: resourceType, ResourceID: resourceID})
}

// Reset discards all records.
func (s *InMemoryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}
