package widget

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"rdc30/pkg/platform/sentinel"
)

// TermsChecker answers whether a terms version id is currently published.
// The terms catalog satisfies this; accepting the narrow interface keeps the
// widget store decoupled from the catalog's full surface.
type TermsChecker interface {
	IsPublished(ctx context.Context, tcVersionID string) bool
}

// InMemoryStore is the widget catalog.
type InMemoryStore struct {
	mu      sync.RWMutex
	widgets []Widget
	terms   TermsChecker
	nowFn   func() time.Time
}

type Option func(*InMemoryStore)

func WithClock(nowFn func() time.Time) Option {
	return func(s *InMemoryStore) { s.nowFn = nowFn }
}

func NewInMemoryStore(terms TermsChecker, opts ...Option) *InMemoryStore {
	s := &InMemoryStore{terms: terms, nowFn: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns widgets matching the filter, newest first.
func (s *InMemoryStore) List(_ context.Context, filter Filter) ([]Widget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]Widget, 0, len(s.widgets))
	for _, w := range s.widgets {
		if filter.ProductID != "" && w.ProductID != filter.ProductID {
			continue
		}
		if filter.IsActive != nil && w.IsActive != *filter.IsActive {
			continue
		}
		results = append(results, w)
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	return results, nil
}

func (s *InMemoryStore) GetByID(_ context.Context, id string) (Widget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexByID(id); i >= 0 {
		return s.widgets[i], nil
	}
	return Widget{}, sentinel.ErrNotFound
}

// Create stores a new widget. The referenced terms version must be published.
// A pre-set CreatedAt is kept so seeding can backfill history.
func (s *InMemoryStore) Create(ctx context.Context, w Widget) (Widget, error) {
	if !s.terms.IsPublished(ctx, w.ActiveTcVersionID) {
		return Widget{}, fmt.Errorf("widget %s references unpublished terms %s: %w", w.Name, w.ActiveTcVersionID, sentinel.ErrConflict)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if s.indexByID(w.ID) >= 0 {
		return Widget{}, sentinel.ErrConflict
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = s.nowFn()
	}
	w.UpdatedAt = nil
	s.widgets = append(s.widgets, w)
	return w, nil
}

// Update applies patch and re-stamps UpdatedAt. A patch that points the
// widget at an unpublished terms version is rejected and rolled back.
func (s *InMemoryStore) Update(ctx context.Context, id string, patch func(*Widget)) (Widget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexByID(id)
	if i < 0 {
		return Widget{}, sentinel.ErrNotFound
	}
	prev := s.widgets[i]
	patch(&s.widgets[i])
	if attempted := s.widgets[i].ActiveTcVersionID; attempted != prev.ActiveTcVersionID && !s.terms.IsPublished(ctx, attempted) {
		s.widgets[i] = prev
		return Widget{}, fmt.Errorf("widget %s references unpublished terms %s: %w", id, attempted, sentinel.ErrConflict)
	}
	now := s.nowFn()
	s.widgets[i].UpdatedAt = &now
	return s.widgets[i], nil
}

// Reset discards all records.
func (s *InMemoryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.widgets = nil
}

func (s *InMemoryStore) indexByID(id string) int {
	for i := range s.widgets {
		if s.widgets[i].ID == id {
			return i
		}
	}
	return -1
}
