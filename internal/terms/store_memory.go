package terms

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"rdc30/pkg/platform/sentinel"
)

// InMemoryStore is the terms catalog: one mutex, insertion-ordered slice.
type InMemoryStore struct {
	mu       sync.RWMutex
	versions []Version
	nowFn    func() time.Time
}

// Option configures an InMemoryStore.
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

// List returns versions matching the filter, newest first.
func (s *InMemoryStore) List(_ context.Context, filter Filter) ([]Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]Version, 0, len(s.versions))
	for _, v := range s.versions {
		if filter.ProductID != "" && v.ProductID != filter.ProductID {
			continue
		}
		if filter.Status != "" && v.Status != filter.Status {
			continue
		}
		results = append(results, v)
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	return results, nil
}

func (s *InMemoryStore) GetByID(_ context.Context, id string) (Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexByID(id); i >= 0 {
		return s.versions[i], nil
	}
	return Version{}, sentinel.ErrNotFound
}

// GetPublishedByProduct returns the unique published version for a product,
// or ErrNotFound when the product has none.
func (s *InMemoryStore) GetPublishedByProduct(_ context.Context, productID string) (Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.versions {
		if v.ProductID == productID && v.Status == StatusPublished {
			return v, nil
		}
	}
	return Version{}, sentinel.ErrNotFound
}

// Create stores a new version as DRAFT. Use Publish to make it live. A
// pre-set CreatedAt is kept so seeding can backfill history.
func (s *InMemoryStore) Create(_ context.Context, v Version) (Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if s.indexByID(v.ID) >= 0 {
		return Version{}, sentinel.ErrConflict
	}
	v.Status = StatusDraft
	v.PublishedAt = nil
	if v.CreatedAt.IsZero() {
		v.CreatedAt = s.nowFn()
	}
	s.versions = append(s.versions, v)
	return v, nil
}

// Update applies patch to the stored version and re-stamps UpdatedAt.
// Status changes must go through Publish and are reverted here.
func (s *InMemoryStore) Update(_ context.Context, id string, patch func(*Version)) (Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexByID(id)
	if i < 0 {
		return Version{}, sentinel.ErrNotFound
	}
	prevStatus := s.versions[i].Status
	prevPublishedAt := s.versions[i].PublishedAt
	patch(&s.versions[i])
	s.versions[i].Status = prevStatus
	s.versions[i].PublishedAt = prevPublishedAt
	now := s.nowFn()
	s.versions[i].UpdatedAt = &now
	return s.versions[i], nil
}

// Publish transitions a version to PUBLISHED, demoting any prior published
// version of the same product to DRAFT in the same critical section. This
// keeps the single-published-per-product invariant without relying on caller
// discipline. Publishing an already-published version returns ErrInvalidState.
func (s *InMemoryStore) Publish(_ context.Context, id string) (Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexByID(id)
	if i < 0 {
		return Version{}, sentinel.ErrNotFound
	}
	if s.versions[i].Status == StatusPublished {
		return Version{}, sentinel.ErrInvalidState
	}
	now := s.nowFn()
	for j := range s.versions {
		if j != i && s.versions[j].ProductID == s.versions[i].ProductID && s.versions[j].Status == StatusPublished {
			s.versions[j].Status = StatusDraft
			s.versions[j].UpdatedAt = &now
		}
	}
	s.versions[i].Status = StatusPublished
	s.versions[i].PublishedAt = &now
	s.versions[i].UpdatedAt = &now
	return s.versions[i], nil
}

// Products returns the distinct product ids present in the catalog, in
// first-seen order.
func (s *InMemoryStore) Products(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	var products []string
	for _, v := range s.versions {
		if !seen[v.ProductID] {
			seen[v.ProductID] = true
			products = append(products, v.ProductID)
		}
	}
	return products, nil
}

// IsPublished reports whether id references a currently published version.
// The widget catalog uses this as its reference check.
func (s *InMemoryStore) IsPublished(_ context.Context, id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexByID(id)
	return i >= 0 && s.versions[i].Status == StatusPublished
}

// Reset discards all records.
func (s *InMemoryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.versions = nil
}

func (s *InMemoryStore) indexByID(id string) int {
	for i := range s.versions {
		if s.versions[i].ID == id {
			return i
		}
	}
	return -1
}
