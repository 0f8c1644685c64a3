package job

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"rdc30/pkg/platform/sentinel"
)

// InMemoryStore is the job tracker.
type InMemoryStore struct {
	mu    sync.RWMutex
	jobs  []Job
	nowFn func() time.Time
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

// Create enqueues a new job. Status always starts at QUEUED.
func (s *InMemoryStore) Create(_ context.Context, j Job) (Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	if s.indexByID(j.ID) >= 0 {
		return Job{}, sentinel.ErrConflict
	}
	j.Status = StatusQueued
	if j.CreatedAt.IsZero() {
		j.CreatedAt = s.nowFn()
	}
	j.CompletedAt = nil
	s.jobs = append(s.jobs, j)
	return j, nil
}

// List returns jobs matching the filter, newest first.
func (s *InMemoryStore) List(_ context.Context, filter Filter) ([]Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		if filter.Type != "" && j.Type != filter.Type {
			continue
		}
		if filter.Status != "" && j.Status != filter.Status {
			continue
		}
		if filter.CreatedBy != "" && j.CreatedBy != filter.CreatedBy {
			continue
		}
		results = append(results, j)
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	return results, nil
}

func (s *InMemoryStore) GetByID(_ context.Context, id string) (Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexByID(id); i >= 0 {
		return s.jobs[i], nil
	}
	return Job{}, sentinel.ErrNotFound
}

// StatusUpdate carries the optional fields of a status transition.
type StatusUpdate struct {
	ErrorMessage     string
	RecordsProcessed int
}

// UpdateStatus moves a job through its state machine. Terminal states stamp
// CompletedAt; illegal moves return ErrInvalidState.
func (s *InMemoryStore) UpdateStatus(_ context.Context, id string, next Status, opts StatusUpdate) (Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexByID(id)
	if i < 0 {
		return Job{}, sentinel.ErrNotFound
	}
	if !s.jobs[i].Status.CanTransitionTo(next) {
		return Job{}, fmt.Errorf("job %s cannot move %s -> %s: %w", id, s.jobs[i].Status, next, sentinel.ErrInvalidState)
	}
	s.jobs[i].Status = next
	if next.IsTerminal() {
		now := s.nowFn()
		s.jobs[i].CompletedAt = &now
	}
	if opts.ErrorMessage != "" {
		s.jobs[i].ErrorMessage = opts.ErrorMessage
	}
	if opts.RecordsProcessed > 0 {
		s.jobs[i].RecordsProcessed = opts.RecordsProcessed
	}
	return s.jobs[i], nil
}

// Reset discards all records.
func (s *InMemoryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = nil
}

func (s *InMemoryStore) indexByID(id string) int {
	for i := range s.jobs {
		if s.jobs[i].ID == id {
			return i
		}
	}
	return -1
}
