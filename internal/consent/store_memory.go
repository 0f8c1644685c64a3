package consent

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"rdc30/pkg/platform/sentinel"
)

// InMemoryStore is the consent ledger. One mutex guards the slice; lifecycle
// state is derived from timestamps on every read, so a record that merely
// aged into expiration needs no write to report the right state.
type InMemoryStore struct {
	mu      sync.RWMutex
	records []Record
	seq     int
	nowFn   func() time.Time
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

// Create stores a new record, assigning the opaque id and the next
// zero-padded internal sequence number. State is derived from the supplied
// timestamps rather than trusted from the caller.
func (s *InMemoryStore) Create(_ context.Context, r Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if s.indexByID(r.ID) >= 0 {
		return Record{}, sentinel.ErrConflict
	}
	s.seq++
	r.IDInterno = fmt.Sprintf("INT-%08d", s.seq)
	r.State = r.StateAt(s.nowFn())
	r.Meta = maps.Clone(r.Meta)
	s.records = append(s.records, r)
	return r.withClonedMeta(), nil
}

// Update applies patch to the stored record. Identity, sequence and
// revocation fields are shielded from patches; use Revoke for the terminal
// transition.
func (s *InMemoryStore) Update(_ context.Context, id string, patch func(*Record)) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexByID(id)
	if i < 0 {
		return Record{}, sentinel.ErrNotFound
	}
	prevID := s.records[i].ID
	prevInterno := s.records[i].IDInterno
	prevRevokedAt := s.records[i].Timestamps.RevokedAt
	patch(&s.records[i])
	s.records[i].ID = prevID
	s.records[i].IDInterno = prevInterno
	s.records[i].Timestamps.RevokedAt = prevRevokedAt
	s.records[i].State = s.records[i].StateAt(s.nowFn())
	return s.records[i].withClonedMeta(), nil
}

// Revoke applies the terminal transition: stamps RevokedAt and the acting
// user. Revoking an absent record returns ErrNotFound; revoking an already
// revoked record returns ErrInvalidState so the first revocation instant is
// never overwritten.
func (s *InMemoryStore) Revoke(_ context.Context, id, revokedBy string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexByID(id)
	if i < 0 {
		return Record{}, sentinel.ErrNotFound
	}
	if s.records[i].Timestamps.RevokedAt != nil {
		return Record{}, fmt.Errorf("consent %s already revoked: %w", id, sentinel.ErrInvalidState)
	}
	now := s.nowFn()
	s.records[i].Timestamps.RevokedAt = &now
	s.records[i].LastUpdatedBy = revokedBy
	s.records[i].State = StateRevoked
	return s.records[i].withClonedMeta(), nil
}

// List returns records matching the filter, ordered by grant date descending
// with stable ties. State is derived against the current clock before
// filtering, so state filters and returned records agree.
func (s *InMemoryStore) List(_ context.Context, filter Filter) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.nowFn()
	results := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		r.State = r.StateAt(now)
		if !filter.matches(r) {
			continue
		}
		results = append(results, r.withClonedMeta())
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Timestamps.OtorgamientoFecha > results[j].Timestamps.OtorgamientoFecha
	})
	return results, nil
}

func (s *InMemoryStore) GetByID(_ context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexByID(id)
	if i < 0 {
		return Record{}, sentinel.ErrNotFound
	}
	r := s.records[i]
	r.State = r.StateAt(s.nowFn())
	return r.withClonedMeta(), nil
}

// GetByPersonRut returns every grant recorded for a person, in insertion
// order.
func (s *InMemoryStore) GetByPersonRut(_ context.Context, rut string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := s.nowFn()
	var results []Record
	for _, r := range s.records {
		if r.Person.Rut == rut {
			r.State = r.StateAt(now)
			results = append(results, r.withClonedMeta())
		}
	}
	return results, nil
}

// GetStats aggregates the full ledger under the same derivation rule List
// uses.
func (s *InMemoryStore) GetStats(_ context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StatsOf(s.records, s.nowFn()), nil
}

// Reset discards all records and restarts the internal sequence.
func (s *InMemoryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	s.seq = 0
}

// withClonedMeta detaches the returned record's meta map from the stored one,
// so the store stays the only writer.
func (r Record) withClonedMeta() Record {
	r.Meta = maps.Clone(r.Meta)
	return r
}

func (s *InMemoryStore) indexByID(id string) int {
	for i := range s.records {
		if s.records[i].ID == id {
			return i
		}
	}
	return -1
}
