package identity

import (
	"context"
	"sort"
	"sync"

	"rdc30/pkg/platform/sentinel"
)

// InMemoryStore holds user records behind a single mutex. Intentionally
// favors clarity over performance: the registry is small and read-mostly.
type InMemoryStore struct {
	mu    sync.RWMutex
	users []User
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Create(_ context.Context, user User) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == user.ID {
			return User{}, sentinel.ErrConflict
		}
	}
	s.users = append(s.users, user)
	return user, nil
}

// List returns users matching the filter, ordered by name.
func (s *InMemoryStore) List(_ context.Context, filter Filter) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]User, 0, len(s.users))
	for _, u := range s.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		results = append(results, u)
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return results, nil
}

func (s *InMemoryStore) GetByID(_ context.Context, id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, sentinel.ErrNotFound
}

// Update applies patch to the stored user and returns the result.
func (s *InMemoryStore) Update(_ context.Context, id string, patch func(*User)) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			patch(&s.users[i])
			return s.users[i], nil
		}
	}
	return User{}, sentinel.ErrNotFound
}

// Reset discards all records. Seeding uses this for an explicit lifecycle
// instead of package-level state.
func (s *InMemoryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = nil
}
