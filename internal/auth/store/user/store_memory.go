package user

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"ipvault/internal/auth/models"
	"ipvault/internal/sentinel"
)

// Error Contract:
// - Return sentinel.ErrNotFound (wrapped) when the requested user does not exist.
// - Return sentinel.ErrConflict (wrapped) when the username is already taken.
// - Return nil for successful operations.

// InMemoryStore keeps users in memory for tests and database-less runs.
type InMemoryStore struct {
	mu         sync.RWMutex
	nextID     int64
	users      map[int64]*models.User
	byUsername map[string]int64
}

// NewInMemory constructs an empty in-memory user store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		nextID:     1,
		users:      make(map[int64]*models.User),
		byUsername: make(map[string]int64),
	}
}

// Create inserts a new user, assigning its id. Username uniqueness is
// enforced here, mirroring the database constraint.
func (s *InMemoryStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byUsername[user.Username]; taken {
		return fmt.Errorf("username %q taken: %w", user.Username, sentinel.ErrConflict)
	}

	user.ID = s.nextID
	s.nextID++

	stored := *user
	s.users[user.ID] = &stored
	s.byUsername[user.Username] = user.ID
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, fmt.Errorf("user %d not found: %w", id, sentinel.ErrNotFound)
}

func (s *InMemoryStore) FindByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id, ok := s.byUsername[username]; ok {
		copied := *s.users[id]
		return &copied, nil
	}
	return nil, fmt.Errorf("user %q not found: %w", username, sentinel.ErrNotFound)
}

// ListByIDs returns the users whose ids are present, ordered by id. Missing
// ids are skipped rather than treated as errors, matching the batched lookup
// endpoint semantics.
func (s *InMemoryStore) ListByIDs(_ context.Context, ids []int64) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[int64]bool, len(ids))
	users := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if user, ok := s.users[id]; ok {
			copied := *user
			users = append(users, &copied)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}
