// Package address persists inventoried IP addresses. Labels are unique
// across all rows, deleted ones included, so historical events stay
// resolvable.
package address

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ipvault/internal/ipam/models"
	"ipvault/internal/sentinel"
)

// InMemoryStore keeps addresses in memory.
type InMemoryStore struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]*models.IPAddress
	byLabel map[string]int64
}

// NewInMemory constructs an empty in-memory address store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		nextID:  1,
		byID:    make(map[int64]*models.IPAddress),
		byLabel: make(map[string]int64),
	}
}

// Create inserts an entry, stamping id and created_at. A taken label
// returns sentinel.ErrConflict.
func (s *InMemoryStore) Create(_ context.Context, addr *models.IPAddress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byLabel[addr.Label]; taken {
		return fmt.Errorf("label %q taken: %w", addr.Label, sentinel.ErrConflict)
	}

	addr.ID = s.nextID
	s.nextID++
	addr.CreatedAt = time.Now().UTC()

	stored := *addr
	s.byID[stored.ID] = &stored
	s.byLabel[stored.Label] = stored.ID
	return nil
}

// FindByID returns an entry regardless of its deletion flag.
func (s *InMemoryStore) FindByID(_ context.Context, id int64) (*models.IPAddress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	addr, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("ip address %d: %w", id, sentinel.ErrNotFound)
	}
	copied := *addr
	return &copied, nil
}

// Update persists the entry's current field values. A label taken by a
// different entry returns sentinel.ErrConflict.
func (s *InMemoryStore) Update(_ context.Context, addr *models.IPAddress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.byID[addr.ID]
	if !ok {
		return fmt.Errorf("ip address %d: %w", addr.ID, sentinel.ErrNotFound)
	}
	if owner, taken := s.byLabel[addr.Label]; taken && owner != addr.ID {
		return fmt.Errorf("label %q taken: %w", addr.Label, sentinel.ErrConflict)
	}

	delete(s.byLabel, current.Label)
	stored := *addr
	s.byID[stored.ID] = &stored
	s.byLabel[stored.Label] = stored.ID
	return nil
}

// List returns one page of non-deleted entries ordered by id, plus the
// total non-deleted count.
func (s *InMemoryStore) List(_ context.Context, limit, offset int) ([]*models.IPAddress, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	live := make([]*models.IPAddress, 0, len(s.byID))
	for id := int64(1); id < s.nextID; id++ {
		if addr, ok := s.byID[id]; ok && !addr.IsDeleted {
			live = append(live, addr)
		}
	}

	total := len(live)
	page := make([]*models.IPAddress, 0, limit)
	for i := offset; i < total && len(page) < limit; i++ {
		copied := *live[i]
		page = append(page, &copied)
	}
	return page, total, nil
}

// ListByIDs resolves entries for audit-event embedding; unknown ids are
// skipped, deleted entries are included.
func (s *InMemoryStore) ListByIDs(_ context.Context, ids []int64) ([]*models.IPAddress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[int64]struct{}, len(ids))
	out := make([]*models.IPAddress, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if addr, ok := s.byID[id]; ok {
			copied := *addr
			out = append(out, &copied)
		}
	}
	return out, nil
}
