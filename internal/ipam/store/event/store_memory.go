// Package event persists the inventory audit trail: an append-only event
// log and the immutable event-type catalog it references.
package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ipvault/internal/ipam/models"
	"ipvault/internal/sentinel"
)

// InMemoryStore keeps inventory events in memory.
type InMemoryStore struct {
	mu         sync.RWMutex
	nextID     int64
	nextTypeID int64
	types      map[string]*models.IPEventType
	events     []*models.IPEvent
}

// NewInMemory constructs an empty in-memory event store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		nextID:     1,
		nextTypeID: 1,
		types:      make(map[string]*models.IPEventType),
	}
}

// SeedTypes inserts the catalog names that are not present yet.
func (s *InMemoryStore) SeedTypes(_ context.Context, names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range names {
		if _, ok := s.types[name]; ok {
			continue
		}
		s.types[name] = &models.IPEventType{ID: s.nextTypeID, Name: name}
		s.nextTypeID++
	}
	return nil
}

// FindTypeByName resolves a catalog entry.
func (s *InMemoryStore) FindTypeByName(_ context.Context, name string) (*models.IPEventType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.types[name]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, fmt.Errorf("event type %q not found: %w", name, sentinel.ErrNotFound)
}

// Append records one immutable event row, stamping id and recorded_at.
func (s *InMemoryStore) Append(_ context.Context, ev *models.IPEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev.ID = s.nextID
	s.nextID++
	ev.RecordedAt = time.Now().UTC()

	stored := *ev
	stored.IP = nil
	s.events = append(s.events, &stored)
	return nil
}

// List returns one page of events, newest first, plus the total count.
// Embedded addresses are resolved by the service layer.
func (s *InMemoryStore) List(_ context.Context, limit, offset int) ([]*models.IPEvent, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.events)
	page := make([]*models.IPEvent, 0, limit)
	for i := total - 1 - offset; i >= 0 && len(page) < limit; i-- {
		copied := *s.events[i]
		page = append(page, &copied)
	}
	return page, total, nil
}
