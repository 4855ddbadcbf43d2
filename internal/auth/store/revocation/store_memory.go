// Package revocation implements the append-only token revocation ledger.
// Insertion is idempotent: revoking an already-revoked token succeeds, so
// concurrent logouts with the same pair never surface an error.
package revocation

import (
	"context"
	"sync"
)

// InMemoryStore tracks revoked token strings in memory.
type InMemoryStore struct {
	mu      sync.RWMutex
	revoked map[string]struct{}
}

// NewInMemory constructs an empty in-memory revocation ledger.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{revoked: make(map[string]struct{})}
}

// Revoke adds a token string to the ledger. Re-revoking is a no-op.
func (s *InMemoryStore) Revoke(_ context.Context, tokenString string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenString] = struct{}{}
	return nil
}

// IsRevoked reports ledger membership.
func (s *InMemoryStore) IsRevoked(_ context.Context, tokenString string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.revoked[tokenString]
	return ok, nil
}
