// Package service implements the auth domain operations: registration,
// login, logout, token refresh rotation, access-token validation, user
// lookup, and the user audit log.
package service

import (
	"context"
	"log/slog"

	"ipvault/internal/auth/metrics"
	"ipvault/internal/auth/models"
	"ipvault/internal/auth/token"
	"ipvault/internal/platform/database"
)

// UserStore defines the persistence interface for user identities.
// Error Contract: Find methods return sentinel.ErrNotFound (wrapped) when the
// user does not exist; Create returns sentinel.ErrConflict on a taken username.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	ListByIDs(ctx context.Context, ids []int64) ([]*models.User, error)
}

// RevocationStore is the append-only revocation ledger. Revoke is idempotent.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenString string) error
	IsRevoked(ctx context.Context, tokenString string) (bool, error)
}

// EventStore persists the user audit trail and its event-type catalog.
type EventStore interface {
	SeedTypes(ctx context.Context, names []string) error
	FindTypeByName(ctx context.Context, name string) (*models.UserEventType, error)
	Append(ctx context.Context, ev *models.UserEvent) error
	List(ctx context.Context, limit, offset int) ([]*models.UserEvent, int, error)
}

// Tokens is the slice of the token service the auth flows need.
type Tokens interface {
	IssuePair(sub token.Subject) (token.Pair, error)
	Validate(ctx context.Context, raw string, required token.Type) (*token.Claims, error)
	IsWellFormed(raw string) bool
}

// Service composes the credential store, the token primitives, the
// revocation ledger, and the audit recorder.
type Service struct {
	users       UserStore
	revocations RevocationStore
	events      EventStore
	tokens      Tokens
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

// Option customizes a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs the auth service.
func New(users UserStore, revocations RevocationStore, events EventStore, tokens Tokens, opts ...Option) *Service {
	svc := &Service{
		users:       users,
		revocations: revocations,
		events:      events,
		tokens:      tokens,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	return svc
}

// recordEvent writes one audit row after the triggering mutation has
// committed. A missing catalog entry is an operational misconfiguration: it
// is logged and counted but never fails the caller's request.
func (s *Service) recordEvent(ctx context.Context, name string, triggerUserID *int64, userID int64, oldData, newData database.JSONMap) {
	eventType, err := s.events.FindTypeByName(ctx, name)
	if err != nil {
		s.logger.WarnContext(ctx, "user event type missing from catalog, skipping audit event",
			"event_type", name,
			"error", err,
		)
		s.incAuditDrops()
		return
	}

	ev := &models.UserEvent{
		TriggerUserID: triggerUserID,
		UserID:        userID,
		EventTypeID:   eventType.ID,
		EventType:     eventType.Name,
		OldData:       oldData,
		NewData:       newData,
	}
	if err := s.events.Append(ctx, ev); err != nil {
		s.logger.ErrorContext(ctx, "failed to append user audit event",
			"event_type", name,
			"user_id", userID,
			"error", err,
		)
	}
}

func (s *Service) incAuditDrops() {
	if s.metrics != nil {
		s.metrics.AuditEventDrops.Inc()
	}
}
