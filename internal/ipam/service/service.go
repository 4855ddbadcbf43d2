// Package service implements the IP inventory operations: add, partial
// update, logical delete, listing, and the inventory audit log.
package service

import (
	"context"
	"log/slog"

	"ipvault/internal/ipam/audit"
	"ipvault/internal/ipam/metrics"
	"ipvault/internal/ipam/models"
)

// AddressStore defines the persistence interface for inventory entries.
// Error contract: FindByID returns sentinel.ErrNotFound (wrapped) for
// unknown ids; Create and Update return sentinel.ErrConflict on a taken
// label.
type AddressStore interface {
	Create(ctx context.Context, addr *models.IPAddress) error
	FindByID(ctx context.Context, id int64) (*models.IPAddress, error)
	Update(ctx context.Context, addr *models.IPAddress) error
	List(ctx context.Context, limit, offset int) ([]*models.IPAddress, int, error)
	ListByIDs(ctx context.Context, ids []int64) ([]*models.IPAddress, error)
}

// EventStore persists the inventory audit trail and its event-type catalog.
type EventStore interface {
	SeedTypes(ctx context.Context, names []string) error
	FindTypeByName(ctx context.Context, name string) (*models.IPEventType, error)
	Append(ctx context.Context, ev *models.IPEvent) error
	List(ctx context.Context, limit, offset int) ([]*models.IPEvent, int, error)
}

// Service composes the address store with the audit recorder.
type Service struct {
	addresses AddressStore
	events    EventStore
	logger    *slog.Logger
	metrics   *metrics.Metrics
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

// New constructs the inventory service.
func New(addresses AddressStore, events EventStore, opts ...Option) *Service {
	svc := &Service{
		addresses: addresses,
		events:    events,
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
func (s *Service) recordEvent(ctx context.Context, diff audit.Diff, triggerUserID *int64, ipID int64) {
	eventType, err := s.events.FindTypeByName(ctx, diff.EventName)
	if err != nil {
		s.logger.WarnContext(ctx, "ip event type missing from catalog, skipping audit event",
			"event_type", diff.EventName,
			"error", err,
		)
		if s.metrics != nil {
			s.metrics.AuditEventDrops.Inc()
		}
		return
	}

	ev := &models.IPEvent{
		TriggerUserID: triggerUserID,
		IPAddressID:   ipID,
		EventTypeID:   eventType.ID,
		EventType:     eventType.Name,
		OldData:       diff.OldData,
		NewData:       diff.NewData,
	}
	if err := s.events.Append(ctx, ev); err != nil {
		s.logger.ErrorContext(ctx, "failed to append ip audit event",
			"event_type", diff.EventName,
			"ip_address_id", ipID,
			"error", err,
		)
	}
}
