package service

import (
	"context"

	"ipvault/internal/ipam/models"
	"ipvault/pkg/apierrors"
)

// AuditLog returns one page of inventory events, newest first, each with its
// referenced address embedded. Access control lives at the gateway; this
// service trusts its callers.
func (s *Service) AuditLog(ctx context.Context, limit, offset int) (*models.AuditLogPage, error) {
	events, total, err := s.events.List(ctx, limit, offset)
	if err != nil {
		return nil, apierrors.Wrap(err, apierrors.CodeInternal, "list ip events")
	}

	if err := s.embedAddresses(ctx, events); err != nil {
		return nil, err
	}
	return &models.AuditLogPage{Events: events, TotalCount: total}, nil
}

// embedAddresses resolves each event's address in one batched lookup.
func (s *Service) embedAddresses(ctx context.Context, events []*models.IPEvent) error {
	if len(events) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(events))
	for _, ev := range events {
		ids = append(ids, ev.IPAddressID)
	}
	addrs, err := s.addresses.ListByIDs(ctx, ids)
	if err != nil {
		return apierrors.Wrap(err, apierrors.CodeInternal, "resolve event addresses")
	}

	byID := make(map[int64]*models.IPAddress, len(addrs))
	for _, addr := range addrs {
		byID[addr.ID] = addr
	}
	for _, ev := range events {
		ev.IP = byID[ev.IPAddressID]
	}
	return nil
}
