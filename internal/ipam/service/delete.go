package service

import (
	"context"
	"errors"

	"ipvault/internal/ipam/audit"
	"ipvault/internal/sentinel"
	"ipvault/pkg/apierrors"
)

// Delete marks an entry deleted. The row and its label stay behind so
// historical audit events remain resolvable.
func (s *Service) Delete(ctx context.Context, id, deleterID int64) error {
	addr, err := s.addresses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return apierrors.Wrap(err, apierrors.CodeNonexistentIP, "ip address not found")
		}
		return apierrors.Wrap(err, apierrors.CodeInternal, "find ip address")
	}

	addr.IsDeleted = true
	if err := s.addresses.Update(ctx, addr); err != nil {
		return apierrors.Wrap(err, apierrors.CodeInternal, "delete ip address")
	}

	s.recordEvent(ctx, audit.Deleted(), &deleterID, addr.ID)
	if s.metrics != nil {
		s.metrics.AddressesDeleted.Inc()
	}
	return nil
}
