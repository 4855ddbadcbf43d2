package service

import (
	"context"
	"errors"

	"ipvault/internal/ipam/audit"
	"ipvault/internal/ipam/models"
	"ipvault/internal/sentinel"
	"ipvault/pkg/apierrors"
)

// Update applies a partial update to an entry. The changed-field set picks
// the audit event type: changing address and comment together records one
// ip_address_modified_ip_comment event whose diff maps hold exactly those
// two fields. An update that changes nothing commits nothing and records no
// event.
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateIPRequest, updaterID int64) (*models.IPAddress, error) {
	addr, err := s.addresses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, apierrors.Wrap(err, apierrors.CodeNonexistentIP, "ip address not found")
		}
		return nil, apierrors.Wrap(err, apierrors.CodeInternal, "find ip address")
	}

	before := audit.Capture(addr)
	if req.Address != nil {
		addr.Address = *req.Address
	}
	if req.Label != nil {
		addr.Label = *req.Label
	}
	if req.Comment != nil {
		addr.Comment = req.Comment
	}

	diff := audit.Compute(before, addr)
	if !diff.Changed() {
		return addr, nil
	}

	if err := s.addresses.Update(ctx, addr); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			s.incLabelConflicts()
			return nil, apierrors.Wrap(err, apierrors.CodeUnavailableLabel, "label unavailable")
		}
		return nil, apierrors.Wrap(err, apierrors.CodeInternal, "update ip address")
	}

	s.recordEvent(ctx, diff, &updaterID, addr.ID)
	if s.metrics != nil {
		s.metrics.AddressesUpdated.Inc()
	}
	return addr, nil
}
