package service

import (
	"context"
	"errors"

	"ipvault/internal/ipam/audit"
	"ipvault/internal/ipam/models"
	"ipvault/internal/sentinel"
	"ipvault/pkg/apierrors"
)

// Add creates one inventory entry attributed to recorderID and records an
// added event after the insert commits.
func (s *Service) Add(ctx context.Context, req *models.AddIPRequest, recorderID int64) (*models.IPAddress, error) {
	addr := &models.IPAddress{
		Address:    req.Address,
		Label:      req.Label,
		Comment:    req.Comment,
		RecorderID: recorderID,
	}
	if err := s.addresses.Create(ctx, addr); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			s.incLabelConflicts()
			return nil, apierrors.Wrap(err, apierrors.CodeUnavailableLabel, "label unavailable")
		}
		return nil, apierrors.Wrap(err, apierrors.CodeInternal, "create ip address")
	}

	s.recordEvent(ctx, audit.Added(addr), &recorderID, addr.ID)
	if s.metrics != nil {
		s.metrics.AddressesAdded.Inc()
	}
	return addr, nil
}

func (s *Service) incLabelConflicts() {
	if s.metrics != nil {
		s.metrics.LabelConflicts.Inc()
	}
}
