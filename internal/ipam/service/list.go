package service

import (
	"context"
	"errors"

	"ipvault/internal/ipam/models"
	"ipvault/internal/sentinel"
	"ipvault/pkg/apierrors"
)

// List returns one page of non-deleted entries ordered by id.
func (s *Service) List(ctx context.Context, limit, offset int) (*models.IPList, error) {
	addrs, total, err := s.addresses.List(ctx, limit, offset)
	if err != nil {
		return nil, apierrors.Wrap(err, apierrors.CodeInternal, "list ip addresses")
	}
	return &models.IPList{Addresses: addrs, TotalCount: total}, nil
}

// Get fetches one entry by id, deleted or not. The gateway uses it for its
// existence and ownership checks.
func (s *Service) Get(ctx context.Context, id int64) (*models.IPAddress, error) {
	addr, err := s.addresses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, apierrors.Wrap(err, apierrors.CodeNonexistentIP, "ip address not found")
		}
		return nil, apierrors.Wrap(err, apierrors.CodeInternal, "find ip address")
	}
	return addr, nil
}
