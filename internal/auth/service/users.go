package service

import (
	"context"

	"ipvault/internal/auth/models"
	"ipvault/pkg/apierrors"
)

// Users resolves a batch of user IDs for authenticated callers. Unknown IDs
// are silently omitted; the result is deduplicated and ordered by ID.
func (s *Service) Users(ctx context.Context, accessToken string, ids []int64) (*models.UserList, error) {
	if _, err := s.ValidateAccess(ctx, accessToken); err != nil {
		return nil, err
	}

	users, err := s.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, apierrors.Wrap(err, apierrors.CodeInternal, "list users")
	}
	return &models.UserList{Users: users}, nil
}
