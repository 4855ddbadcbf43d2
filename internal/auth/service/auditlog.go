package service

import (
	"context"

	"ipvault/internal/auth/models"
	"ipvault/pkg/apierrors"
)

// AuditLog returns one page of the user audit trail, newest first. Only
// superusers may read it.
func (s *Service) AuditLog(ctx context.Context, accessToken string, limit, offset int) (*models.AuditLogPage, error) {
	sub, err := s.ValidateAccess(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if !sub.IsSuperuser {
		return nil, apierrors.New(apierrors.CodeForbiddenAction, "audit log requires superuser")
	}

	events, total, err := s.events.List(ctx, limit, offset)
	if err != nil {
		return nil, apierrors.Wrap(err, apierrors.CodeInternal, "list user events")
	}
	return &models.AuditLogPage{Events: events, TotalCount: total}, nil
}
