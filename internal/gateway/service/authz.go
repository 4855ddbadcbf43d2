package service

import (
	"context"
	"errors"

	"ipvault/internal/auth/token"
	"ipvault/internal/gateway/client"
	"ipvault/internal/ipam/models"
	"ipvault/pkg/apierrors"
)

// authorizeMutation enforces the edit rules for one inventory entry:
// existence first (404 beats 403, so probing cannot distinguish "exists but
// not yours" from "does not exist" by the cheaper check), then recorder or
// superuser.
func (s *Service) authorizeMutation(ctx context.Context, id int64, sub *token.Subject) (*models.IPAddress, error) {
	addr, err := s.inventory.Get(ctx, id)
	if err != nil {
		var upstream *client.UpstreamError
		if !errors.As(err, &upstream) {
			s.countUpstreamFailure("inventory")
		}
		return nil, err
	}
	if addr == nil {
		return nil, apierrors.New(apierrors.CodeNonexistentIP, "ip address not found")
	}

	if addr.RecorderID != sub.ID && !sub.IsSuperuser {
		if s.metrics != nil {
			s.metrics.AuthzDenials.Inc()
		}
		return nil, apierrors.New(apierrors.CodeForbiddenAction, "not the recorder and not a superuser")
	}
	return addr, nil
}
