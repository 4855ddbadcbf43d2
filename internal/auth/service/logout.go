package service

import (
	"context"

	"ipvault/internal/auth/models"
	"ipvault/internal/auth/token"
	"ipvault/pkg/apierrors"
)

// Logout revokes both tokens of a pair. Well-formedness of BOTH tokens is
// checked before either is revoked: a malformed token rejects the whole
// logout rather than leaving it partially applied. Expired tokens are
// accepted; expiry is exactly why a client logs out late.
func (s *Service) Logout(ctx context.Context, req *models.LogoutRequest) error {
	if !s.tokens.IsWellFormed(req.AccessToken) {
		return apierrors.New(apierrors.CodeInvalidAccessToken, "access token is not well-formed")
	}
	if !s.tokens.IsWellFormed(req.RefreshToken) {
		return apierrors.New(apierrors.CodeInvalidRefreshToken, "refresh token is not well-formed")
	}

	if err := s.revocations.Revoke(ctx, req.AccessToken); err != nil {
		return apierrors.Wrap(err, apierrors.CodeInternal, "revoke access token")
	}
	if err := s.revocations.Revoke(ctx, req.RefreshToken); err != nil {
		return apierrors.Wrap(err, apierrors.CodeInternal, "revoke refresh token")
	}
	if s.metrics != nil {
		s.metrics.TokensRevoked.Add(2)
		s.metrics.Logouts.Inc()
	}

	s.recordLogoutEvent(ctx, req.AccessToken)
	return nil
}

// recordLogoutEvent attributes the logout to the access token's subject.
// The token may be expired, so the subject is decoded without signature
// verification; it feeds only the audit trail, never an authorization
// decision. An unresolvable subject skips the event without failing the
// logout.
func (s *Service) recordLogoutEvent(ctx context.Context, accessToken string) {
	sub, err := token.DecodeSubjectUnverified(accessToken)
	if err != nil {
		s.logger.WarnContext(ctx, "could not decode access token subject for logout event", "error", err)
		return
	}

	user, err := s.users.FindByID(ctx, sub.ID)
	if err != nil {
		s.logger.WarnContext(ctx, "logout subject unknown, skipping audit event",
			"user_id", sub.ID,
			"error", err,
		)
		return
	}

	s.recordEvent(ctx, models.EventLogout, &user.ID, user.ID, nil, nil)
}
