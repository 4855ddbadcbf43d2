package service

import (
	"context"
	"errors"

	"ipvault/internal/auth/models"
	"ipvault/internal/auth/password"
	"ipvault/internal/auth/token"
	"ipvault/internal/sentinel"
	"ipvault/pkg/apierrors"
)

// Register creates a user from the double-entered signup form, then issues
// an initial token pair. New accounts are never superusers.
func (s *Service) Register(ctx context.Context, req *models.RegistrationRequest) (*models.SessionPayload, error) {
	if req.Password1 != req.Password2 {
		return nil, apierrors.New(apierrors.CodeMismatchedPasswords, "passwords do not match")
	}

	digest, err := password.Hash(req.Password1)
	if err != nil {
		return nil, apierrors.Wrap(err, apierrors.CodeInternal, "hash password")
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: digest,
		IsSuperuser:  false,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, apierrors.Wrap(err, apierrors.CodeUnavailableUsername, "username unavailable")
		}
		return nil, apierrors.Wrap(err, apierrors.CodeInternal, "create user")
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	s.recordEvent(ctx, models.EventRegister, &user.ID, user.ID, nil, nil)
	if s.metrics != nil {
		s.metrics.Registrations.Inc()
	}

	return &models.SessionPayload{User: user, Authorization: pair}, nil
}

func (s *Service) issuePair(user *models.User) (token.Pair, error) {
	pair, err := s.tokens.IssuePair(token.Subject{
		ID:          user.ID,
		Username:    user.Username,
		IsSuperuser: user.IsSuperuser,
	})
	if err != nil {
		return token.Pair{}, apierrors.Wrap(err, apierrors.CodeInternal, "issue token pair")
	}
	if s.metrics != nil {
		s.metrics.TokensIssued.Inc()
	}
	return pair, nil
}
