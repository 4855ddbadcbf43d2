package service

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/mock/gomock"

	"ipvault/internal/gateway/client"
	"ipvault/pkg/apierrors"
)

func (s *ServiceSuite) TestAuthenticate() {
	s.expectAuthenticated(regularSubject())

	sub, err := s.service.Authenticate(context.Background(), testToken)
	s.Require().NoError(err)
	s.Equal(int64(7), sub.ID)
	s.Equal("alice", sub.Username)
}

func (s *ServiceSuite) TestAuthenticatePropagatesRejection() {
	rejection := &client.UpstreamError{
		StatusCode: http.StatusUnauthorized,
		Body:       []byte(`{"detail":{"errors":[{"code":"invalid_access_token"}]}}`),
	}
	s.mockAuth.EXPECT().ValidateAccessToken(gomock.Any(), testToken).Return(nil, rejection)

	_, err := s.service.Authenticate(context.Background(), testToken)
	var upstream *client.UpstreamError
	s.Require().ErrorAs(err, &upstream)
	s.Equal(http.StatusUnauthorized, upstream.StatusCode)
}

func (s *ServiceSuite) TestAuthenticateFailsClosedWhenUnreachable() {
	s.mockAuth.EXPECT().ValidateAccessToken(gomock.Any(), testToken).
		Return(nil, errors.New("dial tcp: connection refused"))

	_, err := s.service.Authenticate(context.Background(), testToken)
	s.Equal(apierrors.CodeInvalidAccessToken, apierrors.CodeOf(err))

	var upstream *client.UpstreamError
	s.False(errors.As(err, &upstream))
}
