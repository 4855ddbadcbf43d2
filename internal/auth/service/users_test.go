package service

import (
	"context"

	"ipvault/pkg/apierrors"
)

func (s *ServiceSuite) TestUsersBatchLookup() {
	alice := s.register("alice")
	bob := s.register("bob")

	list, err := s.service.Users(context.Background(), alice.Authorization.AccessToken,
		[]int64{bob.User.ID, alice.User.ID, alice.User.ID, 999})
	s.Require().NoError(err)

	// Deduplicated, ordered by id, unknown ids omitted.
	s.Require().Len(list.Users, 2)
	s.Equal("alice", list.Users[0].Username)
	s.Equal("bob", list.Users[1].Username)
}

func (s *ServiceSuite) TestUsersRequiresValidToken() {
	_, err := s.service.Users(context.Background(), "garbage", []int64{1})
	s.Equal(apierrors.CodeInvalidAccessToken, apierrors.CodeOf(err))
}

func (s *ServiceSuite) TestAuditLogRequiresSuperuser() {
	alice := s.register("alice")

	_, err := s.service.AuditLog(context.Background(), alice.Authorization.AccessToken, 10, 0)
	s.Equal(apierrors.CodeForbiddenAction, apierrors.CodeOf(err))
}

func (s *ServiceSuite) TestAuditLogNewestFirst() {
	root := s.registerSuperuser("root")
	s.register("alice")
	s.register("bob")
	s.register("carol")

	page, err := s.service.AuditLog(context.Background(), root.AccessToken, 10, 0)
	s.Require().NoError(err)

	s.Equal(3, page.TotalCount)
	s.Require().Len(page.Events, 3)
	s.Greater(page.Events[0].ID, page.Events[1].ID)
	s.Greater(page.Events[1].ID, page.Events[2].ID)
}

func (s *ServiceSuite) TestAuditLogPagination() {
	root := s.registerSuperuser("root")
	s.register("alice")
	s.register("bob")
	s.register("carol")

	page, err := s.service.AuditLog(context.Background(), root.AccessToken, 2, 1)
	s.Require().NoError(err)

	s.Equal(3, page.TotalCount)
	s.Len(page.Events, 2)
}
