package service

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/mock/gomock"

	"ipvault/internal/gateway/client"
	"ipvault/internal/ipam/models"
	"ipvault/pkg/apierrors"
)

func (s *ServiceSuite) TestCreateIPStampsRecorder() {
	s.expectAuthenticated(regularSubject())

	s.mockInventory.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *models.AddIPRequest) (*client.Response, error) {
			s.Equal(int64(7), req.RecorderID)
			return okResponse(map[string]any{"ip": map[string]any{"id": 1}}), nil
		})

	resp, err := s.service.CreateIP(context.Background(), testToken, &models.AddIPRequest{
		Address: "10.0.0.1",
		Label:   "core",
	})
	s.Require().NoError(err)
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *ServiceSuite) TestCreateIPPassesBackendRejectionThrough() {
	s.expectAuthenticated(regularSubject())

	conflict := &client.Response{
		StatusCode: http.StatusConflict,
		Body:       []byte(`{"detail":{"errors":[{"code":"unavailable_label"}]}}`),
	}
	s.mockInventory.EXPECT().Create(gomock.Any(), gomock.Any()).Return(conflict, nil)

	resp, err := s.service.CreateIP(context.Background(), testToken, &models.AddIPRequest{
		Address: "10.0.0.1",
		Label:   "core",
	})
	s.Require().NoError(err)
	s.Equal(http.StatusConflict, resp.StatusCode)
	s.Equal(conflict.Body, resp.Body)
}

func (s *ServiceSuite) TestUpdateIPChecksExistenceBeforeOwnership() {
	s.expectAuthenticated(regularSubject())

	// Unknown entry: 404 wins even though the caller would also fail the
	// ownership check.
	s.mockInventory.EXPECT().Get(gomock.Any(), int64(42)).Return(nil, nil)

	label := "new-label"
	_, err := s.service.UpdateIP(context.Background(), testToken, 42, &models.UpdateIPRequest{Label: &label})
	s.Equal(apierrors.CodeNonexistentIP, apierrors.CodeOf(err))
}

func (s *ServiceSuite) TestUpdateIPForbiddenForNonRecorder() {
	s.expectAuthenticated(regularSubject())

	s.mockInventory.EXPECT().Get(gomock.Any(), int64(3)).
		Return(&models.IPAddress{ID: 3, RecorderID: 99}, nil)

	label := "new-label"
	_, err := s.service.UpdateIP(context.Background(), testToken, 3, &models.UpdateIPRequest{Label: &label})
	s.Equal(apierrors.CodeForbiddenAction, apierrors.CodeOf(err))
}

func (s *ServiceSuite) TestUpdateIPSuperuserBypassesOwnership() {
	s.expectAuthenticated(superuserSubject())

	s.mockInventory.EXPECT().Get(gomock.Any(), int64(3)).
		Return(&models.IPAddress{ID: 3, RecorderID: 99}, nil)

	label := "new-label"
	s.mockInventory.EXPECT().Update(gomock.Any(), int64(3), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, req *models.UpdateIPRequest) (*client.Response, error) {
			s.Equal(int64(1), req.UpdaterID)
			return okResponse(map[string]any{"ip": map[string]any{
				"id":          float64(3),
				"label":       "new-label",
				"recorder_id": float64(99),
			}}), nil
		})
	s.mockAuth.EXPECT().ResolveUsers(gomock.Any(), testToken, []int64{99}).
		Return(map[int64]map[string]any{99: {"id": float64(99), "username": "bob"}}, nil)

	resp, err := s.service.UpdateIP(context.Background(), testToken, 3, &models.UpdateIPRequest{Label: &label})
	s.Require().NoError(err)

	ip := s.decodeData(resp)["ip"].(map[string]any)
	s.NotContains(ip, "recorder_id")
	recorder := ip["recorder"].(map[string]any)
	s.Equal("bob", recorder["username"])
}

func (s *ServiceSuite) TestDeleteIPForwardsDeleter() {
	s.expectAuthenticated(regularSubject())

	s.mockInventory.EXPECT().Get(gomock.Any(), int64(3)).
		Return(&models.IPAddress{ID: 3, RecorderID: 7}, nil)
	s.mockInventory.EXPECT().Delete(gomock.Any(), int64(3), int64(7)).
		Return(okResponse(map[string]any{"success": true}), nil)

	resp, err := s.service.DeleteIP(context.Background(), testToken, 3)
	s.Require().NoError(err)
	s.Equal(true, s.decodeData(resp)["success"])
}

func (s *ServiceSuite) TestDeleteIPFailsClosedOnInventoryOutage() {
	s.expectAuthenticated(regularSubject())

	s.mockInventory.EXPECT().Get(gomock.Any(), int64(3)).
		Return(nil, errors.New("dial tcp: connection refused"))

	_, err := s.service.DeleteIP(context.Background(), testToken, 3)
	s.Equal(apierrors.CodeInternal, apierrors.CodeOf(err))
}

func (s *ServiceSuite) TestListIPsEmbedsRecorders() {
	s.expectAuthenticated(regularSubject())

	s.mockInventory.EXPECT().List(gomock.Any(), 10, 0).Return(okResponse(map[string]any{
		"ips": []any{
			map[string]any{"id": float64(1), "label": "a", "recorder_id": float64(7)},
			map[string]any{"id": float64(2), "label": "b", "recorder_id": float64(9)},
			map[string]any{"id": float64(3), "label": "c", "recorder_id": float64(7)},
		},
		"total_count": float64(3),
	}), nil)

	s.mockAuth.EXPECT().ResolveUsers(gomock.Any(), testToken, []int64{7, 9, 7}).
		Return(map[int64]map[string]any{
			7: {"id": float64(7), "username": "alice"},
			9: {"id": float64(9), "username": "bob"},
		}, nil)

	resp, err := s.service.ListIPs(context.Background(), testToken, 10, 0)
	s.Require().NoError(err)

	data := s.decodeData(resp)
	ips := data["ips"].([]any)
	s.Require().Len(ips, 3)
	for _, raw := range ips {
		ip := raw.(map[string]any)
		s.NotContains(ip, "recorder_id")
		s.Contains(ip, "recorder")
	}
	first := ips[0].(map[string]any)["recorder"].(map[string]any)
	s.Equal("alice", first["username"])
	second := ips[1].(map[string]any)["recorder"].(map[string]any)
	s.Equal("bob", second["username"])
}

func (s *ServiceSuite) TestListIPsUnresolvableRecorderBecomesNull() {
	s.expectAuthenticated(regularSubject())

	s.mockInventory.EXPECT().List(gomock.Any(), 10, 0).Return(okResponse(map[string]any{
		"ips": []any{
			map[string]any{"id": float64(1), "label": "a", "recorder_id": float64(55)},
		},
		"total_count": float64(1),
	}), nil)
	s.mockAuth.EXPECT().ResolveUsers(gomock.Any(), testToken, []int64{55}).
		Return(map[int64]map[string]any{}, nil)

	resp, err := s.service.ListIPs(context.Background(), testToken, 10, 0)
	s.Require().NoError(err)

	ip := s.decodeData(resp)["ips"].([]any)[0].(map[string]any)
	s.Contains(ip, "recorder")
	s.Nil(ip["recorder"])
}

func (s *ServiceSuite) TestListIPsEmptyPagePassesThrough() {
	s.expectAuthenticated(regularSubject())

	// The Postgres store marshals an empty page as null, not [].
	s.mockInventory.EXPECT().List(gomock.Any(), 10, 0).Return(&client.Response{
		StatusCode: http.StatusOK,
		Body:       []byte(`{"data":{"ips":null,"total_count":0}}`),
	}, nil)

	resp, err := s.service.ListIPs(context.Background(), testToken, 10, 0)
	s.Require().NoError(err)
	s.Equal(http.StatusOK, resp.StatusCode)

	data := s.decodeData(resp)
	ips, ok := data["ips"].([]any)
	s.Require().True(ok)
	s.Empty(ips)
	s.Equal(float64(0), data["total_count"])
}

func (s *ServiceSuite) TestListIPsRequiresAuthentication() {
	rejection := &client.UpstreamError{StatusCode: http.StatusUnauthorized, Body: []byte(`{}`)}
	s.mockAuth.EXPECT().ValidateAccessToken(gomock.Any(), testToken).Return(nil, rejection)

	_, err := s.service.ListIPs(context.Background(), testToken, 10, 0)
	var upstream *client.UpstreamError
	s.ErrorAs(err, &upstream)
}
