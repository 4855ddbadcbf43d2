package service

import (
	"context"
	"net/http"
	"net/url"

	"go.uber.org/mock/gomock"

	"ipvault/internal/gateway/client"
	"ipvault/pkg/apierrors"
)

func (s *ServiceSuite) TestUsersAuditLogForwardsVerbatim() {
	upstream := okResponse(map[string]any{"events": []any{}, "total_count": float64(0)})
	s.mockAuth.EXPECT().Forward(gomock.Any(), http.MethodGet, "/audit-log",
		url.Values{"items_per_page": []string{"25"}, "page_number": []string{"2"}},
		testToken, nil).
		Return(upstream, nil)

	resp, err := s.service.UsersAuditLog(context.Background(), testToken, 25, 2)
	s.Require().NoError(err)
	s.Equal(upstream.Body, resp.Body)
}

func (s *ServiceSuite) TestIPsAuditLogRequiresSuperuser() {
	s.expectAuthenticated(regularSubject())

	_, err := s.service.IPsAuditLog(context.Background(), testToken, 10, 0)
	s.Equal(apierrors.CodeForbiddenAction, apierrors.CodeOf(err))
}

func (s *ServiceSuite) TestIPsAuditLogEmbedsUsers() {
	s.expectAuthenticated(superuserSubject())

	s.mockInventory.EXPECT().AuditLog(gomock.Any(), 10, 0).Return(okResponse(map[string]any{
		"events": []any{
			map[string]any{
				"id":              float64(12),
				"event_type":      "ip_address_added",
				"trigger_user_id": float64(7),
				"ip": map[string]any{
					"id":          float64(3),
					"label":       "core",
					"recorder_id": float64(9),
				},
			},
		},
		"total_count": float64(1),
	}), nil)

	s.mockAuth.EXPECT().ResolveUsers(gomock.Any(), testToken, []int64{7, 9}).
		Return(map[int64]map[string]any{
			7: {"id": float64(7), "username": "alice"},
			9: {"id": float64(9), "username": "bob"},
		}, nil)

	resp, err := s.service.IPsAuditLog(context.Background(), testToken, 10, 0)
	s.Require().NoError(err)

	event := s.decodeData(resp)["events"].([]any)[0].(map[string]any)
	s.NotContains(event, "trigger_user_id")
	s.Equal("alice", event["trigger_user"].(map[string]any)["username"])

	ip := event["ip"].(map[string]any)
	s.NotContains(ip, "recorder_id")
	s.Equal("bob", ip["recorder"].(map[string]any)["username"])
}

func (s *ServiceSuite) TestIPsAuditLogEmptyPagePassesThrough() {
	s.expectAuthenticated(superuserSubject())

	// The Postgres store marshals an empty page as null, not [].
	s.mockInventory.EXPECT().AuditLog(gomock.Any(), 10, 0).Return(&client.Response{
		StatusCode: http.StatusOK,
		Body:       []byte(`{"data":{"events":null,"total_count":0}}`),
	}, nil)

	resp, err := s.service.IPsAuditLog(context.Background(), testToken, 10, 0)
	s.Require().NoError(err)
	s.Equal(http.StatusOK, resp.StatusCode)

	data := s.decodeData(resp)
	events, ok := data["events"].([]any)
	s.Require().True(ok)
	s.Empty(events)
}

func (s *ServiceSuite) TestIPsAuditLogNullTriggerBecomesNullUser() {
	s.expectAuthenticated(superuserSubject())

	s.mockInventory.EXPECT().AuditLog(gomock.Any(), 10, 0).Return(okResponse(map[string]any{
		"events": []any{
			map[string]any{
				"id":              float64(12),
				"event_type":      "ip_address_deleted",
				"trigger_user_id": nil,
				"ip": map[string]any{
					"id":          float64(3),
					"label":       "core",
					"recorder_id": float64(9),
				},
			},
		},
		"total_count": float64(1),
	}), nil)

	s.mockAuth.EXPECT().ResolveUsers(gomock.Any(), testToken, []int64{9}).
		Return(map[int64]map[string]any{
			9: {"id": float64(9), "username": "bob"},
		}, nil)

	resp, err := s.service.IPsAuditLog(context.Background(), testToken, 10, 0)
	s.Require().NoError(err)

	// Unattributed events carry the same shape as attributed ones: the id
	// key is gone and trigger_user is an explicit null.
	event := s.decodeData(resp)["events"].([]any)[0].(map[string]any)
	s.NotContains(event, "trigger_user_id")
	s.Contains(event, "trigger_user")
	s.Nil(event["trigger_user"])

	ip := event["ip"].(map[string]any)
	s.Equal("bob", ip["recorder"].(map[string]any)["username"])
}

func (s *ServiceSuite) TestIPsAuditLogPassesBackendRejectionThrough() {
	s.expectAuthenticated(superuserSubject())

	rejection := &client.Response{
		StatusCode: http.StatusUnprocessableEntity,
		Body:       []byte(`{"detail":{"errors":[{"code":"invalid_request"}]}}`),
	}
	s.mockInventory.EXPECT().AuditLog(gomock.Any(), 10, 0).Return(rejection, nil)

	resp, err := s.service.IPsAuditLog(context.Background(), testToken, 10, 0)
	s.Require().NoError(err)
	s.Equal(rejection.StatusCode, resp.StatusCode)
	s.Equal(rejection.Body, resp.Body)
}
