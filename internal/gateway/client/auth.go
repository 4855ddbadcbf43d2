package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"ipvault/internal/auth/token"
)

// AuthClient talks to the auth service.
type AuthClient struct {
	http *HTTPClient
}

// NewAuth constructs an auth-service client.
func NewAuth(baseURL string, opts ...Option) *AuthClient {
	return &AuthClient{http: NewHTTP(baseURL, opts...)}
}

// ValidateAccessToken exchanges a bearer token for its subject. A non-2xx
// reply comes back as an UpstreamError carrying the original status and
// body.
func (c *AuthClient) ValidateAccessToken(ctx context.Context, accessToken string) (*token.Subject, error) {
	resp, err := c.http.Do(ctx, http.MethodPost, "/token/access/validate", nil, "",
		map[string]string{"access_token": accessToken})
	if err != nil {
		return nil, fmt.Errorf("validate access token: %w", err)
	}
	if err := resp.AsError(); err != nil {
		return nil, err
	}

	var sub token.Subject
	if err := resp.Data(&sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// ResolveUsers looks up a batch of user ids in one call and indexes the
// resulting user objects by id. The objects are kept as raw maps so the
// gateway embeds exactly what the auth service produced.
func (c *AuthClient) ResolveUsers(ctx context.Context, accessToken string, ids []int64) (map[int64]map[string]any, error) {
	query := url.Values{}
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		query.Add("id", strconv.FormatInt(id, 10))
	}

	resp, err := c.http.Do(ctx, http.MethodGet, "/users", query, accessToken, nil)
	if err != nil {
		return nil, fmt.Errorf("resolve users: %w", err)
	}
	if err := resp.AsError(); err != nil {
		return nil, err
	}

	var payload struct {
		Users []map[string]any `json:"users"`
	}
	if err := resp.Data(&payload); err != nil {
		return nil, err
	}

	byID := make(map[int64]map[string]any, len(payload.Users))
	for _, user := range payload.Users {
		id, ok := user["id"].(float64)
		if !ok {
			continue
		}
		byID[int64(id)] = user
	}
	return byID, nil
}

// Forward proxies one request to the auth service verbatim.
func (c *AuthClient) Forward(ctx context.Context, method, path string, query url.Values, bearer string, body any) (*Response, error) {
	return c.http.Do(ctx, method, path, query, bearer, body)
}
