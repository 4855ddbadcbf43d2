package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// tokenPair is the authorization material held for one account.
type tokenPair struct {
	access  string
	refresh string
}

// TestContext holds per-scenario state: the stack under test, the last
// response, and the token pairs of every account the scenario created.
type TestContext struct {
	stack      *Stack
	httpClient *http.Client

	lastStatus int
	lastBody   []byte

	sessions map[string]tokenPair
}

// NewTestContext boots a fresh stack so scenarios never see each other's
// accounts or addresses.
func NewTestContext() (*TestContext, error) {
	stack, err := StartStack()
	if err != nil {
		return nil, err
	}
	return &TestContext{
		stack:      stack,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		sessions:   make(map[string]tokenPair),
	}, nil
}

// Close tears the stack down.
func (tc *TestContext) Close() {
	tc.stack.Close()
}

func (tc *TestContext) do(method, path string, body any, bearer string) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, tc.stack.Gateway.URL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := tc.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	tc.lastStatus = resp.StatusCode
	tc.lastBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	return nil
}

// session returns the stored token pair for an account name.
func (tc *TestContext) session(name string) (tokenPair, error) {
	pair, ok := tc.sessions[name]
	if !ok {
		return tokenPair{}, fmt.Errorf("no session recorded for %q", name)
	}
	return pair, nil
}

// saveSessionFromResponse records the token pair found in the last response.
// It accepts both envelope shapes the stack produces: registration and login
// nest the pair under "authorization", refresh returns the pair directly.
func (tc *TestContext) saveSessionFromResponse(name string) error {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(tc.lastBody, &envelope); err != nil {
		return fmt.Errorf("parse response envelope: %w", err)
	}

	var auth struct {
		AccessToken   string `json:"access_token"`
		RefreshToken  string `json:"refresh_token"`
		Authorization *struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
		} `json:"authorization"`
	}
	if err := json.Unmarshal(envelope.Data, &auth); err != nil {
		return fmt.Errorf("parse authorization payload: %w", err)
	}
	if auth.Authorization != nil {
		auth.AccessToken = auth.Authorization.AccessToken
		auth.RefreshToken = auth.Authorization.RefreshToken
	}
	if auth.AccessToken == "" || auth.RefreshToken == "" {
		return fmt.Errorf("response carries no token pair: %s", tc.lastBody)
	}

	tc.sessions[name] = tokenPair{access: auth.AccessToken, refresh: auth.RefreshToken}
	return nil
}

// createdAddressID pulls the address id out of a creation response.
func (tc *TestContext) createdAddressID() (int64, error) {
	var envelope struct {
		Data struct {
			IP struct {
				ID int64 `json:"id"`
			} `json:"ip"`
		} `json:"data"`
	}
	if err := json.Unmarshal(tc.lastBody, &envelope); err != nil {
		return 0, fmt.Errorf("parse creation response: %w", err)
	}
	if envelope.Data.IP.ID == 0 {
		return 0, fmt.Errorf("creation response carries no address id: %s", tc.lastBody)
	}
	return envelope.Data.IP.ID, nil
}

// errorCode extracts the first error code from an error envelope.
func (tc *TestContext) errorCode() (string, error) {
	var envelope struct {
		Detail struct {
			Errors []struct {
				Code string `json:"code"`
			} `json:"errors"`
		} `json:"detail"`
	}
	if err := json.Unmarshal(tc.lastBody, &envelope); err != nil {
		return "", fmt.Errorf("parse error envelope: %w", err)
	}
	if len(envelope.Detail.Errors) == 0 {
		return "", fmt.Errorf("response carries no error codes: %s", tc.lastBody)
	}
	return envelope.Detail.Errors[0].Code, nil
}

// responseContains reports whether the raw response body contains text.
func (tc *TestContext) responseContains(text string) bool {
	return strings.Contains(string(tc.lastBody), text)
}
