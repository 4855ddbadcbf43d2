// Package client implements the gateway's typed HTTP clients for the auth
// and inventory services. Upstream responses are carried back with their
// original status and body so the gateway can propagate them verbatim.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultTimeout = 5 * time.Second

// Response is one upstream reply: the status code and the raw body, exactly
// as the backend produced them.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the upstream replied with a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode <= 299
}

// Data decodes the "data" member of a 2xx envelope into target.
func (r *Response) Data(target any) error {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(r.Body, &envelope); err != nil {
		return fmt.Errorf("decode upstream envelope: %w", err)
	}
	if err := json.Unmarshal(envelope.Data, target); err != nil {
		return fmt.Errorf("decode upstream data: %w", err)
	}
	return nil
}

// UpstreamError carries a non-2xx upstream reply through an error chain so
// the handler can pass the original status and body to the client.
type UpstreamError struct {
	StatusCode int
	Body       []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned %d", e.StatusCode)
}

// AsError converts a non-2xx response into an UpstreamError; a 2xx response
// yields nil.
func (r *Response) AsError() error {
	if r.OK() {
		return nil
	}
	return &UpstreamError{StatusCode: r.StatusCode, Body: r.Body}
}

// HTTPClient issues JSON requests against one backend with a bounded
// timeout. A timeout or transport failure surfaces as an error, never as a
// synthesized success.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// Option customizes an HTTPClient.
type Option func(*HTTPClient)

// WithTimeout bounds every request issued by the client.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		c.client.Timeout = d
	}
}

// WithHTTPClient injects a pre-configured http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		c.client = hc
	}
}

// NewHTTP constructs a client for the backend at baseURL.
func NewHTTP(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do issues one request. A nil body sends no payload; a non-nil body is
// JSON-encoded. The bearer token, when set, rides in the Authorization
// header.
func (c *HTTPClient) Do(ctx context.Context, method, path string, query url.Values, bearer string, body any) (*Response, error) {
	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		payload = bytes.NewReader(encoded)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upstream body: %w", err)
	}
	return &Response{StatusCode: resp.StatusCode, Body: raw}, nil
}
