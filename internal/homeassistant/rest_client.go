// Package homeassistant provides a REST client for the Home Assistant HTTP API.
package homeassistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// defaultTimeout bounds every request; failures are surfaced immediately,
// there are no retries at this layer.
const defaultTimeout = 10 * time.Second

// RESTClient issues authenticated requests against the Home Assistant REST API.
type RESTClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// RESTClientConfig configures the REST client.
type RESTClientConfig struct {
	// Timeout for HTTP requests (default: 10 seconds)
	Timeout time.Duration
}

// DefaultRESTClientConfig returns the default REST client configuration.
func DefaultRESTClientConfig() RESTClientConfig {
	return RESTClientConfig{
		Timeout: defaultTimeout,
	}
}

// NewRESTClient creates a new REST client with default configuration.
func NewRESTClient(baseURL, token string) *RESTClient {
	return NewRESTClientWithConfig(baseURL, token, DefaultRESTClientConfig())
}

// NewRESTClientWithConfig creates a new REST client with custom configuration.
func NewRESTClientWithConfig(baseURL, token string, config RESTClientConfig) *RESTClient {
	// Normalize base URL - remove trailing slash and any /api suffix
	baseURL = strings.TrimSuffix(baseURL, "/")
	baseURL = strings.TrimSuffix(baseURL, "/api")

	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &RESTClient{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the normalized base URL.
func (c *RESTClient) BaseURL() string {
	return c.baseURL
}

// Get issues an authenticated GET and returns the raw response body.
func (c *RESTClient) Get(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post issues an authenticated POST with a JSON body and returns the raw
// response body.
func (c *RESTClient) Post(ctx context.Context, path string, body any) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

// do builds, sends, and decodes the outcome of one request. Every failure is
// translated into the client's error taxonomy:
//   - request timeout        -> *TimeoutError
//   - network-level failure  -> *ConnectivityError
//   - 401/403                -> *AuthError
//   - other non-2xx          -> *UpstreamError
func (c *RESTClient) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	reqURL := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating %s request: %w", method, err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, &TimeoutError{URL: reqURL, Err: err}
		}
		return nil, &ConnectivityError{URL: c.baseURL, Err: err}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &AuthError{StatusCode: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	return data, nil
}

// isTimeout reports whether err represents a request deadline being exceeded.
func isTimeout(err error) bool {
	var ue *url.Error
	return errors.As(err, &ue) && ue.Timeout()
}

// APIStatus performs the lightweight GET /api/ request used for the
// connectivity check.
func (c *RESTClient) APIStatus(ctx context.Context) (*APIStatus, error) {
	data, err := c.Get(ctx, "/api/")
	if err != nil {
		return nil, err
	}

	var status APIStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("decoding API status: %w", err)
	}
	return &status, nil
}

// GetStates fetches all entity states (GET /api/states).
func (c *RESTClient) GetStates(ctx context.Context) ([]Entity, error) {
	data, err := c.Get(ctx, "/api/states")
	if err != nil {
		return nil, err
	}

	var entities []Entity
	if err := json.Unmarshal(data, &entities); err != nil {
		return nil, fmt.Errorf("decoding states: %w", err)
	}
	return entities, nil
}

// GetState fetches a single entity state (GET /api/states/{entity_id}).
func (c *RESTClient) GetState(ctx context.Context, entityID string) (*Entity, error) {
	data, err := c.Get(ctx, "/api/states/"+url.PathEscape(entityID))
	if err != nil {
		return nil, err
	}

	var entity Entity
	if err := json.Unmarshal(data, &entity); err != nil {
		return nil, fmt.Errorf("decoding state of %s: %w", entityID, err)
	}
	return &entity, nil
}

// CallService invokes a Home Assistant service
// (POST /api/services/{domain}/{service}) with the given payload.
func (c *RESTClient) CallService(ctx context.Context, domain, service string, data map[string]any) error {
	path := fmt.Sprintf("/api/services/%s/%s", url.PathEscape(domain), url.PathEscape(service))
	_, err := c.Post(ctx, path, data)
	return err
}

// ErrorLog fetches recent log records (GET /api/error/all).
func (c *RESTClient) ErrorLog(ctx context.Context) ([]LogEntry, error) {
	data, err := c.Get(ctx, "/api/error/all")
	if err != nil {
		return nil, err
	}

	var entries []LogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding error log: %w", err)
	}
	return entries, nil
}
