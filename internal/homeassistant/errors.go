// Package homeassistant provides a REST client, entity cache, and session
// layer for the Home Assistant HTTP API.
package homeassistant

import (
	"fmt"
	"strings"
)

// ConnectivityError indicates a network-level failure reaching Home Assistant
// (connection refused, DNS failure, unreachable host).
type ConnectivityError struct {
	URL string
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("cannot reach Home Assistant at %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying network error.
func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// AuthError indicates Home Assistant rejected the API key. StatusCode is 401
// or 403 for REST requests and 0 when the WebSocket handshake was rejected.
type AuthError struct {
	StatusCode int
}

func (e *AuthError) Error() string {
	if e.StatusCode == 0 {
		return "authentication failed: invalid API key"
	}
	return fmt.Sprintf("authentication failed (status %d): invalid API key", e.StatusCode)
}

// UpstreamError indicates an unexpected non-2xx response from Home Assistant.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	body := e.Body
	if body == "" {
		body = "no response body"
	}
	return fmt.Sprintf("Home Assistant returned status %d: %s", e.StatusCode, body)
}

// TimeoutError indicates a request exceeded the client timeout.
type TimeoutError struct {
	URL string
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request to %s timed out: %v", e.URL, e.Err)
}

// Unwrap returns the underlying timeout error.
func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// EntityNotFoundError indicates no entity in the domain matched the query.
type EntityNotFoundError struct {
	Domain string
	Query  string
}

func (e *EntityNotFoundError) Error() string {
	return fmt.Sprintf("no %s entity matches %q", e.Domain, e.Query)
}

// AmbiguousEntityError indicates multiple entities in the same domain share
// the queried friendly name. Callers surface the candidates rather than
// silently picking one.
type AmbiguousEntityError struct {
	Domain     string
	Query      string
	Candidates []string
}

func (e *AmbiguousEntityError) Error() string {
	return fmt.Sprintf("multiple %s entities match %q: %s",
		e.Domain, e.Query, strings.Join(e.Candidates, ", "))
}
