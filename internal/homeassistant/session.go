// Package homeassistant provides the per-instance session combining the REST
// client, the entity cache, and the connectivity verifier.
package homeassistant

import (
	"context"
	"sync"
	"time"
)

// Session is the interface tool handlers use to talk to Home Assistant.
// A session owns its cache and connectivity state; constructing two sessions
// yields two fully independent instances.
type Session interface {
	// EnsureReady verifies connectivity on first use and short-circuits all
	// later calls with the cached error once a verification has failed.
	EnsureReady(ctx context.Context) error
	// ResetVerification clears a cached verification outcome so the next
	// call re-attempts the connectivity check.
	ResetVerification()

	// Entities returns the (possibly cached) entities of a domain.
	Entities(ctx context.Context, domain string) ([]Entity, error)
	// ResolveByName resolves a friendly name or entity ID within a domain.
	ResolveByName(ctx context.Context, domain, query string) (*Entity, error)
	// InvalidateDomain drops the cached entity list of a domain.
	InvalidateDomain(domain string)

	// GetState fetches the current state of one entity, bypassing the cache.
	GetState(ctx context.Context, entityID string) (*Entity, error)
	// CallService invokes a Home Assistant service.
	CallService(ctx context.Context, domain, service string, data map[string]any) error
	// CallServiceBatch invokes a service against several entities,
	// best-effort, returning one result per entity.
	CallServiceBatch(ctx context.Context, domain, service string, entityIDs []string, data map[string]any) []ServiceResult
	// ErrorLog fetches recent Home Assistant log records.
	ErrorLog(ctx context.Context) ([]LogEntry, error)

	// AlarmCode returns the configured alarm code ("" when not set).
	AlarmCode() string
	// PrinterNotifyService returns the configured printer notify service
	// name ("" when not set).
	PrinterNotifyService() string
}

// SessionConfig configures a session.
type SessionConfig struct {
	BaseURL              string
	Token                string
	AlarmCode            string
	PrinterNotifyService string
	// CacheTTL for the entity cache (default: DefaultCacheTTL).
	CacheTTL time.Duration
	// Timeout for HTTP requests (default: 10 seconds).
	Timeout time.Duration
}

// verification outcomes for the fail-fast connectivity check.
type verifyState int

const (
	verifyPending verifyState = iota
	verifyOK
	verifyFailed
)

// liveSession implements Session against a real Home Assistant instance.
type liveSession struct {
	client *RESTClient
	cache  *EntityCache

	alarmCode      string
	printerService string

	verifyMu  sync.Mutex
	verified  verifyState
	verifyErr error
}

// NewSession creates a session for one Home Assistant instance. No network
// call is made until the first operation triggers the connectivity check.
func NewSession(cfg SessionConfig) Session {
	client := NewRESTClientWithConfig(cfg.BaseURL, cfg.Token, RESTClientConfig{Timeout: cfg.Timeout})
	return &liveSession{
		client:         client,
		cache:          NewEntityCache(client, cfg.CacheTTL),
		alarmCode:      cfg.AlarmCode,
		printerService: cfg.PrinterNotifyService,
	}
}

var _ Session = (*liveSession)(nil)

// EnsureReady performs the one-time connectivity check (GET /api/). The
// outcome is cached: a failure is returned to every subsequent caller without
// a new network attempt, until ResetVerification.
func (s *liveSession) EnsureReady(ctx context.Context) error {
	s.verifyMu.Lock()
	defer s.verifyMu.Unlock()

	switch s.verified {
	case verifyOK:
		return nil
	case verifyFailed:
		return s.verifyErr
	}

	if _, err := s.client.APIStatus(ctx); err != nil {
		s.verified = verifyFailed
		s.verifyErr = err
		return err
	}

	s.verified = verifyOK
	return nil
}

// ResetVerification clears the cached verification outcome.
func (s *liveSession) ResetVerification() {
	s.verifyMu.Lock()
	defer s.verifyMu.Unlock()
	s.verified = verifyPending
	s.verifyErr = nil
}

// Entities returns the cached entities of a domain.
func (s *liveSession) Entities(ctx context.Context, domain string) ([]Entity, error) {
	if err := s.EnsureReady(ctx); err != nil {
		return nil, err
	}
	return s.cache.Entities(ctx, domain)
}

// ResolveByName resolves a friendly name or entity ID within a domain.
func (s *liveSession) ResolveByName(ctx context.Context, domain, query string) (*Entity, error) {
	if err := s.EnsureReady(ctx); err != nil {
		return nil, err
	}
	return s.cache.ResolveByName(ctx, domain, query)
}

// InvalidateDomain drops the cached entity list of a domain.
func (s *liveSession) InvalidateDomain(domain string) {
	s.cache.Invalidate(domain)
}

// GetState fetches a single entity state, bypassing the cache.
func (s *liveSession) GetState(ctx context.Context, entityID string) (*Entity, error) {
	if err := s.EnsureReady(ctx); err != nil {
		return nil, err
	}
	return s.client.GetState(ctx, entityID)
}

// CallService invokes a Home Assistant service.
func (s *liveSession) CallService(ctx context.Context, domain, service string, data map[string]any) error {
	if err := s.EnsureReady(ctx); err != nil {
		return err
	}
	return s.client.CallService(ctx, domain, service, data)
}

// CallServiceBatch invokes a service against several entities, best-effort:
// one failing entity does not stop the rest, and each entity gets its own
// result.
func (s *liveSession) CallServiceBatch(ctx context.Context, domain, service string, entityIDs []string, data map[string]any) []ServiceResult {
	results := make([]ServiceResult, 0, len(entityIDs))

	if err := s.EnsureReady(ctx); err != nil {
		for _, id := range entityIDs {
			results = append(results, ServiceResult{EntityID: id, Err: err})
		}
		return results
	}

	for _, id := range entityIDs {
		payload := map[string]any{"entity_id": id}
		for k, v := range data {
			payload[k] = v
		}
		err := s.client.CallService(ctx, domain, service, payload)
		results = append(results, ServiceResult{EntityID: id, Err: err})
	}
	return results
}

// ErrorLog fetches recent Home Assistant log records.
func (s *liveSession) ErrorLog(ctx context.Context) ([]LogEntry, error) {
	if err := s.EnsureReady(ctx); err != nil {
		return nil, err
	}
	return s.client.ErrorLog(ctx)
}

// AlarmCode returns the configured alarm code.
func (s *liveSession) AlarmCode() string {
	return s.alarmCode
}

// PrinterNotifyService returns the configured printer notify service name.
func (s *liveSession) PrinterNotifyService() string {
	return s.printerService
}
