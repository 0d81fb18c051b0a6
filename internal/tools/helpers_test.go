package tools

import (
	"context"
	"strings"
	"testing"

	"gitlab.com/rhoshambo/ha-llm-tools/internal/homeassistant"
	"gitlab.com/rhoshambo/ha-llm-tools/internal/mcp"
)

// serviceCall records one CallService invocation against the fake session.
type serviceCall struct {
	Domain  string
	Service string
	Data    map[string]any
}

// fakeSession implements homeassistant.Session against an in-memory entity
// list, recording service calls and returning injected errors.
type fakeSession struct {
	entities []homeassistant.Entity

	entitiesErr error
	callErr     error
	getStateErr error
	errorLogErr error

	// batchFailIDs lists entity IDs whose batched service call should fail.
	batchFailIDs map[string]error

	logEntries     []homeassistant.LogEntry
	alarmCode      string
	printerService string

	calls []serviceCall
}

var _ homeassistant.Session = (*fakeSession)(nil)

func (f *fakeSession) EnsureReady(_ context.Context) error { return nil }
func (f *fakeSession) ResetVerification()                  {}
func (f *fakeSession) InvalidateDomain(_ string)           {}

func (f *fakeSession) Entities(_ context.Context, domain string) ([]homeassistant.Entity, error) {
	if f.entitiesErr != nil {
		return nil, f.entitiesErr
	}
	if domain == "" {
		return f.entities, nil
	}
	prefix := domain + "."
	var out []homeassistant.Entity
	for _, e := range f.entities {
		if strings.HasPrefix(e.EntityID, prefix) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeSession) ResolveByName(ctx context.Context, domain, query string) (*homeassistant.Entity, error) {
	entities, err := f.Entities(ctx, domain)
	if err != nil {
		return nil, err
	}

	normalized := strings.ToLower(strings.TrimSpace(query))
	var matches []homeassistant.Entity
	for _, e := range entities {
		if strings.ToLower(e.FriendlyName()) == normalized {
			matches = append(matches, e)
		}
	}
	switch len(matches) {
	case 1:
		e := matches[0]
		return &e, nil
	case 0:
		for _, e := range entities {
			if strings.EqualFold(e.EntityID, strings.TrimSpace(query)) {
				matched := e
				return &matched, nil
			}
		}
		return nil, &homeassistant.EntityNotFoundError{Domain: domain, Query: strings.TrimSpace(query)}
	default:
		ids := make([]string, 0, len(matches))
		for _, e := range matches {
			ids = append(ids, e.EntityID)
		}
		return nil, &homeassistant.AmbiguousEntityError{Domain: domain, Query: strings.TrimSpace(query), Candidates: ids}
	}
}

func (f *fakeSession) GetState(_ context.Context, entityID string) (*homeassistant.Entity, error) {
	if f.getStateErr != nil {
		return nil, f.getStateErr
	}
	for _, e := range f.entities {
		if e.EntityID == entityID {
			matched := e
			return &matched, nil
		}
	}
	return nil, &homeassistant.EntityNotFoundError{Query: entityID}
}

func (f *fakeSession) CallService(_ context.Context, domain, service string, data map[string]any) error {
	f.calls = append(f.calls, serviceCall{Domain: domain, Service: service, Data: data})
	return f.callErr
}

func (f *fakeSession) CallServiceBatch(ctx context.Context, domain, service string, entityIDs []string, data map[string]any) []homeassistant.ServiceResult {
	results := make([]homeassistant.ServiceResult, 0, len(entityIDs))
	for _, id := range entityIDs {
		payload := map[string]any{"entity_id": id}
		for k, v := range data {
			payload[k] = v
		}
		f.calls = append(f.calls, serviceCall{Domain: domain, Service: service, Data: payload})
		results = append(results, homeassistant.ServiceResult{EntityID: id, Err: f.batchFailIDs[id]})
	}
	return results
}

func (f *fakeSession) ErrorLog(_ context.Context) ([]homeassistant.LogEntry, error) {
	if f.errorLogErr != nil {
		return nil, f.errorLogErr
	}
	return f.logEntries, nil
}

func (f *fakeSession) AlarmCode() string            { return f.alarmCode }
func (f *fakeSession) PrinterNotifyService() string { return f.printerService }

// lastCall returns the most recent recorded service call.
func (f *fakeSession) lastCall() serviceCall {
	if len(f.calls) == 0 {
		return serviceCall{}
	}
	return f.calls[len(f.calls)-1]
}

// entity builds a test entity with a friendly name and extra attributes.
func entity(id, state, name string, attrs map[string]any) homeassistant.Entity {
	all := map[string]any{"friendly_name": name}
	for k, v := range attrs {
		all[k] = v
	}
	return homeassistant.Entity{EntityID: id, State: state, Attributes: all}
}

// resultText extracts the single text block from a tool result.
func resultText(t *testing.T, r *mcp.ToolsCallResult) string {
	t.Helper()
	if r == nil {
		t.Fatal("tool result is nil")
	}
	if len(r.Content) != 1 {
		t.Fatalf("len(Content) = %d, want 1", len(r.Content))
	}
	return r.Content[0].Text
}
