package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gitlab.com/rhoshambo/ha-llm-tools/internal/homeassistant"
	"gitlab.com/rhoshambo/ha-llm-tools/internal/logging"
)

// newTestServer builds a server with a registry holding one echo tool and
// one tool that always fails at the protocol level.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	registry := NewRegistry()
	registry.RegisterTool(Tool{
		Name:        "echo",
		Description: "Echoes the message argument.",
		InputSchema: JSONSchema{Type: "object"},
	}, func(_ context.Context, _ homeassistant.Session, args map[string]any) (*ToolsCallResult, error) {
		msg, _ := args["message"].(string)
		return NewTextResult(msg), nil
	})
	registry.RegisterTool(Tool{
		Name:        "broken",
		InputSchema: JSONSchema{Type: "object"},
	}, func(_ context.Context, _ homeassistant.Session, _ map[string]any) (*ToolsCallResult, error) {
		return nil, errors.New("handler blew up")
	})

	server := NewServer(nil, registry, 0, logging.NewWithWriter(logging.LevelError, io.Discard))

	mux := http.NewServeMux()
	mux.HandleFunc("/", server.handleRPC)
	mux.HandleFunc("/health", server.handleHealth)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func postRPC(t *testing.T, url, body string) (*http.Response, []byte) {
	t.Helper()

	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading response: %v", err)
	}
	return resp, data
}

func decodeResponse(t *testing.T, data []byte) *Response {
	t.Helper()

	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("decoding response %q: %v", data, err)
	}
	return &resp
}

func TestServer_Initialize(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	_, data := postRPC(t, ts.URL, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","clientInfo":{"name":"test-host","version":"0.1"}}}`)

	resp := decodeResponse(t, data)
	if resp.Error != nil {
		t.Fatalf("error = %+v, want success", resp.Error)
	}

	var result InitializeResult
	raw, _ := json.Marshal(resp.Result)
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if result.ServerInfo.Name != ServerName {
		t.Errorf("ServerInfo.Name = %q, want %q", result.ServerInfo.Name, ServerName)
	}
	if result.ProtocolVersion != ProtocolVersion {
		t.Errorf("ProtocolVersion = %q, want %q", result.ProtocolVersion, ProtocolVersion)
	}
	if result.Capabilities.Tools == nil {
		t.Error("Capabilities.Tools is nil, want tools capability")
	}
}

func TestServer_Ping(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	_, data := postRPC(t, ts.URL, `{"jsonrpc":"2.0","id":2,"method":"ping"}`)

	resp := decodeResponse(t, data)
	if resp.Error != nil {
		t.Fatalf("error = %+v, want success", resp.Error)
	}
	if string(resp.ID) != "2" {
		t.Errorf("ID = %s, want 2", resp.ID)
	}
}

func TestServer_ToolsList(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	_, data := postRPC(t, ts.URL, `{"jsonrpc":"2.0","id":3,"method":"tools/list"}`)

	resp := decodeResponse(t, data)
	if resp.Error != nil {
		t.Fatalf("error = %+v, want success", resp.Error)
	}

	var result ToolsListResult
	raw, _ := json.Marshal(resp.Result)
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if len(result.Tools) != 2 {
		t.Fatalf("len(Tools) = %d, want 2", len(result.Tools))
	}
	// Sorted by name.
	if result.Tools[0].Name != "broken" || result.Tools[1].Name != "echo" {
		t.Errorf("tool order = [%s %s], want [broken echo]", result.Tools[0].Name, result.Tools[1].Name)
	}
}

func TestServer_ToolsCall(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	_, data := postRPC(t, ts.URL, `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"echo","arguments":{"message":"hello"}}}`)

	resp := decodeResponse(t, data)
	if resp.Error != nil {
		t.Fatalf("error = %+v, want success", resp.Error)
	}

	var result ToolsCallResult
	raw, _ := json.Marshal(resp.Result)
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if result.IsError {
		t.Error("IsError = true, want false")
	}
	if len(result.Content) != 1 || result.Content[0].Text != "hello" {
		t.Errorf("Content = %+v, want one text block saying hello", result.Content)
	}
}

func TestServer_ErrorResponses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		wantCode ErrorCode
	}{
		{
			name:     "unknown tool",
			body:     `{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"no_such_tool"}}`,
			wantCode: ToolNotFound,
		},
		{
			name:     "tool execution failure",
			body:     `{"jsonrpc":"2.0","id":6,"method":"tools/call","params":{"name":"broken"}}`,
			wantCode: ToolExecutionErr,
		},
		{
			name:     "unknown method",
			body:     `{"jsonrpc":"2.0","id":7,"method":"resources/list"}`,
			wantCode: MethodNotFound,
		},
		{
			name:     "invalid JSON",
			body:     `{"jsonrpc":`,
			wantCode: ParseError,
		},
		{
			name:     "wrong jsonrpc version",
			body:     `{"jsonrpc":"1.0","id":8,"method":"ping"}`,
			wantCode: InvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ts := newTestServer(t)
			_, data := postRPC(t, ts.URL, tt.body)

			resp := decodeResponse(t, data)
			if resp.Error == nil {
				t.Fatal("error = nil, want JSON-RPC error")
			}
			if resp.Error.Code != tt.wantCode {
				t.Errorf("error code = %d, want %d", resp.Error.Code, tt.wantCode)
			}
		})
	}
}

func TestServer_NotificationGetsNoResponse(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	_, data := postRPC(t, ts.URL, `{"jsonrpc":"2.0","method":"notifications/initialized"}`)

	if len(bytes.TrimSpace(data)) != 0 {
		t.Errorf("body = %q, want empty (notifications get no response)", data)
	}
}

func TestServer_RejectsGET(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	resp, err := http.Get(ts.URL)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, _ := io.ReadAll(resp.Body)
	decoded := decodeResponse(t, data)
	if decoded.Error == nil || decoded.Error.Code != InvalidRequest {
		t.Errorf("error = %+v, want InvalidRequest", decoded.Error)
	}
}

func TestServer_Health(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	data, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(data), `"status":"ok"`) {
		t.Errorf("body = %q, want status ok", data)
	}
}

func TestNewResultHelpers(t *testing.T) {
	t.Parallel()

	ok := NewTextResult("done")
	if ok.IsError || len(ok.Content) != 1 || ok.Content[0].Text != "done" {
		t.Errorf("NewTextResult() = %+v", ok)
	}

	fail := NewErrorResult("Error: boom")
	if !fail.IsError || len(fail.Content) != 1 || fail.Content[0].Text != "Error: boom" {
		t.Errorf("NewErrorResult() = %+v", fail)
	}
}
